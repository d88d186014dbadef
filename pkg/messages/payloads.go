package messages

import (
	"github.com/fusebox-party/fusebox/pkg/bomb"
	"github.com/fusebox-party/fusebox/pkg/rules"
)

// ClientCutWire cuts a wire on a wires module.
type ClientCutWire struct {
	ModuleIndex int `json:"moduleIndex"`
	Wire        int `json:"wire"`
}

// ClientPressButton taps the button.
type ClientPressButton struct {
	ModuleIndex int `json:"moduleIndex"`
}

// ClientHoldButton presses the button without releasing.
type ClientHoldButton struct {
	ModuleIndex int `json:"moduleIndex"`
}

// ClientReleaseButton releases a held button.
type ClientReleaseButton struct {
	ModuleIndex int `json:"moduleIndex"`
}

// ClientTerminalCommand types a command into the terminal.
type ClientTerminalCommand struct {
	ModuleIndex int    `json:"moduleIndex"`
	Command     string `json:"command"`
}

// ClientUpdateSettings updates lobby configuration. Nil fields are left
// unchanged.
type ClientUpdateSettings struct {
	ModuleCount      *int    `json:"moduleCount,omitempty"`
	TimeLimitSeconds *int    `json:"timeLimitSeconds,omitempty"`
	DefuserID        *string `json:"defuserId,omitempty"`
	RandomDefuser    *bool   `json:"randomDefuser,omitempty"`
}

// PlayerInfo is one entry in a lobby player listing.
type PlayerInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	IsHost bool   `json:"isHost"`
}

// ServerLobbyUpdate is the full lobby view pushed on roster or settings
// changes.
type ServerLobbyUpdate struct {
	SessionID        string       `json:"sessionId"`
	State            string       `json:"state"`
	HostID           string       `json:"hostId"`
	Players          []PlayerInfo `json:"players"`
	ModuleCount      int          `json:"moduleCount"`
	TimeLimitSeconds int          `json:"timeLimitSeconds"`
	DefuserID        string       `json:"defuserId,omitempty"`
	RandomDefuser    bool         `json:"randomDefuser"`
}

// ServerGameStarting announces the lobby-to-active transition.
type ServerGameStarting struct {
	DefuserID        string `json:"defuserId"`
	TimeLimitSeconds int    `json:"timeLimitSeconds"`
	ModuleCount      int    `json:"moduleCount"`
}

// ServerGameState is the defuser view: raw bomb state, no manuals.
type ServerGameState struct {
	Bomb bomb.Snapshot `json:"bomb"`
}

// ManualEntry is the flattened manual page for one module.
type ManualEntry struct {
	ModuleKey    string   `json:"moduleKey"`
	Kind         string   `json:"kind"`
	Rules        []string `json:"rules"`
	DefaultRule  string   `json:"defaultRule"`
	ReleaseTable []string `json:"releaseTable,omitempty"`
	Instructions string   `json:"instructions"`
}

// ServerManualContent is the expert view: manuals plus the bomb state
// so experts can narrate rule matches to the defuser.
type ServerManualContent struct {
	Bomb    bomb.Snapshot `json:"bomb"`
	Manuals []ManualEntry `json:"manuals"`
}

// ServerActionResult reports the outcome of one puzzle action.
type ServerActionResult struct {
	ModuleKey    string `json:"moduleKey"`
	Accepted     bool   `json:"accepted"`
	Correct      bool   `json:"correct"`
	ModuleSolved bool   `json:"moduleSolved"`
	Strikes      int    `json:"strikes"`
	BombState    string `json:"bombState"`
	Held         bool   `json:"held,omitempty"`
	GaugeColor   string `json:"gaugeColor,omitempty"`
}

// ServerError is an explicit error frame, only sent for host
// authorization and validation failures.
type ServerError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FlattenManual converts a per-kind manual union into the generic
// document shape the wire format uses.
func FlattenManual(moduleKey string, m rules.Manual) ManualEntry {
	entry := ManualEntry{
		ModuleKey: moduleKey,
		Kind:      string(m.Kind),
	}
	switch {
	case m.Wires != nil:
		entry.Rules = m.Wires.Rules
		entry.DefaultRule = m.Wires.DefaultRule
		entry.Instructions = m.Wires.Instructions
	case m.Button != nil:
		entry.Rules = m.Button.Rules
		entry.DefaultRule = m.Button.DefaultRule
		entry.ReleaseTable = m.Button.ReleaseTable
		entry.Instructions = m.Button.Instructions
	case m.Terminal != nil:
		entry.Rules = m.Terminal.Rules
		entry.DefaultRule = m.Terminal.DefaultRule
		entry.Instructions = m.Terminal.Instructions
	}
	return entry
}

// ActionResultFromAttempt builds the wire-facing result from a bomb
// attempt outcome.
func ActionResultFromAttempt(r bomb.AttemptResult) ServerActionResult {
	return ServerActionResult{
		ModuleKey:    r.ModuleKey,
		Accepted:     r.Accepted,
		Correct:      r.Correct,
		ModuleSolved: r.ModuleSolved,
		Strikes:      r.Strikes,
		BombState:    string(r.State),
		Held:         r.Held,
		GaugeColor:   string(r.Gauge),
	}
}
