package bomb

import "github.com/fusebox-party/fusebox/pkg/rules"

// Action is a player action targeted at one module.
type Action interface {
	isAction()
}

// CutWire cuts the wire at the given 0-based index.
type CutWire struct {
	Wire int
}

// PressButton presses and immediately releases the button.
type PressButton struct{}

// HoldButton presses the button without releasing it.
type HoldButton struct{}

// ReleaseButton releases a held button.
type ReleaseButton struct{}

// EnterCommand types a command into the terminal's current slot.
type EnterCommand struct {
	Command string
}

func (CutWire) isAction()       {}
func (PressButton) isAction()   {}
func (HoldButton) isAction()    {}
func (ReleaseButton) isAction() {}
func (EnterCommand) isAction()  {}

// AttemptResult reports the outcome of one Attempt call.
type AttemptResult struct {
	// Accepted is false when the attempt was ignored: wrong bomb state,
	// bad index, solved module, or an action the module cannot handle.
	Accepted     bool
	Correct      bool
	ModuleKey    string
	ModuleSolved bool
	Strikes      int
	State        State
	// Held is true when the attempt started holding the button; Gauge
	// carries the color drawn at the moment of pressing.
	Held  bool
	Gauge rules.GaugeColor
}

// attemptOutcome is the module-internal attempt result.
type attemptOutcome struct {
	correct bool
	held    bool
	gauge   rules.GaugeColor
}

// Module is the uniform contract every puzzle module implements, so the
// bomb's strike accounting and win check stay kind-agnostic.
type Module interface {
	Key() string
	Kind() rules.ModuleKind
	Solved() bool
	Manual() rules.Manual
	Snapshot() ModuleSnapshot

	// attempt applies an action and reports whether the module handled
	// it at all, and if so whether it was correct. remainingSeconds is
	// the countdown at the moment of the attempt.
	attempt(act Action, remainingSeconds int) (attemptOutcome, bool)
}

// ModuleSnapshot is the serializable view of one module. Kind-specific
// fields are zero for other kinds.
type ModuleSnapshot struct {
	Key    string `json:"key"`
	Kind   string `json:"kind"`
	Solved bool   `json:"solved"`

	Wires    []string `json:"wires,omitempty"`
	CutWires []int    `json:"cutWires,omitempty"`

	ButtonColor string `json:"buttonColor,omitempty"`
	ButtonLabel string `json:"buttonLabel,omitempty"`
	ButtonHeld  bool   `json:"buttonHeld,omitempty"`
	GaugeColor  string `json:"gaugeColor,omitempty"`

	Prompt string `json:"prompt,omitempty"`
	Stage  int    `json:"stage,omitempty"`
}
