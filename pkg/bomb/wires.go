package bomb

import (
	"fmt"
	"math/rand"

	"github.com/fusebox-party/fusebox/pkg/rules"
)

// WiresModule is a bank of colored wires with exactly one safe cut.
type WiresModule struct {
	key     string
	colors  []rules.WireColor
	cut     map[int]bool
	correct int
	solved  bool
	manual  rules.Manual
}

// newWiresModule draws the wire configuration from the config seed and
// the rule set from the master seed, then freezes the correct wire.
func newWiresModule(ordinal int, masterSeed, configSeed int64) *WiresModule {
	cfg := rand.New(rand.NewSource(configSeed))

	wireCount := rules.MinWireCount + cfg.Intn(rules.MaxWireCount-rules.MinWireCount+1)
	colors := make([]rules.WireColor, wireCount)
	for i := range colors {
		colors[i] = rules.WireColors[cfg.Intn(len(rules.WireColors))]
	}

	ruleSet, manual := rules.GenerateWires(masterSeed, wireCount)

	return &WiresModule{
		key:     fmt.Sprintf("wires-%d", ordinal),
		colors:  colors,
		cut:     make(map[int]bool),
		correct: ruleSet.CorrectWire(colors),
		manual:  rules.Manual{Kind: rules.ModuleKindWires, Wires: &manual},
	}
}

func (m *WiresModule) Key() string             { return m.key }
func (m *WiresModule) Kind() rules.ModuleKind  { return rules.ModuleKindWires }
func (m *WiresModule) Solved() bool            { return m.solved }
func (m *WiresModule) Manual() rules.Manual    { return m.manual }
func (m *WiresModule) Colors() []rules.WireColor {
	colors := make([]rules.WireColor, len(m.colors))
	copy(colors, m.colors)
	return colors
}

// CorrectWire returns the frozen 0-based index of the safe wire.
func (m *WiresModule) CorrectWire() int { return m.correct }

func (m *WiresModule) attempt(act Action, _ int) (attemptOutcome, bool) {
	cut, ok := act.(CutWire)
	if !ok {
		return attemptOutcome{}, false
	}
	if cut.Wire < 0 || cut.Wire >= len(m.colors) {
		return attemptOutcome{}, true
	}
	if m.cut[cut.Wire] {
		// Cutting an already-cut wire is a strike, not a protocol error.
		return attemptOutcome{}, true
	}
	m.cut[cut.Wire] = true
	if cut.Wire == m.correct {
		m.solved = true
		return attemptOutcome{correct: true}, true
	}
	return attemptOutcome{}, true
}

func (m *WiresModule) Snapshot() ModuleSnapshot {
	snap := ModuleSnapshot{
		Key:    m.key,
		Kind:   string(rules.ModuleKindWires),
		Solved: m.solved,
		Wires:  make([]string, 0, len(m.colors)),
	}
	for _, color := range m.colors {
		snap.Wires = append(snap.Wires, string(color))
	}
	for i := 0; i < len(m.colors); i++ {
		if m.cut[i] {
			snap.CutWires = append(snap.CutWires, i)
		}
	}
	return snap
}
