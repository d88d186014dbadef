package bomb

import (
	"fmt"
	"math/rand"

	"github.com/fusebox-party/fusebox/pkg/rules"
)

// gaugeSeedOffset separates the gauge color stream from the config
// stream; both derive from the module's config seed.
const gaugeSeedOffset = 0x6A09E667

// ButtonModule is a single button that must either be tapped or held
// and released on the right countdown digit.
type ButtonModule struct {
	key    string
	color  rules.ButtonColor
	label  string
	manual rules.Manual

	correct rules.ButtonAction
	ruleSet rules.ButtonRuleSet

	solved      bool
	held        bool
	gauge       rules.GaugeColor
	targetDigit int
	presses     int
	seed        int64
}

func newButtonModule(ordinal int, masterSeed, configSeed int64) *ButtonModule {
	cfg := rand.New(rand.NewSource(configSeed))

	color := rules.ButtonColors[cfg.Intn(len(rules.ButtonColors))]
	label := rules.ButtonLabels[cfg.Intn(len(rules.ButtonLabels))]

	ruleSet, manual := rules.GenerateButton(masterSeed)

	return &ButtonModule{
		key:     fmt.Sprintf("button-%d", ordinal),
		color:   color,
		label:   label,
		manual:  rules.Manual{Kind: rules.ModuleKindButton, Button: &manual},
		correct: ruleSet.CorrectAction(color, label),
		ruleSet: ruleSet,
		seed:    configSeed,
	}
}

func (m *ButtonModule) Key() string            { return m.key }
func (m *ButtonModule) Kind() rules.ModuleKind { return rules.ModuleKindButton }
func (m *ButtonModule) Solved() bool           { return m.solved }
func (m *ButtonModule) Manual() rules.Manual   { return m.manual }

// Color returns the button casing color.
func (m *ButtonModule) Color() rules.ButtonColor { return m.color }

// Label returns the text printed on the button.
func (m *ButtonModule) Label() string { return m.label }

// CorrectAction returns the frozen correct way to operate the button.
func (m *ButtonModule) CorrectAction() rules.ButtonAction { return m.correct }

// TargetDigit returns the release digit for the currently lit gauge.
// Only meaningful while the button is held.
func (m *ButtonModule) TargetDigit() int { return m.targetDigit }

func (m *ButtonModule) attempt(act Action, remainingSeconds int) (attemptOutcome, bool) {
	switch act.(type) {
	case PressButton:
		return m.press(), true
	case HoldButton:
		return m.hold(), true
	case ReleaseButton:
		return m.release(remainingSeconds)
	default:
		return attemptOutcome{}, false
	}
}

// press resolves immediately when the frozen action is a plain press;
// otherwise it enters the held state.
func (m *ButtonModule) press() attemptOutcome {
	if m.held {
		return attemptOutcome{held: true, gauge: m.gauge}
	}
	if m.correct == rules.ButtonActionPress {
		m.solved = true
		return attemptOutcome{correct: true}
	}
	return m.enterHeld()
}

// hold always enters the held state. A hold on a press-frozen button is
// not judged here; release strikes it.
func (m *ButtonModule) hold() attemptOutcome {
	if m.held {
		return attemptOutcome{held: true, gauge: m.gauge}
	}
	return m.enterHeld()
}

// enterHeld draws a gauge color and its release digit. Each distinct
// press draws a fresh color, deterministically derived from the module
// seed and a press counter.
func (m *ButtonModule) enterHeld() attemptOutcome {
	m.presses++
	gaugeRand := rand.New(rand.NewSource(m.seed + gaugeSeedOffset + int64(m.presses)))
	m.gauge = rules.GaugeColors[gaugeRand.Intn(len(rules.GaugeColors))]
	m.targetDigit = m.ruleSet.ReleaseDigit(m.gauge)
	m.held = true
	return attemptOutcome{held: true, gauge: m.gauge}
}

// release is a strike when the frozen action was a plain press, and
// otherwise correct only when the countdown's trailing digit matches
// the gauge's target. An incorrect release resets the pressed state so
// the module stays retriable.
func (m *ButtonModule) release(remainingSeconds int) (attemptOutcome, bool) {
	if !m.held {
		return attemptOutcome{}, false
	}
	m.held = false
	if m.correct == rules.ButtonActionPress {
		return attemptOutcome{}, true
	}
	if remainingSeconds%10 == m.targetDigit {
		m.solved = true
		return attemptOutcome{correct: true}, true
	}
	return attemptOutcome{}, true
}

func (m *ButtonModule) Snapshot() ModuleSnapshot {
	snap := ModuleSnapshot{
		Key:         m.key,
		Kind:        string(rules.ModuleKindButton),
		Solved:      m.solved,
		ButtonColor: string(m.color),
		ButtonLabel: m.label,
		ButtonHeld:  m.held,
	}
	if m.held {
		snap.GaugeColor = string(m.gauge)
	}
	return snap
}
