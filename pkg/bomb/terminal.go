package bomb

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/fusebox-party/fusebox/pkg/rules"
)

// terminalSlots is the number of commands needed to clear the terminal.
const terminalSlots = 3

// TerminalModule is a console showing three alerts in sequence, each
// cleared by one exact command from the manual's table.
type TerminalModule struct {
	key     string
	prompts [terminalSlots]string
	correct [terminalSlots]string
	stage   int
	solved  bool
	manual  rules.Manual
}

func newTerminalModule(ordinal int, masterSeed, configSeed int64) *TerminalModule {
	cfg := rand.New(rand.NewSource(configSeed))

	ruleSet, manual := rules.GenerateTerminal(masterSeed)

	// Draw three distinct prompts from the pool.
	order := cfg.Perm(len(rules.TerminalPrompts))
	m := &TerminalModule{
		key:    fmt.Sprintf("terminal-%d", ordinal),
		manual: rules.Manual{Kind: rules.ModuleKindTerminal, Terminal: &manual},
	}
	for i := 0; i < terminalSlots; i++ {
		m.prompts[i] = rules.TerminalPrompts[order[i]]
		m.correct[i] = ruleSet.CommandFor(m.prompts[i])
	}
	return m
}

func (m *TerminalModule) Key() string            { return m.key }
func (m *TerminalModule) Kind() rules.ModuleKind { return rules.ModuleKindTerminal }
func (m *TerminalModule) Solved() bool           { return m.solved }
func (m *TerminalModule) Manual() rules.Manual   { return m.manual }

// Stage returns the index of the current command slot.
func (m *TerminalModule) Stage() int { return m.stage }

// Prompts returns the three alert prompts in order.
func (m *TerminalModule) Prompts() []string {
	return []string{m.prompts[0], m.prompts[1], m.prompts[2]}
}

// ExpectedCommands returns the frozen correct command per slot.
func (m *TerminalModule) ExpectedCommands() []string {
	return []string{m.correct[0], m.correct[1], m.correct[2]}
}

func (m *TerminalModule) attempt(act Action, _ int) (attemptOutcome, bool) {
	cmd, ok := act.(EnterCommand)
	if !ok {
		return attemptOutcome{}, false
	}
	entered := strings.ToUpper(strings.TrimSpace(cmd.Command))
	if entered != m.correct[m.stage] {
		// Wrong command strikes but keeps the slot; the defuser retries
		// in place.
		return attemptOutcome{}, true
	}
	m.stage++
	if m.stage >= terminalSlots {
		m.stage = terminalSlots - 1
		m.solved = true
		return attemptOutcome{correct: true}, true
	}
	return attemptOutcome{correct: true}, true
}

func (m *TerminalModule) Snapshot() ModuleSnapshot {
	return ModuleSnapshot{
		Key:    m.key,
		Kind:   string(rules.ModuleKindTerminal),
		Solved: m.solved,
		Prompt: m.prompts[m.stage],
		Stage:  m.stage,
	}
}
