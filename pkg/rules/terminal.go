package rules

import "fmt"

// TerminalPrompts is the pool of prompts the terminal can display.
var TerminalPrompts = []string{
	"FIRMWARE CHECKSUM MISMATCH",
	"COOLANT PRESSURE CRITICAL",
	"AUX POWER OFFLINE",
	"MEMORY BANK CORRUPTED",
	"UPLINK HANDSHAKE FAILED",
	"CORE TEMPERATURE RISING",
	"ACCESS GRID LOCKED",
	"SIGNAL INTERFERENCE DETECTED",
}

// terminalCommands is the pool of commands paired against the prompts.
var terminalCommands = []string{
	"REFLASH",
	"VENT",
	"REROUTE",
	"PURGE",
	"RESYNC",
	"THROTTLE",
	"OVERRIDE",
	"DAMPEN",
}

// TerminalDefaultCommand is the manual's catch-all response for a prompt
// outside the table. Configurations only draw prompts from the pool, so
// it exists for the manual's completeness, not the happy path.
const TerminalDefaultCommand = "ACKNOWLEDGE"

// TerminalRule maps a prompt to the command that clears it.
type TerminalRule struct {
	Prompt  string
	Command string
}

// Evaluate reports whether the rule applies to the given prompt.
func (r TerminalRule) Evaluate(prompt string) bool {
	return r.Prompt == prompt
}

// Describe returns the full manual sentence for the rule.
func (r TerminalRule) Describe() string {
	return fmt.Sprintf("When the terminal shows %q, enter %q.", r.Prompt, r.Command)
}

// TerminalRuleSet is the prompt-to-command table for a terminal module.
// The pairing is a seeded permutation of the command pool, so every
// prompt has exactly one command and no command repeats.
type TerminalRuleSet struct {
	Rules []TerminalRule
}

// CommandFor returns the command that clears the given prompt.
func (rs TerminalRuleSet) CommandFor(prompt string) string {
	for _, rule := range rs.Rules {
		if rule.Evaluate(prompt) {
			return rule.Command
		}
	}
	return TerminalDefaultCommand
}

// TerminalManual is the expert-facing page matching a TerminalRuleSet.
type TerminalManual struct {
	Rules        []string `json:"rules"`
	DefaultRule  string   `json:"defaultRule"`
	Instructions string   `json:"instructions"`
}

// GenerateTerminal produces the rule set and manual for a terminal
// module.
func GenerateTerminal(seed int64) (TerminalRuleSet, TerminalManual) {
	r := ruleSource(seed, ModuleKindTerminal, 0)

	commands := make([]string, len(terminalCommands))
	copy(commands, terminalCommands)
	r.Shuffle(len(commands), func(i, j int) {
		commands[i], commands[j] = commands[j], commands[i]
	})

	ruleSet := TerminalRuleSet{Rules: make([]TerminalRule, 0, len(TerminalPrompts))}
	for i, prompt := range TerminalPrompts {
		ruleSet.Rules = append(ruleSet.Rules, TerminalRule{Prompt: prompt, Command: commands[i]})
	}

	manual := TerminalManual{
		Rules:        make([]string, 0, len(ruleSet.Rules)),
		DefaultRule:  fmt.Sprintf("For any other prompt, enter %q.", TerminalDefaultCommand),
		Instructions: "The terminal raises three alerts in sequence. Each alert is cleared by exactly one command; a wrong command is a strike but does not reset progress.",
	}
	for _, rule := range ruleSet.Rules {
		manual.Rules = append(manual.Rules, rule.Describe())
	}

	return ruleSet, manual
}
