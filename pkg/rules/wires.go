package rules

import "fmt"

// WireColor is the color of a single wire.
type WireColor string

const (
	WireRed    WireColor = "red"
	WireBlue   WireColor = "blue"
	WireYellow WireColor = "yellow"
	WireWhite  WireColor = "white"
	WireBlack  WireColor = "black"
	WireGreen  WireColor = "green"
)

// WireColors is the palette wire configurations draw from.
var WireColors = []WireColor{WireRed, WireBlue, WireYellow, WireWhite, WireBlack, WireGreen}

const (
	// MinWireCount and MaxWireCount bound the wires module shape.
	MinWireCount = 3
	MaxWireCount = 6

	minWireRules = 3
	maxWireRules = 5
)

// WireConditionKind enumerates the condition templates for wire rules.
type WireConditionKind int

const (
	WireCondNone WireConditionKind = iota
	WireCondExactlyOne
	WireCondMoreThanOne
	WireCondLastIs
)

// WireCondition is a predicate over a wire color configuration.
type WireCondition struct {
	Kind  WireConditionKind
	Color WireColor
}

// Evaluate reports whether the condition holds for the given colors.
func (c WireCondition) Evaluate(colors []WireColor) bool {
	count := 0
	for _, color := range colors {
		if color == c.Color {
			count++
		}
	}
	switch c.Kind {
	case WireCondNone:
		return count == 0
	case WireCondExactlyOne:
		return count == 1
	case WireCondMoreThanOne:
		return count > 1
	case WireCondLastIs:
		return len(colors) > 0 && colors[len(colors)-1] == c.Color
	default:
		return false
	}
}

// Describe returns the canonical manual phrasing of the condition.
func (c WireCondition) Describe() string {
	switch c.Kind {
	case WireCondNone:
		return fmt.Sprintf("there are no %s wires", c.Color)
	case WireCondExactlyOne:
		return fmt.Sprintf("there is exactly one %s wire", c.Color)
	case WireCondMoreThanOne:
		return fmt.Sprintf("there is more than one %s wire", c.Color)
	case WireCondLastIs:
		return fmt.Sprintf("the last wire is %s", c.Color)
	default:
		return "the condition is unknown"
	}
}

// WireActionKind enumerates the action templates for wire rules.
type WireActionKind int

const (
	WireActCutFirst WireActionKind = iota
	WireActCutLast
	WireActCutIndex
	WireActCutFirstOfColor
	WireActCutLastOfColor
)

// WireAction selects a wire to cut given a configuration.
type WireAction struct {
	Kind  WireActionKind
	Color WireColor
	Index int // 1-based, only for WireActCutIndex
}

// Resolve returns the 0-based index of the wire to cut, or -1 if the
// action cannot be applied to the configuration. Generation only pairs
// color-targeted actions with conditions that guarantee the color is
// present, so -1 never surfaces from a generated rule set.
func (a WireAction) Resolve(colors []WireColor) int {
	switch a.Kind {
	case WireActCutFirst:
		if len(colors) == 0 {
			return -1
		}
		return 0
	case WireActCutLast:
		return len(colors) - 1
	case WireActCutIndex:
		if a.Index < 1 || a.Index > len(colors) {
			return -1
		}
		return a.Index - 1
	case WireActCutFirstOfColor:
		for i, color := range colors {
			if color == a.Color {
				return i
			}
		}
		return -1
	case WireActCutLastOfColor:
		for i := len(colors) - 1; i >= 0; i-- {
			if colors[i] == a.Color {
				return i
			}
		}
		return -1
	default:
		return -1
	}
}

// Describe returns the canonical manual phrasing of the action.
func (a WireAction) Describe() string {
	switch a.Kind {
	case WireActCutFirst:
		return "cut the first wire"
	case WireActCutLast:
		return "cut the last wire"
	case WireActCutIndex:
		return fmt.Sprintf("cut the %s wire", ordinal(a.Index))
	case WireActCutFirstOfColor:
		return fmt.Sprintf("cut the first %s wire", a.Color)
	case WireActCutLastOfColor:
		return fmt.Sprintf("cut the last %s wire", a.Color)
	default:
		return "cut nothing"
	}
}

// WireRule pairs a condition with the action taken when it matches.
type WireRule struct {
	Condition WireCondition
	Action    WireAction
}

// Describe returns the full manual sentence for the rule.
func (r WireRule) Describe() string {
	return fmt.Sprintf("If %s, %s.", r.Condition.Describe(), r.Action.Describe())
}

// WiresRuleSet is the executable rule chain for a wires module of a
// given wire count. Evaluation takes the first rule whose condition
// matches; the default action applies when none do.
type WiresRuleSet struct {
	WireCount int
	Rules     []WireRule
	Default   WireAction
}

// CorrectWire returns the 0-based index of the wire the rule set says
// to cut for the given configuration.
func (rs WiresRuleSet) CorrectWire(colors []WireColor) int {
	for _, rule := range rs.Rules {
		if !rule.Condition.Evaluate(colors) {
			continue
		}
		if idx := rule.Action.Resolve(colors); idx >= 0 {
			return idx
		}
	}
	if idx := rs.Default.Resolve(colors); idx >= 0 {
		return idx
	}
	return len(colors) - 1
}

// WiresManual is the expert-facing page matching a WiresRuleSet.
type WiresManual struct {
	WireCount    int      `json:"wireCount"`
	Rules        []string `json:"rules"`
	DefaultRule  string   `json:"defaultRule"`
	Instructions string   `json:"instructions"`
}

// wireConditionActions returns the action templates that are safe to
// pair with the condition: every listed action is resolvable whenever
// the condition holds.
func wireConditionActions(cond WireCondition) []WireAction {
	positional := []WireAction{
		{Kind: WireActCutFirst},
		{Kind: WireActCutLast},
		{Kind: WireActCutIndex}, // index filled in by the generator
	}
	switch cond.Kind {
	case WireCondNone:
		return positional
	case WireCondExactlyOne, WireCondMoreThanOne, WireCondLastIs:
		colored := []WireAction{
			{Kind: WireActCutFirstOfColor, Color: cond.Color},
			{Kind: WireActCutLastOfColor, Color: cond.Color},
		}
		return append(colored, positional...)
	default:
		return positional
	}
}

// GenerateWires produces the rule set and manual for a wires module with
// the given wire count. The wire count is clamped to [MinWireCount,
// MaxWireCount] rather than rejected.
func GenerateWires(seed int64, wireCount int) (WiresRuleSet, WiresManual) {
	if wireCount < MinWireCount {
		wireCount = MinWireCount
	}
	if wireCount > MaxWireCount {
		wireCount = MaxWireCount
	}

	r := ruleSource(seed, ModuleKindWires, wireCount)

	// Build the full condition pool and draw without replacement.
	pool := make([]WireCondition, 0, len(WireColors)*4)
	for _, color := range WireColors {
		for _, kind := range []WireConditionKind{WireCondNone, WireCondExactlyOne, WireCondMoreThanOne, WireCondLastIs} {
			pool = append(pool, WireCondition{Kind: kind, Color: color})
		}
	}
	r.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	ruleCount := minWireRules + r.Intn(maxWireRules-minWireRules+1)
	if ruleCount > len(pool) {
		ruleCount = len(pool)
	}

	ruleSet := WiresRuleSet{
		WireCount: wireCount,
		Rules:     make([]WireRule, 0, ruleCount),
		Default:   WireAction{Kind: WireActCutLast},
	}
	for _, cond := range pool[:ruleCount] {
		actions := wireConditionActions(cond)
		action := actions[r.Intn(len(actions))]
		if action.Kind == WireActCutIndex {
			action.Index = 1 + r.Intn(wireCount)
		}
		ruleSet.Rules = append(ruleSet.Rules, WireRule{Condition: cond, Action: action})
	}

	manual := WiresManual{
		WireCount:   wireCount,
		Rules:       make([]string, 0, len(ruleSet.Rules)),
		DefaultRule: fmt.Sprintf("Otherwise, %s.", ruleSet.Default.Describe()),
		Instructions: fmt.Sprintf(
			"The module has %d wires. Apply the first rule that matches the wire colors the defuser reads out. Exactly one wire is safe to cut.",
			wireCount),
	}
	for _, rule := range ruleSet.Rules {
		manual.Rules = append(manual.Rules, rule.Describe())
	}

	return ruleSet, manual
}
