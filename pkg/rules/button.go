package rules

import "fmt"

// ButtonColor is the color of the button casing.
type ButtonColor string

const (
	ButtonRed    ButtonColor = "red"
	ButtonBlue   ButtonColor = "blue"
	ButtonYellow ButtonColor = "yellow"
	ButtonWhite  ButtonColor = "white"
)

// ButtonColors is the palette button configurations draw from.
var ButtonColors = []ButtonColor{ButtonRed, ButtonBlue, ButtonYellow, ButtonWhite}

// ButtonLabels is the pool of labels printed on the button.
var ButtonLabels = []string{"PRESS", "HOLD", "ABORT", "DETONATE"}

// GaugeColor is the color the side gauge lights up while the button is
// held.
type GaugeColor string

const (
	GaugeRed    GaugeColor = "red"
	GaugeBlue   GaugeColor = "blue"
	GaugeYellow GaugeColor = "yellow"
	GaugeGreen  GaugeColor = "green"
)

// GaugeColors is the pool of gauge colors.
var GaugeColors = []GaugeColor{GaugeRed, GaugeBlue, GaugeYellow, GaugeGreen}

// ButtonAction is the correct way to operate the button.
type ButtonAction int

const (
	// ButtonActionPress means press and immediately release.
	ButtonActionPress ButtonAction = iota
	// ButtonActionHold means hold and release on the right timer digit.
	ButtonActionHold
)

// Describe returns the canonical manual phrasing of the action.
func (a ButtonAction) Describe() string {
	if a == ButtonActionPress {
		return "press and immediately release the button"
	}
	return "hold the button and refer to the release table"
}

// ButtonConditionKind enumerates the condition templates for button rules.
type ButtonConditionKind int

const (
	ButtonCondColorIs ButtonConditionKind = iota
	ButtonCondLabelIs
	ButtonCondColorAndLabel
)

// ButtonCondition is a predicate over the button's color and label.
type ButtonCondition struct {
	Kind  ButtonConditionKind
	Color ButtonColor
	Label string
}

// Evaluate reports whether the condition holds for the configuration.
func (c ButtonCondition) Evaluate(color ButtonColor, label string) bool {
	switch c.Kind {
	case ButtonCondColorIs:
		return color == c.Color
	case ButtonCondLabelIs:
		return label == c.Label
	case ButtonCondColorAndLabel:
		return color == c.Color && label == c.Label
	default:
		return false
	}
}

// Describe returns the canonical manual phrasing of the condition.
func (c ButtonCondition) Describe() string {
	switch c.Kind {
	case ButtonCondColorIs:
		return fmt.Sprintf("the button is %s", c.Color)
	case ButtonCondLabelIs:
		return fmt.Sprintf("the button says %q", c.Label)
	case ButtonCondColorAndLabel:
		return fmt.Sprintf("the button is %s and says %q", c.Color, c.Label)
	default:
		return "the condition is unknown"
	}
}

// ButtonRule pairs a condition with the action taken when it matches.
type ButtonRule struct {
	Condition ButtonCondition
	Action    ButtonAction
}

// Describe returns the full manual sentence for the rule.
func (r ButtonRule) Describe() string {
	return fmt.Sprintf("If %s, %s.", r.Condition.Describe(), r.Action.Describe())
}

// ButtonRuleSet is the executable rule chain for a button module plus
// the gauge-color to release-digit table used while holding.
type ButtonRuleSet struct {
	Rules       []ButtonRule
	Default     ButtonAction
	GaugeDigits map[GaugeColor]int
}

// CorrectAction returns the action the rule set prescribes for the
// given configuration.
func (rs ButtonRuleSet) CorrectAction(color ButtonColor, label string) ButtonAction {
	for _, rule := range rs.Rules {
		if rule.Condition.Evaluate(color, label) {
			return rule.Action
		}
	}
	return rs.Default
}

// ReleaseDigit returns the trailing timer digit to release on for the
// given gauge color.
func (rs ButtonRuleSet) ReleaseDigit(gauge GaugeColor) int {
	if d, ok := rs.GaugeDigits[gauge]; ok {
		return d
	}
	return 0
}

// ButtonManual is the expert-facing page matching a ButtonRuleSet.
type ButtonManual struct {
	Rules        []string `json:"rules"`
	DefaultRule  string   `json:"defaultRule"`
	ReleaseTable []string `json:"releaseTable"`
	Instructions string   `json:"instructions"`
}

const (
	minButtonRules = 3
	maxButtonRules = 5
)

// GenerateButton produces the rule set and manual for a button module.
func GenerateButton(seed int64) (ButtonRuleSet, ButtonManual) {
	r := ruleSource(seed, ModuleKindButton, 0)

	pool := make([]ButtonCondition, 0, 2*len(ButtonColors)+len(ButtonLabels))
	for _, color := range ButtonColors {
		pool = append(pool, ButtonCondition{Kind: ButtonCondColorIs, Color: color})
	}
	for _, label := range ButtonLabels {
		pool = append(pool, ButtonCondition{Kind: ButtonCondLabelIs, Label: label})
	}
	for i, color := range ButtonColors {
		// A thin slice of combined conditions keeps the pool varied
		// without enumerating the full cross product.
		pool = append(pool, ButtonCondition{
			Kind:  ButtonCondColorAndLabel,
			Color: color,
			Label: ButtonLabels[(i+1)%len(ButtonLabels)],
		})
	}
	r.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	ruleCount := minButtonRules + r.Intn(maxButtonRules-minButtonRules+1)
	if ruleCount > len(pool) {
		ruleCount = len(pool)
	}

	ruleSet := ButtonRuleSet{
		Rules:       make([]ButtonRule, 0, ruleCount),
		Default:     ButtonActionHold,
		GaugeDigits: make(map[GaugeColor]int, len(GaugeColors)),
	}
	for _, cond := range pool[:ruleCount] {
		action := ButtonActionPress
		if r.Intn(2) == 1 {
			action = ButtonActionHold
		}
		ruleSet.Rules = append(ruleSet.Rules, ButtonRule{Condition: cond, Action: action})
	}
	for _, gauge := range GaugeColors {
		ruleSet.GaugeDigits[gauge] = r.Intn(10)
	}

	manual := ButtonManual{
		Rules:        make([]string, 0, len(ruleSet.Rules)),
		DefaultRule:  fmt.Sprintf("Otherwise, %s.", ruleSet.Default.Describe()),
		ReleaseTable: make([]string, 0, len(GaugeColors)),
		Instructions: "Apply the first rule that matches the button the defuser describes. While the button is held, a colored gauge lights up; release when the last digit of the countdown matches the table.",
	}
	for _, rule := range ruleSet.Rules {
		manual.Rules = append(manual.Rules, rule.Describe())
	}
	for _, gauge := range GaugeColors {
		manual.ReleaseTable = append(manual.ReleaseTable,
			fmt.Sprintf("%s gauge: release when the countdown ends in %d.", gauge, ruleSet.GaugeDigits[gauge]))
	}

	return ruleSet, manual
}
