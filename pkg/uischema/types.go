package uischema

import (
	"github.com/goliatone/go-formstate/pkg/fieldpath"
)

// Element types recognised in layout documents.
const (
	TypeVerticalLayout   = "VerticalLayout"
	TypeHorizontalLayout = "HorizontalLayout"
	TypeGroup            = "Group"
	TypeControl          = "Control"
)

// Effect names the outcome a rule applies when its condition matches.
type Effect string

const (
	EffectShow    Effect = "SHOW"
	EffectHide    Effect = "HIDE"
	EffectEnable  Effect = "ENABLE"
	EffectDisable Effect = "DISABLE"
)

// Element is one node of a layout document. Containers carry Elements,
// controls carry a Scope pointer into the data schema.
type Element struct {
	Type     string         `json:"type" yaml:"type"`
	Scope    string         `json:"scope,omitempty" yaml:"scope,omitempty"`
	Label    string         `json:"label,omitempty" yaml:"label,omitempty"`
	Options  map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
	Rule     *Rule          `json:"rule,omitempty" yaml:"rule,omitempty"`
	Elements []Element      `json:"elements,omitempty" yaml:"elements,omitempty"`
}

// Rule attaches a conditional effect to an element.
type Rule struct {
	Effect    Effect    `json:"effect" yaml:"effect"`
	Condition Condition `json:"condition" yaml:"condition"`
}

// Condition matches when the value at Scope equals the expected constant.
type Condition struct {
	Scope  string          `json:"scope" yaml:"scope"`
	Schema ConditionSchema `json:"schema" yaml:"schema"`
}

// ConditionSchema holds the constant a condition compares against.
type ConditionSchema struct {
	Const any `json:"const" yaml:"const"`
}

// Control is a flattened leaf of a layout: the control element plus every
// rule inherited from its ancestor containers, outermost first.
type Control struct {
	Scope   string
	Path    fieldpath.Path
	Label   string
	Options map[string]any
	Rules   []Rule
}

// Matches reports whether the condition holds against the record. A scope
// that does not resolve never matches.
func (c Condition) Matches(record map[string]any) bool {
	value, ok := fieldpath.Lookup(record, fieldpath.Parse(c.Scope))
	if !ok {
		return false
	}
	return looseEqual(value, c.Schema.Const)
}

// Controls walks the layout and returns its control leaves in document
// order. Rules of enclosing containers are carried down to each control.
func (e Element) Controls() []Control {
	var out []Control
	e.collect(nil, &out)
	return out
}

func (e Element) collect(inherited []Rule, out *[]Control) {
	rules := inherited
	if e.Rule != nil {
		rules = append(append([]Rule(nil), inherited...), *e.Rule)
	}

	if e.Type == TypeControl {
		*out = append(*out, Control{
			Scope:   e.Scope,
			Path:    fieldpath.Parse(e.Scope),
			Label:   e.Label,
			Options: e.Options,
			Rules:   rules,
		})
		return
	}
	for _, child := range e.Elements {
		child.collect(rules, out)
	}
}

// Visible evaluates the control's SHOW/HIDE rules against the record.
// Controls without visibility rules are visible.
func (c Control) Visible(record map[string]any) bool {
	visible := true
	for _, rule := range c.Rules {
		matched := rule.Condition.Matches(record)
		switch rule.Effect {
		case EffectShow:
			visible = matched
		case EffectHide:
			visible = !matched
		}
	}
	return visible
}

// Enabled evaluates the control's ENABLE/DISABLE rules against the record.
// Controls without enablement rules are enabled.
func (c Control) Enabled(record map[string]any) bool {
	enabled := true
	for _, rule := range c.Rules {
		matched := rule.Condition.Matches(record)
		switch rule.Effect {
		case EffectEnable:
			enabled = matched
		case EffectDisable:
			enabled = !matched
		}
	}
	return enabled
}

func looseEqual(got, want any) bool {
	if got == nil || want == nil {
		return got == want
	}
	if gotNum, ok := toNumber(got); ok {
		if wantNum, ok := toNumber(want); ok {
			return gotNum == wantNum
		}
		return false
	}
	return got == want
}

func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}
