// Package rules evaluates the hand-written business rules of a form against
// a canonical record: required presence, conditional requiredness, length and
// range constraints, and format checks. Rule errors carry the curated
// messages and take priority over the external schema validator during
// reconciliation.
package rules

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formstate/pkg/fieldpath"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/validation"
	"github.com/goliatone/go-formstate/pkg/visibility"
	"github.com/goliatone/go-formstate/pkg/visibility/expr"
)

// Rule is one conditional business rule attached to a field path. Rules are
// plain data so rule tables can ship as JSON or YAML files.
type Rule struct {
	// Path addresses the field the rule constrains.
	Path string `json:"path" yaml:"path"`

	// When is a condition expression evaluated against the record. Empty
	// means the rule always applies.
	When string `json:"when,omitempty" yaml:"when,omitempty"`

	// Require demands a present value while the rule applies.
	Require bool `json:"require,omitempty" yaml:"require,omitempty"`

	// Minimum enforces a numeric floor while the rule applies.
	Minimum *float64 `json:"minimum,omitempty" yaml:"minimum,omitempty"`

	// Message is surfaced on violation.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Validator checks one form's record against its field table and rule set.
type Validator struct {
	form  model.FormModel
	rules []Rule
	eval  visibility.Evaluator
}

// Option configures a Validator.
type Option func(*Validator)

// WithRules installs the form's conditional rule table.
func WithRules(rules []Rule) Option {
	return func(v *Validator) {
		v.rules = append(v.rules, rules...)
	}
}

// WithEvaluator overrides the condition evaluator.
func WithEvaluator(eval visibility.Evaluator) Option {
	return func(v *Validator) {
		v.eval = eval
	}
}

// NewValidator builds a Validator for the form.
func NewValidator(form model.FormModel, options ...Option) *Validator {
	v := &Validator{form: form, eval: expr.New()}
	for _, opt := range options {
		opt(v)
	}
	return v
}

// Validate walks the form's fields in model order. Checks run per field in a
// fixed sequence (required, conditional rules, length/range, format) and stop
// at the first failure, so each field surfaces at most one error while
// independent fields accumulate independently.
func (v *Validator) Validate(record map[string]any) []validation.Error {
	ctx := visibility.Context{Values: record}

	var out []validation.Error
	for _, field := range v.form.Fields {
		if err, found := v.validateField(field, record, ctx); found {
			out = append(out, err)
		}
	}
	return out
}

func (v *Validator) validateField(field model.Field, record map[string]any, ctx visibility.Context) (validation.Error, bool) {
	value, _ := fieldpath.Lookup(record, field.Path)

	if err, found := checkRequired(field, value); found {
		return err, true
	}

	for _, rule := range v.rules {
		if !fieldpath.Parse(rule.Path).Equal(field.Path) {
			continue
		}
		if rule.When != "" {
			applies, err := v.eval.Eval(rule.When, ctx)
			if err != nil || !applies {
				// a malformed condition degrades to "rule does not apply"
				continue
			}
		}
		if rule.Require && absent(value) {
			return validation.Error{
				Path:    field.Path,
				Keyword: "required",
				Kind:    validation.KindRequired,
				Message: defaultMessage(rule.Message, requiredMessage(field)),
			}, true
		}
		if rule.Minimum != nil {
			if num, ok := numeric(value); ok && num < *rule.Minimum {
				return validation.Error{
					Path:    field.Path,
					Keyword: "minimum",
					Kind:    validation.KindRange,
					Message: defaultMessage(rule.Message, rangeMessage(field)),
					Params:  map[string]any{"limit": *rule.Minimum},
				}, true
			}
		}
	}

	return checkConstraints(field, value)
}

// CheckLocal runs the lightweight per-field sequence (required presence,
// then length/range/format) against a single value, without the conditional
// rule table. Field controllers use it to re-derive a field's own error
// before trusting the possibly lagging store list.
func CheckLocal(field model.Field, value any) (validation.Error, bool) {
	if err, found := checkRequired(field, value); found {
		return err, true
	}
	return checkConstraints(field, value)
}

func checkRequired(field model.Field, value any) (validation.Error, bool) {
	if field.Required && absent(value) {
		return validation.Error{
			Path:    field.Path,
			Keyword: "required",
			Kind:    validation.KindRequired,
			Message: requiredMessage(field),
		}, true
	}
	return validation.Error{}, false
}

func checkConstraints(field model.Field, value any) (validation.Error, bool) {
	if absent(value) {
		return validation.Error{}, false
	}

	cons := field.Constraints
	if text, ok := value.(string); ok {
		length := utf8.RuneCountInString(text)
		if cons.MinLength != nil && length < *cons.MinLength {
			return validation.Error{
				Path:    field.Path,
				Keyword: "minLength",
				Kind:    validation.KindLength,
				Message: minLengthMessage(field, *cons.MinLength),
				Params:  map[string]any{"limit": *cons.MinLength},
			}, true
		}
		if cons.MaxLength != nil && length > *cons.MaxLength {
			return validation.Error{
				Path:    field.Path,
				Keyword: "maxLength",
				Kind:    validation.KindLength,
				Message: maxLengthMessage(field, *cons.MaxLength),
				Params:  map[string]any{"limit": *cons.MaxLength},
			}, true
		}
	}
	if num, ok := numeric(value); ok {
		if cons.Minimum != nil && num < *cons.Minimum {
			return validation.Error{
				Path:    field.Path,
				Keyword: "minimum",
				Kind:    validation.KindRange,
				Message: rangeMessage(field),
				Params:  map[string]any{"limit": *cons.Minimum},
			}, true
		}
		if cons.Maximum != nil && num > *cons.Maximum {
			return validation.Error{
				Path:    field.Path,
				Keyword: "maximum",
				Kind:    validation.KindRange,
				Message: rangeMessage(field),
				Params:  map[string]any{"limit": *cons.Maximum},
			}, true
		}
	}

	if text, ok := value.(string); ok && text != "" {
		if pattern := formatPattern(field); pattern != nil && !pattern.MatchString(text) {
			return validation.Error{
				Path:    field.Path,
				Keyword: "pattern",
				Kind:    validation.KindPattern,
				Message: patternMessage(field),
			}, true
		}
	}

	return validation.Error{}, false
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	zipPattern   = regexp.MustCompile(`^\d{5}$`)
)

// formatPattern picks the regex a field's text must match, preferring the
// kind-specific formats over a schema-declared pattern. An invalid declared
// pattern degrades to "no format check".
func formatPattern(field model.Field) *regexp.Regexp {
	switch field.Kind {
	case model.KindEmail:
		return emailPattern
	case model.KindPhone:
		return phonePattern
	case model.KindZip:
		return zipPattern
	}
	if field.Constraints.Pattern != "" {
		compiled, err := regexp.Compile(field.Constraints.Pattern)
		if err != nil {
			return nil
		}
		return compiled
	}
	return nil
}

// absent reports whether a value counts as missing for requiredness: nil and
// the empty (or whitespace-only) string. Zero numbers and false booleans are
// present values.
func absent(value any) bool {
	if value == nil {
		return true
	}
	if text, ok := value.(string); ok {
		return strings.TrimSpace(text) == ""
	}
	return false
}

func numeric(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func defaultMessage(message, fallback string) string {
	if message != "" {
		return message
	}
	return fallback
}
