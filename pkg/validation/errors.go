// Package validation defines the structured error records both error sources
// produce and the reconciler that merges them into one deduplicated,
// path-addressed error set.
package validation

import (
	"github.com/goliatone/go-formstate/pkg/fieldpath"
)

// Kind classifies a validation failure.
type Kind string

const (
	KindRequired Kind = "required"
	KindLength   Kind = "length"
	KindRange    Kind = "range"
	KindPattern  Kind = "pattern"
	KindUnknown  Kind = "unknown"
)

// Error describes one validation failure. It is a data record, not a Go
// error: validators return slices of these and never raise.
type Error struct {
	Path    fieldpath.Path
	Keyword string
	Kind    Kind
	Message string
	Params  map[string]any
}

// MapKeyword classifies a raw constraint keyword, falling back to
// KindUnknown for keywords the taxonomy does not recognise.
func MapKeyword(keyword string) Kind {
	switch keyword {
	case "required":
		return KindRequired
	case "minLength", "maxLength":
		return KindLength
	case "minimum", "maximum", "exclusiveMinimum", "exclusiveMaximum":
		return KindRange
	case "pattern", "format":
		return KindPattern
	default:
		return KindUnknown
	}
}

// Validator is the external schema-validator boundary: given a canonical
// record it returns structured errors. Implementations are treated as lossy;
// an empty list never means the record is known-good.
type Validator interface {
	ValidateAll(record map[string]any) []Error
}

// ValidatorFunc adapts a function into a Validator.
type ValidatorFunc func(record map[string]any) []Error

// ValidateAll delegates to the underlying function.
func (fn ValidatorFunc) ValidateAll(record map[string]any) []Error {
	return fn(record)
}
