package model

import (
	"github.com/goliatone/go-formstate/pkg/fieldpath"
	"github.com/goliatone/go-formstate/pkg/schema"
)

// FieldKind is the simplified enum of form-friendly field kinds. The kind
// drives normalization (trimming, case rules, digit stripping, numeric
// coercion) and the format check a field receives.
type FieldKind string

const (
	KindString  FieldKind = "string"
	KindEmail   FieldKind = "email"
	KindPhone   FieldKind = "phone"
	KindZip     FieldKind = "zip"
	KindState   FieldKind = "state"
	KindNumber  FieldKind = "number"
	KindInteger FieldKind = "integer"
	KindBoolean FieldKind = "boolean"
)

// Field models one leaf of a form: its address in the record, the kind that
// drives normalization, and the constraints resolved from the schema tree.
type Field struct {
	Name        string
	Path        fieldpath.Path
	Kind        FieldKind
	Label       string
	Placeholder string
	Description string
	Required    bool
	Constraints schema.Constraints
	Default     any
	Enum        []any
}

// FormModel is the flattened field table one form works against. Schema keeps
// the enhanced tree for validators that need the raw document.
type FormModel struct {
	ID          string
	Title       string
	Description string
	Fields      []Field
	Schema      schema.Schema
}

// FieldAt returns the field addressed by path.
func (m FormModel) FieldAt(path fieldpath.Path) (Field, bool) {
	for _, field := range m.Fields {
		if field.Path.Equal(path) {
			return field, true
		}
	}
	return Field{}, false
}

// Paths returns every field path in model order.
func (m FormModel) Paths() []fieldpath.Path {
	out := make([]fieldpath.Path, len(m.Fields))
	for i, field := range m.Fields {
		out[i] = field.Path
	}
	return out
}
