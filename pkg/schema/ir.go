// Package schema defines the canonical schema tree the validation engine
// walks. Documents load through adapters (pkg/jsonschema, pkg/openapi) and
// are treated as immutable after the one-time enhancement pass at form
// initialisation.
package schema

// Schema represents one node of the canonical schema tree. Only the keywords
// the engine evaluates are modelled; unsupported composition keywords are
// rejected by the adapters up front.
type Schema struct {
	Type             string
	Format           string
	Title            string
	Description      string
	Default          any
	Enum             []any
	Const            any
	Required         []string
	Properties       map[string]Schema
	Items            *Schema
	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum bool
	ExclusiveMaximum bool
	MinLength        *int
	MaxLength        *int
	Pattern          string
	// ErrorMessages overrides the surfaced message per constraint keyword
	// ("required", "minLength", "pattern", ...). Populated from a document's
	// errorMessage blocks and by the enhancement pass.
	ErrorMessages map[string]string
}

// Form describes one named form extracted from a source document: the schema
// it validates against plus display metadata.
type Form struct {
	ID          string
	Title       string
	Description string
	Schema      Schema
}

// FormRef provides minimal metadata about an available form.
type FormRef struct {
	ID          string
	Title       string
	Description string
}
