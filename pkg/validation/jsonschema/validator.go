// Package jsonschema adapts the santhosh-tekuri compiler to the external
// validator boundary. The engine treats this source as lossy: adapter
// failures degrade to an empty error list, and reconciliation lets the rule
// validator's curated errors take priority over anything produced here.
package jsonschema

import (
	"bytes"
	"encoding/json"
	"fmt"

	jsonschemav6 "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/goliatone/go-formstate/pkg/fieldpath"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Validator validates records against a compiled schema document.
type Validator struct {
	compiled *jsonschemav6.Schema
	printer  *message.Printer
}

// New compiles the (already enhanced) schema tree once for the form's
// lifetime.
func New(root schema.Schema) (*Validator, error) {
	raw, err := json.Marshal(schemaToMap(root))
	if err != nil {
		return nil, fmt.Errorf("jsonschema validator: encode schema: %w", err)
	}
	value, err := jsonschemav6.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("jsonschema validator: unmarshal schema: %w", err)
	}

	compiler := jsonschemav6.NewCompiler()
	if err := compiler.AddResource("form.json", value); err != nil {
		return nil, fmt.Errorf("jsonschema validator: add resource: %w", err)
	}
	compiled, err := compiler.Compile("form.json")
	if err != nil {
		return nil, fmt.Errorf("jsonschema validator: compile: %w", err)
	}

	return &Validator{
		compiled: compiled,
		printer:  message.NewPrinter(language.English),
	}, nil
}

// ValidateAll implements validation.Validator. A record that cannot be
// round-tripped through JSON yields no errors rather than failing the form.
func (v *Validator) ValidateAll(record map[string]any) []validation.Error {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil
	}
	instance, err := jsonschemav6.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil
	}

	err = v.compiled.Validate(instance)
	if err == nil {
		return nil
	}
	root, ok := err.(*jsonschemav6.ValidationError)
	if !ok {
		return nil
	}

	var out []validation.Error
	collect(root, &out, v.printer)
	return out
}

// collect flattens the cause tree into per-leaf error records. Required
// failures report at the object holding the required list, so each missing
// property is expanded to its own leaf path.
func collect(err *jsonschemav6.ValidationError, out *[]validation.Error, printer *message.Printer) {
	if len(err.Causes) > 0 {
		for _, cause := range err.Causes {
			collect(cause, out, printer)
		}
		return
	}

	path := fieldpath.Path(append([]string(nil), err.InstanceLocation...))

	if required, ok := err.ErrorKind.(*kind.Required); ok {
		for _, missing := range required.Missing {
			*out = append(*out, validation.Error{
				Path:    path.Child(missing),
				Keyword: "required",
				Kind:    validation.KindRequired,
				Message: "missing required property " + missing,
			})
		}
		return
	}

	keyword := keywordOf(err.ErrorKind)
	*out = append(*out, validation.Error{
		Path:    path,
		Keyword: keyword,
		Kind:    validation.MapKeyword(keyword),
		Message: err.ErrorKind.LocalizedString(printer),
	})
}

func keywordOf(errKind jsonschemav6.ErrorKind) string {
	if errKind == nil {
		return ""
	}
	keywordPath := errKind.KeywordPath()
	if len(keywordPath) == 0 {
		return ""
	}
	return keywordPath[len(keywordPath)-1]
}

// schemaToMap lowers the schema tree back to plain JSON Schema keywords. The
// errorMessage tables stay behind; they are engine configuration, not
// constraints.
func schemaToMap(node schema.Schema) map[string]any {
	out := make(map[string]any)
	if node.Type != "" {
		out["type"] = node.Type
	}
	if node.Format != "" {
		out["format"] = node.Format
	}
	if len(node.Required) > 0 {
		out["required"] = append([]string(nil), node.Required...)
	}
	if len(node.Properties) > 0 {
		properties := make(map[string]any, len(node.Properties))
		for name, child := range node.Properties {
			properties[name] = schemaToMap(child)
		}
		out["properties"] = properties
	}
	if node.Items != nil {
		out["items"] = schemaToMap(*node.Items)
	}
	if node.MinLength != nil {
		out["minLength"] = *node.MinLength
	}
	if node.MaxLength != nil {
		out["maxLength"] = *node.MaxLength
	}
	if node.Minimum != nil {
		if node.ExclusiveMinimum {
			out["exclusiveMinimum"] = *node.Minimum
		} else {
			out["minimum"] = *node.Minimum
		}
	}
	if node.Maximum != nil {
		if node.ExclusiveMaximum {
			out["exclusiveMaximum"] = *node.Maximum
		} else {
			out["maximum"] = *node.Maximum
		}
	}
	if node.Pattern != "" {
		out["pattern"] = node.Pattern
	}
	if len(node.Enum) > 0 {
		out["enum"] = append([]any(nil), node.Enum...)
	}
	if node.Const != nil {
		out["const"] = node.Const
	}
	return out
}
