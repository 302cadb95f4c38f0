package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-formstate/pkg/fieldpath"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/uischema"
)

// Options configures the behaviour of the Builder. Options are constructed by
// the public adapter in pkg/model and passed into New.
type Options struct {
	Labeler func(string) string
	Layout  *uischema.Element
}

func defaultOptions() Options {
	return Options{
		Labeler: DefaultLabeler,
	}
}

// Builder flattens schema documents into form models.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := defaultOptions()
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	}
	opts.Layout = options.Layout
	return &Builder{opts: opts}
}

// Build flattens the form's schema tree into a field table. When a layout is
// configured the fields follow the layout's control order; otherwise leaves
// are collected depth-first with sibling properties sorted by name.
func (b *Builder) Build(form schema.Form) (FormModel, error) {
	if strings.TrimSpace(form.ID) == "" {
		return FormModel{}, errors.New("model builder: form id is required")
	}
	if form.Schema.Type != "" && form.Schema.Type != "object" {
		return FormModel{}, fmt.Errorf("model builder: form %q root schema has type %q, want object", form.ID, form.Schema.Type)
	}

	out := FormModel{
		ID:          form.ID,
		Title:       form.Title,
		Description: form.Description,
		Schema:      form.Schema,
	}

	if b.opts.Layout != nil {
		for _, control := range b.opts.Layout.Controls() {
			node, ok := schema.NodeAt(form.Schema, control.Path)
			if !ok {
				return FormModel{}, fmt.Errorf("model builder: form %q layout control %q does not resolve in the schema", form.ID, control.Scope)
			}
			field := b.fieldFromNode(form.Schema, control.Path, node)
			if control.Label != "" {
				field.Label = control.Label
			}
			if placeholder, ok := control.Options["placeholder"].(string); ok {
				field.Placeholder = placeholder
			}
			out.Fields = append(out.Fields, field)
		}
		return out, nil
	}

	out.Fields = b.collectLeaves(form.Schema, nil, form.Schema)
	return out, nil
}

func (b *Builder) collectLeaves(root schema.Schema, prefix fieldpath.Path, node schema.Schema) []Field {
	if len(node.Properties) > 0 {
		names := make([]string, 0, len(node.Properties))
		for name := range node.Properties {
			names = append(names, name)
		}
		sort.Strings(names)

		var fields []Field
		for _, name := range names {
			fields = append(fields, b.collectLeaves(root, prefix.Child(name), node.Properties[name])...)
		}
		return fields
	}

	if len(prefix) == 0 {
		return nil
	}
	return []Field{b.fieldFromNode(root, prefix, node)}
}

func (b *Builder) fieldFromNode(root schema.Schema, path fieldpath.Path, node schema.Schema) Field {
	name := path.Leaf()
	label := node.Title
	if label == "" {
		label = b.opts.Labeler(name)
	}
	return Field{
		Name:        name,
		Path:        path,
		Kind:        inferKind(name, node),
		Label:       label,
		Description: node.Description,
		Required:    schema.RequiredAt(root, path),
		Constraints: schema.ConstraintsAt(root, path),
		Default:     node.Default,
		Enum:        append([]any(nil), node.Enum...),
	}
}

func inferKind(name string, node schema.Schema) FieldKind {
	switch node.Type {
	case "boolean":
		return KindBoolean
	case "integer":
		return KindInteger
	case "number":
		return KindNumber
	}

	lower := strings.ToLower(name)
	switch {
	case node.Format == "email" || strings.Contains(lower, "email"):
		return KindEmail
	case node.Pattern == `^\d{10}$` || strings.Contains(lower, "phone"):
		return KindPhone
	case node.Pattern == `^\d{5}$` || strings.Contains(lower, "zip"):
		return KindZip
	case lower == "state":
		return KindState
	}
	return KindString
}
