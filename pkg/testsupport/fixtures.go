// Package testsupport bundles the schema, layout, and rule fixtures shared
// by tests across packages. Each bundle is a self-contained form definition
// mirroring the documents a real deployment would ship.
package testsupport

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formstate/pkg/engine"
	"github.com/goliatone/go-formstate/pkg/jsonschema"
	"github.com/goliatone/go-formstate/pkg/rules"
	"github.com/goliatone/go-formstate/pkg/schema"
)

// Fixture is one complete form definition: the schema document, an optional
// layout, and the rule and enhancement tables applied on top.
type Fixture struct {
	FormID       string
	Schema       string
	Layout       string
	Rules        []rules.Rule
	Enhancements []jsonschema.Enhancement
}

// Open builds an engine around the fixture's documents and opens the form.
func (f Fixture) Open(t *testing.T, options ...engine.Option) *engine.Form {
	t.Helper()

	schemas := fstest.MapFS{
		f.FormID + ".schema.json": &fstest.MapFile{Data: []byte(f.Schema)},
	}
	opts := []engine.Option{
		engine.WithLoader(jsonschema.NewLoader(jsonschema.LoaderOptions{FileSystem: schemas})),
	}
	if f.Layout != "" {
		layouts := fstest.MapFS{
			f.FormID + ".json": &fstest.MapFile{Data: []byte(f.Layout)},
		}
		opts = append(opts, engine.WithLayoutFS(layouts))
	}
	opts = append(opts, options...)

	form, err := engine.New(opts...).Open(context.Background(), engine.Request{
		Source:       schema.SourceFromFS(f.FormID + ".schema.json"),
		FormID:       f.FormID,
		Enhancements: f.Enhancements,
		Rules:        f.Rules,
	})
	if err != nil {
		t.Fatalf("open %s fixture: %v", f.FormID, err)
	}
	t.Cleanup(form.Close)
	return form
}

// Contact is a two-section contact form: personal info and a mailing
// address with formatted phone, zip, and state fields.
func Contact() Fixture {
	return Fixture{
		FormID: "contact",
		Schema: `{
  "type": "object",
  "required": ["personalInfo"],
  "properties": {
    "personalInfo": {
      "type": "object",
      "required": ["firstName", "lastName", "email"],
      "properties": {
        "firstName": {"type": "string", "minLength": 2},
        "lastName": {"type": "string", "minLength": 2},
        "email": {"type": "string", "format": "email"},
        "phone": {"type": "string", "pattern": "^\\d{10}$"}
      }
    },
    "address": {
      "type": "object",
      "properties": {
        "street": {"type": "string", "maxLength": 60},
        "city": {"type": "string"},
        "state": {"type": "string", "minLength": 2, "maxLength": 2},
        "zip": {"type": "string", "pattern": "^\\d{5}$"}
      }
    }
  }
}`,
	}
}

// Product is a catalogue form whose warranty and stock fields are governed
// by conditional rules and an ENABLE layout rule.
func Product() Fixture {
	minimum := 0.01
	return Fixture{
		FormID: "product",
		Schema: `{
  "type": "object",
  "required": ["name", "category"],
  "properties": {
    "name": {"type": "string", "minLength": 2},
    "category": {"type": "string", "enum": ["Electronics", "Furniture", "Clothing"]},
    "price": {"type": "number"},
    "inStock": {"type": "boolean"},
    "quantity": {"type": "integer"},
    "warrantyPeriod": {"type": "string"}
  }
}`,
		Layout: `{
  "type": "VerticalLayout",
  "elements": [
    {"type": "Control", "scope": "#/properties/name"},
    {"type": "Control", "scope": "#/properties/category"},
    {"type": "Control", "scope": "#/properties/price"},
    {"type": "Control", "scope": "#/properties/inStock"},
    {
      "type": "Group",
      "rule": {
        "effect": "ENABLE",
        "condition": {"scope": "#/properties/inStock", "schema": {"const": true}}
      },
      "elements": [
        {"type": "Control", "scope": "#/properties/quantity"}
      ]
    },
    {
      "type": "Control",
      "scope": "#/properties/warrantyPeriod",
      "rule": {
        "effect": "SHOW",
        "condition": {"scope": "#/properties/category", "schema": {"const": "Electronics"}}
      }
    }
  ]
}`,
		Rules: []rules.Rule{
			{
				Path:    "warrantyPeriod",
				When:    `category == "Electronics"`,
				Require: true,
				Message: "*Required for Electronics",
			},
			{
				Path:    "quantity",
				When:    "inStock",
				Minimum: &minimum,
				Message: "*Required when in stock",
			},
		},
		Enhancements: []jsonschema.Enhancement{
			{
				Path:        "price",
				Constraints: jsonschema.ConstraintPatch{Minimum: &minimum},
				Messages:    map[string]string{"minimum": "*Must be at least $0.01"},
			},
		},
	}
}

// Feedback is a short report form where priority becomes required for bug
// reports.
func Feedback() Fixture {
	maxLength := 200
	return Fixture{
		FormID: "feedback",
		Schema: `{
  "type": "object",
  "required": ["type", "comment"],
  "properties": {
    "type": {"type": "string"},
    "priority": {"type": "string"},
    "comment": {"type": "string"}
  }
}`,
		Rules: []rules.Rule{
			{
				Path:    "priority",
				When:    `type == "Bug"`,
				Require: true,
				Message: "*Required for bug reports",
			},
		},
		Enhancements: []jsonschema.Enhancement{
			{
				Path:        "comment",
				Constraints: jsonschema.ConstraintPatch{MaxLength: &maxLength},
			},
		},
	}
}
