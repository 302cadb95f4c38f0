package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/fieldpath"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/uischema"
)

func contactSchema() schema.Schema {
	two := 2
	return schema.Schema{
		Type:     "object",
		Required: []string{"personalInfo"},
		Properties: map[string]schema.Schema{
			"personalInfo": {
				Type:     "object",
				Required: []string{"firstName", "email", "phone"},
				Properties: map[string]schema.Schema{
					"firstName": {Type: "string", MinLength: &two},
					"email":     {Type: "string", Format: "email"},
					"phone":     {Type: "string", Pattern: `^\d{10}$`},
				},
			},
			"address": {
				Type: "object",
				Properties: map[string]schema.Schema{
					"state":   {Type: "string"},
					"zipCode": {Type: "string", Pattern: `^\d{5}$`},
				},
			},
			"subscribe": {Type: "boolean", Default: false},
		},
	}
}

func TestBuildCollectsLeaves(t *testing.T) {
	builder := New(Options{})
	form, err := builder.Build(schema.Form{ID: "contact", Title: "Contact", Schema: contactSchema()})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	wantPaths := []string{
		"address/state",
		"address/zipCode",
		"personalInfo/email",
		"personalInfo/firstName",
		"personalInfo/phone",
		"subscribe",
	}
	var gotPaths []string
	for _, field := range form.Fields {
		gotPaths = append(gotPaths, field.Path.String())
	}
	if diff := cmp.Diff(wantPaths, gotPaths); diff != "" {
		t.Fatalf("Build() field order mismatch (-want +got):\n%s", diff)
	}

	wantKinds := map[string]FieldKind{
		"personalInfo/firstName": KindString,
		"personalInfo/email":     KindEmail,
		"personalInfo/phone":     KindPhone,
		"address/state":          KindState,
		"address/zipCode":        KindZip,
		"subscribe":              KindBoolean,
	}
	for path, want := range wantKinds {
		field, ok := form.FieldAt(fieldpath.Parse(path))
		if !ok {
			t.Fatalf("Build() missing field %q", path)
		}
		if field.Kind != want {
			t.Fatalf("Build() field %q kind = %q, want %q", path, field.Kind, want)
		}
	}

	firstName, _ := form.FieldAt(fieldpath.Parse("personalInfo/firstName"))
	if !firstName.Required {
		t.Fatalf("Build() firstName should be required")
	}
	if firstName.Label != "First Name" {
		t.Fatalf("Build() firstName label = %q", firstName.Label)
	}
	if firstName.Constraints.MinLength == nil || *firstName.Constraints.MinLength != 2 {
		t.Fatalf("Build() firstName minLength = %v", firstName.Constraints.MinLength)
	}

	state, _ := form.FieldAt(fieldpath.Parse("address/state"))
	if state.Required {
		t.Fatalf("Build() state should be optional")
	}
}

func TestBuildFollowsLayoutOrder(t *testing.T) {
	layout := &uischema.Element{
		Type: uischema.TypeVerticalLayout,
		Elements: []uischema.Element{
			{Type: uischema.TypeControl, Scope: "#/properties/personalInfo/properties/email", Label: "Work Email", Options: map[string]any{"placeholder": "you@example.com"}},
			{Type: uischema.TypeControl, Scope: "#/properties/personalInfo/properties/firstName"},
		},
	}

	builder := New(Options{Layout: layout})
	form, err := builder.Build(schema.Form{ID: "contact", Schema: contactSchema()})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if len(form.Fields) != 2 {
		t.Fatalf("Build() field count = %d, want 2", len(form.Fields))
	}
	if form.Fields[0].Path.String() != "personalInfo/email" {
		t.Fatalf("Build() first field = %q", form.Fields[0].Path)
	}
	if form.Fields[0].Label != "Work Email" {
		t.Fatalf("Build() layout label not applied: %q", form.Fields[0].Label)
	}
	if form.Fields[0].Placeholder != "you@example.com" {
		t.Fatalf("Build() layout placeholder not applied: %q", form.Fields[0].Placeholder)
	}
}

func TestBuildLayoutControlMustResolve(t *testing.T) {
	layout := &uischema.Element{
		Type: uischema.TypeVerticalLayout,
		Elements: []uischema.Element{
			{Type: uischema.TypeControl, Scope: "#/properties/missing"},
		},
	}

	builder := New(Options{Layout: layout})
	if _, err := builder.Build(schema.Form{ID: "contact", Schema: contactSchema()}); err == nil {
		t.Fatalf("Build() expected error for unresolved layout control")
	}
}

func TestBuildRejectsBadInput(t *testing.T) {
	builder := New(Options{})
	if _, err := builder.Build(schema.Form{Schema: contactSchema()}); err == nil {
		t.Fatalf("Build() expected error for missing form id")
	}
	if _, err := builder.Build(schema.Form{ID: "x", Schema: schema.Schema{Type: "string"}}); err == nil {
		t.Fatalf("Build() expected error for non-object root")
	}
}

func TestInitialRecord(t *testing.T) {
	builder := New(Options{})
	form, err := builder.Build(schema.Form{ID: "contact", Schema: contactSchema()})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := map[string]any{
		"personalInfo": map[string]any{
			"firstName": "",
			"email":     "",
			"phone":     "",
		},
		"address": map[string]any{
			"state":   "",
			"zipCode": "",
		},
		"subscribe": false,
	}
	if diff := cmp.Diff(want, form.InitialRecord()); diff != "" {
		t.Fatalf("InitialRecord() mismatch (-want +got):\n%s", diff)
	}
}
