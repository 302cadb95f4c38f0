package schema_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/fieldpath"
	"github.com/goliatone/go-formstate/pkg/schema"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func personalInfoSchema() schema.Schema {
	return schema.Schema{
		Type: "object",
		Properties: map[string]schema.Schema{
			"personalInfo": {
				Type:     "object",
				Required: []string{"firstName", "lastName", "email"},
				Properties: map[string]schema.Schema{
					"firstName": {
						Type:      "string",
						MinLength: intPtr(2),
						ErrorMessages: map[string]string{
							"required":  "*Required",
							"minLength": "*Must have at least 2 characters",
						},
					},
					"email": {Type: "string", Format: "email"},
					"phone": {Type: "string", Pattern: `^\d{10}$`},
				},
			},
		},
	}
}

func TestRequiredAt(t *testing.T) {
	root := personalInfoSchema()

	cases := []struct {
		name string
		path string
		want bool
	}{
		{name: "required leaf", path: "personalInfo/firstName", want: true},
		{name: "optional leaf", path: "personalInfo/phone", want: false},
		{name: "missing leaf", path: "personalInfo/nickname", want: false},
		{name: "missing branch", path: "workInfo/title", want: false},
		{name: "root", path: "", want: false},
		{name: "scope pointer form", path: "#/properties/personalInfo/properties/email", want: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := schema.RequiredAt(root, fieldpath.Parse(tc.path))
			if got != tc.want {
				t.Fatalf("RequiredAt(%q) = %v, want %v", tc.path, got, tc.want)
			}
		})
	}
}

func TestConstraintsAt(t *testing.T) {
	root := personalInfoSchema()

	got := schema.ConstraintsAt(root, fieldpath.Parse("personalInfo/firstName"))
	want := schema.Constraints{
		MinLength: intPtr(2),
		Messages: map[string]string{
			"required":  "*Required",
			"minLength": "*Must have at least 2 characters",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("constraints mismatch (-want +got):\n%s", diff)
	}

	if msg := got.Message("minLength"); msg != "*Must have at least 2 characters" {
		t.Fatalf("Message(minLength) = %q", msg)
	}

	missing := schema.ConstraintsAt(root, fieldpath.Parse("workInfo/title"))
	if !missing.Empty() {
		t.Fatalf("missing branch must degrade to empty constraints, got %+v", missing)
	}
}

func TestConstraintsAtRange(t *testing.T) {
	root := schema.Schema{
		Type: "object",
		Properties: map[string]schema.Schema{
			"price": {Type: "number", Minimum: floatPtr(0)},
		},
	}
	got := schema.ConstraintsAt(root, fieldpath.Parse("price"))
	if got.Minimum == nil || *got.Minimum != 0 {
		t.Fatalf("expected minimum 0, got %+v", got)
	}
	if got.Empty() {
		t.Fatal("constraints with a minimum are not empty")
	}
}
