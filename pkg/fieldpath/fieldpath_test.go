package fieldpath_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/fieldpath"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want fieldpath.Path
	}{
		{name: "empty", raw: "", want: nil},
		{name: "blank", raw: "   ", want: nil},
		{name: "json pointer", raw: "/personalInfo/firstName", want: fieldpath.Path{"personalInfo", "firstName"}},
		{name: "schema scope", raw: "#/properties/personalInfo/properties/firstName", want: fieldpath.Path{"personalInfo", "firstName"}},
		{name: "dotted", raw: "productInfo.category", want: fieldpath.Path{"productInfo", "category"}},
		{name: "nested properties token", raw: "personalInfo/properties/email", want: fieldpath.Path{"personalInfo", "email"}},
		{name: "pointer escapes", raw: "/meta/~1slash/~0tilde", want: fieldpath.Path{"meta", "/slash", "~tilde"}},
		{name: "only wrappers", raw: "#/properties", want: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := fieldpath.Parse(tc.raw)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("parse mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPathBoundaryMatching(t *testing.T) {
	address := fieldpath.Parse("address")
	zip := fieldpath.Parse("address/zipCode")
	addressLine := fieldpath.Parse("addressLine2")

	if !zip.DescendantOf(address) {
		t.Fatalf("expected %q to descend from %q", zip, address)
	}
	if addressLine.DescendantOf(address) {
		t.Fatalf("%q must not match %q on a substring boundary", addressLine, address)
	}
	if address.DescendantOf(address) {
		t.Fatal("a path is not its own proper descendant")
	}
	if !zip.HasPrefix(address) {
		t.Fatal("prefix check failed for a real descendant")
	}
}

func TestPathRendering(t *testing.T) {
	p := fieldpath.Parse("#/properties/personalInfo/properties/phone")
	if got, want := p.String(), "personalInfo/phone"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	if got, want := p.Pointer(), "/personalInfo/phone"; got != want {
		t.Fatalf("Pointer() = %q, want %q", got, want)
	}
	if got, want := p.Leaf(), "phone"; got != want {
		t.Fatalf("Leaf() = %q, want %q", got, want)
	}
	if got, want := p.Parent().String(), "personalInfo"; got != want {
		t.Fatalf("Parent() = %q, want %q", got, want)
	}
}

func TestContainsSegment(t *testing.T) {
	p := fieldpath.Parse("address/zipCode")
	if !p.ContainsSegment("zip") {
		t.Fatal("expected zip substring match")
	}
	if p.ContainsSegment("phone") {
		t.Fatal("unexpected phone substring match")
	}
}

func TestLookupAndSet(t *testing.T) {
	record := map[string]any{
		"personalInfo": map[string]any{"firstName": "Lee"},
	}

	value, ok := fieldpath.Lookup(record, fieldpath.Parse("personalInfo/firstName"))
	if !ok || value != "Lee" {
		t.Fatalf("Lookup = %v, %v; want Lee, true", value, ok)
	}

	if _, ok := fieldpath.Lookup(record, fieldpath.Parse("personalInfo/missing")); ok {
		t.Fatal("missing branch must report not found")
	}
	if _, ok := fieldpath.Lookup(record, fieldpath.Parse("personalInfo/firstName/deeper")); ok {
		t.Fatal("walking through a scalar must report not found")
	}

	fieldpath.Set(record, fieldpath.Parse("address/city"), "Oakland")
	got, ok := fieldpath.Lookup(record, fieldpath.Parse("address/city"))
	if !ok || got != "Oakland" {
		t.Fatalf("Set/Lookup round trip = %v, %v", got, ok)
	}
}
