package rules_test

import (
	"testing"

	"github.com/goliatone/go-formstate/pkg/fieldpath"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/normalize"
	"github.com/goliatone/go-formstate/pkg/rules"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/validation"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func contactForm() model.FormModel {
	return model.FormModel{
		ID: "contact",
		Fields: []model.Field{
			{
				Name: "firstName", Path: fieldpath.Parse("personalInfo/firstName"),
				Kind: model.KindString, Required: true,
				Constraints: schema.Constraints{
					MinLength: intPtr(2),
					Messages: map[string]string{
						"required":  "*Required",
						"minLength": "*Must have at least 2 characters",
					},
				},
			},
			{
				Name: "lastName", Path: fieldpath.Parse("personalInfo/lastName"),
				Kind: model.KindString, Required: true,
			},
			{
				Name: "email", Path: fieldpath.Parse("personalInfo/email"),
				Kind: model.KindEmail, Required: true,
			},
			{
				Name: "phone", Path: fieldpath.Parse("personalInfo/phone"),
				Kind: model.KindPhone, Required: true,
			},
			{
				Name: "street", Path: fieldpath.Parse("address/street"),
				Kind: model.KindString, Required: true,
			},
			{
				Name: "city", Path: fieldpath.Parse("address/city"),
				Kind: model.KindString, Required: true,
			},
			{
				Name: "state", Path: fieldpath.Parse("address/state"),
				Kind: model.KindState, Required: true,
			},
			{
				Name: "zipCode", Path: fieldpath.Parse("address/zipCode"),
				Kind: model.KindZip, Required: true,
			},
		},
	}
}

func productForm() model.FormModel {
	return model.FormModel{
		ID: "product",
		Fields: []model.Field{
			{
				Name: "category", Path: fieldpath.Parse("productInfo/category"),
				Kind: model.KindString, Required: true,
			},
			{
				Name: "warrantyPeriod", Path: fieldpath.Parse("productInfo/warrantyPeriod"),
				Kind: model.KindString,
			},
			{
				Name: "price", Path: fieldpath.Parse("productInfo/price"),
				Kind: model.KindNumber,
				Constraints: schema.Constraints{
					Minimum:  floatPtr(0.01),
					Messages: map[string]string{"minimum": "*Must be at least $0.01"},
				},
			},
			{
				Name: "inStock", Path: fieldpath.Parse("productInfo/inStock"),
				Kind: model.KindBoolean,
			},
			{
				Name: "quantity", Path: fieldpath.Parse("productInfo/quantity"),
				Kind: model.KindInteger,
			},
		},
	}
}

func productRules() []rules.Rule {
	return []rules.Rule{
		{
			Path:    "productInfo/warrantyPeriod",
			When:    `productInfo.category == "Electronics"`,
			Require: true,
			Message: "*Required for Electronics",
		},
		{
			Path:    "productInfo/quantity",
			When:    "productInfo.inStock == true",
			Minimum: floatPtr(1),
			Message: "*Required when in stock",
		},
	}
}

func TestValidateRequiredOnly(t *testing.T) {
	record := map[string]any{
		"personalInfo": map[string]any{
			"firstName": "",
			"lastName":  "Lee",
			"email":     "lee@x.com",
			"phone":     "5551234567",
		},
		"address": map[string]any{
			"street":  "1 Main",
			"city":    "X",
			"state":   "CA",
			"zipCode": "94000",
		},
	}

	got := rules.NewValidator(contactForm()).Validate(record)
	if len(got) != 1 {
		t.Fatalf("Validate() returned %d errors, want 1: %#v", len(got), got)
	}
	if got[0].Path.String() != "personalInfo/firstName" {
		t.Fatalf("Validate() error path = %q", got[0].Path)
	}
	if got[0].Kind != validation.KindRequired || got[0].Message != "*Required" {
		t.Fatalf("Validate() error = %+v", got[0])
	}
}

func TestValidateNormalizedPhoneFailsPattern(t *testing.T) {
	form := contactForm()
	raw := map[string]any{
		"personalInfo": map[string]any{
			"firstName": "Kim",
			"lastName":  "Lee",
			"email":     "lee@x.com",
			"phone":     "abc-123",
		},
		"address": map[string]any{
			"street": "1 Main", "city": "X", "state": "CA", "zipCode": "94000",
		},
	}

	record := normalize.Record(raw, form)
	phone, _ := fieldpath.Lookup(record, fieldpath.Parse("personalInfo/phone"))
	if phone != "123" {
		t.Fatalf("normalized phone = %q, want %q", phone, "123")
	}

	got := rules.NewValidator(form).Validate(record)
	if len(got) != 1 {
		t.Fatalf("Validate() returned %d errors, want 1: %#v", len(got), got)
	}
	if got[0].Path.String() != "personalInfo/phone" || got[0].Message != "*Invalid Number" {
		t.Fatalf("Validate() error = %+v", got[0])
	}
}

func TestValidateConditionalRequired(t *testing.T) {
	validator := rules.NewValidator(productForm(), rules.WithRules(productRules()))

	record := map[string]any{
		"productInfo": map[string]any{
			"category":       "Electronics",
			"warrantyPeriod": "",
			"price":          float64(10),
			"inStock":        false,
			"quantity":       0,
		},
	}

	got := validator.Validate(record)
	if len(got) != 1 {
		t.Fatalf("Validate() returned %d errors, want 1: %#v", len(got), got)
	}
	if got[0].Path.String() != "productInfo/warrantyPeriod" || got[0].Message != "*Required for Electronics" {
		t.Fatalf("Validate() error = %+v", got[0])
	}

	record["productInfo"].(map[string]any)["category"] = "Furniture"
	if got := validator.Validate(record); len(got) != 0 {
		t.Fatalf("Validate() = %#v, want no errors when the condition does not hold", got)
	}
}

func TestValidateConditionalMinimum(t *testing.T) {
	validator := rules.NewValidator(productForm(), rules.WithRules(productRules()))

	record := map[string]any{
		"productInfo": map[string]any{
			"category":       "Furniture",
			"warrantyPeriod": "",
			"price":          float64(10),
			"inStock":        true,
			"quantity":       0,
		},
	}

	got := validator.Validate(record)
	if len(got) != 1 {
		t.Fatalf("Validate() returned %d errors, want 1: %#v", len(got), got)
	}
	if got[0].Path.String() != "productInfo/quantity" || got[0].Message != "*Required when in stock" {
		t.Fatalf("Validate() error = %+v", got[0])
	}
	if got[0].Kind != validation.KindRange {
		t.Fatalf("Validate() kind = %q, want range", got[0].Kind)
	}
}

func TestValidateFirstErrorWinsPerField(t *testing.T) {
	form := contactForm()
	record := map[string]any{
		"personalInfo": map[string]any{
			"firstName": "A",
			"lastName":  "",
			"email":     "not-an-email",
			"phone":     "5551234567",
		},
		"address": map[string]any{
			"street": "1 Main", "city": "X", "state": "CA", "zipCode": "94000",
		},
	}

	got := rules.NewValidator(form).Validate(record)
	if len(got) != 3 {
		t.Fatalf("Validate() returned %d errors, want 3: %#v", len(got), got)
	}

	byPath := map[string]validation.Error{}
	for _, err := range got {
		if _, dup := byPath[err.Path.String()]; dup {
			t.Fatalf("Validate() produced two errors for %q", err.Path)
		}
		byPath[err.Path.String()] = err
	}

	if err := byPath["personalInfo/firstName"]; err.Message != "*Must have at least 2 characters" {
		t.Fatalf("firstName error = %+v", err)
	}
	if err := byPath["personalInfo/lastName"]; err.Kind != validation.KindRequired {
		t.Fatalf("lastName error = %+v", err)
	}
	if err := byPath["personalInfo/email"]; err.Message != "*Invalid email format" {
		t.Fatalf("email error = %+v", err)
	}
}

func TestValidatePriceMinimum(t *testing.T) {
	validator := rules.NewValidator(productForm(), rules.WithRules(productRules()))

	record := map[string]any{
		"productInfo": map[string]any{
			"category":       "Furniture",
			"warrantyPeriod": "",
			"price":          float64(0),
			"inStock":        false,
			"quantity":       0,
		},
	}

	got := validator.Validate(record)
	if len(got) != 1 {
		t.Fatalf("Validate() returned %d errors, want 1: %#v", len(got), got)
	}
	if got[0].Path.String() != "productInfo/price" || got[0].Message != "*Must be at least $0.01" {
		t.Fatalf("Validate() error = %+v", got[0])
	}
}

func TestMessageFor(t *testing.T) {
	zip := model.Field{
		Name: "zipCode", Path: fieldpath.Parse("address/zipCode"), Kind: model.KindZip,
	}
	got := rules.MessageFor(zip, validation.Error{Keyword: "pattern", Kind: validation.KindPattern})
	if got != "*Invalid Zipcode" {
		t.Fatalf("MessageFor(zip pattern) = %q", got)
	}

	firstName := model.Field{
		Name: "firstName", Path: fieldpath.Parse("personalInfo/firstName"), Kind: model.KindString,
		Constraints: schema.Constraints{MinLength: intPtr(2)},
	}
	got = rules.MessageFor(firstName, validation.Error{Keyword: "minLength", Kind: validation.KindLength})
	if got != "*Must have at least 2 characters" {
		t.Fatalf("MessageFor(minLength) = %q", got)
	}

	got = rules.MessageFor(firstName, validation.Error{Keyword: "contains", Kind: validation.KindUnknown})
	if got != "*Invalid value" {
		t.Fatalf("MessageFor(unknown) = %q", got)
	}
}
