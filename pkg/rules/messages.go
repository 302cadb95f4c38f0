package rules

import (
	"fmt"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Message selection order: the schema's errorMessage override for the
// keyword, then the path-driven table for pattern failures, then the generic
// text for the keyword.

func requiredMessage(field model.Field) string {
	if msg := field.Constraints.Message("required"); msg != "" {
		return msg
	}
	return "*Required"
}

func minLengthMessage(field model.Field, limit int) string {
	if msg := field.Constraints.Message("minLength"); msg != "" {
		return msg
	}
	return fmt.Sprintf("*Must have at least %d characters", limit)
}

func maxLengthMessage(field model.Field, limit int) string {
	if msg := field.Constraints.Message("maxLength"); msg != "" {
		return msg
	}
	return fmt.Sprintf("*Maximum %d characters allowed", limit)
}

func rangeMessage(field model.Field) string {
	if msg := field.Constraints.Message("minimum"); msg != "" {
		return msg
	}
	if msg := field.Constraints.Message("maximum"); msg != "" {
		return msg
	}
	return "*Invalid value"
}

// patternMessage resolves format-failure text by inspecting the field path,
// so a phone-shaped field reads "*Invalid Number" wherever it lives in the
// record rather than whatever the regex engine reports.
func patternMessage(field model.Field) string {
	if msg := field.Constraints.Message("pattern"); msg != "" {
		return msg
	}
	if msg := field.Constraints.Message("format"); msg != "" {
		return msg
	}
	switch {
	case field.Kind == model.KindEmail || field.Path.ContainsSegment("email"):
		return "*Invalid email format"
	case field.Kind == model.KindPhone || field.Path.ContainsSegment("phone"):
		return "*Invalid Number"
	case field.Kind == model.KindZip || field.Path.ContainsSegment("zip"):
		return "*Invalid Zipcode"
	default:
		return "*Invalid format"
	}
}

// MessageFor rewrites an external validator error with the curated text a
// field would surface for the same failure. Field controllers apply it to
// external errors before display so both sources read the same.
func MessageFor(field model.Field, err validation.Error) string {
	switch err.Kind {
	case validation.KindRequired:
		return requiredMessage(field)
	case validation.KindLength:
		if err.Keyword == "maxLength" && field.Constraints.MaxLength != nil {
			return maxLengthMessage(field, *field.Constraints.MaxLength)
		}
		if field.Constraints.MinLength != nil {
			return minLengthMessage(field, *field.Constraints.MinLength)
		}
		return "*Invalid value"
	case validation.KindRange:
		return rangeMessage(field)
	case validation.KindPattern:
		return patternMessage(field)
	default:
		return "*Invalid value"
	}
}
