// Package normalize turns raw form input into the canonical record the
// validators run against. Normalization is a pure, total function: malformed
// input coerces to a safe default instead of failing, and applying it twice
// yields the same record as applying it once.
package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-formstate/pkg/fieldpath"
	"github.com/goliatone/go-formstate/pkg/model"
)

// SubmittedKey is the reserved record key marking "submission attempted".
// It coerces to a strict boolean and must never surface as a field error.
const SubmittedKey = "_formSubmitted"

// SubmittedPath is SubmittedKey as a parsed field path.
var SubmittedPath = fieldpath.Path{SubmittedKey}

// Record maps the raw record onto the form's canonical shape. Every field in
// the model is present in the output; keys the model does not know are
// dropped. The reserved submission flag is carried over as a strict bool.
func Record(raw map[string]any, form model.FormModel) map[string]any {
	out := make(map[string]any)
	for _, field := range form.Fields {
		value, _ := fieldpath.Lookup(raw, field.Path)
		fieldpath.Set(out, field.Path, Value(value, field))
	}
	out[SubmittedKey] = raw[SubmittedKey] == true
	return out
}

// Value coerces one raw value according to the field's kind.
func Value(raw any, field model.Field) any {
	switch field.Kind {
	case model.KindEmail:
		return strings.ToLower(strings.TrimSpace(asString(raw)))
	case model.KindPhone, model.KindZip:
		return stripNonDigits(asString(raw))
	case model.KindState:
		return strings.ToUpper(strings.TrimSpace(asString(raw)))
	case model.KindNumber:
		return asNumber(raw)
	case model.KindInteger:
		return asInteger(raw)
	case model.KindBoolean:
		return truthy(raw)
	default:
		return strings.TrimSpace(asString(raw))
	}
}

func asString(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

// asNumber parses a float and clamps negatives to zero. Values that do not
// parse become nil so requiredness can still detect them as absent.
func asNumber(raw any) any {
	var parsed float64
	switch v := raw.(type) {
	case float64:
		parsed = v
	case float32:
		parsed = float64(v)
	case int:
		parsed = float64(v)
	case int64:
		parsed = float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		parsed = f
	default:
		return nil
	}
	if math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return nil
	}
	if parsed < 0 {
		return float64(0)
	}
	return parsed
}

// asInteger parses an int and clamps negatives to zero. Values that do not
// parse become 0.
func asInteger(raw any) int {
	var parsed int
	switch v := raw.(type) {
	case int:
		parsed = v
	case int64:
		parsed = int(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		parsed = int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			f, ferr := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if ferr != nil {
				return 0
			}
			parsed = int(f)
		} else {
			parsed = n
		}
	default:
		return 0
	}
	if parsed < 0 {
		return 0
	}
	return parsed
}

func stripNonDigits(input string) string {
	var out strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			out.WriteRune(r)
		}
	}
	return out.String()
}

func truthy(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	default:
		return false
	}
}
