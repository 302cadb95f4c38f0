// Package jsonschema converts raw JSON Schema documents into the canonical
// schema tree and applies the one-time enhancement pass that injects extra
// constraints and curated error messages at form initialisation.
package jsonschema

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/goliatone/go-formstate/pkg/schema"
)

const errorMessageKey = "errorMessage"

var supportedSchemaKeys = map[string]struct{}{
	"$schema":          {},
	"$id":              {},
	"type":             {},
	"properties":       {},
	"required":         {},
	"items":            {},
	"enum":             {},
	"const":            {},
	"title":            {},
	"description":      {},
	"default":          {},
	"readOnly":         {},
	"minimum":          {},
	"maximum":          {},
	"exclusiveMinimum": {},
	"exclusiveMaximum": {},
	"minLength":        {},
	"maxLength":        {},
	"pattern":          {},
	"format":           {},
	errorMessageKey:    {},
}

var allowedTypes = map[string]struct{}{
	"object":  {},
	"array":   {},
	"string":  {},
	"number":  {},
	"integer": {},
	"boolean": {},
	"null":    {},
}

// schemaFromJSONSchema converts a decoded JSON Schema payload into the
// canonical schema tree, rejecting keywords the engine cannot evaluate.
func schemaFromJSONSchema(node any, path string) (schema.Schema, error) {
	if node == nil {
		return schema.Schema{}, fmt.Errorf("jsonschema: schema is nil at %s", path)
	}
	payload, ok := node.(map[string]any)
	if !ok {
		return schema.Schema{}, fmt.Errorf("jsonschema: schema must be an object at %s", path)
	}

	if err := validateKeywords(payload, path); err != nil {
		return schema.Schema{}, err
	}

	out := schema.Schema{
		Type:        strings.TrimSpace(readString(payload, "type")),
		Title:       strings.TrimSpace(readString(payload, "title")),
		Description: strings.TrimSpace(readString(payload, "description")),
		Default:     payload["default"],
		Const:       payload["const"],
		Format:      strings.TrimSpace(readString(payload, "format")),
	}

	if out.Type != "" {
		if _, ok := allowedTypes[out.Type]; !ok {
			return schema.Schema{}, fmt.Errorf("jsonschema: unsupported type %q at %s", out.Type, path)
		}
	}

	if enumRaw, ok := payload["enum"]; ok {
		enumList, ok := enumRaw.([]any)
		if !ok {
			return schema.Schema{}, fmt.Errorf("jsonschema: enum must be an array at %s", path)
		}
		out.Enum = append([]any(nil), enumList...)
	}

	if requiredRaw, ok := payload["required"]; ok {
		list, ok := requiredRaw.([]any)
		if !ok {
			return schema.Schema{}, fmt.Errorf("jsonschema: required must be an array at %s", path)
		}
		required := make([]string, 0, len(list))
		for idx, item := range list {
			str, ok := item.(string)
			if !ok || strings.TrimSpace(str) == "" {
				return schema.Schema{}, fmt.Errorf("jsonschema: required[%d] must be a string at %s", idx, path)
			}
			required = append(required, str)
		}
		out.Required = required
	}

	if minRaw, ok := payload["minimum"]; ok {
		value, ok := toFloat(minRaw)
		if !ok {
			return schema.Schema{}, fmt.Errorf("jsonschema: minimum must be a number at %s", path)
		}
		out.Minimum = &value
	}

	if maxRaw, ok := payload["maximum"]; ok {
		value, ok := toFloat(maxRaw)
		if !ok {
			return schema.Schema{}, fmt.Errorf("jsonschema: maximum must be a number at %s", path)
		}
		out.Maximum = &value
	}

	if exclusiveMinRaw, ok := payload["exclusiveMinimum"]; ok {
		switch value := exclusiveMinRaw.(type) {
		case bool:
			out.ExclusiveMinimum = value
		default:
			number, ok := toFloat(exclusiveMinRaw)
			if !ok {
				return schema.Schema{}, fmt.Errorf("jsonschema: exclusiveMinimum must be a number at %s", path)
			}
			if out.Minimum != nil {
				return schema.Schema{}, fmt.Errorf("jsonschema: minimum conflicts with exclusiveMinimum at %s", path)
			}
			out.Minimum = &number
			out.ExclusiveMinimum = true
		}
	}

	if exclusiveMaxRaw, ok := payload["exclusiveMaximum"]; ok {
		switch value := exclusiveMaxRaw.(type) {
		case bool:
			out.ExclusiveMaximum = value
		default:
			number, ok := toFloat(exclusiveMaxRaw)
			if !ok {
				return schema.Schema{}, fmt.Errorf("jsonschema: exclusiveMaximum must be a number at %s", path)
			}
			if out.Maximum != nil {
				return schema.Schema{}, fmt.Errorf("jsonschema: maximum conflicts with exclusiveMaximum at %s", path)
			}
			out.Maximum = &number
			out.ExclusiveMaximum = true
		}
	}

	if minLenRaw, ok := payload["minLength"]; ok {
		value, ok := toInt(minLenRaw)
		if !ok {
			return schema.Schema{}, fmt.Errorf("jsonschema: minLength must be an integer at %s", path)
		}
		out.MinLength = &value
	}

	if maxLenRaw, ok := payload["maxLength"]; ok {
		value, ok := toInt(maxLenRaw)
		if !ok {
			return schema.Schema{}, fmt.Errorf("jsonschema: maxLength must be an integer at %s", path)
		}
		out.MaxLength = &value
	}

	if patternRaw, ok := payload["pattern"]; ok {
		pattern, ok := patternRaw.(string)
		if !ok {
			return schema.Schema{}, fmt.Errorf("jsonschema: pattern must be a string at %s", path)
		}
		out.Pattern = pattern
	}

	if messagesRaw, ok := payload[errorMessageKey]; ok {
		messages, err := readErrorMessages(messagesRaw, path)
		if err != nil {
			return schema.Schema{}, err
		}
		out.ErrorMessages = messages
	}

	if propertiesRaw, ok := payload["properties"]; ok {
		props, ok := propertiesRaw.(map[string]any)
		if !ok {
			return schema.Schema{}, fmt.Errorf("jsonschema: properties must be an object at %s", path)
		}
		out.Properties = make(map[string]schema.Schema, len(props))
		for _, key := range sortedKeys(props) {
			converted, err := schemaFromJSONSchema(props[key], joinPath(path, "properties", key))
			if err != nil {
				return schema.Schema{}, err
			}
			out.Properties[key] = converted
		}
	}

	if itemsRaw, ok := payload["items"]; ok {
		switch typed := itemsRaw.(type) {
		case map[string]any:
			converted, err := schemaFromJSONSchema(typed, joinPath(path, "items"))
			if err != nil {
				return schema.Schema{}, err
			}
			out.Items = &converted
		case []any:
			return schema.Schema{}, fmt.Errorf("jsonschema: tuple items are not supported at %s", path)
		default:
			return schema.Schema{}, fmt.Errorf("jsonschema: items must be an object at %s", path)
		}
	}

	return out, nil
}

func validateKeywords(payload map[string]any, path string) error {
	for key := range payload {
		if strings.HasPrefix(key, "x-") {
			continue
		}
		if _, ok := supportedSchemaKeys[key]; !ok {
			return fmt.Errorf("jsonschema: unsupported keyword %q at %s", key, path)
		}
	}
	return nil
}

func readErrorMessages(raw any, path string) (map[string]string, error) {
	payload, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("jsonschema: %s must be an object at %s", errorMessageKey, path)
	}
	out := make(map[string]string, len(payload))
	for keyword, value := range payload {
		message, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("jsonschema: %s.%s must be a string at %s", errorMessageKey, keyword, path)
		}
		out[keyword] = message
	}
	return out, nil
}

func readString(payload map[string]any, key string) string {
	if payload == nil {
		return ""
	}
	str, _ := payload[key].(string)
	return str
}

func toFloat(raw any) (float64, bool) {
	switch value := raw.(type) {
	case float64:
		return value, true
	case float32:
		return float64(value), true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	case uint64:
		return float64(value), true
	default:
		return 0, false
	}
}

func toInt(raw any) (int, bool) {
	switch value := raw.(type) {
	case int:
		return value, true
	case int64:
		return int(value), true
	case float64:
		if value != math.Trunc(value) {
			return 0, false
		}
		return int(value), true
	default:
		return 0, false
	}
}

func sortedKeys(payload map[string]any) []string {
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func joinPath(parts ...string) string {
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		cleaned = append(cleaned, part)
	}
	if len(cleaned) == 0 {
		return "#"
	}
	return strings.Join(cleaned, "/")
}
