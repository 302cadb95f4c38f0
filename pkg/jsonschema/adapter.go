package jsonschema

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/schema"
)

// Parse converts a raw JSON Schema document into the canonical schema tree.
// JSON is attempted first, then YAML, matching how UI schema documents load.
func Parse(doc schema.Document) (schema.Schema, error) {
	payload, err := decodeDocument(doc.Raw(), doc.Location())
	if err != nil {
		return schema.Schema{}, err
	}
	return schemaFromJSONSchema(payload, "#")
}

// ParseBytes converts a raw payload without source metadata. Useful for
// fixtures and the CLI.
func ParseBytes(raw []byte) (schema.Schema, error) {
	payload, err := decodeDocument(raw, "")
	if err != nil {
		return schema.Schema{}, err
	}
	return schemaFromJSONSchema(payload, "#")
}

func decodeDocument(raw []byte, location string) (map[string]any, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, fmt.Errorf("jsonschema: document %s is empty", describeLocation(location))
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err == nil {
		return payload, nil
	}
	if err := yaml.Unmarshal(raw, &payload); err == nil {
		return payload, nil
	}
	return nil, fmt.Errorf("jsonschema: document %s is not valid JSON or YAML", describeLocation(location))
}

func describeLocation(location string) string {
	if strings.TrimSpace(location) == "" {
		return "(inline)"
	}
	return location
}
