// Package openapi extracts form schemas from OpenAPI 3 documents so a form
// can be opened for an operation's request body instead of a standalone
// schema file.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formstate/pkg/schema"
)

// errorMessagesExtension carries per-keyword message overrides on a schema
// node, mirroring the errorMessage keyword of plain schema documents.
const errorMessagesExtension = "x-error-messages"

// mediaTypePreference orders the request body media types we know how to
// turn into forms.
var mediaTypePreference = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// Options configures the adapter.
type Options struct {
	// ResolveReferences validates the document and resolves $ref targets
	// before extraction.
	ResolveReferences bool
}

// Adapter loads OpenAPI documents and extracts request-body schemas.
type Adapter struct {
	options Options
}

// New constructs an Adapter with the given options.
func New(options Options) *Adapter {
	return &Adapter{options: options}
}

// RequestForm extracts the request-body schema of the named operation and
// wraps it as a form keyed by the operation id. The operation summary and
// description carry over as the form title and description.
func (a *Adapter) RequestForm(ctx context.Context, raw []byte, operationID string) (schema.Form, error) {
	if err := ctx.Err(); err != nil {
		return schema.Form{}, err
	}
	if len(raw) == 0 {
		return schema.Form{}, errors.New("openapi adapter: document payload is empty")
	}
	if operationID == "" {
		return schema.Form{}, errors.New("openapi adapter: operation id is required")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: a.options.ResolveReferences,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return schema.Form{}, fmt.Errorf("openapi adapter: load document: %w", err)
	}
	if a.options.ResolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return schema.Form{}, fmt.Errorf("openapi adapter: validate: %w", err)
		}
	}

	operation, ok := findOperation(spec, operationID)
	if !ok {
		return schema.Form{}, fmt.Errorf("openapi adapter: operation %q not found", operationID)
	}

	root, err := requestSchema(operation)
	if err != nil {
		return schema.Form{}, fmt.Errorf("openapi adapter: operation %q: %w", operationID, err)
	}

	return schema.Form{
		ID:          operationID,
		Title:       operation.Summary,
		Description: operation.Description,
		Schema:      root,
	}, nil
}

func findOperation(spec *openapi3.T, operationID string) (*openapi3.Operation, bool) {
	if spec.Paths == nil {
		return nil, false
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range item.Operations() {
			if operation != nil && operation.OperationID == operationID {
				return operation, true
			}
		}
	}
	return nil, false
}

func requestSchema(operation *openapi3.Operation) (schema.Schema, error) {
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return schema.Schema{}, errors.New("no request body")
	}
	content := operation.RequestBody.Value.Content
	for _, mediaType := range mediaTypePreference {
		if mt, ok := content[mediaType]; ok {
			return convertSchema(mt.Schema), nil
		}
	}
	for _, mt := range content {
		return convertSchema(mt.Schema), nil
	}
	return schema.Schema{}, errors.New("request body has no content")
}

func convertSchema(ref *openapi3.SchemaRef) schema.Schema {
	if ref == nil || ref.Value == nil {
		return schema.Schema{}
	}
	src := ref.Value

	out := schema.Schema{
		Type:        firstSchemaType(src.Type),
		Format:      src.Format,
		Title:       src.Title,
		Description: src.Description,
		Default:     src.Default,
		Pattern:     src.Pattern,
	}

	if len(src.Required) > 0 {
		out.Required = append([]string(nil), src.Required...)
	}
	if len(src.Enum) > 0 {
		out.Enum = append([]any(nil), src.Enum...)
	}
	if len(src.Properties) > 0 {
		out.Properties = make(map[string]schema.Schema, len(src.Properties))
		for name, property := range src.Properties {
			out.Properties[name] = convertSchema(property)
		}
	}
	if src.Items != nil {
		items := convertSchema(src.Items)
		out.Items = &items
	}
	if src.Min != nil {
		value := *src.Min
		out.Minimum = &value
	}
	if src.Max != nil {
		value := *src.Max
		out.Maximum = &value
	}
	out.ExclusiveMinimum = src.ExclusiveMin
	out.ExclusiveMaximum = src.ExclusiveMax
	if src.MinLength != 0 {
		value := int(src.MinLength)
		out.MinLength = &value
	}
	if src.MaxLength != nil {
		value := int(*src.MaxLength)
		out.MaxLength = &value
	}
	out.ErrorMessages = extractErrorMessages(src.Extensions)
	return out
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	default:
		return strings.Join(values, ",")
	}
}

func extractErrorMessages(extensions map[string]any) map[string]string {
	raw, ok := extensions[errorMessagesExtension].(map[string]any)
	if !ok || len(raw) == 0 {
		return nil
	}
	out := make(map[string]string, len(raw))
	for keyword, value := range raw {
		if message, ok := value.(string); ok && message != "" {
			out[keyword] = message
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
