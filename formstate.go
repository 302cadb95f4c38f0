// Package formstate turns JSON Schema documents into live form state: a
// normalized record store, rule-plus-schema validation with curated
// messages, a submission state machine, and per-field error presentation.
//
// The root package is a thin facade over pkg/engine; advanced callers can
// import the subpackages directly.
package formstate

import (
	"context"
	"io/fs"
	"time"

	"github.com/goliatone/go-formstate/pkg/engine"
	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/jsonschema"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/openapi"
	"github.com/goliatone/go-formstate/pkg/rules"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/store"
	"github.com/goliatone/go-formstate/pkg/submit"
	"github.com/goliatone/go-formstate/pkg/validation"
	"github.com/goliatone/go-formstate/pkg/visibility"
)

// Engine opens forms; construct one with New.
type Engine = engine.Engine

// Form is one live form produced by Engine.Open.
type Form = engine.Form

// Request describes the inputs required to open one form.
type Request = engine.Request

// Option customises the engine configuration.
type Option = engine.Option

// Field aliases the flattened field model.
type Field = model.Field

// FormModel aliases the flattened field table.
type FormModel = model.FormModel

// FieldState is the presentation snapshot a field controller reports.
type FieldState = field.State

// Snapshot is one immutable view of a form's record store.
type Snapshot = store.Snapshot

// Error is one validation finding addressed by field path.
type Error = validation.Error

// Rule is one conditional requirement checked on submission.
type Rule = rules.Rule

// Enhancement patches constraints, messages, and required lists onto a
// schema before anything else reads it.
type Enhancement = jsonschema.Enhancement

// ConstraintPatch carries the constraint overrides of an Enhancement.
type ConstraintPatch = jsonschema.ConstraintPatch

// SubmissionState enumerates the submission lifecycle.
type SubmissionState = submit.State

// Submission lifecycle states.
const (
	StateIdle             = submit.StateIdle
	StateSubmitting       = submit.StateSubmitting
	StateValidatedValid   = submit.StateValidatedValid
	StateValidatedInvalid = submit.StateValidatedInvalid
)

// New constructs an Engine applying any provided options.
func New(options ...Option) *Engine {
	return engine.New(options...)
}

// Open loads the schema from the source and opens the form in a single call.
// It is the simplest entry point for callers with a schema file on disk.
func Open(ctx context.Context, source schema.Source, formID string, options ...Option) (*Form, error) {
	return engine.New(options...).Open(ctx, Request{
		Source: source,
		FormID: formID,
	})
}

// OpenOperation opens a form for the request body of an OpenAPI operation.
// The operation id becomes the form id, its summary the form title.
func OpenOperation(ctx context.Context, document []byte, operationID string, options ...Option) (*Form, error) {
	form, err := openapi.New(openapi.Options{}).RequestForm(ctx, document, operationID)
	if err != nil {
		return nil, err
	}
	return engine.New(options...).Open(ctx, Request{
		Schema:      &form.Schema,
		FormID:      form.ID,
		Title:       form.Title,
		Description: form.Description,
	})
}

// SourceFromFile addresses a schema document on the local filesystem.
func SourceFromFile(path string) schema.Source {
	return schema.SourceFromFile(path)
}

// SourceFromFS addresses a schema document inside the loader's fs.FS.
func SourceFromFS(name string) schema.Source {
	return schema.SourceFromFS(name)
}

// SourceFromURL addresses a schema document fetched over HTTP.
func SourceFromURL(raw string) schema.Source {
	return schema.SourceFromURL(raw)
}

// WithLoader injects a custom schema document loader.
func WithLoader(loader *jsonschema.Loader) Option {
	return engine.WithLoader(loader)
}

// WithLayoutFS supplies an fs.FS holding layout documents.
func WithLayoutFS(fsys fs.FS) Option {
	return engine.WithLayoutFS(fsys)
}

// WithEvaluator overrides the expression evaluator used by conditional
// rules.
func WithEvaluator(eval visibility.Evaluator) Option {
	return engine.WithEvaluator(eval)
}

// WithScheduler overrides the timer implementation used for the success
// auto-reset and the attention flag.
func WithScheduler(scheduler submit.Scheduler) Option {
	return engine.WithScheduler(scheduler)
}

// WithResetDelay overrides how long the success indicator shows before the
// form resets itself.
func WithResetDelay(delay time.Duration) Option {
	return engine.WithResetDelay(delay)
}

// WithAttentionDelay overrides how long a field's attention flag stays up.
func WithAttentionDelay(delay time.Duration) Option {
	return engine.WithAttentionDelay(delay)
}

// WithLabeler overrides the label generation applied to fields without a
// schema title or layout label.
func WithLabeler(labeler func(string) string) Option {
	return engine.WithLabeler(labeler)
}

// WithExternalValidator replaces the default schema validator factory.
func WithExternalValidator(factory engine.ExternalFactory) Option {
	return engine.WithExternalValidator(factory)
}

// WithoutSchemaValidation disables the external schema validator entirely.
func WithoutSchemaValidation() Option {
	return engine.WithoutSchemaValidation()
}
