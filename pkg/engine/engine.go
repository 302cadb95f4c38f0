// Package engine coordinates the full pipeline from a schema document to a
// live form: load, parse, enhance, build the field table, then wire the
// store, validators, submission machine, and per-field controllers together.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/jsonschema"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/normalize"
	"github.com/goliatone/go-formstate/pkg/rules"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/store"
	"github.com/goliatone/go-formstate/pkg/submit"
	"github.com/goliatone/go-formstate/pkg/uischema"
	"github.com/goliatone/go-formstate/pkg/validation"
	schemaval "github.com/goliatone/go-formstate/pkg/validation/jsonschema"
	"github.com/goliatone/go-formstate/pkg/visibility"
)

// ExternalFactory builds the schema-driven validator consulted alongside the
// rule validator on every submission.
type ExternalFactory func(root schema.Schema) (validation.Validator, error)

// Option customises the engine configuration.
type Option func(*Engine)

// WithLoader injects a custom schema document loader.
func WithLoader(loader *jsonschema.Loader) Option {
	return func(e *Engine) {
		e.loader = loader
	}
}

// WithLayoutFS supplies an fs.FS holding layout documents. Layouts are keyed
// by file name without extension.
func WithLayoutFS(fsys fs.FS) Option {
	return func(e *Engine) {
		e.layouts, e.layoutErr = uischema.LoadFS(fsys)
	}
}

// WithEvaluator overrides the expression evaluator used by conditional rules.
func WithEvaluator(eval visibility.Evaluator) Option {
	return func(e *Engine) {
		e.evaluator = eval
	}
}

// WithScheduler overrides the timer implementation used for the success
// auto-reset and the attention flag. Tests inject a manual scheduler.
func WithScheduler(scheduler submit.Scheduler) Option {
	return func(e *Engine) {
		e.scheduler = scheduler
	}
}

// WithResetDelay overrides how long the success indicator shows before the
// form resets itself.
func WithResetDelay(delay time.Duration) Option {
	return func(e *Engine) {
		e.resetDelay = delay
	}
}

// WithAttentionDelay overrides how long a field's attention flag stays up.
func WithAttentionDelay(delay time.Duration) Option {
	return func(e *Engine) {
		e.attentionDelay = delay
	}
}

// WithLabeler overrides the label generation applied to fields without a
// schema title or layout label.
func WithLabeler(labeler func(string) string) Option {
	return func(e *Engine) {
		e.labeler = labeler
	}
}

// WithExternalValidator replaces the default schema validator factory.
func WithExternalValidator(factory ExternalFactory) Option {
	return func(e *Engine) {
		e.external = factory
	}
}

// WithoutSchemaValidation disables the external schema validator entirely;
// submissions then rely on the rule validator alone.
func WithoutSchemaValidation() Option {
	return func(e *Engine) {
		e.external = nil
	}
}

// Engine opens forms. One engine can serve many forms; per-form inputs travel
// in the Request.
type Engine struct {
	loader         *jsonschema.Loader
	layouts        *uischema.Store
	layoutErr      error
	evaluator      visibility.Evaluator
	scheduler      submit.Scheduler
	resetDelay     time.Duration
	attentionDelay time.Duration
	labeler        func(string) string
	external       ExternalFactory
}

// New constructs an Engine applying any provided options. Missing
// dependencies are initialised with the built-in implementations.
func New(options ...Option) *Engine {
	e := &Engine{
		loader:         jsonschema.NewLoader(jsonschema.LoaderOptions{}),
		scheduler:      submit.AfterFunc,
		resetDelay:     submit.DefaultResetDelay,
		attentionDelay: field.DefaultAttentionDelay,
		external: func(root schema.Schema) (validation.Validator, error) {
			return schemaval.New(root)
		},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// Request describes the inputs required to open one form.
type Request struct {
	// Source identifies where the schema document lives. Optional when Schema
	// is supplied.
	Source schema.Source

	// Schema allows callers to bypass the loader when they already hold a
	// parsed tree.
	Schema *schema.Schema

	// FormID names the form. Required.
	FormID string

	// Title and Description decorate the form model.
	Title       string
	Description string

	// Layout selects a layout by id from the engine's layout store. Empty
	// falls back to a layout named after FormID, if one exists.
	Layout string

	// Enhancements patch constraints, messages, and required lists onto the
	// schema before anything else reads it.
	Enhancements []jsonschema.Enhancement

	// Rules are the conditional requirements checked on submission.
	Rules []rules.Rule
}

// Open runs the pipeline and returns a live Form.
func (e *Engine) Open(ctx context.Context, req Request) (*Form, error) {
	if ctx == nil {
		return nil, errors.New("engine: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.FormID == "" {
		return nil, errors.New("engine: form id is required")
	}
	if e.layoutErr != nil {
		return nil, fmt.Errorf("engine: layouts: %w", e.layoutErr)
	}

	root, err := e.resolveSchema(ctx, req)
	if err != nil {
		return nil, err
	}

	root, err = jsonschema.Enhance(root, req.Enhancements)
	if err != nil {
		return nil, fmt.Errorf("engine: enhance schema: %w", err)
	}

	layout, haveLayout, err := e.resolveLayout(req)
	if err != nil {
		return nil, err
	}

	builderOpts := []model.BuilderOption{}
	if e.labeler != nil {
		builderOpts = append(builderOpts, model.WithLabeler(e.labeler))
	}
	if haveLayout {
		builderOpts = append(builderOpts, model.WithLayout(layout))
	}

	formModel, err := model.NewBuilder(builderOpts...).Build(schema.Form{
		ID:          req.FormID,
		Title:       req.Title,
		Description: req.Description,
		Schema:      root,
	})
	if err != nil {
		return nil, fmt.Errorf("engine: build form model: %w", err)
	}

	var external validation.Validator
	if e.external != nil {
		external, err = e.external(root)
		if err != nil {
			return nil, fmt.Errorf("engine: schema validator: %w", err)
		}
	}

	ruleOpts := []rules.Option{rules.WithRules(req.Rules)}
	if e.evaluator != nil {
		ruleOpts = append(ruleOpts, rules.WithEvaluator(e.evaluator))
	}
	validator := rules.NewValidator(formModel, ruleOpts...)

	st := store.New(normalize.Record(formModel.InitialRecord(), formModel))

	frm := &Form{
		model:     formModel,
		store:     st,
		validator: validator,
		external:  external,
		fields:    make(map[string]*field.Controller, len(formModel.Fields)),
	}

	machineOpts := []submit.Option{
		submit.WithScheduler(e.scheduler),
		submit.WithResetDelay(e.resetDelay),
		submit.WithOnReset(frm.resetFields),
	}
	if external != nil {
		machineOpts = append(machineOpts, submit.WithExternal(external))
	}
	frm.machine = submit.NewMachine(st, formModel, validator, machineOpts...)

	controls := map[string]uischema.Control{}
	if haveLayout {
		for _, control := range layout.Controls() {
			controls[control.Path.String()] = control
		}
	}
	for _, f := range formModel.Fields {
		opts := []field.Option{
			field.WithScheduler(e.scheduler),
			field.WithAttentionDelay(e.attentionDelay),
		}
		if control, ok := controls[f.Path.String()]; ok {
			opts = append(opts, field.WithControl(control))
		}
		ctrl := field.NewController(st, f, opts...)
		frm.fields[f.Path.String()] = ctrl
		frm.order = append(frm.order, ctrl)
	}

	return frm, nil
}

func (e *Engine) resolveSchema(ctx context.Context, req Request) (schema.Schema, error) {
	if req.Schema != nil {
		return *req.Schema, nil
	}
	if req.Source == nil {
		return schema.Schema{}, errors.New("engine: source or schema is required")
	}
	doc, err := e.loader.Load(ctx, req.Source)
	if err != nil {
		return schema.Schema{}, fmt.Errorf("engine: load document: %w", err)
	}
	root, err := jsonschema.Parse(doc)
	if err != nil {
		return schema.Schema{}, fmt.Errorf("engine: parse document: %w", err)
	}
	return root, nil
}

func (e *Engine) resolveLayout(req Request) (uischema.Element, bool, error) {
	if e.layouts == nil {
		if req.Layout != "" {
			return uischema.Element{}, false, fmt.Errorf("engine: layout %q requested but no layouts configured", req.Layout)
		}
		return uischema.Element{}, false, nil
	}
	if req.Layout != "" {
		layout, ok := e.layouts.Layout(req.Layout)
		if !ok {
			return uischema.Element{}, false, fmt.Errorf("engine: layout %q not found", req.Layout)
		}
		return layout, true, nil
	}
	if layout, ok := e.layouts.Layout(req.FormID); ok {
		return layout, true, nil
	}
	return uischema.Element{}, false, nil
}
