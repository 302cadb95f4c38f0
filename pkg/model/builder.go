package model

import (
	internalmodel "github.com/goliatone/go-formstate/internal/model"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/uischema"
)

// Builder flattens schema documents into form models.
type Builder interface {
	Build(form schema.Form) (FormModel, error)
}

// BuilderOption configures the builder behaviour.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	labeler func(string) string
	layout  *uischema.Element
}

// WithLabeler overrides the default label generation function.
func WithLabeler(labeler func(string) string) BuilderOption {
	return func(opts *builderOptions) {
		opts.labeler = labeler
	}
}

// WithLayout orders and decorates fields using the supplied layout instead of
// the schema's own property order.
func WithLayout(layout uischema.Element) BuilderOption {
	return func(opts *builderOptions) {
		opts.layout = &layout
	}
}

// NewBuilder returns a Builder backed by the internal implementation.
func NewBuilder(options ...BuilderOption) Builder {
	cfg := builderOptions{}
	for _, opt := range options {
		opt(&cfg)
	}

	internalOpts := internalmodel.Options{Layout: cfg.layout}
	if cfg.labeler != nil {
		internalOpts.Labeler = cfg.labeler
	}

	return internalmodel.New(internalOpts)
}
