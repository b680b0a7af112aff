package model

import (
	"github.com/goliatone/go-contactform/internal/model"
	pkgopenapi "github.com/goliatone/go-contactform/pkg/openapi"
)

// Builder converts OpenAPI operations into form models.
type Builder interface {
	Build(op pkgopenapi.Operation) (FormModel, error)
}

// BuilderOption configures the builder behaviour.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	labeler func(string) string
	formID  string
}

// WithLabeler overrides the default label generation function.
func WithLabeler(labeler func(string) string) BuilderOption {
	return func(opts *builderOptions) {
		opts.labeler = labeler
	}
}

// WithFormID names the produced form instead of reusing the operation id.
func WithFormID(id string) BuilderOption {
	return func(opts *builderOptions) {
		opts.formID = id
	}
}

// NewBuilder returns a Builder backed by the internal implementation.
func NewBuilder(options ...BuilderOption) Builder {
	cfg := builderOptions{}
	for _, opt := range options {
		opt(&cfg)
	}

	return model.New(model.Options{
		Labeler: cfg.labeler,
		FormID:  cfg.formID,
	})
}
