package openapi

import "context"

// Parser lists the submitting operations of a document, keyed by
// operationId.
type Parser interface {
	Operations(ctx context.Context, doc Document) (map[string]Operation, error)
}

// ParserOptions toggles parser strictness.
type ParserOptions struct {
	// ResolveReferences follows external $refs and validates the document.
	ResolveReferences bool
	// AllowPartialDocuments accepts documents without submitting operations.
	AllowPartialDocuments bool
}

type ParserOption func(*ParserOptions)

func WithReferenceResolution(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.ResolveReferences = enabled
	}
}

func WithPartialDocuments(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.AllowPartialDocuments = enabled
	}
}

// NewParserOptions starts from strict defaults: references resolved, at
// least one operation required.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{ResolveReferences: true}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
