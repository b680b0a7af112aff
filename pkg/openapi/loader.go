package openapi

import (
	"context"
	"io/fs"
	"net/http"
	"time"
)

// Loader reads the document a Source points at.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// LoaderOptions configures a Loader. URL sources are refused unless
// HTTPClient is set or AllowHTTPFallback is true.
type LoaderOptions struct {
	// FileSystem serves SourceFromFS names.
	FileSystem fs.FS
	// HTTPClient fetches SourceFromURL documents.
	HTTPClient *http.Client
	// AllowHTTPFallback uses a plain client when HTTPClient is nil.
	AllowHTTPFallback bool
	// RequestTimeout bounds each fetch. Zero leaves it to ctx.
	RequestTimeout time.Duration
}

type LoaderOption func(*LoaderOptions)

func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.FileSystem = files
	}
}

func WithHTTPClient(client *http.Client) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.HTTPClient = client
	}
}

// WithHTTPFallback allows URL sources with a default client bounded by
// timeout.
func WithHTTPFallback(timeout time.Duration) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.AllowHTTPFallback = true
		opts.RequestTimeout = timeout
	}
}

// WithDefaultSources allows URL sources unless a client was injected.
func WithDefaultSources() LoaderOption {
	return func(opts *LoaderOptions) {
		if opts.HTTPClient == nil {
			opts.AllowHTTPFallback = true
		}
	}
}

func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	var cfg LoaderOptions
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
