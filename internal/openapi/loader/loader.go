// Package loader reads OpenAPI documents from disk, an fs.FS or HTTP.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"

	pkgopenapi "github.com/goliatone/go-contactform/pkg/openapi"
)

// maxDocumentSize bounds remote documents.
const maxDocumentSize = 8 << 20

// Loader implements pkgopenapi.Loader.
type Loader struct {
	files   fs.FS
	client  *http.Client
	timeout time.Duration
}

var _ pkgopenapi.Loader = (*Loader)(nil)

// New builds a Loader. HTTP sources are only served when options carry a
// client or enable the fallback.
func New(options pkgopenapi.LoaderOptions) *Loader {
	l := &Loader{files: options.FileSystem, timeout: options.RequestTimeout}
	switch {
	case options.HTTPClient != nil:
		client := *options.HTTPClient
		if client.Timeout == 0 {
			client.Timeout = l.timeout
		}
		l.client = &client
	case options.AllowHTTPFallback:
		l.client = &http.Client{Timeout: l.timeout}
	}
	return l
}

// Load reads src and wraps it in a Document.
func (l *Loader) Load(ctx context.Context, src pkgopenapi.Source) (pkgopenapi.Document, error) {
	if src == nil {
		return pkgopenapi.Document{}, errors.New("openapi loader: source is nil")
	}
	if src.Location() == "" {
		return pkgopenapi.Document{}, fmt.Errorf("openapi loader: %s source has no location", src.Kind())
	}
	if err := ctx.Err(); err != nil {
		return pkgopenapi.Document{}, err
	}

	data, err := l.read(ctx, src)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("openapi loader: load %s %q: %w", src.Kind(), src.Location(), err)
	}
	return pkgopenapi.NewDocument(src, data)
}

func (l *Loader) read(ctx context.Context, src pkgopenapi.Source) ([]byte, error) {
	switch src.Kind() {
	case pkgopenapi.SourceKindFile:
		return os.ReadFile(src.Location())
	case pkgopenapi.SourceKindFS:
		if l.files == nil {
			return nil, errors.New("no filesystem configured")
		}
		return fs.ReadFile(l.files, src.Location())
	case pkgopenapi.SourceKindURL:
		if l.client == nil {
			return nil, errors.New("http sources are disabled")
		}
		return l.fetch(ctx, src.Location())
	default:
		return nil, fmt.Errorf("unsupported source kind %q", src.Kind())
	}
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
}
