package gotemplate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"reflect"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-contactform/pkg/render/template"
)

const defaultExtension = ".tmpl"

// Option configures an Engine.
type Option func(*Engine)

// WithFS loads templates from files.
func WithFS(files fs.FS) Option {
	return func(e *Engine) {
		if files != nil {
			e.loaders = append(e.loaders, pongo2.NewFSLoader(files))
		}
	}
}

// WithDir loads templates from a directory on disk.
func WithDir(dir string) Option {
	return func(e *Engine) {
		e.dir = strings.TrimSpace(dir)
	}
}

// WithExtension sets the suffix appended to template names that lack it.
func WithExtension(ext string) Option {
	return func(e *Engine) {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		e.ext = ext
	}
}

// WithTemplateFunc makes funcs callable from every template. Non-function
// values are ignored.
func WithTemplateFunc(funcs map[string]any) Option {
	return func(e *Engine) {
		for name, fn := range funcs {
			name = strings.TrimSpace(name)
			if name == "" || !isFunc(fn) {
				continue
			}
			e.globals[name] = fn
		}
	}
}

// WithGlobalData exposes data to every template. Values go through the same
// JSON conversion as render data.
func WithGlobalData(data map[string]any) Option {
	return func(e *Engine) {
		for key, value := range data {
			if key = strings.TrimSpace(key); key != "" {
				e.pending[key] = value
			}
		}
	}
}

// Engine renders pongo2 templates. Parsed templates are cached by path.
type Engine struct {
	dir     string
	ext     string
	loaders []pongo2.TemplateLoader
	globals pongo2.Context
	pending map[string]any

	set   *pongo2.TemplateSet
	mu    sync.RWMutex
	cache map[string]*pongo2.Template
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds an Engine. At least one of WithFS or WithDir is required.
func New(options ...Option) (*Engine, error) {
	e := &Engine{
		ext:     defaultExtension,
		globals: pongo2.Context{},
		pending: map[string]any{},
		cache:   map[string]*pongo2.Template{},
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}

	if e.dir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(e.dir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: template dir: %w", err)
		}
		e.loaders = append(e.loaders, loader)
	}
	if len(e.loaders) == 0 {
		return nil, errors.New("gotemplate: no template source configured")
	}

	globals, err := toContext(e.pending)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: global data: %w", err)
	}
	e.globals.Update(globals)
	e.pending = nil

	e.set = pongo2.NewSet("contactform", e.loaders...)
	e.set.Globals = e.globals
	return e, nil
}

// RenderTemplate executes the template at name, appending the configured
// extension when name has none.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	if !strings.HasSuffix(name, e.ext) {
		name += e.ext
	}
	tmpl, err := e.lookup(name)
	if err != nil {
		return "", err
	}
	return execute(tmpl, name, data, out)
}

// RenderString parses source and executes it.
func (e *Engine) RenderString(source string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	tmpl, err := e.set.FromString(source)
	if err != nil {
		return "", fmt.Errorf("gotemplate: parse inline template: %w", err)
	}
	return execute(tmpl, "inline template", data, out)
}

func (e *Engine) lookup(name string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.cache[name]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.cache[name]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load %q: %w", name, err)
	}
	e.cache[name] = tmpl
	return tmpl, nil
}

func execute(tmpl *pongo2.Template, name string, data any, out []io.Writer) (string, error) {
	ctx, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: %s data: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(ctx, &buf); err != nil {
		return "", fmt.Errorf("gotemplate: execute %s: %w", name, err)
	}
	for _, w := range out {
		if _, err := w.Write(buf.Bytes()); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// toContext turns data into a pongo2 context. Functions stay callable; every
// other value is round-tripped through JSON so templates see the json tag
// names of structs.
func toContext(data any) (pongo2.Context, error) {
	if data == nil {
		return pongo2.Context{}, nil
	}

	top, ok := data.(map[string]any)
	if !ok {
		if pctx, isCtx := data.(pongo2.Context); isCtx {
			top = map[string]any(pctx)
		} else {
			top = map[string]any{"": data}
		}
	}

	out := make(pongo2.Context, len(top))
	for key, value := range top {
		if isFunc(value) {
			out[key] = value
			continue
		}
		converted, err := viaJSON(value)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", key, err)
		}
		if key == "" {
			mapped, ok := converted.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("expected an object, got %T", data)
			}
			out.Update(mapped)
			continue
		}
		out[key] = converted
	}
	return out, nil
}

func viaJSON(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

func isFunc(v any) bool {
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Func
}
