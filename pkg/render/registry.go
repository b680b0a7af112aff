package render

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/goliatone/go-contactform/pkg/controller"
	"github.com/goliatone/go-contactform/pkg/model"
)

// ErrNoRenderers is returned when a lookup hits an empty registry.
var ErrNoRenderers = errors.New("render: no renderers registered")

// Registry maps output formats to renderers.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Renderer
}

func NewRegistry(renderers ...Renderer) *Registry {
	reg := &Registry{byName: map[string]Renderer{}}
	for _, r := range renderers {
		reg.MustRegister(r)
	}
	return reg
}

// Register adds renderer under its Name. Names are unique.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil || renderer.Name() == "" {
		return errors.New("render: renderer with a name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byName[renderer.Name()]; dup {
		return fmt.Errorf("render: renderer %q already registered", renderer.Name())
	}
	r.byName[renderer.Name()] = renderer
	return nil
}

func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	renderer, ok := r.byName[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("render: renderer %q not found", name)
	}
	return renderer, nil
}

// List returns the registered names in lexical order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Resolve picks the renderer for name. An empty name tries fallback first and
// then the lexically first registered renderer.
func (r *Registry) Resolve(name, fallback string) (Renderer, error) {
	if name != "" {
		return r.Get(name)
	}
	if fallback != "" {
		if renderer, err := r.Get(fallback); err == nil {
			return renderer, nil
		}
	}
	names := r.List()
	if len(names) == 0 {
		return nil, ErrNoRenderers
	}
	return r.Get(names[0])
}

// Render resolves name and renders through it.
func (r *Registry) Render(ctx context.Context, name string, form model.FormModel, state controller.Snapshot, options RenderOptions) ([]byte, error) {
	renderer, err := r.Resolve(name, "")
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, form, state, options)
}
