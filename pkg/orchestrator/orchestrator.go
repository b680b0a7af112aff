package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-contactform/internal/logger"
	internalLoader "github.com/goliatone/go-contactform/internal/openapi/loader"
	internalParser "github.com/goliatone/go-contactform/internal/openapi/parser"
	"github.com/goliatone/go-contactform/pkg/controller"
	"github.com/goliatone/go-contactform/pkg/model"
	pkgopenapi "github.com/goliatone/go-contactform/pkg/openapi"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/renderers/vanilla"
	"github.com/goliatone/go-contactform/pkg/uischema"
	"github.com/goliatone/go-contactform/pkg/widgets"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom OpenAPI loader.
func WithLoader(loader pkgopenapi.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithParser injects a custom OpenAPI parser.
func WithParser(parser pkgopenapi.Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithModelBuilder injects a custom form model builder.
func WithModelBuilder(builder model.Builder) Option {
	return func(o *Orchestrator) {
		o.builder = builder
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request names none.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithSchemaTransformer registers a Transformer that runs after the form is
// built or loaded and before the decorators.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithUIDecorators appends decorators that run after the UI schema overlay.
func WithUIDecorators(decorators ...model.Decorator) Option {
	return func(o *Orchestrator) {
		if len(decorators) == 0 {
			return
		}
		o.decorators = append(o.decorators, decorators...)
	}
}

// WithUISchemaFS supplies an fs.FS holding form definitions and overlays.
// Pass nil to disable the embedded defaults.
func WithUISchemaFS(fsys fs.FS) Option {
	return func(o *Orchestrator) {
		o.uiSchemaFS = fsys
		o.uiSchemaSpecified = true
	}
}

// WithUISchemaStore uses an already loaded store instead of reading a
// filesystem.
func WithUISchemaStore(store *uischema.Store) Option {
	return func(o *Orchestrator) {
		o.store = store
		o.uiSchemaSpecified = true
	}
}

// WithWidgets replaces the widget registry used to annotate forms.
func WithWidgets(registry *widgets.Registry) Option {
	return func(o *Orchestrator) {
		o.widgets = registry
	}
}

// WithLogger sets the logger used for pipeline diagnostics.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

// Orchestrator produces contact form definitions from either an OpenAPI
// operation or a UI schema store, and renders them through a registry.
type Orchestrator struct {
	loader            pkgopenapi.Loader
	parser            pkgopenapi.Parser
	builder           model.Builder
	registry          *render.Registry
	widgets           *widgets.Registry
	defaultRenderer   string
	initialiseErr     error
	defaultsApplied   bool
	decorators        []model.Decorator
	uiSchemaFS        fs.FS
	uiSchemaSpecified bool
	store             *uischema.Store
	transformer       Transformer
	log               logrus.FieldLogger
}

// New constructs an Orchestrator. Missing dependencies fall back to the
// built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request selects which form definition to produce.
type Request struct {
	// Source identifies where an OpenAPI document lives. Optional when Document
	// is supplied; when both are empty the UI schema store is used.
	Source pkgopenapi.Source

	// Document bypasses the loader when the caller already holds the payload.
	Document *pkgopenapi.Document

	// OperationID selects the OpenAPI operation. Required on the OpenAPI path.
	OperationID string

	// FormID names the stored form on the UI schema path (default
	// uischema.DefaultFormID). On the OpenAPI path it renames the built form
	// so overlays keyed by FormID apply.
	FormID string

	// Renderer names the renderer used by Generate.
	Renderer string

	// RenderOptions is forwarded to the renderer by Generate.
	RenderOptions render.RenderOptions
}

func (r Request) fromOpenAPI() bool {
	return r.Source != nil || r.Document != nil
}

// Form resolves the definition described by req, then applies the
// transformer, the UI schema overlay, extra decorators and the widget
// annotations. The result is validated.
func (o *Orchestrator) Form(ctx context.Context, req Request) (model.FormModel, error) {
	if ctx == nil {
		return model.FormModel{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return model.FormModel{}, err
	}
	if err := o.ready(); err != nil {
		return model.FormModel{}, err
	}

	var (
		form model.FormModel
		err  error
	)
	if req.fromOpenAPI() {
		form, err = o.formFromOperation(ctx, req)
	} else {
		form, err = o.formFromStore(req.FormID)
	}
	if err != nil {
		return model.FormModel{}, err
	}

	if err := o.applyTransformer(ctx, &form); err != nil {
		return model.FormModel{}, err
	}
	if err := o.applyDecorators(&form); err != nil {
		return model.FormModel{}, err
	}
	if err := form.Validate(); err != nil {
		return model.FormModel{}, fmt.Errorf("orchestrator: %w", err)
	}

	o.log.WithFields(logrus.Fields{
		"form":   form.ID,
		"fields": len(form.Fields),
		"groups": len(form.Groups),
	}).Debug("orchestrator: form ready")
	return form, nil
}

// Controller builds a controller around the form described by req.
func (o *Orchestrator) Controller(ctx context.Context, req Request, options ...controller.Option) (*controller.Controller, error) {
	form, err := o.Form(ctx, req)
	if err != nil {
		return nil, err
	}
	return controller.New(form, options...)
}

// Render renders form and state through the renderer called name, or the
// default renderer when name is empty.
func (o *Orchestrator) Render(ctx context.Context, name string, form model.FormModel, state controller.Snapshot, opts render.RenderOptions) ([]byte, error) {
	if err := o.ready(); err != nil {
		return nil, err
	}
	renderer, err := o.rendererFor(name)
	if err != nil {
		return nil, err
	}
	output, err := renderer.Render(ctx, form, state, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Generate resolves the form and renders its initial state.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	form, err := o.Form(ctx, req)
	if err != nil {
		return nil, err
	}
	return o.Render(ctx, req.Renderer, form, controller.Snapshot{}, req.RenderOptions)
}

// Store exposes the UI schema store backing the orchestrator. It is nil when
// no UI schema filesystem is configured.
func (o *Orchestrator) Store() *uischema.Store {
	return o.store
}

func (o *Orchestrator) ready() error {
	if !o.defaultsApplied {
		o.applyDefaults()
	}
	return o.initialiseErr
}

func (o *Orchestrator) formFromOperation(ctx context.Context, req Request) (model.FormModel, error) {
	if strings.TrimSpace(req.OperationID) == "" {
		return model.FormModel{}, errors.New("orchestrator: operation id is required")
	}

	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return model.FormModel{}, err
	}

	operations, err := o.parser.Operations(ctx, doc)
	if err != nil {
		return model.FormModel{}, fmt.Errorf("orchestrator: parse operations: %w", err)
	}

	op, ok := operations[req.OperationID]
	if !ok {
		return model.FormModel{}, fmt.Errorf("orchestrator: operation %q not found", req.OperationID)
	}

	form, err := o.builder.Build(op)
	if err != nil {
		return model.FormModel{}, fmt.Errorf("orchestrator: build form model: %w", err)
	}
	if id := strings.TrimSpace(req.FormID); id != "" {
		form.ID = id
	}
	return form, nil
}

func (o *Orchestrator) formFromStore(id string) (model.FormModel, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		id = uischema.DefaultFormID
	}
	if o.store == nil {
		return model.FormModel{}, fmt.Errorf("orchestrator: form %q: no ui schema configured", id)
	}
	form, ok := o.store.Form(id)
	if !ok {
		return model.FormModel{}, fmt.Errorf("orchestrator: form %q not found (known: %s)", id, strings.Join(o.store.FormIDs(), ", "))
	}
	return form, nil
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (pkgopenapi.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}
	renderer, err := o.registry.Resolve(name, o.defaultRenderer)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDecorators(form *model.FormModel) error {
	decorators := make([]model.Decorator, 0, len(o.decorators)+2)
	if o.store != nil {
		decorators = append(decorators, uischema.NewDecorator(o.store))
	}
	decorators = append(decorators, o.decorators...)
	decorators = append(decorators, o.widgets)

	if err := model.Apply(form, decorators...); err != nil {
		return fmt.Errorf("orchestrator: decorate form: %w", err)
	}
	return nil
}

func (o *Orchestrator) applyTransformer(ctx context.Context, form *model.FormModel) error {
	if o.transformer == nil {
		return nil
	}
	if err := o.transformer.Transform(ctx, form); err != nil {
		return fmt.Errorf("orchestrator: transform form: %w", err)
	}
	return nil
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}

	if o.log == nil {
		o.log = logger.Discard()
	}
	if o.loader == nil {
		o.loader = internalLoader.New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithDefaultSources()))
	}
	if o.parser == nil {
		o.parser = internalParser.New(pkgopenapi.NewParserOptions())
	}
	if o.builder == nil {
		o.builder = model.NewBuilder()
	}
	if o.widgets == nil {
		o.widgets = widgets.NewRegistry()
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New(vanilla.WithWidgets(o.widgets))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}

	o.loadStore()
	o.defaultsApplied = true
}

func (o *Orchestrator) loadStore() {
	if o.store != nil {
		return
	}
	if !o.uiSchemaSpecified && o.uiSchemaFS == nil {
		o.uiSchemaFS = uischema.EmbeddedFS()
	}
	if o.uiSchemaFS == nil {
		return
	}

	store, err := uischema.LoadFS(o.uiSchemaFS)
	if err != nil {
		o.initialiseErr = fmt.Errorf("orchestrator: load ui schema: %w", err)
		return
	}
	if store.Empty() {
		return
	}
	o.store = store
}
