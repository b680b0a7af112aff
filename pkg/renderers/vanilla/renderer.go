package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/goliatone/go-contactform/pkg/controller"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/render"
	rendertemplate "github.com/goliatone/go-contactform/pkg/render/template"
	gotemplate "github.com/goliatone/go-contactform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-contactform/pkg/widgets"
)

const (
	pageTemplate      = "templates/form.tmpl"
	componentTemplate = "templates/components/%s.tmpl"

	// PrivacyHref is the policy page linked from the footer.
	PrivacyHref = "privacy.html"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	templateFuncs    map[string]any
	widgets          *widgets.Registry
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTemplateFuncs exposes extra functions to the page and component
// templates. Ignored when WithTemplateRenderer is used.
func WithTemplateFuncs(funcs map[string]any) Option {
	return func(cfg *config) {
		if len(funcs) == 0 {
			return
		}
		if cfg.templateFuncs == nil {
			cfg.templateFuncs = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			cfg.templateFuncs[name] = fn
		}
	}
}

// WithWidgets swaps the registry that picks a component template per control.
func WithWidgets(registry *widgets.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.widgets = registry
		}
	}
}

// Renderer writes the contact form as a standalone HTML fragment: every
// control in form order, the attachment input, the submit button, both
// banners and the privacy link.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	widgets   *widgets.Registry
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.widgets == nil {
		cfg.widgets = widgets.NewRegistry()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
			gotemplate.WithTemplateFunc(cfg.templateFuncs),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, widgets: cfg.widgets}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render draws form with the values, selections, attachment and banner
// visibility captured in state.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, state controller.Snapshot, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	render.LocalizeFormModel(&form, opts)
	errs := render.MapIssues(form, opts.Issues, opts)

	page := pageView{
		Title:       form.Title,
		Description: form.Description,
		Locale:      opts.Locale,
		Action:      opts.Action,
		Submit:      render.Text(render.KeySubmit, "Enviar", opts),
		Privacy:     render.Text(render.KeyPrivacy, "Política de Privacidade", opts),
		PrivacyHref: PrivacyHref,
		Hidden:      render.NormalizeHiddenFields(opts.HiddenFields),
		FormErrors:  errs.Form,
		Attach: controlView{
			Name:  "file",
			ID:    "file-upload",
			Label: render.Text(render.KeyAttachment, "Selecione um arquivo", opts),
		},
	}
	if page.Locale == "" {
		page.Locale = render.DefaultLocale
	}
	if state.Attachment != nil {
		page.Attach.Value = state.Attachment.Filename
	}

	for _, field := range form.Fields {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fs, ok := state.Field(field.Name)
		if !ok {
			fs = controller.FieldState{Name: field.Name, Kind: field.Kind, Required: contains(form.Required, field.Name)}
		}
		view := fieldView(form, field, fs, errs, r.widgets, opts)
		html, err := r.component(view)
		if err != nil {
			return nil, err
		}
		page.Controls = append(page.Controls, html)
	}
	for _, group := range form.Groups {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		gs, _ := state.Group(group.Name)
		html, err := r.component(groupView(form, group, gs, r.widgets))
		if err != nil {
			return nil, err
		}
		page.Controls = append(page.Controls, html)
	}

	for _, kind := range []model.BannerKind{model.BannerSuccess, model.BannerError} {
		bs := state.Banner(kind)
		page.Banners = append(page.Banners, bannerView{
			Kind:    string(kind),
			Message: render.BannerMessage(form, kind, opts),
			Visible: bs.Visible,
		})
	}

	translate := func(key string) string {
		return render.Text(key, "", opts)
	}
	result, err := r.templates.RenderTemplate(pageTemplate, map[string]any{
		"form":      page,
		"translate": translate,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) component(view controlView) (string, error) {
	if view.Widget == "" {
		return "", fmt.Errorf("vanilla renderer: no widget for %q", view.Name)
	}
	html, err := r.templates.RenderTemplate(fmt.Sprintf(componentTemplate, view.Widget), map[string]any{
		"control": view,
	})
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: render %s %q: %w", view.Widget, view.Name, err)
	}
	return html, nil
}

func contains(values []string, want string) bool {
	for _, value := range values {
		if value == want {
			return true
		}
	}
	return false
}
