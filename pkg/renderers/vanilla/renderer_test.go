package vanilla_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	testclock "k8s.io/utils/clock/testing"

	"github.com/goliatone/go-contactform/pkg/controller"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/renderers/vanilla"
	"github.com/goliatone/go-contactform/pkg/uischema"
)

func newController(t *testing.T) (*controller.Controller, model.FormModel) {
	t.Helper()
	form, err := uischema.DefaultForm()
	if err != nil {
		t.Fatalf("default form: %v", err)
	}
	ctrl, err := controller.New(form, controller.WithClock(testclock.NewFakeClock(time.Unix(0, 0))))
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	t.Cleanup(func() { _ = ctrl.Close() })
	return ctrl, form
}

func renderHTML(t *testing.T, r *vanilla.Renderer, form model.FormModel, state controller.Snapshot, opts render.RenderOptions) string {
	t.Helper()
	out, err := r.Render(context.Background(), form, state, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func newRenderer(t *testing.T, opts ...vanilla.Option) *vanilla.Renderer {
	t.Helper()
	r, err := vanilla.New(opts...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func assertContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(html, fragment) {
			t.Errorf("output missing %q\n%s", fragment, html)
		}
	}
}

func TestRenderer_Metadata(t *testing.T) {
	r := newRenderer(t)
	if r.Name() != "vanilla" {
		t.Fatalf("name: %q", r.Name())
	}
	if r.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("content type: %q", r.ContentType())
	}
}

func TestRender_InitialState(t *testing.T) {
	ctrl, form := newController(t)
	html := renderHTML(t, newRenderer(t), form, ctrl.Snapshot(), render.RenderOptions{})

	assertContains(t, html,
		`<h1 id="title">CAC TAT</h1>`,
		`<input type="text" id="firstName" name="firstName" value="" required>`,
		`<input type="number" id="phone" name="phone" value="">`,
		`<textarea id="open-text-area" name="productDescription" rows="3" required></textarea>`,
		`<option value="" disabled>Selecione</option>`,
		`<input type="radio" id="feedback-radio" name="attendanceType" value="feedback">`,
		`<input type="checkbox" id="phone-checkbox" name="contactPreference" value="phone">`,
		`<input type="file" id="file-upload" name="file">`,
		`<button type="submit" class="button">Enviar</button>`,
		`<span class="success" style="display: none"><strong>Mensagem enviada com sucesso.</strong></span>`,
		`<span class="error" style="display: none"><strong>Valide os campos obrigatórios!</strong></span>`,
		`<a href="privacy.html" target="_blank">Política de Privacidade</a>`,
	)
	if strings.Contains(html, "form-errors") {
		t.Fatalf("no issues expected:\n%s", html)
	}
}

func TestRender_ReflectsControllerState(t *testing.T) {
	ctrl, form := newController(t)
	ctrl.SetField("firstName", "Ana")
	ctrl.SetField("email", "ana@example.com")
	if _, err := ctrl.Select("product", "mentoria"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := ctrl.Check("attendanceType", "feedback"); err != nil {
		t.Fatalf("check radio: %v", err)
	}
	if err := ctrl.Check("contactPreference", "phone"); err != nil {
		t.Fatalf("check phone: %v", err)
	}
	if _, err := ctrl.AttachFile(controller.FromBytes("example.json", []byte(`{}`))); err != nil {
		t.Fatalf("attach: %v", err)
	}

	html := renderHTML(t, newRenderer(t), form, ctrl.Snapshot(), render.RenderOptions{})
	assertContains(t, html,
		`name="firstName" value="Ana" required>`,
		`name="email" value="ana@example.com" required>`,
		`<option value="mentoria" selected>Mentoria</option>`,
		`value="feedback" checked>Feedback`,
		`value="phone" checked>Telefone`,
		`<input type="number" id="phone" name="phone" value="" required>`,
		`<span class="attachment-name">example.json</span>`,
	)
}

func TestRender_BannerVisibility(t *testing.T) {
	ctrl, form := newController(t)
	r := newRenderer(t)

	result := ctrl.Submit()
	if result.Accepted() {
		t.Fatalf("empty form should be rejected")
	}
	html := renderHTML(t, r, form, ctrl.Snapshot(), render.RenderOptions{})
	assertContains(t, html,
		`<span class="error" style="display: block">`,
		`<span class="success" style="display: none">`,
	)

	ctrl.Tick(controller.DefaultBannerDelay)
	html = renderHTML(t, r, form, ctrl.Snapshot(), render.RenderOptions{})
	assertContains(t, html, `<span class="error" style="display: none">`)
}

func TestRender_IssuesAndTranslations(t *testing.T) {
	ctrl, form := newController(t)
	result := ctrl.Submit()

	html := renderHTML(t, newRenderer(t), form, ctrl.Snapshot(), render.RenderOptions{
		Locale:     "en",
		Translator: render.DefaultCatalog(),
		Issues:     result.Issues,
	})
	assertContains(t, html,
		`<button type="submit" class="button">Send</button>`,
		`<span class="field-error">Required field.</span>`,
		`<ul class="form-errors"><li>Check the required fields!</li></ul>`,
		`<span class="error" style="display: block"><strong>Check the required fields!</strong></span>`,
		`<span class="required-mark">(required)</span>`,
		`Privacy Policy</a>`,
	)
}

func TestRender_HiddenFieldsAndAction(t *testing.T) {
	ctrl, form := newController(t)
	html := renderHTML(t, newRenderer(t), form, ctrl.Snapshot(), render.RenderOptions{
		Action:       "/forms/cac-tat/submit",
		HiddenFields: []render.HiddenField{render.CSRFToken("_csrf", "tok")},
	})
	assertContains(t, html,
		`action="/forms/cac-tat/submit"`,
		`<input type="hidden" name="_csrf" value="tok">`,
	)
}

func TestRender_WidgetOverrideFromMetadata(t *testing.T) {
	ctrl, form := newController(t)
	form.Metadata = map[string]string{"widget.attendanceType": "select"}

	html := renderHTML(t, newRenderer(t), form, ctrl.Snapshot(), render.RenderOptions{})
	assertContains(t, html, `<select id="attendanceType" name="attendanceType">`)
	if strings.Contains(html, `type="radio"`) {
		t.Fatalf("radio markup should be replaced:\n%s", html)
	}
}

func TestRender_WithoutSnapshotUsesFormRequired(t *testing.T) {
	form, err := uischema.DefaultForm()
	if err != nil {
		t.Fatalf("default form: %v", err)
	}
	html := renderHTML(t, newRenderer(t), form, controller.Snapshot{}, render.RenderOptions{})
	assertContains(t, html,
		`name="lastName" value="" required>`,
		`<span class="success" style="display: none">`,
	)
}

func TestRender_CancelledContext(t *testing.T) {
	ctrl, form := newController(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRenderer(t).Render(ctx, form, ctrl.Snapshot(), render.RenderOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRender_CustomTemplatesMissingComponent(t *testing.T) {
	ctrl, form := newController(t)
	files := fstest.MapFS{
		"templates/form.tmpl": {Data: []byte(`{% for control in form.controls %}{{ control|safe }}{% endfor %}`)},
	}
	r := newRenderer(t, vanilla.WithTemplatesFS(files))

	_, err := r.Render(context.Background(), form, ctrl.Snapshot(), render.RenderOptions{})
	if err == nil || !strings.Contains(err.Error(), "render input") {
		t.Fatalf("expected missing component error, got %v", err)
	}
}

func TestRender_WithTemplateFuncs(t *testing.T) {
	ctrl, form := newController(t)
	files := fstest.MapFS{
		"templates/form.tmpl":                {Data: []byte(`{{ shout(form.title) }}`)},
		"templates/components/input.tmpl":    {Data: []byte(`i`)},
		"templates/components/textarea.tmpl": {Data: []byte(`t`)},
		"templates/components/select.tmpl":   {Data: []byte(`s`)},
		"templates/components/radio.tmpl":    {Data: []byte(`r`)},
		"templates/components/checkbox.tmpl": {Data: []byte(`c`)},
	}
	r := newRenderer(t,
		vanilla.WithTemplatesFS(files),
		vanilla.WithTemplateFuncs(map[string]any{
			"shout": func(s string) string { return strings.ToUpper(s) },
		}),
	)

	html := renderHTML(t, r, form, ctrl.Snapshot(), render.RenderOptions{})
	if html != "CAC TAT" {
		t.Fatalf("unexpected output %q", html)
	}
}

func TestRender_TranslateHelper(t *testing.T) {
	ctrl, form := newController(t)
	files := fstest.MapFS{
		"templates/form.tmpl":                {Data: []byte(`{{ translate("form.submit") }}|{{ translate("form.unknown") }}`)},
		"templates/components/input.tmpl":    {Data: []byte(`i`)},
		"templates/components/textarea.tmpl": {Data: []byte(`t`)},
		"templates/components/select.tmpl":   {Data: []byte(`s`)},
		"templates/components/radio.tmpl":    {Data: []byte(`r`)},
		"templates/components/checkbox.tmpl": {Data: []byte(`c`)},
	}
	r := newRenderer(t, vanilla.WithTemplatesFS(files))

	html := renderHTML(t, r, form, ctrl.Snapshot(), render.RenderOptions{
		Locale:     "en",
		Translator: render.DefaultCatalog(),
	})
	if html != "Send|form.unknown" {
		t.Fatalf("unexpected output %q", html)
	}
}
