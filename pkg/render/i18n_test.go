package render_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-contactform/pkg/controller"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/render"
)

type stubTranslator map[string]string

func (t stubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if msg, ok := t[key]; ok {
		return msg, nil
	}
	return "", errors.New("missing translation")
}

func sampleForm() model.FormModel {
	return model.FormModel{
		ID:    "cac-tat",
		Title: "CAC TAT",
		Fields: []model.Field{
			{Name: "firstName", Kind: model.FieldKindText, Label: "Nome"},
			{Name: "email", Kind: model.FieldKindEmail, Label: "E-mail"},
		},
		Groups: []model.Group{{
			Name:  "product",
			Kind:  model.GroupKindSelect,
			Label: "Produto",
			Options: []model.Option{
				{Value: "blog", Label: "Blog"},
				{Value: "cursos", Label: "Cursos"},
			},
		}},
		Required: []string{"firstName", "email"},
		Messages: model.Messages{
			model.BannerSuccess: "Mensagem enviada com sucesso.",
			model.BannerError:   "Valide os campos obrigatórios!",
		},
	}
}

func TestCatalogFallsBackToBaseLanguage(t *testing.T) {
	catalog := render.DefaultCatalog()

	got, err := catalog.Translate("pt-BR", render.KeySubmit)
	if err != nil || got != "Enviar" {
		t.Fatalf("expected pt fallback, got %q (%v)", got, err)
	}
	got, err = catalog.Translate("en-US", render.KeyBannerError)
	if err != nil || got != "Check the required fields!" {
		t.Fatalf("expected en fallback, got %q (%v)", got, err)
	}
	if _, err := catalog.Translate("fr", render.KeySubmit); err == nil {
		t.Fatalf("expected miss for unknown locale")
	}
}

func TestBannerMessage(t *testing.T) {
	form := sampleForm()

	ptBR := render.RenderOptions{Translator: render.DefaultCatalog()}
	if got := render.BannerMessage(form, model.BannerSuccess, ptBR); got != "Mensagem enviada com sucesso." {
		t.Fatalf("pt-BR success mismatch: %q", got)
	}

	en := render.RenderOptions{Locale: "en", Translator: render.DefaultCatalog()}
	if got := render.BannerMessage(form, model.BannerError, en); got != "Check the required fields!" {
		t.Fatalf("en error mismatch: %q", got)
	}

	noTranslator := render.RenderOptions{Locale: "en"}
	if got := render.BannerMessage(form, model.BannerError, noTranslator); got != "Valide os campos obrigatórios!" {
		t.Fatalf("expected form copy without translator, got %q", got)
	}
}

func TestLocalizeFormModel_UsesKeysAndFallbacks(t *testing.T) {
	form := sampleForm()
	render.LocalizeFormModel(&form, render.RenderOptions{
		Locale: "en",
		Translator: stubTranslator{
			"form.title":          "Customer Service",
			"field.firstName":     "First name",
			"group.product":       "Product",
			"option.product.blog": "Weblog",
		},
	})

	if form.Title != "Customer Service" {
		t.Fatalf("title mismatch: %q", form.Title)
	}
	if diff := cmp.Diff([]string{"First name", "E-mail"}, []string{form.Fields[0].Label, form.Fields[1].Label}); diff != "" {
		t.Fatalf("field labels mismatch (-want +got):\n%s", diff)
	}
	if form.Groups[0].Label != "Product" || form.Groups[0].Options[0].Label != "Weblog" || form.Groups[0].Options[1].Label != "Cursos" {
		t.Fatalf("group labels mismatch: %+v", form.Groups[0])
	}
}

func TestMapIssues(t *testing.T) {
	form := sampleForm()
	opts := render.RenderOptions{Translator: render.DefaultCatalog()}

	mapping := render.MapIssues(form, []controller.Issue{
		{Field: "firstName", Reason: controller.ReasonMissing},
		{Field: "email", Reason: controller.ReasonMalformed},
		{Field: "ghost", Reason: controller.ReasonMissing},
	}, opts)

	want := render.ErrorMapping{
		Fields: map[string][]string{
			"firstName": {"Campo obrigatório."},
			"email":     {"Formato inválido."},
		},
		Form: []string{"Valide os campos obrigatórios!", "ghost: Campo obrigatório."},
	}
	if diff := cmp.Diff(want, mapping); diff != "" {
		t.Fatalf("mapping mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(render.ErrorMapping{}, render.MapIssues(form, nil, opts)); diff != "" {
		t.Fatalf("expected empty mapping (-want +got):\n%s", diff)
	}
}

func TestMergeFormErrors(t *testing.T) {
	got := render.MergeFormErrors([]string{" a ", "b"}, "a", "", "c")
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}
