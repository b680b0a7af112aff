package orchestrator_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"
	testclock "k8s.io/utils/clock/testing"

	"github.com/goliatone/go-contactform/pkg/controller"
	"github.com/goliatone/go-contactform/pkg/model"
	pkgopenapi "github.com/goliatone/go-contactform/pkg/openapi"
	"github.com/goliatone/go-contactform/pkg/orchestrator"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/uischema"
)

type stubParser struct {
	operations map[string]pkgopenapi.Operation
	err        error
}

func (s stubParser) Operations(context.Context, pkgopenapi.Document) (map[string]pkgopenapi.Operation, error) {
	return s.operations, s.err
}

type stubFormBuilder struct {
	form  model.FormModel
	calls int
}

func (s *stubFormBuilder) Build(pkgopenapi.Operation) (model.FormModel, error) {
	s.calls++
	return s.form, nil
}

type stubRenderer struct {
	last  model.FormModel
	state controller.Snapshot
}

func (s *stubRenderer) Name() string        { return "stub" }
func (s *stubRenderer) ContentType() string { return "text/plain" }
func (s *stubRenderer) Render(_ context.Context, form model.FormModel, state controller.Snapshot, _ render.RenderOptions) ([]byte, error) {
	s.last = form
	s.state = state
	return []byte(form.ID), nil
}

func contactDocument(t *testing.T) *pkgopenapi.Document {
	t.Helper()
	data, err := os.ReadFile("testdata/contact.yaml")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	doc := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFile("testdata/contact.yaml"), data)
	return &doc
}

func minimalForm(id string) model.FormModel {
	return model.FormModel{
		ID:     id,
		Fields: []model.Field{{Name: "email", Kind: model.FieldKindEmail}},
	}
}

func TestOrchestrator_DefaultFormFromEmbeddedSchema(t *testing.T) {
	form, err := orchestrator.New().Form(context.Background(), orchestrator.Request{})
	if err != nil {
		t.Fatalf("form: %v", err)
	}

	if form.ID != uischema.DefaultFormID {
		t.Fatalf("unexpected form id %q", form.ID)
	}
	if diff := cmp.Diff([]string{"firstName", "lastName", "email", "productDescription"}, form.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	wantWidgets := map[string]string{
		"widget.firstName":          "input",
		"widget.productDescription": "textarea",
		"widget.product":            "select",
		"widget.attendanceType":     "radio",
		"widget.contactPreference":  "checkbox",
	}
	for key, want := range wantWidgets {
		if got := form.Metadata[key]; got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
}

func TestOrchestrator_UnknownStoredForm(t *testing.T) {
	_, err := orchestrator.New().Form(context.Background(), orchestrator.Request{FormID: "newsletter"})
	if err == nil || !strings.Contains(err.Error(), `form "newsletter" not found`) {
		t.Fatalf("expected missing form error, got %v", err)
	}
}

func TestOrchestrator_NoUISchema(t *testing.T) {
	_, err := orchestrator.New(orchestrator.WithUISchemaFS(nil)).Form(context.Background(), orchestrator.Request{})
	if err == nil || !strings.Contains(err.Error(), "no ui schema configured") {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestOrchestrator_FormFromOpenAPIWithOverlay(t *testing.T) {
	orch := orchestrator.New(orchestrator.WithUISchemaFS(os.DirFS("testdata")))

	form, err := orch.Form(context.Background(), orchestrator.Request{
		Document:    contactDocument(t),
		OperationID: "createContact",
	})
	if err != nil {
		t.Fatalf("form: %v", err)
	}

	if form.Title != "CAC TAT" {
		t.Fatalf("overlay title missing: %q", form.Title)
	}
	lastName, _ := form.Field("lastName")
	if lastName.Label != "Sobrenome" {
		t.Fatalf("overlay label missing: %+v", lastName)
	}
	description, _ := form.Field("productDescription")
	if description.ID() != "open-text-area" || description.Kind != model.FieldKindTextArea {
		t.Fatalf("unexpected description field: %+v", description)
	}
	if diff := cmp.Diff([]model.Toggle{{Group: "contactPreference", Option: "phone", Field: "phone"}}, form.Toggles); diff != "" {
		t.Fatalf("toggles mismatch (-want +got):\n%s", diff)
	}
	if form.Metadata["operationId"] != "createContact" || form.Metadata["widget.attendanceType"] != "radio" {
		t.Fatalf("metadata mismatch: %#v", form.Metadata)
	}
}

func TestOrchestrator_FormIDRenamesBuiltForm(t *testing.T) {
	builder := &stubFormBuilder{form: minimalForm("createContact")}
	orch := orchestrator.New(
		orchestrator.WithModelBuilder(builder),
		orchestrator.WithParser(stubParser{operations: map[string]pkgopenapi.Operation{
			"createContact": {ID: "createContact"},
		}}),
		orchestrator.WithUISchemaFS(nil),
	)

	form, err := orch.Form(context.Background(), orchestrator.Request{
		Document:    &pkgopenapi.Document{},
		OperationID: "createContact",
		FormID:      "contato",
	})
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	if form.ID != "contato" || builder.calls != 1 {
		t.Fatalf("unexpected form %q after %d builds", form.ID, builder.calls)
	}
}

func TestOrchestrator_OpenAPIErrors(t *testing.T) {
	cases := []struct {
		name   string
		parser stubParser
		req    orchestrator.Request
		want   string
	}{
		{
			name: "missing operation id",
			req:  orchestrator.Request{Document: &pkgopenapi.Document{}},
			want: "operation id is required",
		},
		{
			name:   "unknown operation",
			parser: stubParser{operations: map[string]pkgopenapi.Operation{}},
			req:    orchestrator.Request{Document: &pkgopenapi.Document{}, OperationID: "listContacts"},
			want:   `operation "listContacts" not found`,
		},
		{
			name:   "parser failure",
			parser: stubParser{err: errors.New("bad yaml")},
			req:    orchestrator.Request{Document: &pkgopenapi.Document{}, OperationID: "createContact"},
			want:   "parse operations: bad yaml",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			orch := orchestrator.New(
				orchestrator.WithParser(tc.parser),
				orchestrator.WithUISchemaFS(nil),
			)
			_, err := orch.Form(context.Background(), tc.req)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q, got %v", tc.want, err)
			}
		})
	}
}

func TestOrchestrator_LoadsSourceThroughLoader(t *testing.T) {
	data, err := os.ReadFile("testdata/contact.yaml")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	loader := loaderFunc(func(_ context.Context, src pkgopenapi.Source) (pkgopenapi.Document, error) {
		return pkgopenapi.NewDocument(src, data)
	})

	form, err := orchestrator.New(orchestrator.WithLoader(loader)).Form(context.Background(), orchestrator.Request{
		Source:      pkgopenapi.SourceFromFS("contact.yaml"),
		OperationID: "createContact",
		FormID:      "contato",
	})
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	if form.ID != "contato" || len(form.Groups) != 3 {
		t.Fatalf("unexpected form: %+v", form)
	}
}

type loaderFunc func(context.Context, pkgopenapi.Source) (pkgopenapi.Document, error)

func (fn loaderFunc) Load(ctx context.Context, src pkgopenapi.Source) (pkgopenapi.Document, error) {
	return fn(ctx, src)
}

func TestOrchestrator_InvalidSchemaFSFailsLazily(t *testing.T) {
	orch := orchestrator.New(orchestrator.WithUISchemaFS(fstest.MapFS{
		"broken.yaml": {Data: []byte("  ")},
	}))
	_, err := orch.Form(context.Background(), orchestrator.Request{})
	if err == nil || !strings.Contains(err.Error(), "load ui schema") {
		t.Fatalf("expected load error, got %v", err)
	}
}

func TestOrchestrator_DecoratorsRunAfterOverlay(t *testing.T) {
	var seen string
	decorator := model.DecoratorFunc(func(form *model.FormModel) error {
		seen = form.Title
		return nil
	})

	if _, err := orchestrator.New(orchestrator.WithUIDecorators(decorator)).Form(context.Background(), orchestrator.Request{}); err != nil {
		t.Fatalf("form: %v", err)
	}
	if seen != "CAC TAT" {
		t.Fatalf("decorator saw title %q", seen)
	}

	failing := model.DecoratorFunc(func(*model.FormModel) error { return errors.New("nope") })
	_, err := orchestrator.New(orchestrator.WithUIDecorators(failing)).Form(context.Background(), orchestrator.Request{})
	if err == nil || !strings.Contains(err.Error(), "decorate form: nope") {
		t.Fatalf("expected decorator error, got %v", err)
	}
}

func TestOrchestrator_ControllerUsesResolvedForm(t *testing.T) {
	orch := orchestrator.New()
	ctrl, err := orch.Controller(context.Background(), orchestrator.Request{},
		controller.WithClock(testclock.NewFakeClock(time.Unix(0, 0))),
	)
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	defer ctrl.Close()

	if err := ctrl.Check("contactPreference", "phone"); err != nil {
		t.Fatalf("check: %v", err)
	}
	if !ctrl.IsRequired("phone") {
		t.Fatalf("phone toggle should be wired from the embedded form")
	}
}

func TestOrchestrator_RenderWithRegistry(t *testing.T) {
	stub := &stubRenderer{}
	registry := render.NewRegistry()
	registry.MustRegister(stub)

	orch := orchestrator.New(
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer(stub.Name()),
	)

	out, err := orch.Generate(context.Background(), orchestrator.Request{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(out) != uischema.DefaultFormID {
		t.Fatalf("unexpected output %q", out)
	}

	_, err = orch.Render(context.Background(), "pdf", stub.last, controller.Snapshot{}, render.RenderOptions{})
	if err == nil || !strings.Contains(err.Error(), `renderer "pdf"`) {
		t.Fatalf("expected unknown renderer error, got %v", err)
	}
}

func TestOrchestrator_DefaultRendererProducesHTML(t *testing.T) {
	out, err := orchestrator.New().Generate(context.Background(), orchestrator.Request{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(out)
	for _, fragment := range []string{
		`<h1 id="title">CAC TAT</h1>`,
		`<textarea id="open-text-area" name="productDescription" rows="3" required></textarea>`,
	} {
		if !strings.Contains(html, fragment) {
			t.Errorf("output missing %q", fragment)
		}
	}
}

func TestOrchestrator_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := orchestrator.New().Form(ctx, orchestrator.Request{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func ExampleOrchestrator_Form() {
	form, err := orchestrator.New().Form(context.Background(), orchestrator.Request{})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(form.ID, len(form.Fields), len(form.Groups))
	// Output: cac-tat 5 3
}

func TestOrchestrator_WithUISchemaStore(t *testing.T) {
	store, err := uischema.LoadFS(fstest.MapFS{
		"support.yaml": {Data: []byte(`
forms:
  support:
    title: Suporte
    fields:
      - name: email
        kind: email
    required: [email]
`)},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	form, err := orchestrator.New(orchestrator.WithUISchemaStore(store)).
		Form(context.Background(), orchestrator.Request{FormID: "support"})
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	if form.Title != "Suporte" || form.Metadata["widget.email"] != "input" {
		t.Fatalf("unexpected form: %+v", form)
	}
}
