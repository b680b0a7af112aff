// Package contactform is the entry point for the CAC TAT contact form: it
// resolves the form definition, builds the controller that owns its state and
// renders snapshots of that state.
package contactform

import (
	"context"

	"github.com/goliatone/go-contactform/pkg/controller"
	"github.com/goliatone/go-contactform/pkg/model"
	pkgopenapi "github.com/goliatone/go-contactform/pkg/openapi"
	"github.com/goliatone/go-contactform/pkg/orchestrator"
	"github.com/goliatone/go-contactform/pkg/render"
)

// RenderOptions describes per-request rendering overrides such as locale,
// form action, hidden fields and submission issues.
type RenderOptions = render.RenderOptions

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// DefaultForm returns the embedded CAC TAT form with widget annotations.
func DefaultForm(ctx context.Context) (model.FormModel, error) {
	return orchestrator.New().Form(ctx, orchestrator.Request{})
}

// NewController builds a controller for the embedded CAC TAT form.
func NewController(ctx context.Context, options ...controller.Option) (*controller.Controller, error) {
	return orchestrator.New().Controller(ctx, orchestrator.Request{}, options...)
}

// FormFromOperation loads source and converts the request body of operationID
// into a form definition.
func FormFromOperation(ctx context.Context, source pkgopenapi.Source, operationID string, options ...orchestrator.Option) (model.FormModel, error) {
	return orchestrator.New(options...).Form(ctx, orchestrator.Request{
		Source:      source,
		OperationID: operationID,
	})
}

// GenerateHTML renders the initial state of the form built from operationID
// using the named renderer (vanilla when empty).
func GenerateHTML(ctx context.Context, source pkgopenapi.Source, operationID, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Source:      source,
		OperationID: operationID,
		Renderer:    rendererName,
	})
}

// GenerateHTMLFromDocument renders a form using a pre-loaded document,
// bypassing the loader stage.
func GenerateHTMLFromDocument(ctx context.Context, doc pkgopenapi.Document, operationID, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Document:    &doc,
		OperationID: operationID,
		Renderer:    rendererName,
	})
}

// RenderController renders the live state of ctrl with the default vanilla
// renderer.
func RenderController(ctx context.Context, ctrl *controller.Controller, opts RenderOptions) ([]byte, error) {
	return orchestrator.New().Render(ctx, "", ctrl.Form(), ctrl.Snapshot(), opts)
}
