package render

import (
	"context"

	"github.com/goliatone/go-contactform/pkg/controller"
	"github.com/goliatone/go-contactform/pkg/model"
)

// Renderer converts a form definition plus the controller state captured in a
// snapshot into a byte representation (HTML, plain text, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.FormModel, state controller.Snapshot, options RenderOptions) ([]byte, error)
}
