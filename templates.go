package contactform

import (
	"io/fs"

	"github.com/goliatone/go-contactform/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in page and component templates so
// callers can copy or extend them and pass the result back through
// vanilla.WithTemplatesFS.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}
