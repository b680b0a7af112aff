package template

import "io"

// TemplateRenderer executes named templates or inline sources against data
// and returns the output, copying it to every writer in out.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(source string, data any, out ...io.Writer) (string, error)
}
