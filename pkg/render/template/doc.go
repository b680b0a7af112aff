// Package template defines the template engine seam used by renderers. The
// gotemplate subpackage implements it with pongo2.
package template
