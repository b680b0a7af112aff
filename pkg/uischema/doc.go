// Package uischema loads contact form definitions from JSON or YAML files and
// applies overlays (labels, placeholders, banner copy) to forms built from
// other sources such as OpenAPI operations. The default CAC TAT definition is
// embedded and exposed through EmbeddedFS.
package uischema
