package openapi

import (
	"errors"
	"fmt"
	"strings"
)

// Document is a raw OpenAPI payload paired with its Source.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument copies raw into a Document.
func NewDocument(src Source, raw []byte) (Document, error) {
	switch {
	case src == nil:
		return Document{}, errors.New("openapi: source is required")
	case len(raw) == 0:
		return Document{}, errors.New("openapi: raw document is empty")
	}
	return Document{source: src, raw: append([]byte(nil), raw...)}, nil
}

// MustNewDocument is NewDocument for fixtures; it panics on error.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Operation is a submitting endpoint: its identity, copy, request body and
// the x-formgen extensions declared on it.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string
	RequestBody Schema
	Extensions  map[string]any
}

// NewOperation requires id, method and path. method is upper-cased.
func NewOperation(id, method, path string, request Schema) (Operation, error) {
	var missing []string
	for _, f := range []struct{ name, value string }{{"id", id}, {"method", method}, {"path", path}} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return Operation{}, fmt.Errorf("openapi: operation %s required", strings.Join(missing, ", "))
	}
	return Operation{ID: id, Method: strings.ToUpper(method), Path: path, RequestBody: request}, nil
}

// MustNewOperation is NewOperation for fixtures; it panics on error.
func MustNewOperation(id, method, path string, request Schema) Operation {
	op, err := NewOperation(id, method, path, request)
	if err != nil {
		panic(err)
	}
	return op
}

// Schema is the slice of a JSON schema the form builder reads. Nested
// objects beyond the request body are kept as Ref only.
type Schema struct {
	Ref         string
	Type        string
	Format      string
	Required    []string
	Properties  map[string]Schema
	Items       *Schema
	Enum        []any
	Description string
	Default     any
	Extensions  map[string]any
}
