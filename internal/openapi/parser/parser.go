// Package parser turns OpenAPI 3 documents into pkgopenapi operations using
// kin-openapi. Only submitting verbs are kept since a contact form has
// nothing to build from a GET.
package parser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-contactform/pkg/openapi"
)

const extensionNamespace = "x-formgen"

// maxSchemaDepth covers the body object, its properties and array items.
const maxSchemaDepth = 3

var (
	submitMethods  = []string{http.MethodPost, http.MethodPut, http.MethodPatch}
	bodyMediaTypes = []string{"multipart/form-data", "application/x-www-form-urlencoded", "application/json"}
)

// Parser implements pkgopenapi.Parser.
type Parser struct {
	options pkgopenapi.ParserOptions
}

var _ pkgopenapi.Parser = (*Parser)(nil)

func New(options pkgopenapi.ParserOptions) *Parser {
	return &Parser{options: options}
}

// Operations loads doc and returns its POST, PUT and PATCH operations keyed
// by operationId. Operations without an id are keyed "<method>:<path>".
func (p *Parser) Operations(ctx context.Context, doc pkgopenapi.Document) (map[string]pkgopenapi.Operation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = p.options.ResolveReferences
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}
	if p.options.ResolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}

	var paths map[string]*openapi3.PathItem
	if spec.Paths != nil {
		paths = spec.Paths.Map()
	}
	if len(paths) == 0 && !p.options.AllowPartialDocuments {
		return nil, errors.New("openapi parser: document does not contain any paths")
	}

	operations := make(map[string]pkgopenapi.Operation)
	for _, path := range sortedKeys(paths) {
		item := paths[path]
		if item == nil {
			continue
		}
		for _, method := range submitMethods {
			src := item.GetOperation(method)
			if src == nil {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			op, err := convertOperation(method, path, src)
			if err != nil {
				return nil, err
			}
			operations[op.ID] = op
		}
	}

	if len(operations) == 0 && !p.options.AllowPartialDocuments {
		return nil, errors.New("openapi parser: no submitting operations found")
	}
	return operations, nil
}

func convertOperation(method, path string, src *openapi3.Operation) (pkgopenapi.Operation, error) {
	id := src.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}
	op, err := pkgopenapi.NewOperation(id, method, path, requestSchema(src.RequestBody))
	if err != nil {
		return pkgopenapi.Operation{}, fmt.Errorf("openapi parser: %s %s: %w", method, path, err)
	}
	op.Summary = src.Summary
	op.Description = src.Description
	op.Extensions = extractExtensions(src.Extensions)
	return op, nil
}

// requestSchema picks the body schema, preferring form encodings over JSON.
func requestSchema(body *openapi3.RequestBodyRef) pkgopenapi.Schema {
	switch {
	case body == nil:
		return pkgopenapi.Schema{}
	case body.Value == nil:
		return pkgopenapi.Schema{Ref: body.Ref}
	}

	content := body.Value.Content
	for _, mediaType := range bodyMediaTypes {
		if mt := content.Get(mediaType); mt != nil {
			return convertSchema(mt.Schema, 0)
		}
	}
	for _, mediaType := range sortedKeys(content) {
		if mt := content[mediaType]; mt != nil {
			return convertSchema(mt.Schema, 0)
		}
	}
	return pkgopenapi.Schema{}
}

func convertSchema(ref *openapi3.SchemaRef, depth int) pkgopenapi.Schema {
	if ref == nil {
		return pkgopenapi.Schema{}
	}
	if ref.Value == nil || depth > maxSchemaDepth {
		return pkgopenapi.Schema{Ref: ref.Ref}
	}

	src := ref.Value
	out := pkgopenapi.Schema{
		Ref:         ref.Ref,
		Format:      src.Format,
		Description: src.Description,
		Default:     src.Default,
		Extensions:  extractExtensions(src.Extensions),
	}
	if src.Type != nil {
		out.Type = strings.Join(src.Type.Slice(), ",")
	}
	if len(src.Required) > 0 {
		out.Required = append([]string(nil), src.Required...)
	}
	if len(src.Enum) > 0 {
		out.Enum = append([]any(nil), src.Enum...)
	}
	for name, prop := range src.Properties {
		if out.Properties == nil {
			out.Properties = make(map[string]pkgopenapi.Schema, len(src.Properties))
		}
		out.Properties[name] = convertSchema(prop, depth+1)
	}
	if src.Items != nil {
		items := convertSchema(src.Items, depth+1)
		out.Items = &items
	}
	return out
}

// extractExtensions keeps x-formgen-* keys and flattens the nested
// x-formgen object into the same dashed form.
func extractExtensions(raw map[string]any) map[string]any {
	out := make(map[string]any)
	for key, value := range raw {
		if key == extensionNamespace {
			nested, _ := value.(map[string]any)
			for inner, v := range nested {
				out[extensionNamespace+"-"+inner] = v
			}
			continue
		}
		if strings.HasPrefix(key, extensionNamespace+"-") {
			out[key] = value
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
