package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-contactform/pkg/model"
)

// Transformer mutates a FormModel before the UI schema overlay runs.
type Transformer interface {
	Transform(ctx context.Context, form *model.FormModel) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, form *model.FormModel) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, form *model.FormModel) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, form)
}

// Chain runs transformers in order and stops at the first error.
func Chain(transformers ...Transformer) Transformer {
	return TransformerFunc(func(ctx context.Context, form *model.FormModel) error {
		for _, t := range transformers {
			if t == nil {
				continue
			}
			if err := t.Transform(ctx, form); err != nil {
				return err
			}
		}
		return nil
	})
}

// JSONPresetTransformer applies declarative patches loaded from a JSON
// document:
//
//	{
//	  "title": "Contato",
//	  "metadata": {"widget.attendanceType": "select"},
//	  "messages": {"success": "Obrigado!"},
//	  "fields": {"phone": {"label": "Celular", "placeholder": "DDD + número"}},
//	  "groups": {"product": {"label": "Curso", "options": {"youtube": "Canal"}}},
//	  "required": {"phone": true, "lastName": false}
//	}
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

type jsonTransformDocument struct {
	Title       string                    `json:"title"`
	Description string                    `json:"description"`
	Metadata    map[string]string         `json:"metadata"`
	Messages    model.Messages            `json:"messages"`
	Fields      map[string]jsonFieldPatch `json:"fields"`
	Groups      map[string]jsonGroupPatch `json:"groups"`
	Required    map[string]bool           `json:"required"`
}

type jsonFieldPatch struct {
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
	ElementID   string `json:"elementId"`
}

type jsonGroupPatch struct {
	Label   string            `json:"label"`
	Options map[string]string `json:"options"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from fsys.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the patches onto form. Patches naming unknown fields,
// groups or options fail.
func (t *JSONPresetTransformer) Transform(ctx context.Context, form *model.FormModel) error {
	if form == nil {
		return errors.New("json preset transformer: form model is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := t.document
	if doc.Title != "" {
		form.Title = doc.Title
	}
	if doc.Description != "" {
		form.Description = doc.Description
	}
	form.Metadata = mergeStringMap(form.Metadata, doc.Metadata)
	for kind, text := range doc.Messages {
		if form.Messages == nil {
			form.Messages = make(model.Messages, len(doc.Messages))
		}
		form.Messages[kind] = text
	}

	for name, patch := range doc.Fields {
		field := findField(form, name)
		if field == nil {
			return fmt.Errorf("json preset transformer: field %q not found", name)
		}
		applyFieldPatch(field, patch)
	}

	for name, patch := range doc.Groups {
		group := findGroup(form, name)
		if group == nil {
			return fmt.Errorf("json preset transformer: group %q not found", name)
		}
		if err := applyGroupPatch(group, patch); err != nil {
			return err
		}
	}

	for name, required := range doc.Required {
		if findField(form, name) == nil {
			return fmt.Errorf("json preset transformer: required field %q not found", name)
		}
		form.Required = setRequired(form.Required, name, required)
	}
	return nil
}

func applyFieldPatch(field *model.Field, patch jsonFieldPatch) {
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if patch.Placeholder != "" {
		field.Placeholder = patch.Placeholder
	}
	if patch.ElementID != "" {
		field.ElementID = patch.ElementID
	}
}

func applyGroupPatch(group *model.Group, patch jsonGroupPatch) error {
	if patch.Label != "" {
		group.Label = patch.Label
	}
	for value, label := range patch.Options {
		found := false
		for i := range group.Options {
			if group.Options[i].Value == value {
				group.Options[i].Label = label
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("json preset transformer: group %q has no option %q", group.Name, value)
		}
	}
	return nil
}

func findField(form *model.FormModel, name string) *model.Field {
	for i := range form.Fields {
		if form.Fields[i].Name == name {
			return &form.Fields[i]
		}
	}
	return nil
}

func findGroup(form *model.FormModel, name string) *model.Group {
	for i := range form.Groups {
		if form.Groups[i].Name == name {
			return &form.Groups[i]
		}
	}
	return nil
}

// setRequired keeps the list in its original order; new entries go last.
func setRequired(list []string, name string, required bool) []string {
	out := make([]string, 0, len(list)+1)
	present := false
	for _, existing := range list {
		if existing == name {
			present = true
			if !required {
				continue
			}
		}
		out = append(out, existing)
	}
	if required && !present {
		out = append(out, name)
	}
	return out
}

func mergeStringMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
