package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	pkgopenapi "github.com/goliatone/go-contactform/pkg/openapi"
)

const (
	extWidget            = "x-formgen-widget"
	extLabel             = "x-formgen-label"
	extOrder             = "x-formgen-order"
	extElementID         = "x-formgen-element-id"
	extPlaceholder       = "x-formgen-placeholder"
	extOptionLabels      = "x-formgen-option-labels"
	extPlaceholderOption = "x-formgen-placeholder-option"
	extRequires          = "x-formgen-requires"
	extTitle             = "x-formgen-title"
	extMessages          = "x-formgen-messages"
)

// Builder converts OpenAPI operations into contact form models.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := defaultOptions()
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	}
	opts.FormID = strings.TrimSpace(options.FormID)
	return &Builder{opts: opts}
}

// Build maps the request body of op onto a FormModel. Scalar string
// properties become fields, string enums become select/radio groups, arrays
// of string enums become checkbox groups and the schema's required list
// becomes the base RequiredSet.
func (b *Builder) Build(op pkgopenapi.Operation) (FormModel, error) {
	body := op.RequestBody
	if body.Type != "object" && len(body.Properties) == 0 {
		return FormModel{}, fmt.Errorf("model: operation %q has no object request body", op.ID)
	}

	form := FormModel{
		ID:          b.opts.FormID,
		Title:       stringExt(op.Extensions, extTitle),
		Description: op.Description,
	}
	if form.ID == "" {
		form.ID = op.ID
	}
	if form.Title == "" {
		form.Title = op.Summary
	}
	form.Messages = messagesFromExtension(op.Extensions[extMessages])
	form.Metadata = map[string]string{
		"operationId": op.ID,
		"endpoint":    op.Path,
		"method":      strings.ToUpper(op.Method),
	}

	for _, name := range orderedProperties(body.Properties) {
		prop := body.Properties[name]
		switch {
		case prop.Type == "array" && prop.Items != nil && len(prop.Items.Enum) > 0:
			group := b.groupFromSchema(name, GroupKindCheckbox, prop, *prop.Items)
			form.Groups = append(form.Groups, group)
			form.Toggles = append(form.Toggles, togglesFromExtension(name, prop.Extensions[extRequires])...)
		case len(prop.Enum) > 0:
			kind := GroupKindSelect
			if strings.EqualFold(stringExt(prop.Extensions, extWidget), string(GroupKindRadio)) {
				kind = GroupKindRadio
			}
			form.Groups = append(form.Groups, b.groupFromSchema(name, kind, prop, prop))
		case prop.Type == "string" || prop.Type == "":
			form.Fields = append(form.Fields, b.fieldFromSchema(name, prop))
		default:
			return FormModel{}, fmt.Errorf("model: property %q has unsupported type %q", name, prop.Type)
		}
	}

	fieldNames := make(map[string]struct{}, len(form.Fields))
	for _, field := range form.Fields {
		fieldNames[field.Name] = struct{}{}
	}
	for _, name := range body.Required {
		// Required groups have no RequiredSet semantics; only fields count.
		if _, ok := fieldNames[name]; ok {
			form.Required = append(form.Required, name)
		}
	}

	if err := form.Validate(); err != nil {
		return FormModel{}, err
	}
	return form, nil
}

func (b *Builder) fieldFromSchema(name string, prop pkgopenapi.Schema) Field {
	field := Field{
		Name:        name,
		Kind:        fieldKind(prop),
		Label:       stringExt(prop.Extensions, extLabel),
		Placeholder: stringExt(prop.Extensions, extPlaceholder),
		ElementID:   stringExt(prop.Extensions, extElementID),
	}
	if field.Label == "" {
		field.Label = b.opts.Labeler(name)
	}
	return field
}

func (b *Builder) groupFromSchema(name string, kind GroupKind, prop, values pkgopenapi.Schema) Group {
	group := Group{
		Name:  name,
		Kind:  kind,
		Label: stringExt(prop.Extensions, extLabel),
	}
	if group.Label == "" {
		group.Label = b.opts.Labeler(name)
	}

	if placeholder := stringExt(prop.Extensions, extPlaceholderOption); placeholder != "" && kind == GroupKindSelect {
		group.Options = append(group.Options, Option{Value: "", Label: placeholder, Disabled: true})
	}

	labels, _ := prop.Extensions[extOptionLabels].(map[string]any)
	for _, raw := range values.Enum {
		value := fmt.Sprint(raw)
		label, _ := labels[value].(string)
		if label == "" {
			label = b.opts.Labeler(value)
		}
		group.Options = append(group.Options, Option{Value: value, Label: label})
	}
	return group
}

func fieldKind(prop pkgopenapi.Schema) FieldKind {
	widget := strings.ToLower(stringExt(prop.Extensions, extWidget))
	switch {
	case widget == string(FieldKindTextArea) || prop.Format == "textarea":
		return FieldKindTextArea
	case widget == string(FieldKindTel) || prop.Format == "tel" || prop.Format == "phone":
		return FieldKindTel
	case prop.Format == "email":
		return FieldKindEmail
	default:
		return FieldKindText
	}
}

func orderedProperties(props map[string]pkgopenapi.Schema) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		oi, iok := orderExt(props[names[i]])
		oj, jok := orderExt(props[names[j]])
		switch {
		case iok && jok && oi != oj:
			return oi < oj
		case iok != jok:
			return iok
		default:
			return names[i] < names[j]
		}
	})
	return names
}

func orderExt(prop pkgopenapi.Schema) (float64, bool) {
	switch value := prop.Extensions[extOrder].(type) {
	case float64:
		return value, true
	case int:
		return float64(value), true
	default:
		return 0, false
	}
}

func togglesFromExtension(group string, raw any) []Toggle {
	mapped, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	options := make([]string, 0, len(mapped))
	for option := range mapped {
		options = append(options, option)
	}
	sort.Strings(options)

	toggles := make([]Toggle, 0, len(options))
	for _, option := range options {
		field, _ := mapped[option].(string)
		if field == "" {
			continue
		}
		toggles = append(toggles, Toggle{Group: group, Option: option, Field: field})
	}
	return toggles
}

func messagesFromExtension(raw any) Messages {
	mapped, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	messages := make(Messages, 2)
	for _, kind := range []BannerKind{BannerSuccess, BannerError} {
		if text, ok := mapped[string(kind)].(string); ok && strings.TrimSpace(text) != "" {
			messages[kind] = strings.TrimSpace(text)
		}
	}
	if len(messages) == 0 {
		return nil
	}
	return messages
}

func stringExt(ext map[string]any, key string) string {
	if ext == nil {
		return ""
	}
	value, _ := ext[key].(string)
	return strings.TrimSpace(value)
}

// ErrNoOperation reports a missing operation id during lookups.
var ErrNoOperation = errors.New("model: operation not found")
