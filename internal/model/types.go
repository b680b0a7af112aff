package model

import (
	"errors"
	"fmt"
	"strings"
)

// FieldKind is the input flavour of a free-text field.
type FieldKind string

const (
	FieldKindText     FieldKind = "text"
	FieldKindEmail    FieldKind = "email"
	FieldKindTextArea FieldKind = "textarea"
	FieldKindTel      FieldKind = "tel"
)

// GroupKind distinguishes single-choice widgets from multi-choice ones.
type GroupKind string

const (
	GroupKindSelect   GroupKind = "select"
	GroupKindRadio    GroupKind = "radio"
	GroupKindCheckbox GroupKind = "checkbox"
)

// BannerKind names one of the two notification regions of the form.
type BannerKind string

const (
	BannerSuccess BannerKind = "success"
	BannerError   BannerKind = "error"
)

// Field models a free-text input. Name doubles as the identity used by the
// controller, the RequiredSet and rendered markup.
type Field struct {
	Name        string    `json:"name" yaml:"name"`
	Kind        FieldKind `json:"kind" yaml:"kind"`
	Label       string    `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	// ElementID overrides the DOM id when it differs from Name
	// (productDescription renders as open-text-area).
	ElementID string `json:"elementId,omitempty" yaml:"elementId,omitempty"`
}

// ID returns the DOM id used by renderers.
func (f Field) ID() string {
	if id := strings.TrimSpace(f.ElementID); id != "" {
		return id
	}
	return f.Name
}

// Option is one selectable entry inside a Group.
type Option struct {
	Value    string `json:"value" yaml:"value"`
	Label    string `json:"label,omitempty" yaml:"label,omitempty"`
	Disabled bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// DisplayLabel falls back to the value when no label was configured.
func (o Option) DisplayLabel() string {
	if o.Label != "" {
		return o.Label
	}
	return o.Value
}

// Group models a dropdown, radio group or checkbox group. Options keep
// insertion order; positional selectors index into this slice.
type Group struct {
	Name    string    `json:"name" yaml:"name"`
	Kind    GroupKind `json:"kind" yaml:"kind"`
	Label   string    `json:"label,omitempty" yaml:"label,omitempty"`
	Options []Option  `json:"options" yaml:"options"`
}

// Multi reports whether more than one option may be selected at once.
func (g Group) Multi() bool {
	return g.Kind == GroupKindCheckbox
}

// Toggle binds a checkbox option to conditional membership of a field in the
// RequiredSet: checking the option makes Field mandatory.
type Toggle struct {
	Group  string `json:"group" yaml:"group"`
	Option string `json:"option" yaml:"option"`
	Field  string `json:"field" yaml:"field"`
}

// Messages carries the banner copy per kind.
type Messages map[BannerKind]string

// FormModel is the complete definition of a contact form.
type FormModel struct {
	ID          string            `json:"id" yaml:"id"`
	Title       string            `json:"title,omitempty" yaml:"title,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field           `json:"fields" yaml:"fields"`
	Groups      []Group           `json:"groups,omitempty" yaml:"groups,omitempty"`
	Required    []string          `json:"required,omitempty" yaml:"required,omitempty"`
	Toggles     []Toggle          `json:"toggles,omitempty" yaml:"toggles,omitempty"`
	Messages    Messages          `json:"messages,omitempty" yaml:"messages,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Field looks up a field by name.
func (m FormModel) Field(name string) (Field, bool) {
	for _, field := range m.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Group looks up a group by name.
func (m FormModel) Group(name string) (Group, bool) {
	for _, group := range m.Groups {
		if group.Name == name {
			return group, true
		}
	}
	return Group{}, false
}

// Validate checks referential integrity: unique names, known kinds, required
// and toggle targets that exist.
func (m FormModel) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return errors.New("model: form id is required")
	}
	if len(m.Fields) == 0 {
		return fmt.Errorf("model: form %q defines no fields", m.ID)
	}

	fields := make(map[string]struct{}, len(m.Fields))
	for _, field := range m.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return fmt.Errorf("model: form %q has a field without name", m.ID)
		}
		if _, dup := fields[name]; dup {
			return fmt.Errorf("model: form %q declares field %q twice", m.ID, name)
		}
		switch field.Kind {
		case FieldKindText, FieldKindEmail, FieldKindTextArea, FieldKindTel:
		default:
			return fmt.Errorf("model: field %q has unsupported kind %q", name, field.Kind)
		}
		fields[name] = struct{}{}
	}

	groups := make(map[string]Group, len(m.Groups))
	for _, group := range m.Groups {
		name := strings.TrimSpace(group.Name)
		if name == "" {
			return fmt.Errorf("model: form %q has a group without name", m.ID)
		}
		if _, dup := groups[name]; dup {
			return fmt.Errorf("model: form %q declares group %q twice", m.ID, name)
		}
		switch group.Kind {
		case GroupKindSelect, GroupKindRadio, GroupKindCheckbox:
		default:
			return fmt.Errorf("model: group %q has unsupported kind %q", name, group.Kind)
		}
		if len(group.Options) == 0 {
			return fmt.Errorf("model: group %q has no options", name)
		}
		seen := make(map[string]struct{}, len(group.Options))
		for _, opt := range group.Options {
			if _, dup := seen[opt.Value]; dup {
				return fmt.Errorf("model: group %q repeats option %q", name, opt.Value)
			}
			seen[opt.Value] = struct{}{}
		}
		groups[name] = group
	}

	for _, name := range m.Required {
		if _, ok := fields[name]; !ok {
			return fmt.Errorf("model: required field %q is not declared", name)
		}
	}

	for _, toggle := range m.Toggles {
		group, ok := groups[toggle.Group]
		if !ok {
			return fmt.Errorf("model: toggle references unknown group %q", toggle.Group)
		}
		if !group.Multi() {
			return fmt.Errorf("model: toggle group %q must be a checkbox group", toggle.Group)
		}
		found := false
		for _, opt := range group.Options {
			if opt.Value == toggle.Option {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("model: toggle references unknown option %q in group %q", toggle.Option, toggle.Group)
		}
		if _, ok := fields[toggle.Field]; !ok {
			return fmt.Errorf("model: toggle references unknown field %q", toggle.Field)
		}
	}
	return nil
}
