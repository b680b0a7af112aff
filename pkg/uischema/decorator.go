package uischema

import (
	"fmt"
	"strings"

	pkgmodel "github.com/goliatone/go-contactform/pkg/model"
)

// Decorator applies overlays from a Store to form models built elsewhere.
type Decorator struct {
	store *Store
}

var _ pkgmodel.Decorator = (*Decorator)(nil)

// NewDecorator builds a Decorator backed by the provided store. When store is
// nil or empty, the decorator becomes a no-op.
func NewDecorator(store *Store) *Decorator {
	return &Decorator{store: store}
}

// Decorate merges the overlay registered for form.ID into form. When no
// overlay matches, the form is left untouched. The decorated form is
// validated again since overlays may add required fields and toggles.
func (d *Decorator) Decorate(form *pkgmodel.FormModel) error {
	if d == nil || d.store.Empty() || form == nil {
		return nil
	}

	overlay, ok := d.store.Overlay(form.ID)
	if !ok {
		return nil
	}

	if overlay.Title != "" {
		form.Title = overlay.Title
	}
	if overlay.Description != "" {
		form.Description = overlay.Description
	}
	if len(overlay.Messages) > 0 {
		if form.Messages == nil {
			form.Messages = make(pkgmodel.Messages, len(overlay.Messages))
		}
		for kind, text := range overlay.Messages {
			form.Messages[kind] = text
		}
	}

	for name, cfg := range overlay.Fields {
		idx := fieldIndex(form.Fields, name)
		if idx < 0 {
			return fmt.Errorf("uischema: overlay %q (file %s) references unknown field %q", overlay.ID, overlay.Source, name)
		}
		applyFieldOverlay(&form.Fields[idx], cfg)
	}

	for name, cfg := range overlay.Groups {
		idx := groupIndex(form.Groups, name)
		if idx < 0 {
			return fmt.Errorf("uischema: overlay %q (file %s) references unknown group %q", overlay.ID, overlay.Source, name)
		}
		applyGroupOverlay(&form.Groups[idx], cfg)
	}

	for _, name := range overlay.Required {
		if !containsString(form.Required, name) {
			form.Required = append(form.Required, name)
		}
	}
	for _, toggle := range overlay.Toggles {
		if !containsToggle(form.Toggles, toggle) {
			form.Toggles = append(form.Toggles, toggle)
		}
	}

	if err := form.Validate(); err != nil {
		return fmt.Errorf("uischema: overlay %q: %w", overlay.ID, err)
	}
	return nil
}

func applyFieldOverlay(field *pkgmodel.Field, cfg FieldOverlay) {
	if label := strings.TrimSpace(cfg.Label); label != "" {
		field.Label = label
	}
	if placeholder := strings.TrimSpace(cfg.Placeholder); placeholder != "" {
		field.Placeholder = placeholder
	}
	if id := strings.TrimSpace(cfg.ElementID); id != "" {
		field.ElementID = id
	}
}

func applyGroupOverlay(group *pkgmodel.Group, cfg GroupOverlay) {
	if label := strings.TrimSpace(cfg.Label); label != "" {
		group.Label = label
	}
	for i := range group.Options {
		if label, ok := cfg.Options[group.Options[i].Value]; ok && strings.TrimSpace(label) != "" {
			group.Options[i].Label = strings.TrimSpace(label)
		}
	}
}

func fieldIndex(fields []pkgmodel.Field, name string) int {
	for i, field := range fields {
		if field.Name == name {
			return i
		}
	}
	return -1
}

func groupIndex(groups []pkgmodel.Group, name string) int {
	for i, group := range groups {
		if group.Name == name {
			return i
		}
	}
	return -1
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

func containsToggle(toggles []pkgmodel.Toggle, target pkgmodel.Toggle) bool {
	for _, toggle := range toggles {
		if toggle == target {
			return true
		}
	}
	return false
}
