package controller

import (
	"time"

	"github.com/goliatone/go-contactform/pkg/model"
)

// FieldState is the rendered view of one field.
type FieldState struct {
	Name     string          `json:"name"`
	Kind     model.FieldKind `json:"kind"`
	Value    string          `json:"value"`
	Required bool            `json:"required"`
}

// GroupState is the rendered view of one option group.
type GroupState struct {
	Name     string          `json:"name"`
	Kind     model.GroupKind `json:"kind"`
	Selected []string        `json:"selected"`
}

// Has reports whether value is currently selected.
func (g GroupState) Has(value string) bool {
	for _, selected := range g.Selected {
		if selected == value {
			return true
		}
	}
	return false
}

// BannerState is the rendered view of one banner. ExpiresAt is zero when no
// auto-dismiss is pending.
type BannerState struct {
	Kind      model.BannerKind `json:"kind"`
	Visible   bool             `json:"visible"`
	ExpiresAt time.Time        `json:"expiresAt,omitempty"`
}

// Snapshot is an immutable copy of the whole controller state.
type Snapshot struct {
	FormID     string        `json:"formId"`
	Fields     []FieldState  `json:"fields"`
	Required   []string      `json:"required"`
	Groups     []GroupState  `json:"groups,omitempty"`
	Attachment *Attachment   `json:"attachment,omitempty"`
	Banners    []BannerState `json:"banners"`
}

// Value returns the value of the named field.
func (s Snapshot) Value(name string) string {
	for _, field := range s.Fields {
		if field.Name == name {
			return field.Value
		}
	}
	return ""
}

// Field returns the state of the named field.
func (s Snapshot) Field(name string) (FieldState, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldState{}, false
}

// Group returns the state of the named group.
func (s Snapshot) Group(name string) (GroupState, bool) {
	for _, group := range s.Groups {
		if group.Name == name {
			return group, true
		}
	}
	return GroupState{}, false
}

// Banner returns the state of kind.
func (s Snapshot) Banner(kind model.BannerKind) BannerState {
	for _, b := range s.Banners {
		if b.Kind == kind {
			return b
		}
	}
	return BannerState{Kind: kind}
}

// Snapshot copies the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		FormID:   c.form.ID,
		Fields:   make([]FieldState, 0, len(c.form.Fields)),
		Required: c.requiredLocked(),
		Banners: []BannerState{
			c.banners[model.BannerSuccess].state(),
			c.banners[model.BannerError].state(),
		},
	}
	for _, field := range c.form.Fields {
		_, required := c.required[field.Name]
		snap.Fields = append(snap.Fields, FieldState{
			Name:     field.Name,
			Kind:     field.Kind,
			Value:    c.values[field.Name],
			Required: required,
		})
	}
	for _, group := range c.form.Groups {
		state := c.groups[group.Name]
		snap.Groups = append(snap.Groups, GroupState{
			Name:     group.Name,
			Kind:     group.Kind,
			Selected: state.selectedValues(),
		})
	}
	if c.attachment != nil {
		clone := c.attachment.clone()
		snap.Attachment = &clone
	}
	return snap
}
