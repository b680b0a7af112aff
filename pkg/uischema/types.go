package uischema

import (
	"sort"

	pkgmodel "github.com/goliatone/go-contactform/pkg/model"
)

// DefaultFormID identifies the embedded CAC TAT definition.
const DefaultFormID = "cac-tat"

// Store keeps the parsed form definitions and overlays keyed by form id. It
// is safe for concurrent readers when treated as immutable after
// construction.
type Store struct {
	forms    map[string]pkgmodel.FormModel
	overlays map[string]Overlay
	sources  map[string]string
}

// Overlay describes presentation overrides for a form defined elsewhere.
type Overlay struct {
	ID          string                  `json:"-" yaml:"-"`
	Source      string                  `json:"-" yaml:"-"`
	Title       string                  `json:"title" yaml:"title"`
	Description string                  `json:"description" yaml:"description"`
	Messages    pkgmodel.Messages       `json:"messages" yaml:"messages"`
	Fields      map[string]FieldOverlay `json:"fields" yaml:"fields"`
	Groups      map[string]GroupOverlay `json:"groups" yaml:"groups"`
	Required    []string                `json:"required" yaml:"required"`
	Toggles     []pkgmodel.Toggle       `json:"toggles" yaml:"toggles"`
}

// FieldOverlay overrides presentation attributes of one field.
type FieldOverlay struct {
	Label       string `json:"label" yaml:"label"`
	Placeholder string `json:"placeholder" yaml:"placeholder"`
	ElementID   string `json:"elementId" yaml:"elementId"`
}

// GroupOverlay overrides the label of a group and of its options.
type GroupOverlay struct {
	Label   string            `json:"label" yaml:"label"`
	Options map[string]string `json:"options" yaml:"options"`
}

// Form returns the definition stored under id.
func (s *Store) Form(id string) (pkgmodel.FormModel, bool) {
	if s == nil {
		return pkgmodel.FormModel{}, false
	}
	form, ok := s.forms[id]
	if !ok {
		return pkgmodel.FormModel{}, false
	}
	return cloneForm(form), true
}

// Overlay returns the overlay registered for id.
func (s *Store) Overlay(id string) (Overlay, bool) {
	if s == nil {
		return Overlay{}, false
	}
	overlay, ok := s.overlays[id]
	return overlay, ok
}

// Source reports which file defined the form or overlay id.
func (s *Store) Source(id string) string {
	if s == nil {
		return ""
	}
	return s.sources[id]
}

// FormIDs lists the stored form ids in sorted order.
func (s *Store) FormIDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.forms))
	for id := range s.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds neither forms nor overlays.
func (s *Store) Empty() bool {
	return s == nil || (len(s.forms) == 0 && len(s.overlays) == 0)
}

func cloneForm(form pkgmodel.FormModel) pkgmodel.FormModel {
	out := form
	out.Fields = append([]pkgmodel.Field(nil), form.Fields...)
	out.Groups = make([]pkgmodel.Group, len(form.Groups))
	for i, group := range form.Groups {
		group.Options = append([]pkgmodel.Option(nil), group.Options...)
		out.Groups[i] = group
	}
	if len(form.Groups) == 0 {
		out.Groups = nil
	}
	out.Required = append([]string(nil), form.Required...)
	out.Toggles = append([]pkgmodel.Toggle(nil), form.Toggles...)
	if form.Messages != nil {
		out.Messages = make(pkgmodel.Messages, len(form.Messages))
		for k, v := range form.Messages {
			out.Messages[k] = v
		}
	}
	if form.Metadata != nil {
		out.Metadata = make(map[string]string, len(form.Metadata))
		for k, v := range form.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}
