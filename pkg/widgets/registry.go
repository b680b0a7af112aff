package widgets

import (
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-contactform/pkg/model"
)

// Built-in widget identifiers exposed by the registry. Each maps to a
// component template in the vanilla renderer.
const (
	WidgetInput    = "input"
	WidgetTextArea = "textarea"
	WidgetSelect   = "select"
	WidgetRadio    = "radio"
	WidgetCheckbox = "checkbox"
)

// widgetMetadataPrefix lets a form pin a control's widget through
// Metadata["widget.<name>"].
const widgetMetadataPrefix = "widget."

// Control is what a matcher sees: one field or one group of the form.
type Control struct {
	Name      string
	FieldKind model.FieldKind
	GroupKind model.GroupKind
	Options   int
}

// IsGroup reports whether the control is an option group.
func (c Control) IsGroup() bool {
	return c.GroupKind != ""
}

// FieldControl describes a field.
func FieldControl(field model.Field) Control {
	return Control{Name: field.Name, FieldKind: field.Kind}
}

// GroupControl describes a group.
func GroupControl(group model.Group) Control {
	return Control{Name: group.Name, GroupKind: group.Kind, Options: len(group.Options)}
}

// Matcher decides whether a widget renderer should handle the supplied control.
type Matcher func(control Control) bool

type rule struct {
	name     string
	priority int
	match    Matcher
}

// Registry picks a widget for each control. Rules are kept ordered by
// descending priority; equal priorities keep registration order. An empty
// registry never resolves a widget.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry returns a registry preloaded with the built-in widgets.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds matcher under name. Blank names and nil matchers are ignored.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	name = strings.TrimSpace(name)
	if r == nil || matcher == nil || name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	at := sort.Search(len(r.rules), func(i int) bool { return r.rules[i].priority < priority })
	r.rules = slices.Insert(r.rules, at, rule{name: name, priority: priority, match: matcher})
}

// Resolve returns the widget name for a control, ignoring form overrides.
func (r *Registry) Resolve(control Control) (string, bool) {
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, entry := range r.rules {
		if entry.match(control) {
			return entry.name, true
		}
	}
	return "", false
}

// ResolveIn honours a "widget.<name>" entry in the form metadata before
// consulting the matchers.
func (r *Registry) ResolveIn(form model.FormModel, control Control) (string, bool) {
	if explicit := strings.TrimSpace(form.Metadata[widgetMetadataPrefix+control.Name]); explicit != "" {
		return explicit, true
	}
	return r.Resolve(control)
}

// Decorate implements model.Decorator, recording the resolved widget of every
// control as Metadata["widget.<name>"] unless one is already set.
func (r *Registry) Decorate(form *model.FormModel) error {
	if r == nil || form == nil {
		return nil
	}
	record := func(control Control) {
		key := widgetMetadataPrefix + control.Name
		if form.Metadata[key] != "" {
			return
		}
		if widget, ok := r.Resolve(control); ok {
			if form.Metadata == nil {
				form.Metadata = make(map[string]string)
			}
			form.Metadata[key] = widget
		}
	}
	for _, field := range form.Fields {
		record(FieldControl(field))
	}
	for _, group := range form.Groups {
		record(GroupControl(group))
	}
	return nil
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetCheckbox, 90, func(c Control) bool {
		return c.GroupKind == model.GroupKindCheckbox
	})

	r.Register(WidgetRadio, 80, func(c Control) bool {
		return c.GroupKind == model.GroupKindRadio
	})

	r.Register(WidgetSelect, 70, func(c Control) bool {
		return c.GroupKind == model.GroupKindSelect
	})

	r.Register(WidgetTextArea, 60, func(c Control) bool {
		return c.FieldKind == model.FieldKindTextArea
	})

	r.Register(WidgetInput, 10, func(c Control) bool {
		return !c.IsGroup()
	})
}

// InputType maps a field kind onto the HTML input type attribute.
func InputType(kind model.FieldKind) string {
	switch kind {
	case model.FieldKindEmail:
		return "email"
	case model.FieldKindTel:
		return "number"
	default:
		return "text"
	}
}
