package model

import (
	"fmt"
	"sort"
	"strings"

	pkgopenapi "github.com/goliatone/go-contactform/pkg/openapi"
)

const extensionPrefix = "x-formgen-"

// Violation describes an x-formgen extension the builder cannot honour.
type Violation struct {
	Operation string `json:"operation"`
	Location  string `json:"location"`
	Message   string `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s -> %s", v.Operation, v.Location, v.Message)
}

type extensionKind int

const (
	extString extensionKind = iota
	extNumber
	extObject
)

var operationExtensions = map[string]extensionKind{
	extTitle:    extString,
	extMessages: extObject,
}

var propertyExtensions = map[string]extensionKind{
	extWidget:            extString,
	extLabel:             extString,
	extOrder:             extNumber,
	extElementID:         extString,
	extPlaceholder:       extString,
	extOptionLabels:      extObject,
	extPlaceholderOption: extString,
	extRequires:          extObject,
}

var widgetValues = []string{"text", "email", "tel", "textarea", "select", "radio", "checkbox"}

// ExtensionKeys lists the supported x-formgen keys, sorted.
func ExtensionKeys() []string {
	keys := make([]string, 0, len(operationExtensions)+len(propertyExtensions))
	for key := range operationExtensions {
		keys = append(keys, key)
	}
	for key := range propertyExtensions {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Lint reports every x-formgen extension on op that is unknown, placed at the
// wrong level or carries a value of the wrong type. Violations are sorted by
// location.
func Lint(op pkgopenapi.Operation) []Violation {
	l := linter{op: op.ID}
	l.extensions("operation", op.Extensions, operationExtensions)
	l.extensions("requestBody", op.RequestBody.Extensions, nil)

	names := make([]string, 0, len(op.RequestBody.Properties))
	for name := range op.RequestBody.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		prop := op.RequestBody.Properties[name]
		location := "properties." + name
		l.extensions(location, prop.Extensions, propertyExtensions)
		if prop.Items != nil {
			l.extensions(location+".items", prop.Items.Extensions, nil)
		}
		l.requires(location, name, prop, op.RequestBody.Properties)
	}

	sort.SliceStable(l.out, func(i, j int) bool {
		if l.out[i].Location == l.out[j].Location {
			return l.out[i].Message < l.out[j].Message
		}
		return l.out[i].Location < l.out[j].Location
	})
	return l.out
}

type linter struct {
	op  string
	out []Violation
}

func (l *linter) add(location, format string, args ...any) {
	l.out = append(l.out, Violation{Operation: l.op, Location: location, Message: fmt.Sprintf(format, args...)})
}

func (l *linter) extensions(location string, ext map[string]any, allowed map[string]extensionKind) {
	keys := make([]string, 0, len(ext))
	for key := range ext {
		if strings.HasPrefix(key, extensionPrefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		kind, ok := allowed[key]
		if !ok {
			if _, known := operationExtensions[key]; known {
				l.add(location, "%s is only supported on operations", key)
				continue
			}
			if _, known := propertyExtensions[key]; known {
				l.add(location, "%s is only supported on request body properties", key)
				continue
			}
			l.add(location, "unsupported extension %s (supported: %s)", key, strings.Join(ExtensionKeys(), ", "))
			continue
		}
		l.value(location, key, kind, ext[key])
	}
}

func (l *linter) value(location, key string, kind extensionKind, value any) {
	switch kind {
	case extString:
		text, ok := value.(string)
		if !ok {
			l.add(location, "%s must be a string, found %T", key, value)
			return
		}
		if key == extWidget && !containsFold(widgetValues, text) {
			l.add(location, "%s %q is not one of %s", key, text, strings.Join(widgetValues, ", "))
		}
	case extNumber:
		switch value.(type) {
		case float64, int:
		default:
			l.add(location, "%s must be a number, found %T", key, value)
		}
	case extObject:
		mapped, ok := value.(map[string]any)
		if !ok {
			l.add(location, "%s must be an object, found %T", key, value)
			return
		}
		for entry, raw := range mapped {
			if _, ok := raw.(string); !ok {
				l.add(location, "%s.%s must be a string, found %T", key, entry, raw)
			}
		}
	}
}

// requires checks that x-formgen-requires maps options of a checkbox group
// onto existing properties.
func (l *linter) requires(location, name string, prop pkgopenapi.Schema, props map[string]pkgopenapi.Schema) {
	mapped, ok := prop.Extensions[extRequires].(map[string]any)
	if !ok {
		return
	}
	if prop.Type != "array" || prop.Items == nil || len(prop.Items.Enum) == 0 {
		l.add(location, "%s is only honoured on checkbox groups", extRequires)
		return
	}
	for option, raw := range mapped {
		field, _ := raw.(string)
		if !enumContains(prop.Items.Enum, option) {
			l.add(location, "%s option %q is not a value of %s", extRequires, option, name)
		}
		if _, ok := props[field]; field != "" && !ok {
			l.add(location, "%s target %q is not a property", extRequires, field)
		}
	}
}

func containsFold(values []string, want string) bool {
	for _, value := range values {
		if strings.EqualFold(value, strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}

func enumContains(values []any, want string) bool {
	for _, value := range values {
		if fmt.Sprint(value) == want {
			return true
		}
	}
	return false
}
