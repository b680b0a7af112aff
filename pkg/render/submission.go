package render

import (
	"fmt"
	"sort"
	"strings"
)

// HiddenField is a hidden input rendered next to the visible controls.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Hidden builds a HiddenField, formatting value with fmt.Sprint.
func Hidden(name string, value any) HiddenField {
	return HiddenField{Name: strings.TrimSpace(name), Value: fmt.Sprint(value)}
}

// CSRFToken carries token under the name the host's CSRF check reads, for
// example "_csrf".
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// NormalizeHiddenFields trims names, drops unnamed entries and keeps the last
// value given for a name. The result is sorted by name.
func NormalizeHiddenFields(fields []HiddenField) []HiddenField {
	if len(fields) == 0 {
		return nil
	}
	byName := make(map[string]string, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		byName[name] = field.Value
	}

	out := make([]HiddenField, 0, len(byName))
	for name, value := range byName {
		out = append(out, HiddenField{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
