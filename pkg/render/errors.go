package render

import (
	"slices"
	"strings"

	"github.com/goliatone/go-contactform/pkg/controller"
	"github.com/goliatone/go-contactform/pkg/model"
)

// ErrorMapping splits submission issues into field-level and form-level
// messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MapIssues translates issues into messages keyed by field name. Issues on
// fields the form does not declare become form-level messages so nothing is
// lost. A non-empty mapping always carries the error banner copy at form
// level.
func MapIssues(form model.FormModel, issues []controller.Issue, opts RenderOptions) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}
	if len(issues) == 0 {
		mapping.Fields = nil
		return mapping
	}

	for _, issue := range issues {
		msg := IssueMessage(issue, opts)
		if _, ok := form.Field(issue.Field); !ok {
			mapping.Form = append(mapping.Form, issue.Field+": "+msg)
			continue
		}
		mapping.Fields[issue.Field] = append(mapping.Fields[issue.Field], msg)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = MergeFormErrors([]string{BannerMessage(form, model.BannerError, opts)}, mapping.Form...)
	return mapping
}

// MergeFormErrors joins message lists, dropping blanks and repeats while
// keeping first-seen order.
func MergeFormErrors(existing []string, extras ...string) []string {
	var out []string
	for _, msg := range append(slices.Clone(existing), extras...) {
		msg = strings.TrimSpace(msg)
		if msg != "" && !slices.Contains(out, msg) {
			out = append(out, msg)
		}
	}
	return out
}
