package render

import "github.com/goliatone/go-contactform/pkg/controller"

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching the controller.
type RenderOptions struct {
	// Locale selects the catalog used for labels and banner copy. Empty means
	// DefaultLocale.
	Locale string
	// Translator resolves message keys. Nil falls back to the form's own copy.
	Translator Translator
	// OnMissing decides what a lookup miss renders as.
	OnMissing MissingTranslationHandler
	// Action is the URL the rendered form posts to.
	Action string
	// HiddenFields are emitted verbatim alongside the visible inputs.
	HiddenFields []HiddenField
	// Issues marks fields that failed the last submission.
	Issues []controller.Issue
}

func (o RenderOptions) locale() string {
	if o.Locale == "" {
		return DefaultLocale
	}
	return o.Locale
}
