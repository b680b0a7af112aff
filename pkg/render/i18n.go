package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-contactform/pkg/controller"
	"github.com/goliatone/go-contactform/pkg/model"
)

// DefaultLocale is the language of the original contact page.
const DefaultLocale = "pt-BR"

// ErrMissingTranslator is handed to MissingTranslationHandler when no
// Translator was configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides what to render when a key has no
// translation. args carries a map with the "default" fallback, when known.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	for _, arg := range args {
		if m, ok := arg.(map[string]any); ok {
			if fallback, ok := m["default"].(string); ok && strings.TrimSpace(fallback) != "" {
				return fallback
			}
		}
	}
	return key
}

// Catalog is a Translator backed by nested maps: locale, then key. Lookups
// for a regional locale ("en-US") fall back to its base language ("en").
type Catalog map[string]map[string]string

// Translate implements Translator. args are applied with fmt.Sprintf when
// present.
func (c Catalog) Translate(locale, key string, args ...any) (string, error) {
	for _, candidate := range localeChain(locale) {
		if msg, ok := c[candidate][key]; ok {
			if len(args) > 0 {
				return fmt.Sprintf(msg, args...), nil
			}
			return msg, nil
		}
	}
	return "", fmt.Errorf("render: no translation for %q in %q", key, locale)
}

func localeChain(locale string) []string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return []string{DefaultLocale}
	}
	chain := []string{locale}
	if base, _, ok := strings.Cut(locale, "-"); ok && base != "" {
		chain = append(chain, base)
	}
	return chain
}

// Message keys understood by the bundled renderers.
const (
	KeyBannerSuccess  = "banner.success"
	KeyBannerError    = "banner.error"
	KeyIssueMissing   = "issue.missing"
	KeyIssueMalformed = "issue.malformed"
	KeySubmit         = "form.submit"
	KeyPrivacy        = "form.privacy"
	KeyAttachment     = "form.attachment"
	KeyRequiredSuffix = "form.required"
)

// DefaultCatalog carries the page copy in Portuguese and English.
func DefaultCatalog() Catalog {
	return Catalog{
		"pt": {
			KeyBannerSuccess:  "Mensagem enviada com sucesso.",
			KeyBannerError:    "Valide os campos obrigatórios!",
			KeyIssueMissing:   "Campo obrigatório.",
			KeyIssueMalformed: "Formato inválido.",
			KeySubmit:         "Enviar",
			KeyPrivacy:        "Política de Privacidade",
			KeyAttachment:     "Selecione um arquivo",
			KeyRequiredSuffix: "(obrigatório)",
		},
		"pt-BR": {},
		"en": {
			KeyBannerSuccess:  "Message sent successfully.",
			KeyBannerError:    "Check the required fields!",
			KeyIssueMissing:   "Required field.",
			KeyIssueMalformed: "Invalid format.",
			KeySubmit:         "Send",
			KeyPrivacy:        "Privacy Policy",
			KeyAttachment:     "Choose a file",
			KeyRequiredSuffix: "(required)",
		},
	}
}

// BannerMessage returns the copy of a banner. The form's own messages win
// for the default locale; other locales go through the translator first.
func BannerMessage(form model.FormModel, kind model.BannerKind, opts RenderOptions) string {
	key := KeyBannerError
	if kind == model.BannerSuccess {
		key = KeyBannerSuccess
	}
	own := form.Messages[kind]
	if own != "" && opts.locale() == DefaultLocale {
		return own
	}
	return Text(key, own, opts)
}

// IssueMessage renders one failing field. Without a translation the
// Portuguese catalog copy is used.
func IssueMessage(issue controller.Issue, opts RenderOptions) string {
	key := KeyIssueMissing
	if issue.Reason == controller.ReasonMalformed {
		key = KeyIssueMalformed
	}
	return Text(key, DefaultCatalog()["pt"][key], opts)
}

// Text translates key, falling back to fallback and then the key itself.
func Text(key, fallback string, opts RenderOptions) string {
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	return translate(opts.locale(), key, fallback, opts.Translator, onMissing)
}

// LocalizeFormModel mutates form in place, replacing labels that have a
// translation under "field.<name>", "group.<name>" or
// "option.<group>.<value>". Labels without a translation are kept.
func LocalizeFormModel(form *model.FormModel, opts RenderOptions) {
	if form == nil || opts.Translator == nil {
		return
	}
	locale := opts.locale()
	keep := func(_ string, _ string, args []any, _ error) string {
		return missingTranslationDefault(locale, "", args, nil)
	}

	if form.Title != "" {
		form.Title = translate(locale, "form.title", form.Title, opts.Translator, keep)
	}
	for i := range form.Fields {
		field := &form.Fields[i]
		field.Label = translate(locale, "field."+field.Name, field.Label, opts.Translator, keep)
		if field.Placeholder != "" {
			field.Placeholder = translate(locale, "field."+field.Name+".placeholder", field.Placeholder, opts.Translator, keep)
		}
	}
	for i := range form.Groups {
		group := &form.Groups[i]
		group.Label = translate(locale, "group."+group.Name, group.Label, opts.Translator, keep)
		for j := range group.Options {
			opt := &group.Options[j]
			opt.Label = translate(locale, "option."+group.Name+"."+opt.Value, opt.DisplayLabel(), opts.Translator, keep)
		}
	}
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}

	if t == nil {
		return onMissing(locale, key, []any{map[string]any{"default": fallback}}, ErrMissingTranslator)
	}

	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, []any{map[string]any{"default": fallback}}, err)
}
