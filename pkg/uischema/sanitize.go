package uischema

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	pkgmodel "github.com/goliatone/go-contactform/pkg/model"
)

var (
	messagePolicyOnce sync.Once
	messagePolicy     *bluemonday.Policy
)

// SanitizeMessage strips every element from banner copy except inline
// emphasis.
func SanitizeMessage(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(messageSanitizer().Sanitize(trimmed))
}

func sanitizeMessages(messages pkgmodel.Messages) pkgmodel.Messages {
	if len(messages) == 0 {
		return nil
	}
	out := make(pkgmodel.Messages, len(messages))
	for kind, text := range messages {
		if cleaned := SanitizeMessage(text); cleaned != "" {
			out[kind] = cleaned
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func messageSanitizer() *bluemonday.Policy {
	messagePolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("strong", "em", "b", "i")
		messagePolicy = policy
	})
	return messagePolicy
}
