package controller

import (
	"regexp"
	"strings"
	"unicode"
)

// emailPattern accepts local@domain.tld with no whitespace and at least one
// dot after the @.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether value looks like an e-mail address.
func ValidEmail(value string) bool {
	return emailPattern.MatchString(value)
}

// DigitsOnly drops every rune that is not an ASCII digit.
func DigitsOnly(value string) string {
	return strings.Map(func(r rune) rune {
		if r <= unicode.MaxASCII && unicode.IsDigit(r) {
			return r
		}
		return -1
	}, value)
}
