// Package i18n provides the bilingual message primitives used across the
// admin toolkit. User-facing strings are kept as explicit two-locale records
// resolved through In, never through runtime lookup tables.
package i18n

import "strings"

// Locale identifies a supported display language.
type Locale string

const (
	English Locale = "en"
	Arabic  Locale = "ar"
)

// ParseLocale normalizes a locale string, defaulting to English.
func ParseLocale(s string) Locale {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ar", "arabic":
		return Arabic
	default:
		return English
	}
}

// Message holds both renderings of a user-facing string.
type Message struct {
	EN string
	AR string
}

// In resolves the message for the given locale.
func (m Message) In(locale Locale) string {
	if locale == Arabic && m.AR != "" {
		return m.AR
	}
	return m.EN
}

// IsZero reports whether the message carries no text.
func (m Message) IsZero() bool {
	return m.EN == "" && m.AR == ""
}
