// Package i18n resolves the caller's language and prints response messages
// from the compiled catalogs.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangHeader lets API clients pin a language without touching Accept-Language.
	LangHeader = "x-lang"
)

var Kinyarwanda = language.MustParse("rw")

var supported = []language.Tag{
	language.English,
	language.French,
	language.Swahili,
	Kinyarwanda,
}

var matcher = language.NewMatcher(supported)

// Supported returns the list of supported language tags.
func Supported() []language.Tag {
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}

// ParseTag maps a user supplied code (EN, fr, sw-KE) onto a supported tag.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return language.Und, false
	}

	tag, err := language.Parse(strings.ToLower(value))
	if err != nil {
		return language.Und, false
	}

	_, idx, conf := matcher.Match(tag)
	if conf < language.High {
		return language.Und, false
	}
	return supported[idx], true
}

// ResolveTag picks the request language: ?lang, then x-lang, then
// Accept-Language, then fallback.
func ResolveTag(r *http.Request, fallback language.Tag) language.Tag {
	if r == nil {
		return fallback
	}

	if tag, ok := ParseTag(r.URL.Query().Get(LangParam)); ok {
		return tag
	}

	if tag, ok := ParseTag(r.Header.Get(LangHeader)); ok {
		return tag
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			_, idx, conf := matcher.Match(tags...)
			if conf >= language.High {
				return supported[idx]
			}
		}
	}

	return fallback
}

// Fallback parses the configured fallback language, defaulting to English.
func Fallback(value string) language.Tag {
	if tag, ok := ParseTag(value); ok {
		return tag
	}
	return language.English
}

// Printer returns a message printer for the supplied tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// Message prints key in tag, falling back to the fallback language when
// the tag's catalog has no entry for it. Presence is checked without args so
// a missing key with arguments is not mistaken for a translation.
func Message(tag, fallback language.Tag, key string, args ...any) string {
	p := Printer(tag)
	if p.Sprintf(key) == key {
		p = Printer(fallback)
	}
	return p.Sprintf(key, args...)
}
