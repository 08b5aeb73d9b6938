// Package i18n resolves the language used for user-facing messages.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

// LangParam is the query parameter that overrides Accept-Language.
const LangParam = "lang"

var (
	supported = []language.Tag{language.AmericanEnglish, language.BrazilianPortuguese}
	matcher   = language.NewMatcher(supported)
)

// SupportedTags returns the languages that have message catalogs.
func SupportedTags() []language.Tag {
	return append([]language.Tag(nil), supported...)
}

// DefaultTag returns the fallback language.
func DefaultTag() language.Tag {
	return supported[0]
}

// ParseTag parses value and reports whether it matches a supported language
// with at least high confidence.
func ParseTag(value string) (language.Tag, bool) {
	tag, err := language.Parse(strings.TrimSpace(value))
	if err != nil {
		return DefaultTag(), false
	}
	_, index, confidence := matcher.Match(tag)
	if confidence < language.High {
		return DefaultTag(), false
	}
	return supported[index], true
}

// MatchTags picks the best supported language for the preference list.
func MatchTags(tags []language.Tag) language.Tag {
	if len(tags) == 0 {
		return DefaultTag()
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultTag()
	}
	return supported[index]
}

// MatchAcceptLanguage resolves an Accept-Language header value.
func MatchAcceptLanguage(header string) language.Tag {
	header = strings.TrimSpace(header)
	if header == "" {
		return DefaultTag()
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return DefaultTag()
	}
	return MatchTags(tags)
}

// ResolveTag determines the language for r from the lang query parameter,
// then Accept-Language.
func ResolveTag(r *http.Request) language.Tag {
	if r == nil {
		return DefaultTag()
	}
	if value := r.URL.Query().Get(LangParam); value != "" {
		if tag, ok := ParseTag(value); ok {
			return tag
		}
	}
	return MatchAcceptLanguage(r.Header.Get("Accept-Language"))
}

// Locale returns the catalog locale identifier for tag, e.g. "pt-BR".
func Locale(tag language.Tag) string {
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return DefaultTag().String()
	}
	return supported[index].String()
}
