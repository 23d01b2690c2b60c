// Package i18n holds the UI message catalogs and language negotiation.
package i18n

import (
	"context"

	"golang.org/x/text/language"
)

// Default is the language used when nothing better can be negotiated.
const Default = "es"

var supported = []string{"es", "en"}

var matcher = language.NewMatcher([]language.Tag{language.Spanish, language.English})

type langKey struct{}

// WithLang stores the negotiated language in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// LangFromContext returns the language stored by WithLang, or Default.
func LangFromContext(ctx context.Context) string {
	if l, ok := ctx.Value(langKey{}).(string); ok && l != "" {
		return l
	}
	return Default
}

// Supported reports whether lang has a catalog.
func Supported(lang string) bool {
	for _, l := range supported {
		if l == lang {
			return true
		}
	}
	return false
}

// DetectLanguage picks a supported language from an Accept-Language header.
func DetectLanguage(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	return supported[idx]
}

// T translates code into lang. Missing entries fall back to Spanish, then to the code itself.
func T(lang, code string) string {
	if m, ok := catalogs[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := catalogs[Default][code]; ok {
		return s
	}
	return code
}
