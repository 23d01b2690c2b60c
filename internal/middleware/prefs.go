package middleware

import (
	"context"
	"net/http"

	"github.com/diewo77/go-proformas/i18n"
)

type ctxKey string

const ctxTheme ctxKey = "pref_theme"

const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	themeCookie = "theme"
	langCookie  = "lang"
	prefMaxAge  = 86400 * 365
)

// NormalizeTheme maps anything but "dark" to the light theme.
func NormalizeTheme(v string) string {
	if v == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// SetThemeCookie persists the theme preference for a year.
func SetThemeCookie(w http.ResponseWriter, theme string) {
	http.SetCookie(w, &http.Cookie{
		Name:     themeCookie,
		Value:    NormalizeTheme(theme),
		Path:     "/",
		MaxAge:   prefMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Prefs extracts language/theme preferences and stores them in context.
// Theme: cookie, then ?theme= (persisted). Language: cookie, then ?lang=
// (persisted), then Accept-Language.
func Prefs(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		theme := ThemeLight
		if c, err := r.Cookie(themeCookie); err == nil && c.Value != "" {
			theme = NormalizeTheme(c.Value)
		}
		if qt := r.URL.Query().Get("theme"); qt != "" {
			theme = NormalizeTheme(qt)
			SetThemeCookie(w, theme)
		}

		lang := ""
		if c, err := r.Cookie(langCookie); err == nil && i18n.Supported(c.Value) {
			lang = c.Value
		}
		if ql := r.URL.Query().Get("lang"); i18n.Supported(ql) {
			lang = ql
			http.SetCookie(w, &http.Cookie{Name: langCookie, Value: lang, Path: "/", MaxAge: prefMaxAge, HttpOnly: true})
		}
		if lang == "" {
			lang = i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		}

		ctx := i18n.WithLang(r.Context(), lang)
		ctx = context.WithValue(ctx, ctxTheme, theme)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LangFrom returns language preference from context or fallback.
func LangFrom(r *http.Request) string {
	return i18n.LangFromContext(r.Context())
}

// ThemeFrom returns theme preference from context or fallback.
func ThemeFrom(r *http.Request) string {
	if v, ok := r.Context().Value(ctxTheme).(string); ok && v != "" {
		return v
	}
	return ThemeLight
}
