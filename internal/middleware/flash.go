package middleware

import (
	"net/http"
	"net/url"

	"github.com/diewo77/go-proformas/i18n"
)

const flashCookie = "flash"

// SetFlash stores a one-shot message shown on the next page.
func SetFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: url.QueryEscape(msg), Path: "/", HttpOnly: true})
}

// Flash sets a translated flash message cookie using translation code (or literal if missing).
func Flash(w http.ResponseWriter, r *http.Request, code string) {
	SetFlash(w, i18n.T(LangFrom(r), code))
}

// PopFlash returns the pending flash message and clears it.
func PopFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}
