package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/diewo77/go-proformas/httpx"
	"github.com/diewo77/go-proformas/internal/middleware"
)

// PageHandler serves the dashboard, theme toggle and health check.
type PageHandler struct {
	log     *zap.Logger
	version string
}

func NewPageHandler(log *zap.Logger, version string) *PageHandler {
	return &PageHandler{log: loggerOrNop(log), version: version}
}

func (h *PageHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Dashboard)
	mux.HandleFunc("POST /theme", h.ToggleTheme)
	mux.HandleFunc("GET /health", h.Health)
}

func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.log, http.StatusOK, "dashboard.html", nil)
}

// ToggleTheme flips light/dark, persists it and sends the browser back.
func (h *PageHandler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	next := middleware.ThemeDark
	if middleware.ThemeFrom(r) == middleware.ThemeDark {
		next = middleware.ThemeLight
	}
	middleware.SetThemeCookie(w, next)
	http.Redirect(w, r, backTo(r), http.StatusSeeOther)
}

// backTo returns the local path of the referring page, without a theme
// override, or "/".
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || !strings.HasPrefix(ref.Path, "/") || strings.HasPrefix(ref.Path, "//") {
		return "/"
	}
	if ref.Host != "" && ref.Host != r.Host {
		return "/"
	}
	q := ref.Query()
	q.Del("theme")
	back := ref.Path
	if enc := q.Encode(); enc != "" {
		back += "?" + enc
	}
	return back
}

func (h *PageHandler) Health(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok", "version": h.version})
}
