package handlers

import (
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/diewo77/go-proformas/httpx"
	"github.com/diewo77/go-proformas/i18n"
	"github.com/diewo77/go-proformas/internal/api"
	"github.com/diewo77/go-proformas/internal/middleware"
	"github.com/diewo77/go-proformas/internal/models"
	"github.com/diewo77/go-proformas/internal/services"
)

// HistoryHandler serves the proforma history and the mark-as-paid action.
type HistoryHandler struct {
	api Backend
	svc *services.ProformaService
	log *zap.Logger
}

func NewHistoryHandler(backend Backend, log *zap.Logger) *HistoryHandler {
	return &HistoryHandler{api: backend, svc: services.NewProformaService(backend), log: loggerOrNop(log)}
}

func (h *HistoryHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /history", h.List)
	mux.HandleFunc("POST /history/{id}/pay", h.Pay)
}

// parseTab accepts the history tabs only; anything else is PENDING.
func parseTab(v string) models.Status {
	st, err := models.ParseStatus(v)
	if err != nil {
		return models.StatusPending
	}
	for _, tab := range models.Tabs() {
		if st == tab {
			return st
		}
	}
	return models.StatusPending
}

func historyURL(q string, tab models.Status) string {
	v := url.Values{}
	if q != "" {
		v.Set("q", q)
	}
	v.Set("tab", string(tab))
	return "/history?" + v.Encode()
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	tab := parseTab(r.URL.Query().Get("tab"))

	rows, counts, err := h.svc.History(r.Context(), q, tab)
	if httpx.WantsJSON(r) {
		if err != nil {
			httpx.JSONError(w, http.StatusBadGateway, "list_failed", api.Message(err))
			return
		}
		httpx.JSON(w, http.StatusOK, rows)
		return
	}

	data := map[string]any{
		"Query":  q,
		"Tab":    tab,
		"Tabs":   models.Tabs(),
		"Rows":   rows,
		"Counts": counts,
		"Back":   historyURL(q, tab),
	}
	if err != nil {
		h.log.Warn("history load failed", zap.String("q", q), zap.Error(err))
		data["Error"] = errorMessage(r, err)
	}
	render(w, r, h.log, http.StatusOK, "history.html", data)
}

// Pay marks a proforma PAID and returns to the same search and tab.
func (h *HistoryHandler) Pay(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	id := r.PathValue("id")
	back := historyURL(r.PostForm.Get("q"), parseTab(r.PostForm.Get("tab")))

	if _, err := h.api.UpdateProformaStatus(r.Context(), id, models.StatusPaid); err != nil {
		h.log.Error("mark paid failed", zap.String("id", id), zap.Error(err))
		msg := i18n.T(middleware.LangFrom(r), "history.collect_error") + " " + api.Message(err)
		middleware.SetFlash(w, msg)
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	h.log.Info("proforma collected", zap.String("id", id))
	middleware.Flash(w, r, "history.collected")
	http.Redirect(w, r, back, http.StatusSeeOther)
}
