package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/diewo77/go-proformas/httpx"
	"github.com/diewo77/go-proformas/internal/api"
	"github.com/diewo77/go-proformas/internal/services"
	"github.com/diewo77/go-proformas/view"
)

// ReportHandler serves the aggregate totals page.
type ReportHandler struct {
	svc *services.ProformaService
	log *zap.Logger
}

func NewReportHandler(backend Backend, log *zap.Logger) *ReportHandler {
	return &ReportHandler{svc: services.NewProformaService(backend), log: loggerOrNop(log)}
}

func (h *ReportHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /reports", h.Show)
}

type reportJSON struct {
	Generated string `json:"generated"`
	Pending   string `json:"pending"`
	Collected string `json:"collected"`
	Count     int    `json:"count"`
}

func (h *ReportHandler) Show(w http.ResponseWriter, r *http.Request) {
	rep, err := h.svc.Report(r.Context())
	if httpx.WantsJSON(r) {
		if err != nil {
			httpx.JSONError(w, http.StatusBadGateway, "report_failed", api.Message(err))
			return
		}
		httpx.JSON(w, http.StatusOK, reportJSON{
			Generated: view.Money(rep.Generated),
			Pending:   view.Money(rep.Pending),
			Collected: view.Money(rep.Collected),
			Count:     rep.Count,
		})
		return
	}

	data := map[string]any{"Report": rep}
	if err != nil {
		h.log.Warn("report failed", zap.Error(err))
		data["Error"] = errorMessage(r, err)
	}
	render(w, r, h.log, http.StatusOK, "reports.html", data)
}
