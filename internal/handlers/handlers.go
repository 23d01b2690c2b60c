// Package handlers serves the proforma screens over the remote API.
package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/diewo77/go-proformas/internal/api"
	"github.com/diewo77/go-proformas/internal/middleware"
	"github.com/diewo77/go-proformas/internal/models"
	"github.com/diewo77/go-proformas/view"
)

// Backend is what the screens need from the remote API. *api.Client implements it.
type Backend interface {
	SearchClients(ctx context.Context, name string) ([]models.Client, error)
	CreateClient(ctx context.Context, in api.NewClient) (models.Client, error)
	CreateProforma(ctx context.Context, in api.NewProforma) (api.Created, error)
	ListProformas(ctx context.Context, search string) ([]models.Proforma, error)
	UpdateProformaStatus(ctx context.Context, id string, status models.Status) (models.Proforma, error)
	GetProforma(ctx context.Context, id string) (models.Proforma, error)
	DocumentURL(id string) string
}

var _ Backend = (*api.Client)(nil)

// render executes a page. A pending flash becomes the page's modal unless
// the handler already set one.
func render(w http.ResponseWriter, r *http.Request, log *zap.Logger, status int, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	if msg := middleware.PopFlash(w, r); msg != "" {
		if _, set := data["Modal"]; !set {
			data["Modal"] = msg
		}
	}
	if err := view.RenderStatus(w, r, status, name, data); err != nil {
		log.Error("render failed",
			zap.String("template", name),
			zap.String("request_id", middleware.RequestIDFrom(r.Context())),
			zap.Error(err))
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

func loggerOrNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
