package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/diewo77/go-proformas/httpx"
	"github.com/diewo77/go-proformas/i18n"
	"github.com/diewo77/go-proformas/internal/api"
	"github.com/diewo77/go-proformas/internal/forms"
	"github.com/diewo77/go-proformas/internal/middleware"
	"github.com/diewo77/go-proformas/internal/models"
)

// ProformaHandler handles the create form, client quick-create and suggestions,
// and proforma detail pages.
type ProformaHandler struct {
	api Backend
	log *zap.Logger
}

func NewProformaHandler(backend Backend, log *zap.Logger) *ProformaHandler {
	return &ProformaHandler{api: backend, log: loggerOrNop(log)}
}

func (h *ProformaHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /create", h.New)
	mux.HandleFunc("POST /create", h.Submit)
	mux.HandleFunc("POST /clients", h.QuickCreateClient)
	mux.HandleFunc("GET /api/clients", h.Suggest)
	mux.HandleFunc("GET /proformas/{id}", h.Show)
	mux.HandleFunc("GET /proformas/{id}/pdf", h.PDF)
}

type formPage struct {
	form        *forms.ProformaForm
	suggestions []models.Client
	suggest     bool
	modal       string
}

func (h *ProformaHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, p formPage) {
	data := map[string]any{
		"Form":            p.form,
		"Total":           p.form.Total(),
		"Hints":           p.form.Hints(),
		"Suggestions":     p.suggestions,
		"ShowSuggestions": p.suggest,
	}
	if p.modal != "" {
		data["Modal"] = p.modal
	}
	render(w, r, h.log, status, "create.html", data)
}

func errorMessage(r *http.Request, err error) string {
	return i18n.T(middleware.LangFrom(r), "error.prefix") + " " + api.Message(err)
}

// suggest loads the client suggestions for the form's search term.
func (h *ProformaHandler) suggest(r *http.Request, p *formPage) {
	term := strings.TrimSpace(p.form.Search)
	if term == "" || p.form.HasClient() {
		return
	}
	clients, err := h.api.SearchClients(r.Context(), term)
	if err != nil {
		h.log.Warn("client search failed", zap.String("term", term), zap.Error(err))
		p.modal = errorMessage(r, err)
		return
	}
	p.suggestions = clients
	p.suggest = true
}

// New renders an empty form. ?q= pre-fills the search box and lists matches.
func (h *ProformaHandler) New(w http.ResponseWriter, r *http.Request) {
	p := formPage{form: forms.New()}
	if q := r.URL.Query().Get("q"); q != "" {
		p.form.Search = q
		h.suggest(r, &p)
	}
	h.renderForm(w, r, http.StatusOK, p)
}

// Submit applies the pressed button to the submitted form.
func (h *ProformaHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	p := formPage{form: forms.Parse(r.PostForm)}

	switch p.form.Action {
	case forms.ActionSearch:
		h.suggest(r, &p)

	case forms.ActionSelect:
		h.selectClient(r, &p)

	case forms.ActionSave:
		if code := p.form.Validate(); code != "" {
			p.modal = i18n.T(middleware.LangFrom(r), code)
			h.renderForm(w, r, http.StatusUnprocessableEntity, p)
			return
		}
		created, err := h.api.CreateProforma(r.Context(), p.form.ToNewProforma())
		if err != nil {
			h.log.Error("create proforma failed",
				zap.String("request_id", middleware.RequestIDFrom(r.Context())),
				zap.Error(err))
			p.modal = errorMessage(r, err)
			h.renderForm(w, r, http.StatusBadGateway, p)
			return
		}
		h.log.Info("proforma created",
			zap.String("id", created.ID),
			zap.String("total", created.Total.StringFixed(2)))
		http.Redirect(w, r, "/proformas/"+url.PathEscape(created.ID)+"?created=1", http.StatusSeeOther)
		return

	default:
		if err := p.form.Apply(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	h.renderForm(w, r, http.StatusOK, p)
}

func (h *ProformaHandler) selectClient(r *http.Request, p *formPage) {
	clients, err := h.api.SearchClients(r.Context(), p.form.Search)
	if err != nil {
		p.modal = errorMessage(r, err)
		return
	}
	for _, c := range clients {
		if c.ID == p.form.Arg {
			p.form.SelectClient(c)
			return
		}
	}
	p.suggestions = clients
	p.suggest = true
}

// QuickCreateClient registers the search term as a new client and selects it.
func (h *ProformaHandler) QuickCreateClient(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	p := formPage{form: forms.Parse(r.PostForm)}
	name := strings.TrimSpace(p.form.Search)
	if name == "" {
		h.renderForm(w, r, http.StatusOK, p)
		return
	}

	c, err := h.api.CreateClient(r.Context(), api.NewClient{
		Name:  name,
		Phone: p.form.NewPhone,
		TaxID: p.form.NewTaxID,
	})
	if err != nil {
		h.log.Error("create client failed", zap.String("name", name), zap.Error(err))
		p.modal = i18n.T(middleware.LangFrom(r), "create.client_error")
		p.suggest = true
		h.renderForm(w, r, http.StatusBadGateway, p)
		return
	}
	h.log.Info("client created", zap.String("id", c.ID))
	p.form.SelectClient(c)
	h.renderForm(w, r, http.StatusOK, p)
}

// Suggest serves the JSON list behind the debounced search box.
func (h *ProformaHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		httpx.JSON(w, http.StatusOK, []models.Client{})
		return
	}
	clients, err := h.api.SearchClients(r.Context(), name)
	if err != nil {
		httpx.JSONError(w, http.StatusBadGateway, "search_failed", api.Message(err))
		return
	}
	if clients == nil {
		clients = []models.Client{}
	}
	httpx.JSON(w, http.StatusOK, clients)
}

// Show renders a saved proforma. ?created=1 adds the success banner.
func (h *ProformaHandler) Show(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	data := map[string]any{
		"ID":          id,
		"Created":     r.URL.Query().Get("created") == "1",
		"DocumentURL": h.api.DocumentURL(id),
	}
	p, err := h.api.GetProforma(r.Context(), id)
	if err != nil {
		h.log.Warn("load proforma failed", zap.String("id", id), zap.Error(err))
		data["Error"] = errorMessage(r, err)
		render(w, r, h.log, http.StatusBadGateway, "proforma.html", data)
		return
	}
	data["Proforma"] = &p
	render(w, r, h.log, http.StatusOK, "proforma.html", data)
}

// PDF sends the browser to the backend's printable document.
func (h *ProformaHandler) PDF(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.api.DocumentURL(r.PathValue("id")), http.StatusFound)
}
