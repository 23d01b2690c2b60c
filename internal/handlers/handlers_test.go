package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/go-proformas/internal/api"
	"github.com/diewo77/go-proformas/internal/apitest"
	"github.com/diewo77/go-proformas/internal/forms"
	"github.com/diewo77/go-proformas/internal/middleware"
	"github.com/diewo77/go-proformas/view"
)

func setupApp(t *testing.T) (http.Handler, *apitest.Server) {
	t.Helper()
	backend := apitest.New(t)
	client := api.New(api.Options{
		GraphQLURL:   backend.GraphQLURL(),
		DocumentBase: "http://127.0.0.1:8000",
	})

	view.ResetForTests()
	view.SetThemeResolver(middleware.ThemeFrom)
	view.SetLangResolver(middleware.LangFrom)

	mux := http.NewServeMux()
	NewPageHandler(nil, "1.0").Register(mux)
	NewProformaHandler(client, nil).Register(mux)
	NewHistoryHandler(client, nil).Register(mux)
	NewReportHandler(client, nil).Register(mux)
	return middleware.Prefs(mux), backend
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postForm(path string, v url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(v.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func withCookies(req *http.Request, rec *httptest.ResponseRecorder) *http.Request {
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestDashboard(t *testing.T) {
	h, _ := setupApp(t)
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Taller Metalúrgico Vallegrande")
	assert.Contains(t, body, `href="/create"`)
	assert.Contains(t, body, `href="/history"`)
	assert.Contains(t, body, `href="/reports"`)
	assert.Contains(t, body, "Versión 1.0")
}

func TestCreate_SaveWithoutClientMakesNoRemoteCall(t *testing.T) {
	h, backend := setupApp(t)
	rec := serve(h, postForm("/create", url.Values{
		forms.FieldVehicleRef: {"Volvo FH"},
		forms.FieldItemDesc:   {"Soldadura"},
		forms.FieldItemQty:    {"1"},
		forms.FieldItemPrice:  {"100"},
		forms.FieldAction:     {forms.ActionSave},
	}))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Por favor selecciona un cliente.")
	assert.Contains(t, rec.Body.String(), "<dialog open")
	assert.Zero(t, backend.TotalCalls())
}

func TestModal_CoversPageUntilAcknowledged(t *testing.T) {
	h, _ := setupApp(t)
	rec := serve(h, postForm("/create", url.Values{
		forms.FieldVehicleRef: {"Volvo FH"},
		forms.FieldAction:     {forms.ActionSave},
	}))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := rec.Body.String()
	overlay := strings.Index(body, `<div class="modal-overlay" data-modal-overlay>`)
	dialog := strings.Index(body, `<dialog open class="modal"`)
	require.NotEqual(t, -1, overlay, "notice must sit inside the blocking overlay")
	require.Greater(t, dialog, overlay)
	assert.Contains(t, body, `<form method="dialog">`)

	// No notice, no overlay.
	page := serve(h, httptest.NewRequest(http.MethodGet, "/create", nil))
	require.Equal(t, http.StatusOK, page.Code)
	assert.NotContains(t, page.Body.String(), "modal-overlay")
}

func TestCreate_SaveWithoutVehicle(t *testing.T) {
	h, backend := setupApp(t)
	rec := serve(h, postForm("/create", url.Values{
		forms.FieldSearch:     {"Ana"},
		forms.FieldClientID:   {"1"},
		forms.FieldClientName: {"Ana"},
		forms.FieldAction:     {forms.ActionSave},
	}))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Por favor ingresa la referencia del vehículo.")
	assert.Zero(t, backend.TotalCalls())
}

func TestCreate_RecalcUpdatesTotal(t *testing.T) {
	h, _ := setupApp(t)
	form := url.Values{
		forms.FieldItemDesc:  {"Soldadura", "Pernos"},
		forms.FieldItemQty:   {"2", "12"},
		forms.FieldItemPrice: {"150.50", "0.75"},
		forms.FieldAction:    {forms.ActionRecalc},
	}
	rec := serve(h, postForm("/create", form))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="total">310.00<`)

	form[forms.FieldItemQty] = []string{"3", "12"}
	rec = serve(h, postForm("/create", form))
	assert.Contains(t, rec.Body.String(), `id="total">460.50<`)
}

func TestCreate_AddAndRemoveRows(t *testing.T) {
	h, _ := setupApp(t)
	rec := serve(h, postForm("/create", url.Values{
		forms.FieldItemDesc:  {"a"},
		forms.FieldItemQty:   {"1"},
		forms.FieldItemPrice: {"5"},
		forms.FieldAction:    {forms.ActionAddItem},
	}))
	assert.Equal(t, 2, strings.Count(rec.Body.String(), `name="item_description"`))

	rec = serve(h, postForm("/create", url.Values{
		forms.FieldItemDesc:  {"a"},
		forms.FieldItemQty:   {"1"},
		forms.FieldItemPrice: {"5"},
		forms.FieldAction:    {"remove_item:0"},
	}))
	assert.Equal(t, 0, strings.Count(rec.Body.String(), `name="item_description"`))
	assert.Contains(t, rec.Body.String(), `id="total">0.00<`)

	rec = serve(h, postForm("/create", url.Values{forms.FieldAction: {"remove_item:3"}}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreate_SaveRedirectsToCreatedProforma(t *testing.T) {
	h, backend := setupApp(t)
	clientID := backend.SeedClient(t, "Ana Pérez", "123", "")

	rec := serve(h, postForm("/create", url.Values{
		forms.FieldSearch:     {"Ana Pérez"},
		forms.FieldClientID:   {clientID},
		forms.FieldClientName: {"Ana Pérez"},
		forms.FieldVehicleRef: {"Volvo FH"},
		forms.FieldItemDesc:   {"Soldadura", "Pernos"},
		forms.FieldItemQty:    {"2", "12"},
		forms.FieldItemPrice:  {"150.50", "0.75"},
		forms.FieldAction:     {forms.ActionSave},
	}))
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	loc := rec.Header().Get("Location")
	assert.Equal(t, "/proformas/1?created=1", loc)

	rec = serve(h, httptest.NewRequest(http.MethodGet, loc, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "¡Guardado Exitoso!")
	assert.Contains(t, body, "000001")
	assert.Contains(t, body, `href="/proformas/1/pdf"`)
	assert.Contains(t, body, "310.00")
	assert.Contains(t, body, "Soldadura")
}

func TestCreate_RemoteErrorShowsModal(t *testing.T) {
	h, backend := setupApp(t)
	backend.Fail(apitest.FieldCreateProforma, "items inválidos")

	rec := serve(h, postForm("/create", url.Values{
		forms.FieldSearch:     {"Ana"},
		forms.FieldClientID:   {"1"},
		forms.FieldClientName: {"Ana"},
		forms.FieldVehicleRef: {"Volvo"},
		forms.FieldAction:     {forms.ActionSave},
	}))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error: items inválidos")
	assert.Contains(t, rec.Body.String(), `value="Volvo"`, "form state kept")
}

func TestCreate_SearchAndSelectClient(t *testing.T) {
	h, backend := setupApp(t)
	id := backend.SeedClient(t, "Transportes Andes", "1020", "70011122")

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/create?q=andes", nil))
	body := rec.Body.String()
	assert.Contains(t, body, "Clientes existentes encontrados:")
	assert.Contains(t, body, `value="select:`+id+`"`)

	rec = serve(h, postForm("/create", url.Values{
		forms.FieldSearch: {"andes"},
		forms.FieldAction: {"select:" + id},
	}))
	body = rec.Body.String()
	assert.Contains(t, body, `name="client_id" value="`+id+`"`)
	assert.Contains(t, body, `value="Transportes Andes"`)
}

func TestQuickCreateClient(t *testing.T) {
	h, backend := setupApp(t)
	rec := serve(h, postForm("/clients", url.Values{
		forms.FieldSearch:   {"Cliente Nuevo"},
		forms.FieldNewPhone: {"76543210"},
		forms.FieldAction:   {""},
	}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="client_id" value="1"`)
	assert.Equal(t, 1, backend.Calls(apitest.FieldCreateClient))

	// Empty name is a no-op.
	rec = serve(h, postForm("/clients", url.Values{forms.FieldSearch: {"  "}}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, backend.Calls(apitest.FieldCreateClient))
}

func TestQuickCreateClient_Failure(t *testing.T) {
	h, backend := setupApp(t)
	backend.Fail(apitest.FieldCreateClient, "db locked")

	rec := serve(h, postForm("/clients", url.Values{forms.FieldSearch: {"Cliente Nuevo"}}))
	assert.Contains(t, rec.Body.String(), "Error al crear el cliente.")
	assert.NotContains(t, rec.Body.String(), `name="client_id" value="1"`)
}

func TestSuggest(t *testing.T) {
	h, backend := setupApp(t)
	backend.SeedClient(t, "Ana Pérez", "", "")

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/clients?name=", nil))
	assert.JSONEq(t, `[]`, rec.Body.String())
	assert.Zero(t, backend.TotalCalls())

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/api/clients?name=ana", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Ana Pérez", got[0]["name"])
}

func TestTheme_TogglePersistsAndRendersDark(t *testing.T) {
	h, _ := setupApp(t)

	req := postForm("/theme", nil)
	req.Header.Set("Referer", "http://example.com/history?q=ana&theme=light")
	rec := serve(h, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/history?q=ana", rec.Header().Get("Location"))

	var themeCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "theme" {
			themeCookie = c
		}
	}
	require.NotNil(t, themeCookie)
	assert.Equal(t, "dark", themeCookie.Value)
	assert.Positive(t, themeCookie.MaxAge)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(themeCookie)
	body := serve(h, next).Body.String()
	assert.Contains(t, body, `class="dark"`)
	assert.Contains(t, body, `data-theme="dark"`)

	// Toggling again goes back to light.
	again := postForm("/theme", nil)
	again.AddCookie(themeCookie)
	rec = serve(h, again)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "theme=light")
}

func TestBackTo_RejectsForeignReferer(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/theme", nil)
	req.Header.Set("Referer", "https://evil.example.org/phish")
	assert.Equal(t, "/", backTo(req))

	req.Header.Set("Referer", "//evil.example.org/x")
	assert.Equal(t, "/", backTo(req))
}

func TestHistory_MarkPaidMovesEntryToPaidTab(t *testing.T) {
	h, backend := setupApp(t)
	clientID := backend.SeedClient(t, "Ana Pérez", "", "70000001")
	id := backend.SeedProforma(t, clientID, "Volvo FH", "PENDING",
		apitest.SeedItem{Description: "Soldadura", Quantity: 1, UnitPrice: "250"})
	row := `data-id="` + id + `"`

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/history", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), row)
	assert.Contains(t, rec.Body.String(), "250.00 Bs")
	assert.Contains(t, rec.Body.String(), "¿Confirmas que recibiste el pago de esta proforma?")

	rec = serve(h, postForm("/history/"+id+"/pay", url.Values{"q": {""}, "tab": {"PENDING"}}))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/history?tab=PENDING", rec.Header().Get("Location"))
	assert.Equal(t, "PAID", backend.Status(t, id))

	pending := serve(h, withCookies(httptest.NewRequest(http.MethodGet, "/history?tab=PENDING", nil), rec))
	assert.NotContains(t, pending.Body.String(), row)
	assert.Contains(t, pending.Body.String(), "¡Cobro registrado correctamente!")

	paid := serve(h, httptest.NewRequest(http.MethodGet, "/history?tab=PAID", nil))
	assert.Contains(t, paid.Body.String(), row)
	assert.NotContains(t, paid.Body.String(), `action="/history/`+id+`/pay"`)
}

func TestHistory_PayFailureFlashesError(t *testing.T) {
	h, backend := setupApp(t)
	backend.Fail(apitest.FieldUpdateProformaStatus, "Proforma no encontrada")

	rec := serve(h, postForm("/history/77/pay", url.Values{"q": {"ana"}, "tab": {"PAID"}}))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/history?q=ana&tab=PAID", rec.Header().Get("Location"))

	page := serve(h, withCookies(httptest.NewRequest(http.MethodGet, "/history?q=ana&tab=PAID", nil), rec))
	assert.Contains(t, page.Body.String(), "Error al cobrar: Proforma no encontrada")
}

func TestHistory_SearchFiltersByClientName(t *testing.T) {
	h, backend := setupApp(t)
	ana := backend.SeedClient(t, "Ana Pérez", "", "")
	luis := backend.SeedClient(t, "Luis Rojas", "", "")
	backend.SeedProforma(t, ana, "Volvo FH", "PENDING")
	backend.SeedProforma(t, luis, "Scania R450", "PENDING")

	body := serve(h, httptest.NewRequest(http.MethodGet, "/history?q=ana", nil)).Body.String()
	assert.Contains(t, body, "Ana Pérez")
	assert.NotContains(t, body, "Luis Rojas")

	body = serve(h, httptest.NewRequest(http.MethodGet, "/history", nil)).Body.String()
	assert.Contains(t, body, "Ana Pérez")
	assert.Contains(t, body, "Luis Rojas")
}

func TestHistory_ListErrorShownInline(t *testing.T) {
	h, backend := setupApp(t)
	backend.Fail(apitest.FieldAllProformas, "sin conexión")

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/history", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error: sin conexión")
}

func TestHistory_JSON(t *testing.T) {
	h, backend := setupApp(t)
	backend.SeedProforma(t, backend.SeedClient(t, "Ana", "", ""), "Volvo", "PAID")

	req := httptest.NewRequest(http.MethodGet, "/history?tab=PAID", nil)
	req.Header.Set("Accept", "application/json")
	rec := serve(h, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "PAID", rows[0]["status"])
}

func TestReports(t *testing.T) {
	h, backend := setupApp(t)
	c := backend.SeedClient(t, "Ana", "", "")
	backend.SeedProforma(t, c, "A", "PENDING", apitest.SeedItem{Description: "x", Quantity: 1, UnitPrice: "100.50"})
	backend.SeedProforma(t, c, "B", "PAID", apitest.SeedItem{Description: "y", Quantity: 2, UnitPrice: "50"})

	body := serve(h, httptest.NewRequest(http.MethodGet, "/reports", nil)).Body.String()
	assert.Contains(t, body, `id="generated">200.50 Bs<`)
	assert.Contains(t, body, `id="pending">100.50 Bs<`)
	assert.Contains(t, body, `id="collected">100.00 Bs<`)
	assert.Contains(t, body, `id="count">2<`)

	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	req.Header.Set("Accept", "application/json")
	rec := serve(h, req)
	assert.JSONEq(t, `{"generated":"200.50","pending":"100.50","collected":"100.00","count":2}`, rec.Body.String())
}

func TestProforma_PDFRedirect(t *testing.T) {
	h, _ := setupApp(t)
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/proformas/5/pdf", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "http://127.0.0.1:8000/pdf/5/", rec.Header().Get("Location"))
}

func TestProforma_ShowLabelsStatus(t *testing.T) {
	h, backend := setupApp(t)
	clientID := backend.SeedClient(t, "Ana Pérez", "123", "")
	id := backend.SeedProforma(t, clientID, "Volvo FH", "PAID",
		apitest.SeedItem{Description: "Soldadura", Quantity: 2, UnitPrice: "150"})

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/proformas/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<dt>Estado</dt>")
	assert.Contains(t, body, "Pagada")
	assert.NotContains(t, body, "Acciones")
	assert.Contains(t, body, "300.00")

	req := httptest.NewRequest(http.MethodGet, "/proformas/"+id+"?lang=en", nil)
	en := serve(h, req)
	assert.Contains(t, en.Body.String(), "<dt>Status</dt>")
}

func TestProforma_ShowUnknown(t *testing.T) {
	h, _ := setupApp(t)
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/proformas/99", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "does not exist")
}

func TestHealth(t *testing.T) {
	h, _ := setupApp(t)
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.JSONEq(t, `{"status":"ok","version":"1.0"}`, rec.Body.String())
}
