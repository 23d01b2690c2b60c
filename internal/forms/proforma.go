// Package forms rebuilds the create-proforma screen state from submitted
// form fields. The browser holds the state; every round trip carries all of it.
package forms

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/diewo77/go-proformas/internal/api"
	"github.com/diewo77/go-proformas/internal/models"
	"github.com/diewo77/go-proformas/validation"
)

// Submit button actions.
const (
	ActionSearch     = "search"
	ActionSelect     = "select"
	ActionAddItem    = "add_item"
	ActionRemoveItem = "remove_item"
	ActionRecalc     = "recalc"
	ActionSave       = "save"
	ActionReset      = "reset"
)

// Field names shared with the template.
const (
	FieldSearch      = "search"
	FieldClientID    = "client_id"
	FieldClientName  = "client_name"
	FieldClientTaxID = "client_nit"
	FieldNewPhone    = "new_phone"
	FieldNewTaxID    = "new_nit"
	FieldVehicleRef  = "vehicle_ref"
	FieldDriver      = "driver"
	FieldItemDesc    = "item_description"
	FieldItemQty     = "item_quantity"
	FieldItemPrice   = "item_unit_price"
	FieldAction      = "action"
)

// ProformaForm is the create screen's state.
type ProformaForm struct {
	Search      string
	ClientID    string
	ClientName  string
	ClientTaxID string
	NewPhone    string
	NewTaxID    string
	VehicleRef  string
	Driver      string
	Items       []models.ProformaItem

	// Action is the pressed button; Arg its argument ("remove_item:2" → "2").
	Action string
	Arg    string
}

func blankItem() models.ProformaItem {
	return models.ProformaItem{Quantity: 1, UnitPrice: decimal.Zero}
}

// New returns an empty form with one blank row.
func New() *ProformaForm {
	return &ProformaForm{Items: []models.ProformaItem{blankItem()}}
}

// Parse rebuilds the form from submitted values. Quantities and prices that
// don't parse become zero. A search term that no longer matches the selected
// client's name drops the selection.
func Parse(v url.Values) *ProformaForm {
	f := &ProformaForm{
		Search:      v.Get(FieldSearch),
		ClientID:    strings.TrimSpace(v.Get(FieldClientID)),
		ClientName:  v.Get(FieldClientName),
		ClientTaxID: v.Get(FieldClientTaxID),
		NewPhone:    v.Get(FieldNewPhone),
		NewTaxID:    v.Get(FieldNewTaxID),
		VehicleRef:  v.Get(FieldVehicleRef),
		Driver:      v.Get(FieldDriver),
	}
	f.Action, f.Arg, _ = strings.Cut(v.Get(FieldAction), ":")

	if f.ClientID != "" && f.Search != f.ClientName {
		f.clearClient()
	}

	descs, qtys, prices := v[FieldItemDesc], v[FieldItemQty], v[FieldItemPrice]
	n := max(len(descs), len(qtys), len(prices))
	f.Items = make([]models.ProformaItem, 0, n)
	for i := 0; i < n; i++ {
		f.Items = append(f.Items, models.ProformaItem{
			Description: at(descs, i),
			Quantity:    parseQuantity(at(qtys, i)),
			UnitPrice:   parsePrice(at(prices, i)),
		})
	}
	return f
}

func at(s []string, i int) string {
	if i < len(s) {
		return s[i]
	}
	return ""
}

func parseQuantity(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func parsePrice(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (f *ProformaForm) clearClient() {
	f.ClientID, f.ClientName, f.ClientTaxID = "", "", ""
}

// HasClient reports whether a client is selected.
func (f *ProformaForm) HasClient() bool {
	return f.ClientID != ""
}

// SelectClient makes c the proforma's client and puts its name in the
// search box.
func (f *ProformaForm) SelectClient(c models.Client) {
	f.ClientID = c.ID
	f.ClientName = c.Name
	f.ClientTaxID = c.TaxID
	f.Search = c.Name
	f.NewPhone, f.NewTaxID = "", ""
}

// Apply performs the local actions: adding, removing and resetting rows.
// Actions that need the backend are left to the caller.
func (f *ProformaForm) Apply() error {
	switch f.Action {
	case ActionAddItem:
		f.Items = append(f.Items, blankItem())
	case ActionRemoveItem:
		i, err := strconv.Atoi(f.Arg)
		if err != nil || i < 0 || i >= len(f.Items) {
			return fmt.Errorf("remove_item: invalid row %q", f.Arg)
		}
		f.Items = append(f.Items[:i], f.Items[i+1:]...)
	case ActionReset:
		*f = *New()
	case "", ActionSearch, ActionSelect, ActionRecalc, ActionSave:
	default:
		return fmt.Errorf("unknown action %q", f.Action)
	}
	return nil
}

// Total is Σ quantity × unit price over the rows.
func (f *ProformaForm) Total() decimal.Decimal {
	return models.SumItems(f.Items)
}

// Validate returns the translation code of the first problem that blocks
// saving, or "" when the form can be sent. The client is checked first.
func (f *ProformaForm) Validate() string {
	v := validation.Violations{}
	validation.Required(FieldClientID, f.ClientID, v)
	validation.Required(FieldVehicleRef, f.VehicleRef, v)

	if _, ok := v[FieldClientID]; ok {
		return "create.client_required"
	}
	if _, ok := v[FieldVehicleRef]; ok {
		return "create.vehicle_required"
	}
	return ""
}

// Hints flags rows worth a second look. They never block saving.
func (f *ProformaForm) Hints() validation.Violations {
	v := validation.Violations{}
	for i, it := range f.Items {
		validation.PositiveInt(rowField(FieldItemQty, i), it.Quantity, v)
		validation.NonNegative(rowField(FieldItemPrice, i), it.UnitPrice, v)
	}
	return v
}

func rowField(name string, i int) string {
	return name + "_" + strconv.Itoa(i)
}

// ToNewProforma builds the create input.
func (f *ProformaForm) ToNewProforma() api.NewProforma {
	items := make([]models.ProformaItem, len(f.Items))
	copy(items, f.Items)
	return api.NewProforma{
		ClientID:   f.ClientID,
		VehicleRef: strings.TrimSpace(f.VehicleRef),
		Driver:     strings.TrimSpace(f.Driver),
		Items:      items,
	}
}
