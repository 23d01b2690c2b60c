package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Status represents the payment status of a proforma.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
)

// ParseStatus normalizes a status string. Unknown values are rejected.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusPending, StatusPaid, StatusCancelled:
		return st, nil
	default:
		return "", fmt.Errorf("unknown proforma status %q", s)
	}
}

// Tabs lists the statuses the history screen groups by, in display order.
func Tabs() []Status {
	return []Status{StatusPending, StatusPaid}
}

// LabelCode returns the translation code for the status.
func (s Status) LabelCode() string {
	return "status." + strings.ToLower(string(s))
}

// Proforma is a quotation/invoice for a vehicle-repair job as returned by the backend.
type Proforma struct {
	ID         string          `json:"id"`
	CreatedAt  string          `json:"createdAt"`
	VehicleRef string          `json:"vehicleRef"`
	Driver     string          `json:"driver,omitempty"`
	Total      decimal.Decimal `json:"total"`
	Status     Status          `json:"status"`
	Client     Client          `json:"client"`
	Items      []ProformaItem  `json:"items,omitempty"`
}

// IsPending returns true while the proforma awaits payment.
func (p *Proforma) IsPending() bool {
	return p.Status == StatusPending
}

// ProformaItem is a line on a proforma. It only exists embedded in one.
type ProformaItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// Subtotal is quantity × unit price.
func (item ProformaItem) Subtotal() decimal.Decimal {
	return item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// SumItems returns Σ quantity × unitPrice over items. The backend total is
// authoritative; this is what the create form displays before saving.
func SumItems(items []ProformaItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}
