package apitest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

type clientOut struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Nit   string `json:"nit"`
	Phone string `json:"phone"`
}

type itemOut struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	Subtotal    string `json:"subtotal"`
}

type proformaOut struct {
	ID         string    `json:"id"`
	CreatedAt  string    `json:"createdAt"`
	VehicleRef string    `json:"vehicleRef"`
	Driver     string    `json:"driver"`
	Total      string    `json:"total"`
	Status     string    `json:"status"`
	ItemCount  int       `json:"itemCount"`
	Client     clientOut `json:"client"`
	Items      []itemOut `json:"items"`
}

func toClientOut(c clientRow) clientOut {
	return clientOut{ID: formatID(c.ID), Name: c.Name, Nit: c.Nit, Phone: c.Phone}
}

func toProformaOut(p proformaRow) proformaOut {
	out := proformaOut{
		ID:         formatID(p.ID),
		CreatedAt:  p.CreatedAt.Format("02/01/2006"),
		VehicleRef: p.VehicleRef,
		Driver:     p.Driver,
		Total:      p.Total,
		Status:     p.Status,
		ItemCount:  len(p.Items),
		Client:     toClientOut(p.Client),
		Items:      make([]itemOut, 0, len(p.Items)),
	}
	for _, it := range p.Items {
		price, _ := decimal.NewFromString(it.UnitPrice)
		out.Items = append(out.Items, itemOut{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    price.Mul(decimal.NewFromInt(int64(it.Quantity))).StringFixed(2),
		})
	}
	return out
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func parseID(raw string) (uint, error) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(n), nil
}

func (s *Server) resolve(field string, vars map[string]json.RawMessage) (any, error) {
	switch field {
	case FieldAllClients:
		rows, err := s.store.searchClients(stringVar(vars, "name"))
		if err != nil {
			return nil, err
		}
		out := make([]clientOut, 0, len(rows))
		for _, r := range rows {
			out = append(out, toClientOut(r))
		}
		return out, nil

	case FieldCreateClient:
		row, err := s.store.createClient(stringVar(vars, "name"), stringVar(vars, "phone"), stringVar(vars, "nit"))
		if err != nil {
			return nil, err
		}
		return map[string]any{"client": toClientOut(row)}, nil

	case FieldCreateProforma:
		cid, err := parseID(stringVar(vars, "clientId"))
		if err != nil {
			return nil, err
		}
		var items []itemArg
		if raw, ok := vars["items"]; ok {
			if err := json.Unmarshal(raw, &items); err != nil {
				return nil, fmt.Errorf("invalid items: %w", err)
			}
		}
		row, err := s.store.createProforma(cid, stringVar(vars, "vehicleRef"), stringVar(vars, "driver"), items, s.Now())
		if err != nil {
			return nil, err
		}
		return map[string]any{"proforma": toProformaOut(row)}, nil

	case FieldAllProformas:
		rows, err := s.store.listProformas(stringVar(vars, "search"))
		if err != nil {
			return nil, err
		}
		out := make([]proformaOut, 0, len(rows))
		for _, r := range rows {
			out = append(out, toProformaOut(r))
		}
		return out, nil

	case FieldUpdateProformaStatus:
		id, err := parseID(stringVar(vars, "id"))
		if err != nil {
			return nil, err
		}
		row, err := s.store.updateStatus(id, stringVar(vars, "status"))
		if errors.Is(err, errNotFound) {
			return nil, errors.New("Proforma no encontrada")
		}
		if err != nil {
			return nil, err
		}
		return map[string]any{"proforma": toProformaOut(row)}, nil

	case FieldProforma:
		id, err := parseID(stringVar(vars, "id"))
		if err != nil {
			return nil, err
		}
		row, err := s.store.getProforma(id)
		if errors.Is(err, errNotFound) {
			return nil, errors.New("Proforma matching query does not exist.")
		}
		if err != nil {
			return nil, err
		}
		return toProformaOut(row), nil
	}
	return nil, errors.New("unsupported operation")
}

func stringVar(vars map[string]json.RawMessage, name string) string {
	raw, ok := vars[name]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
