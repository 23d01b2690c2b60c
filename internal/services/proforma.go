package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/diewo77/go-proformas/internal/models"
)

// ProformaLister is the slice of the API client the service needs.
type ProformaLister interface {
	ListProformas(ctx context.Context, search string) ([]models.Proforma, error)
}

// Report aggregates the whole proforma history.
type Report struct {
	Generated decimal.Decimal
	Pending   decimal.Decimal
	Collected decimal.Decimal
	Count     int
}

// ProformaService provides report and history views over the remote proforma list.
type ProformaService struct {
	api ProformaLister
}

func NewProformaService(api ProformaLister) *ProformaService {
	return &ProformaService{api: api}
}

// Report fetches every proforma and builds the totals.
func (s *ProformaService) Report(ctx context.Context) (Report, error) {
	list, err := s.api.ListProformas(ctx, "")
	if err != nil {
		return Report{}, fmt.Errorf("build report: %w", err)
	}
	return BuildReport(list), nil
}

// History fetches proformas matching search and keeps those in tab.
// Counts are per status over the whole search result.
func (s *ProformaService) History(ctx context.Context, search string, tab models.Status) ([]models.Proforma, map[models.Status]int, error) {
	list, err := s.api.ListProformas(ctx, search)
	if err != nil {
		return nil, nil, fmt.Errorf("load history: %w", err)
	}
	return FilterByStatus(list, tab), CountByStatus(list), nil
}

// BuildReport computes totals over list. Generated covers every proforma
// regardless of status.
func BuildReport(list []models.Proforma) Report {
	r := Report{
		Generated: decimal.Zero,
		Pending:   decimal.Zero,
		Collected: decimal.Zero,
		Count:     len(list),
	}
	for _, p := range list {
		r.Generated = r.Generated.Add(p.Total)
		switch p.Status {
		case models.StatusPending:
			r.Pending = r.Pending.Add(p.Total)
		case models.StatusPaid:
			r.Collected = r.Collected.Add(p.Total)
		}
	}
	return r
}

// FilterByStatus keeps the proformas with status, preserving order.
func FilterByStatus(list []models.Proforma, status models.Status) []models.Proforma {
	out := make([]models.Proforma, 0, len(list))
	for _, p := range list {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out
}

// CountByStatus counts proformas per status.
func CountByStatus(list []models.Proforma) map[models.Status]int {
	counts := make(map[models.Status]int, len(models.Tabs()))
	for _, s := range models.Tabs() {
		counts[s] = 0
	}
	for _, p := range list {
		counts[p.Status]++
	}
	return counts
}
