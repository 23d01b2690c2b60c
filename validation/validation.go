package validation

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Violations maps a field name to a translation code.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Add records code for field unless the field already has a violation.
// The first violation per field wins.
func (v Violations) Add(field, code string) {
	if _, exists := v[field]; !exists {
		v[field] = code
	}
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "required")
	}
}

func PositiveInt(field string, val int, v Violations) {
	if val <= 0 {
		v.Add(field, "must_be_positive")
	}
}

func NonNegative(field string, val decimal.Decimal, v Violations) {
	if val.IsNegative() {
		v.Add(field, "must_not_be_neg")
	}
}
