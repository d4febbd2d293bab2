package catalog

import (
	"strings"

	"admin-console/internal/models"
)

// Status filters for the catalog listing
const (
	FilterAll      = "All"
	FilterActive   = "Active"
	FilterInactive = "Inactive"
)

// FilterSKUs narrows the full catalog by active-status filter and a
// name-or-code substring search, preserving input order.
func FilterSKUs(skus []models.SKU, statusFilter, search string) []models.SKU {
	q := strings.ToLower(strings.TrimSpace(search))

	out := make([]models.SKU, 0, len(skus))
	for _, s := range skus {
		switch statusFilter {
		case FilterActive:
			if !s.Active {
				continue
			}
		case FilterInactive:
			if s.Active {
				continue
			}
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(s.Name), q) &&
			!strings.Contains(strings.ToLower(s.Code), q) {
			continue
		}
		out = append(out, s)
	}
	return out
}
