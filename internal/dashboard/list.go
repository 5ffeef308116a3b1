package dashboard

import (
	"strings"

	"github.com/xelth-com/swiftlog/internal/models"
)

// ListFilter narrows the delivery list tab
type ListFilter struct {
	Status       string
	Search       string
	OnlyCritical bool
}

// FilterList applies status, free-text search and the critical-only toggle
// to a view, preserving order.
func FilterList(view []models.Delivery, f ListFilter, critical CriticalSet) []models.Delivery {
	term := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]models.Delivery, 0, len(view))
	for _, d := range view {
		if f.Status != "" && f.Status != "all" && string(d.Status) != f.Status {
			continue
		}
		if f.OnlyCritical && !critical.Has(d.CustomerID) {
			continue
		}
		if term != "" && !matches(d, term) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func matches(d models.Delivery, term string) bool {
	return strings.Contains(strings.ToLower(d.CustomerName), term) ||
		strings.Contains(strings.ToLower(d.CustomerID), term) ||
		strings.Contains(strings.ToLower(d.DriverName), term)
}
