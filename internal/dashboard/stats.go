package dashboard

import "github.com/xelth-com/swiftlog/internal/models"

// Stats is the aggregate of a delivery set
type Stats struct {
	Total            int     `json:"total"`
	Delivered        int     `json:"delivered"`
	Returned         int     `json:"returned"`
	TotalBoxes       int     `json:"totalBoxes"`
	DeliveredBoxes   int     `json:"deliveredBoxes"`
	EfficiencyPct    float64 `json:"efficiencyPct"`
	EffectivenessPct float64 `json:"effectivenessPct"`
}

// ComputeStats reduces deliveries to counts and ratios. Negative box
// quantities count as zero; both percentages are 0 for an empty set.
func ComputeStats(deliveries []models.Delivery) Stats {
	var s Stats
	for _, d := range deliveries {
		s.Total++
		boxes := boxes(d)
		s.TotalBoxes += boxes
		switch d.Status {
		case models.StatusDelivered:
			s.Delivered++
			s.DeliveredBoxes += boxes
		case models.StatusReturned:
			s.Returned++
		}
	}
	s.EfficiencyPct = percent(s.Delivered, s.Total)
	s.EffectivenessPct = percent(s.DeliveredBoxes, s.TotalBoxes)
	return s
}

// CountStatus counts deliveries with exactly status
func CountStatus(deliveries []models.Delivery, status models.DeliveryStatus) int {
	n := 0
	for _, d := range deliveries {
		if d.Status == status {
			n++
		}
	}
	return n
}

func boxes(d models.Delivery) int {
	if d.BoxQuantity < 0 {
		return 0
	}
	return d.BoxQuantity
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
