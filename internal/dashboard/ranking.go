package dashboard

import (
	"sort"

	"github.com/xelth-com/swiftlog/internal/models"
)

const performersShown = 4

// DriverScore is a driver name with its delivery efficiency in a view
type DriverScore struct {
	Name       string  `json:"name"`
	Total      int     `json:"total"`
	Completed  int     `json:"completed"`
	Efficiency float64 `json:"efficiency"`
}

// DriverRanking scores every driver name present in view, best first.
// Drivers with equal efficiency keep first-seen order.
func DriverRanking(view []models.Delivery) []DriverScore {
	index := make(map[string]int)
	ranking := make([]DriverScore, 0)
	for _, d := range view {
		i, ok := index[d.DriverName]
		if !ok {
			i = len(ranking)
			index[d.DriverName] = i
			ranking = append(ranking, DriverScore{Name: d.DriverName})
		}
		ranking[i].Total++
		if d.Status == models.StatusDelivered {
			ranking[i].Completed++
		}
	}
	for i := range ranking {
		ranking[i].Efficiency = percent(ranking[i].Completed, ranking[i].Total)
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Efficiency > ranking[j].Efficiency
	})
	return ranking
}

// TopPerformers returns the first entries of a ranking
func TopPerformers(ranking []DriverScore) []DriverScore {
	if len(ranking) > performersShown {
		ranking = ranking[:performersShown]
	}
	out := make([]DriverScore, len(ranking))
	copy(out, ranking)
	return out
}

// LowPerformers returns the worst drivers below the threshold, worst first
func LowPerformers(ranking []DriverScore) []DriverScore {
	low := make([]DriverScore, 0)
	for _, r := range ranking {
		if r.Efficiency < LowEfficiencyThreshold {
			low = append(low, r)
		}
	}
	sort.SliceStable(low, func(i, j int) bool {
		return low[i].Efficiency < low[j].Efficiency
	})
	if len(low) > performersShown {
		low = low[:performersShown]
	}
	return low
}
