package dashboard

import (
	"sort"

	"github.com/xelth-com/swiftlog/internal/models"
)

// OtherReason labels returns registered without a reason
const OtherReason = "Outros"

const recurrentShown = 6

// ReasonCount is the number of returns for one reason
type ReasonCount struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// RecurrentCustomer is a customer returned more than once in a view
type RecurrentCustomer struct {
	CustomerID   string `json:"customerId"`
	CustomerName string `json:"customerName"`
	Returns      int    `json:"returns"`
	Boxes        int    `json:"boxes"`
}

// Returned filters the returned deliveries of a view
func Returned(view []models.Delivery) []models.Delivery {
	out := make([]models.Delivery, 0)
	for _, d := range view {
		if d.Status == models.StatusReturned {
			out = append(out, d)
		}
	}
	return out
}

// ReturnsByReason counts returns per reason, most frequent first
func ReturnsByReason(view []models.Delivery) []ReasonCount {
	index := make(map[string]int)
	counts := make([]ReasonCount, 0)
	for _, d := range Returned(view) {
		reason := d.ReturnReason
		if reason == "" {
			reason = OtherReason
		}
		i, ok := index[reason]
		if !ok {
			i = len(counts)
			index[reason] = i
			counts = append(counts, ReasonCount{Reason: reason})
		}
		counts[i].Count++
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// RecurrentCustomers lists customers with more than one return, top first
func RecurrentCustomers(view []models.Delivery) []RecurrentCustomer {
	index := make(map[string]int)
	all := make([]RecurrentCustomer, 0)
	for _, d := range Returned(view) {
		i, ok := index[d.CustomerID]
		if !ok {
			i = len(all)
			index[d.CustomerID] = i
			all = append(all, RecurrentCustomer{CustomerID: d.CustomerID, CustomerName: d.CustomerName})
		}
		all[i].Returns++
		all[i].Boxes += boxes(d)
	}

	out := make([]RecurrentCustomer, 0)
	for _, c := range all {
		if c.Returns > 1 {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Returns > out[j].Returns
	})
	if len(out) > recurrentShown {
		out = out[:recurrentShown]
	}
	return out
}
