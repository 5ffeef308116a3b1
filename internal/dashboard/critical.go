package dashboard

import "github.com/xelth-com/swiftlog/internal/models"

// Sentinels for unmatched joins
const (
	NoTracking = "N/A"
	NoSeller   = "unassigned"
)

// CriticalRow is a reputation record joined with the reference day's
// delivery and the customer's seller
type CriticalRow struct {
	models.CustomerReputation
	DriverName  string `json:"driverName,omitempty"`
	HasDelivery bool   `json:"hasDelivery"`
	DeliveryID  string `json:"deliveryId,omitempty"`
	Tracking    string `json:"tracking"`
	SellerName  string `json:"sellerName"`
	SellerPhone string `json:"sellerPhone,omitempty"`
}

// Correlate left-joins every reputation record with the first delivery of
// that customer on reference and with its seller mapping. Every record yields
// exactly one row; unmatched joins carry the NoTracking and NoSeller sentinels.
func Correlate(reputations []models.CustomerReputation, deliveries []models.Delivery, mappings []models.ClientMapping, reference Day) []CriticalRow {
	sameDay := make(map[string]models.Delivery)
	for _, d := range OnDate(deliveries, reference) {
		if _, seen := sameDay[d.CustomerID]; !seen {
			sameDay[d.CustomerID] = d
		}
	}
	sellers := MappingIndex(mappings)

	rows := make([]CriticalRow, 0, len(reputations))
	for _, rep := range reputations {
		row := CriticalRow{
			CustomerReputation: rep,
			Tracking:           NoTracking,
			SellerName:         NoSeller,
		}
		if d, ok := sameDay[rep.CustomerID]; ok {
			row.HasDelivery = true
			row.DeliveryID = d.ID
			row.DriverName = d.DriverName
			if d.TrackingCode != "" {
				row.Tracking = d.TrackingCode
			}
		}
		if m, ok := sellers[rep.CustomerID]; ok {
			if m.SellerName != "" {
				row.SellerName = m.SellerName
			}
			row.SellerPhone = m.SellerPhone
		}
		rows = append(rows, row)
	}
	return rows
}

// CorrelateFiltered is Correlate restricted to one reputation category;
// "all" or empty keeps every record.
func CorrelateFiltered(reputations []models.CustomerReputation, deliveries []models.Delivery, mappings []models.ClientMapping, reference Day, status string) []CriticalRow {
	if status == "" || status == "all" {
		return Correlate(reputations, deliveries, mappings, reference)
	}
	kept := make([]models.CustomerReputation, 0)
	for _, r := range reputations {
		if string(r.Status) == status {
			kept = append(kept, r)
		}
	}
	return Correlate(kept, deliveries, mappings, reference)
}

// MappingIndex keys mappings by customer id; later entries win
func MappingIndex(mappings []models.ClientMapping) map[string]models.ClientMapping {
	idx := make(map[string]models.ClientMapping, len(mappings))
	for _, m := range mappings {
		idx[m.CustomerID] = m
	}
	return idx
}

// CriticalSet holds the customer ids of the reputation registry
type CriticalSet map[string]struct{}

// NewCriticalSet indexes reputations by customer id
func NewCriticalSet(reputations []models.CustomerReputation) CriticalSet {
	set := make(CriticalSet, len(reputations))
	for _, r := range reputations {
		set[r.CustomerID] = struct{}{}
	}
	return set
}

// Has reports whether customerID is in the registry
func (c CriticalSet) Has(customerID string) bool {
	_, ok := c[customerID]
	return ok
}
