package ai

import (
	"strings"

	"github.com/xelth-com/swiftlog/internal/dashboard"
	"github.com/xelth-com/swiftlog/internal/models"
	"github.com/xelth-com/swiftlog/internal/utils"
)

// Defaults for fields the model left empty
const (
	DefaultCustomerName = "Cliente Importado"
	DefaultAddress      = "Endereço não identificado"
)

// Normalize turns extracted records into pending deliveries of branch.
// Missing fields get placeholders, dates are stored as ISO and box
// quantities below 1 become models.DefaultBoxQuantity.
func Normalize(records []Record, branch string, today dashboard.Day) []models.Delivery {
	out := make([]models.Delivery, 0, len(records))
	for _, r := range records {
		d := models.Delivery{
			ID:           utils.NewID(),
			CustomerID:   strings.TrimSpace(r.CustomerID),
			CustomerName: strings.TrimSpace(r.CustomerName),
			Address:      strings.TrimSpace(r.Address),
			Status:       models.StatusPending,
			Date:         dashboard.ToISO(r.Date, today),
			TrackingCode: strings.TrimSpace(r.TrackingCode),
			DriverName:   strings.TrimSpace(r.DriverName),
			Branch:       branch,
			BoxQuantity:  int(r.BoxQuantity),
			Items:        r.Items,
		}
		if d.CustomerID == "" {
			d.CustomerID = utils.PlaceholderCustomerID()
		}
		if d.CustomerName == "" {
			d.CustomerName = DefaultCustomerName
		}
		if d.Address == "" {
			d.Address = DefaultAddress
		}
		if d.TrackingCode == "" {
			d.TrackingCode = utils.ManualTrackingCode()
		}
		if d.BoxQuantity < 1 {
			d.BoxQuantity = models.DefaultBoxQuantity
		}
		if d.Items == nil {
			d.Items = []string{}
		}
		d.DeliveryDay = dashboard.WeekdayLabel(d.Date)
		out = append(out, d)
	}
	return out
}
