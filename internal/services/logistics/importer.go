package logistics

import (
	"strconv"
	"strings"

	"github.com/xelth-com/swiftlog/internal/dashboard"
	"github.com/xelth-com/swiftlog/internal/models"
	"github.com/xelth-com/swiftlog/internal/utils"
)

// ParseBulkText reads one delivery per non-blank line. Columns are
// separated by tabs, or by ';' when a line has no tab:
// customerId, customerName, driverName, boxQuantity, date.
func ParseBulkText(text, branch string, today dashboard.Day) []models.Delivery {
	out := make([]models.Delivery, 0)
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) == 1 {
			parts = strings.Split(line, ";")
		}

		d := models.Delivery{
			ID:           utils.NewID(),
			CustomerID:   column(parts, 0),
			CustomerName: column(parts, 1),
			DriverName:   column(parts, 2),
			BoxQuantity:  models.DefaultBoxQuantity,
			Date:         dashboard.ToISO(column(parts, 4), today),
			Status:       models.StatusPending,
			TrackingCode: utils.ManualTrackingCode(),
			Address:      ManualAddress,
			Branch:       branch,
			Items:        []string{},
		}
		if d.CustomerID == "" {
			d.CustomerID = utils.PlaceholderCustomerID()
		}
		if d.CustomerName == "" {
			d.CustomerName = ManualCustomer
		}
		if d.DriverName == "" {
			d.DriverName = UnknownDriver
		}
		if n, err := strconv.Atoi(column(parts, 3)); err == nil && n > 0 {
			d.BoxQuantity = n
		}
		d.DeliveryDay = dashboard.WeekdayLabel(d.Date)
		out = append(out, d)
	}
	return out
}

func column(parts []string, i int) string {
	if i >= len(parts) {
		return ""
	}
	return strings.TrimSpace(parts[i])
}
