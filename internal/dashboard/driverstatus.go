package dashboard

import (
	"sort"

	"github.com/xelth-com/swiftlog/internal/models"
)

// LowEfficiencyThreshold marks drivers below it as critical performers
const LowEfficiencyThreshold = 75.0

// NoVehicle is shown when none of a driver's deliveries carries a plate
const NoVehicle = "S/ Veículo"

// InferStatus derives a driver's operational state. A manual override wins;
// otherwise the rules are checked in order: no deliveries, all resolved,
// anything in transit or a mix of done and open, all still pending.
func InferStatus(driver models.Driver, deliveries []models.Delivery) models.OperationalStatus {
	if driver.ManualStatus.Valid() {
		return driver.ManualStatus
	}
	if len(deliveries) == 0 {
		return models.OpYard
	}

	var open, inTransit, delivered int
	for _, d := range deliveries {
		switch d.Status {
		case models.StatusPending:
			open++
		case models.StatusInTransit:
			open++
			inTransit++
		case models.StatusDelivered:
			delivered++
		}
	}

	switch {
	case open == 0:
		return models.OpBase
	case inTransit > 0 || (delivered > 0 && open > 0):
		return models.OpRoute
	default:
		return models.OpYard
	}
}

// TeamMember is one row of the team performance board
type TeamMember struct {
	ID         string                   `json:"id"`
	Name       string                   `json:"name"`
	BranchID   string                   `json:"branchId"`
	Plate      string                   `json:"plate"`
	Total      int                      `json:"total"`
	Completed  int                      `json:"completed"`
	Efficiency float64                  `json:"efficiency"`
	Status     models.OperationalStatus `json:"status"`
	Manual     bool                     `json:"manual"`
}

// DeliveriesOf returns the deliveries assigned to a driver name
func DeliveriesOf(view []models.Delivery, driverName string) []models.Delivery {
	out := make([]models.Delivery, 0)
	for _, d := range view {
		if d.DriverName == driverName {
			out = append(out, d)
		}
	}
	return out
}

// TeamPerformance builds one row per driver of branch from the view,
// sorted by efficiency descending.
func TeamPerformance(drivers []models.Driver, view []models.Delivery, branch string) []TeamMember {
	team := make([]TeamMember, 0, len(drivers))
	for _, drv := range drivers {
		if branch != models.BranchAll && drv.BranchID != branch {
			continue
		}
		own := DeliveriesOf(view, drv.Name)
		completed := CountStatus(own, models.StatusDelivered)

		plate := NoVehicle
		if len(own) > 0 && own[0].LicensePlate != "" {
			plate = own[0].LicensePlate
		}

		team = append(team, TeamMember{
			ID:         drv.ID,
			Name:       drv.Name,
			BranchID:   drv.BranchID,
			Plate:      plate,
			Total:      len(own),
			Completed:  completed,
			Efficiency: percent(completed, len(own)),
			Status:     InferStatus(drv, own),
			Manual:     drv.ManualStatus.Valid(),
		})
	}
	sort.SliceStable(team, func(i, j int) bool {
		return team[i].Efficiency > team[j].Efficiency
	})
	return team
}

// TeamCounts summarizes a team board
type TeamCounts struct {
	Route    int `json:"rota"`
	Base     int `json:"base"`
	Yard     int `json:"patio"`
	Critical int `json:"criticos"`
}

// TeamSummary counts members per state and the critical performers
// (below the threshold with at least one delivery).
func TeamSummary(team []TeamMember) TeamCounts {
	var c TeamCounts
	for _, m := range team {
		switch m.Status {
		case models.OpRoute:
			c.Route++
		case models.OpBase:
			c.Base++
		case models.OpYard:
			c.Yard++
		}
		if m.Total > 0 && m.Efficiency < LowEfficiencyThreshold {
			c.Critical++
		}
	}
	return c
}
