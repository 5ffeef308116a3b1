package main

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/xelth-com/swiftlog/internal/dashboard"
	"github.com/xelth-com/swiftlog/internal/models"
	"github.com/xelth-com/swiftlog/internal/utils"
)

// Dataset is one generated demo population
type Dataset struct {
	Branches    []models.Branch
	Reasons     []models.ReturnReason
	Drivers     []models.Driver
	Vehicles    []models.Vehicle
	Deliveries  []models.Delivery
	Reputations []models.CustomerReputation
	Mappings    []models.ClientMapping
}

// GenOptions sizes a Dataset
type GenOptions struct {
	Deliveries       int
	Days             int // deliveries spread over today and the Days-1 days before
	DriversPerBranch int
	Customers        int
	Today            dashboard.Day
}

var demoBranches = []models.Branch{
	{ID: "sp-01", Name: "São Paulo - Centro", Location: "São Paulo, SP"},
	{ID: "rj-02", Name: "Rio de Janeiro - Porto", Location: "Rio de Janeiro, RJ"},
	{ID: "bh-03", Name: "Belo Horizonte", Location: "Belo Horizonte, MG"},
}

var demoReasons = []string{
	"Cliente Ausente", "Endereço Incorreto", "Recusa do Cliente",
	"Avaria no Transporte", "Estabelecimento Fechado",
}

var reasonColors = []string{"#ef4444", "#f59e0b", "#4f46e5", "#10b981", "#6b7280"}

// Generate builds a consistent dataset: every delivery driver exists,
// every reputation and mapping points at a generated customer.
func Generate(f *gofakeit.Faker, opts GenOptions) Dataset {
	if opts.Days < 1 {
		opts.Days = 1
	}
	ds := Dataset{Branches: append([]models.Branch(nil), demoBranches...)}

	for i, label := range demoReasons {
		ds.Reasons = append(ds.Reasons, models.ReturnReason{ID: utils.NewID(), Label: label, Color: reasonColors[i%len(reasonColors)], IsActive: true})
	}

	plates := make(map[string]string)
	used := make(map[string]bool)
	for _, b := range ds.Branches {
		for i := 0; i < opts.DriversPerBranch; i++ {
			name := fmt.Sprintf("%s. %s", strings.ToUpper(f.LetterN(1)), f.LastName())
			for used[name] {
				name = fmt.Sprintf("%s. %s", strings.ToUpper(f.LetterN(1)), f.LastName())
			}
			used[name] = true
			drv := models.Driver{ID: utils.NewID(), Name: name, LicenseType: f.RandomString([]string{"C", "D", "E"}), Status: models.DriverActive, BranchID: b.ID}
			veh := models.Vehicle{ID: utils.NewID(), Plate: fmt.Sprintf("%s%d%s%02d", strings.ToUpper(f.LetterN(3)), f.Number(0, 9), strings.ToUpper(f.LetterN(1)), f.Number(0, 99)), Model: f.RandomString([]string{"VW Delivery 9.170", "Mercedes Accelo 1016", "Iveco Daily"}), Capacity: fmt.Sprintf("%d kg", f.Number(3, 9)*1000), BranchID: b.ID, DriverID: drv.ID}
			drv.VehicleID = veh.ID
			ds.Drivers = append(ds.Drivers, drv)
			ds.Vehicles = append(ds.Vehicles, veh)
			plates[drv.Name] = veh.Plate
		}
	}

	type customer struct{ id, name, address string }
	customers := make([]customer, opts.Customers)
	for i := range customers {
		customers[i] = customer{
			id:      fmt.Sprintf("MAT-%04d", i+1),
			name:    f.Company(),
			address: fmt.Sprintf("%s, %s", f.Street(), f.City()),
		}
	}

	for i := 0; i < opts.Deliveries && len(ds.Drivers) > 0 && len(customers) > 0; i++ {
		drv := ds.Drivers[f.Number(0, len(ds.Drivers)-1)]
		c := customers[f.Number(0, len(customers)-1)]
		date := opts.Today.AddDays(-f.Number(0, opts.Days-1))
		d := models.Delivery{
			ID:           utils.NewID(),
			CustomerID:   c.id,
			CustomerName: c.name,
			Address:      c.address,
			Status:       randomStatus(f),
			Date:         date.ISO(),
			DeliveryDay:  dashboard.WeekdayLabel(date.ISO()),
			TrackingCode: fmt.Sprintf("BR%s", f.DigitN(9)),
			Items:        []string{f.ProductName()},
			BoxQuantity:  f.Number(1, 12),
			DriverName:   drv.Name,
			Branch:       drv.BranchID,
			LicensePlate: plates[drv.Name],
		}
		if d.Status == models.StatusReturned {
			d.ReturnReason = f.RandomString(demoReasons)
			d.ReturnNotes = f.Sentence(6)
		}
		ds.Deliveries = append(ds.Deliveries, d)
	}

	for i, c := range customers {
		if i%5 == 0 {
			ds.Reputations = append(ds.Reputations, models.CustomerReputation{
				CustomerID:       c.id,
				ReturnCount:      f.Number(1, 6),
				ComplaintCount:   f.Number(0, 3),
				Status:           models.ReputationStatus(f.RandomString([]string{string(models.ReputationReturn), string(models.ReputationPendingIssue), string(models.ReputationComplaint), string(models.ReputationTimeRestriction)})),
				RiskLevel:        f.RandomString([]string{models.RiskLow, models.RiskMedium, models.RiskHigh}),
				ResolutionStatus: models.ResolutionPending,
				RegistrationDate: opts.Today.AddDays(-f.Number(0, 60)).ISO(),
				Notes:            f.Sentence(8),
			})
		}
		if i%3 != 2 {
			ds.Mappings = append(ds.Mappings, models.ClientMapping{
				CustomerID:   c.id,
				CustomerName: c.name,
				SellerCode:   fmt.Sprintf("V%03d", f.Number(1, 40)),
				SellerName:   f.FirstName(),
				SellerPhone:  fmt.Sprintf("55%d9%s", f.Number(11, 99), f.DigitN(8)),
			})
		}
	}
	return ds
}

func randomStatus(f *gofakeit.Faker) models.DeliveryStatus {
	switch n := f.Number(1, 100); {
	case n <= 55:
		return models.StatusDelivered
	case n <= 70:
		return models.StatusPending
	case n <= 80:
		return models.StatusInTransit
	case n <= 90:
		return models.StatusReturned
	case n <= 95:
		return models.StatusFailed
	default:
		return models.StatusDPlus1
	}
}
