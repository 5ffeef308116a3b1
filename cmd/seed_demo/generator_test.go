package main

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xelth-com/swiftlog/internal/dashboard"
	"github.com/xelth-com/swiftlog/internal/models"
)

func TestGenerate(t *testing.T) {
	today := dashboard.Day{Year: 2024, Month: time.March, Day: 10}
	ds := Generate(gofakeit.New(42), GenOptions{Deliveries: 120, Days: 7, DriversPerBranch: 3, Customers: 20, Today: today})

	require.Len(t, ds.Deliveries, 120)
	assert.Len(t, ds.Drivers, 3*len(demoBranches))
	assert.Len(t, ds.Vehicles, len(ds.Drivers))
	assert.Len(t, ds.Reasons, len(demoReasons))
	assert.Len(t, ds.Reputations, 4)

	drivers := make(map[string]string)
	for _, d := range ds.Drivers {
		drivers[d.Name] = d.BranchID
	}
	for _, d := range ds.Deliveries {
		assert.Equal(t, drivers[d.DriverName], d.Branch)
		assert.True(t, d.Status.Valid())
		assert.GreaterOrEqual(t, d.BoxQuantity, 1)
		assert.True(t, dashboard.IsInRange(d.Date, dashboard.RangeWeekly, "", today), d.Date)
		if d.Status == models.StatusReturned {
			assert.NotEmpty(t, d.ReturnReason)
		}
	}
}

func TestGenerate_NoCustomers(t *testing.T) {
	ds := Generate(gofakeit.New(1), GenOptions{Deliveries: 10, DriversPerBranch: 1})
	assert.Empty(t, ds.Deliveries)
}
