package logistics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xelth-com/swiftlog/internal/dashboard"
	"github.com/xelth-com/swiftlog/internal/models"
	"github.com/xelth-com/swiftlog/internal/notify"
	"github.com/xelth-com/swiftlog/internal/store"
)

var fixedNow = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) Publish(event string, _ interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

func seed(t *testing.T, ms *store.MemoryStore) {
	t.Helper()
	ctx := context.Background()
	deliveries := []models.Delivery{
		{ID: "D-1", CustomerID: "MAT-1", CustomerName: "Mercado Sol", Status: models.StatusPending, Date: "10/03/2024", BoxQuantity: 2, DriverName: "J. Silva", Branch: "sp-01"},
		{ID: "D-2", CustomerID: "MAT-2", CustomerName: "Padaria Lua", Status: models.StatusPending, Date: "2024-03-10", BoxQuantity: 1, DriverName: "J. Silva", Branch: "sp-01"},
		{ID: "D-3", CustomerID: "MAT-3", CustomerName: "Bar Estrela", Status: models.StatusInTransit, Date: "2024-03-10", BoxQuantity: 0, DriverName: "A. Lima", Branch: "sp-01"},
		{ID: "D-4", CustomerID: "MAT-4", CustomerName: "Loja Azul", Status: models.StatusPending, Date: "2024-03-09", BoxQuantity: 5, DriverName: "M. Souza", Branch: "rj-02"},
		{ID: "D-5", CustomerID: "MAT-5", CustomerName: "Casa Verde", Status: models.StatusReturned, Date: "2024-03-10", BoxQuantity: 3, DriverName: "A. Lima", Branch: "sp-01", ReturnReason: "Recusa do Cliente"},
	}
	require.NoError(t, ms.Insert(ctx, models.TableDeliveries, deliveries))
	require.NoError(t, ms.Insert(ctx, models.TableDrivers, []models.Driver{
		{ID: "DRV-1", Name: "J. Silva", Status: models.DriverActive, BranchID: "sp-01"},
		{ID: "DRV-2", Name: "A. Lima", Status: models.DriverActive, BranchID: "sp-01"},
	}))
	require.NoError(t, ms.Insert(ctx, models.TableReputations, []models.CustomerReputation{
		{CustomerID: "MAT-5", Status: models.ReputationReturn, RiskLevel: models.RiskHigh, ResolutionStatus: models.ResolutionPending},
	}))
	require.NoError(t, ms.Insert(ctx, models.TableMappings, []models.ClientMapping{
		{CustomerID: "MAT-5", SellerName: "Carla", SellerPhone: "+55 11 98888-7777"},
	}))
}

func newService(t *testing.T) (*Service, *store.MemoryStore, *recorder) {
	t.Helper()
	ms := store.NewMemoryStore()
	seed(t, ms)
	rec := &recorder{}
	svc := NewService(ms, Options{
		DefaultBranch: "sp-01",
		Location:      time.UTC,
		Publisher:     rec,
		Clock:         func() time.Time { return fixedNow },
	})
	require.NoError(t, svc.Load(context.Background()))
	return svc, ms, rec
}

func statuses(svc *Service) map[string]models.DeliveryStatus {
	out := make(map[string]models.DeliveryStatus)
	for _, d := range svc.Snapshot().Deliveries {
		out[d.ID] = d.Status
	}
	return out
}

func TestLoad_NormalizesAndSeedsAdmin(t *testing.T) {
	svc, ms, _ := newService(t)

	snap := svc.Snapshot()
	require.Len(t, snap.Deliveries, 5)
	assert.Equal(t, "2024-03-10", snap.Deliveries[0].Date)
	assert.Equal(t, models.DefaultBoxQuantity, snap.Deliveries[2].BoxQuantity)
	assert.Equal(t, 1, ms.Count(models.TableUsers))

	u, err := svc.Authenticate("ADMIN", "admin")
	require.NoError(t, err)
	assert.Empty(t, u.PasswordHash)
}

func TestView(t *testing.T) {
	svc, _, _ := newService(t)

	view := svc.View(dashboard.Scope{Branch: "sp-01", Range: dashboard.RangeToday})
	assert.Len(t, view, 4)

	all := svc.View(dashboard.Scope{Branch: models.BranchAll, Range: dashboard.RangeWeekly})
	assert.Len(t, all, 5)
}

func TestCollectionAccessorsReturnCopies(t *testing.T) {
	svc, _, _ := newService(t)

	drivers := svc.Drivers()
	require.Len(t, drivers, 2)
	drivers[0].Name = "Alterado"
	assert.Equal(t, "J. Silva", svc.Drivers()[0].Name)

	assert.Len(t, svc.Reputations(), 1)
	assert.Len(t, svc.Mappings(), 1)
	assert.Equal(t, svc.Snapshot().Drivers, svc.Drivers())
}

func TestBulkUpdateStatus_OnlySelected(t *testing.T) {
	svc, _, rec := newService(t)
	before := statuses(svc)

	updated, err := svc.BulkUpdateStatus(context.Background(), []string{"D-1", "D-2", "D-4"}, models.StatusDelivered)
	require.NoError(t, err)
	assert.Len(t, updated, 3)

	after := statuses(svc)
	changed := 0
	for id, st := range after {
		if st != before[id] {
			changed++
			assert.Equal(t, models.StatusDelivered, st)
		}
	}
	assert.Equal(t, 3, changed)
	assert.Equal(t, before["D-3"], after["D-3"])
	assert.Equal(t, before["D-5"], after["D-5"])
	assert.Equal(t, 1, rec.count(EventDeliveries))

	// the row store agrees
	require.NoError(t, svc.Load(context.Background()))
	assert.Equal(t, after, statuses(svc))
}

func TestBulkUpdateStatus_RejectsReturnedAndUnknown(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.BulkUpdateStatus(ctx, []string{"D-1"}, models.StatusReturned)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.BulkUpdateStatus(ctx, []string{"D-1"}, "Perdido")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.BulkUpdateStatus(ctx, []string{"nope"}, models.StatusDelivered)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSyncFailure_LeavesStateUnchanged(t *testing.T) {
	svc, ms, rec := newService(t)
	ctx := context.Background()
	before := svc.Snapshot()

	ms.FailOn("update", models.TableDeliveries, errors.New("connection reset"))
	_, err := svc.BulkUpdateStatus(ctx, []string{"D-1", "D-2"}, models.StatusDelivered)

	var syncErr *SyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, "bulk_status", syncErr.Op)
	assert.ElementsMatch(t, []string{"D-1", "D-2"}, syncErr.IDs)
	assert.Equal(t, before.Deliveries, svc.Snapshot().Deliveries)
	assert.Equal(t, 0, rec.count(EventDeliveries))

	ms.FailOn("insert", models.TableDeliveries, errors.New("quota exceeded"))
	_, err = svc.AddDelivery(ctx, DeliveryInput{CustomerID: "MAT-9", CustomerName: "Novo"})
	require.ErrorAs(t, err, &syncErr)
	assert.Len(t, svc.Snapshot().Deliveries, 5)

	ms.FailOn("delete", models.TableDeliveries, errors.New("timeout"))
	err = svc.DeleteDeliveries(ctx, []string{"D-1"})
	require.ErrorAs(t, err, &syncErr)
	assert.Len(t, svc.Snapshot().Deliveries, 5)
}

func TestAddDelivery(t *testing.T) {
	svc, ms, _ := newService(t)
	ctx := context.Background()

	_, err := svc.AddDelivery(ctx, DeliveryInput{CustomerName: "Sem Matricula"})
	assert.ErrorIs(t, err, ErrValidation)

	d, err := svc.AddDelivery(ctx, DeliveryInput{CustomerID: "MAT-9", CustomerName: "Novo", BoxQuantity: -4, Branch: models.BranchAll, Date: "11/03/2024"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, d.Status)
	assert.Equal(t, 1, d.BoxQuantity)
	assert.Equal(t, "sp-01", d.Branch)
	assert.Equal(t, "2024-03-11", d.Date)
	assert.Equal(t, "Segunda-feira", d.DeliveryDay)
	assert.Equal(t, ManualAddress, d.Address)
	assert.NotEmpty(t, d.TrackingCode)
	assert.Equal(t, 6, ms.Count(models.TableDeliveries))
	assert.Len(t, svc.Snapshot().Deliveries, 6)
}

func TestAddDelivery_BlankCustomerRejected(t *testing.T) {
	svc, ms, rec := newService(t)
	ctx := context.Background()

	cases := []DeliveryInput{
		{CustomerID: "   ", CustomerName: "  "},
		{CustomerID: "\t", CustomerName: "Mercado Sol"},
		{CustomerID: "MAT-9", CustomerName: " \n "},
	}
	for _, in := range cases {
		_, err := svc.AddDelivery(ctx, in)
		assert.ErrorIs(t, err, ErrValidation, "input %+v", in)
	}
	assert.Equal(t, 5, ms.Count(models.TableDeliveries))
	assert.Len(t, svc.Snapshot().Deliveries, 5)
	assert.Equal(t, 0, rec.count(EventDeliveries))

	d, err := svc.AddDelivery(ctx, DeliveryInput{CustomerID: " MAT-9 ", CustomerName: " Novo "})
	require.NoError(t, err)
	assert.Equal(t, "MAT-9", d.CustomerID)
	assert.Equal(t, "Novo", d.CustomerName)
}

func TestImportBulkText(t *testing.T) {
	svc, _, _ := newService(t)

	text := "MAT-100\tMercado Um\tJ. Silva\t4\t09/03/2024\n\nMAT-101;Mercado Dois;;abc;\n;;;;\n"
	added, err := svc.ImportBulkText(context.Background(), text, "rj-02")
	require.NoError(t, err)
	require.Len(t, added, 3)

	assert.Equal(t, "MAT-100", added[0].CustomerID)
	assert.Equal(t, 4, added[0].BoxQuantity)
	assert.Equal(t, "2024-03-09", added[0].Date)
	assert.Equal(t, "rj-02", added[0].Branch)

	assert.Equal(t, UnknownDriver, added[1].DriverName)
	assert.Equal(t, 1, added[1].BoxQuantity)
	assert.Equal(t, "2024-03-10", added[1].Date)

	assert.Equal(t, ManualCustomer, added[2].CustomerName)

	_, err = svc.ImportBulkText(context.Background(), "  \n ", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegisterReturnAndNotify(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.RegisterReturn(ctx, "D-1", ReturnInput{Reason: "  "})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, models.StatusPending, statuses(svc)["D-1"])

	d, err := svc.RegisterReturn(ctx, "D-1", ReturnInput{Reason: "Avaria no Transporte", Notes: "caixa molhada"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusReturned, d.Status)

	_, err = svc.NotifySeller(ctx, "D-1")
	assert.ErrorIs(t, err, notify.ErrNoSellerMapping)

	_, err = svc.NotifySeller(ctx, "D-2")
	assert.ErrorIs(t, err, notify.ErrNotReturned)

	notice, err := svc.NotifySeller(ctx, "D-5")
	require.NoError(t, err)
	assert.Equal(t, "5511988887777", notice.Phone)
}

func TestUpdateDelivery(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	returned := models.StatusReturned
	_, err := svc.UpdateDelivery(ctx, "D-1", DeliveryPatch{Status: &returned})
	assert.ErrorIs(t, err, ErrValidation)

	name := "Mercado Sol Ltda"
	boxes := 7
	d, err := svc.UpdateDelivery(ctx, "D-1", DeliveryPatch{CustomerName: &name, BoxQuantity: &boxes})
	require.NoError(t, err)
	assert.Equal(t, name, d.CustomerName)
	assert.Equal(t, 7, d.BoxQuantity)
	assert.Equal(t, fixedNow, d.UpdatedAt)

	_, err = svc.UpdateDelivery(ctx, "D-1", DeliveryPatch{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBulkUpdateDate(t *testing.T) {
	svc, _, _ := newService(t)

	updated, err := svc.BulkUpdateDate(context.Background(), []string{"D-1", "D-1", "D-4"}, "12/03/2024")
	require.NoError(t, err)
	require.Len(t, updated, 2)
	for _, d := range updated {
		assert.Equal(t, "2024-03-12", d.Date)
	}
}

func TestDriverOverrides(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.BulkSetDriverStatus(ctx, []string{"DRV-1"}, "garagem")
	assert.ErrorIs(t, err, ErrValidation)

	updated, err := svc.BulkSetDriverStatus(ctx, []string{"DRV-1", "DRV-2"}, models.OpYard)
	require.NoError(t, err)
	assert.Len(t, updated, 2)

	view := svc.View(dashboard.Scope{Branch: "sp-01", Range: dashboard.RangeToday})
	team := dashboard.TeamPerformance(svc.Snapshot().Drivers, view, "sp-01")
	for _, m := range team {
		assert.Equal(t, models.OpYard, m.Status)
	}

	_, err = svc.BulkSetDriverStatus(ctx, []string{"DRV-1"}, "")
	require.NoError(t, err)
	team = dashboard.TeamPerformance(svc.Snapshot().Drivers, view, "sp-01")
	for _, m := range team {
		if m.Name == "J. Silva" {
			assert.False(t, m.Manual)
		}
	}

	drv, err := svc.AddDriver(ctx, DriverInput{Name: "Roberto Junior", BranchID: "rj-02"})
	require.NoError(t, err)
	require.NoError(t, svc.RemoveDriver(ctx, drv.ID))
	assert.ErrorIs(t, svc.RemoveDriver(ctx, drv.ID), ErrNotFound)
}

func TestReputations(t *testing.T) {
	svc, _, rec := newService(t)
	ctx := context.Background()

	_, err := svc.AddReputation(ctx, ReputationInput{CustomerID: "MAT-5"})
	assert.ErrorIs(t, err, ErrConflict)

	r, err := svc.AddReputation(ctx, ReputationInput{CustomerID: "MAT-1", Status: models.ReputationComplaint})
	require.NoError(t, err)
	assert.Equal(t, models.ResolutionPending, r.ResolutionStatus)
	assert.Equal(t, "10/03/2024", r.RegistrationDate)

	r, err = svc.ToggleResolution(ctx, "MAT-1")
	require.NoError(t, err)
	assert.Equal(t, models.ResolutionResolved, r.ResolutionStatus)
	r, err = svc.ToggleResolution(ctx, "MAT-1")
	require.NoError(t, err)
	assert.Equal(t, models.ResolutionPending, r.ResolutionStatus)

	_, err = svc.BulkAddReputations(ctx, []ReputationInput{{CustomerID: "MAT-7"}, {CustomerID: "MAT-8", RiskLevel: "extreme"}})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Len(t, svc.Snapshot().Reputations, 2)

	require.NoError(t, svc.RemoveReputation(ctx, "MAT-1"))
	assert.Len(t, svc.Snapshot().Reputations, 1)
	assert.Positive(t, rec.count(EventReputations))
}

func TestBulkAddMappings_LastWriteWins(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	out, err := svc.BulkAddMappings(ctx, []MappingInput{
		{CustomerID: "MAT-1", SellerName: "Bruno"},
		{CustomerID: "MAT-5", SellerName: "Diego", SellerPhone: "1199"},
		{CustomerID: "MAT-1", SellerName: "Fernanda", SellerPhone: "2198"},
	})
	require.NoError(t, err)
	assert.Len(t, out, 2)

	idx := dashboard.MappingIndex(svc.Snapshot().Mappings)
	assert.Len(t, svc.Snapshot().Mappings, 2)
	assert.Equal(t, "Fernanda", idx["MAT-1"].SellerName)
	assert.Equal(t, "Diego", idx["MAT-5"].SellerName)

	require.NoError(t, svc.Load(ctx))
	idx = dashboard.MappingIndex(svc.Snapshot().Mappings)
	assert.Equal(t, "Diego", idx["MAT-5"].SellerName)

	require.NoError(t, svc.RemoveMapping(ctx, "MAT-1"))
	assert.Len(t, svc.Snapshot().Mappings, 1)
}

func TestBulkAddMappings_ReplaceFailure(t *testing.T) {
	svc, ms, rec := newService(t)
	ctx := context.Background()

	ms.FailOn("update", models.TableMappings, errors.New("connection reset"))
	out, err := svc.BulkAddMappings(ctx, []MappingInput{
		{CustomerID: "MAT-5", SellerName: "Novo"},
		{CustomerID: "MAT-7", SellerName: "Bruno"},
	})

	var syncErr *SyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, []string{"MAT-5"}, syncErr.IDs)
	require.Len(t, out, 1)
	assert.Equal(t, "MAT-7", out[0].CustomerID)

	idx := dashboard.MappingIndex(svc.Snapshot().Mappings)
	assert.Equal(t, "Carla", idx["MAT-5"].SellerName)
	assert.Equal(t, "Bruno", idx["MAT-7"].SellerName)
	assert.Equal(t, 1, rec.count(EventMappings))

	out, err = svc.BulkAddMappings(ctx, []MappingInput{{CustomerID: "MAT-5", SellerName: "Outro"}})
	require.ErrorAs(t, err, &syncErr)
	assert.Empty(t, out)
	assert.Equal(t, 1, rec.count(EventMappings))

	_, err = svc.AddMapping(ctx, MappingInput{CustomerID: "MAT-5", SellerName: "Outro"})
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, "Carla", dashboard.MappingIndex(svc.Snapshot().Mappings)["MAT-5"].SellerName)
}

func TestReferenceTables(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	b, err := svc.AddBranch(ctx, BranchInput{ID: "mg-03", Name: "Filial - Belo Horizonte"})
	require.NoError(t, err)
	_, err = svc.AddBranch(ctx, BranchInput{ID: "mg-03", Name: "Duplicada"})
	assert.ErrorIs(t, err, ErrConflict)
	_, err = svc.AddBranch(ctx, BranchInput{ID: "all", Name: "Reservada"})
	assert.ErrorIs(t, err, ErrValidation)

	v, err := svc.AddVehicle(ctx, VehicleInput{Plate: "abc-1234", Model: "VW Delivery"})
	require.NoError(t, err)
	assert.Equal(t, "ABC-1234", v.Plate)
	_, err = svc.AddVehicle(ctx, VehicleInput{Plate: "ABC-1234"})
	assert.ErrorIs(t, err, ErrConflict)

	r, err := svc.AddReason(ctx, ReasonInput{Label: "Cliente fechado"})
	require.NoError(t, err)
	assert.Equal(t, DefaultReasonColor, r.Color)
	assert.True(t, r.IsActive)

	require.NoError(t, svc.RemoveBranch(ctx, b.ID))
	require.NoError(t, svc.RemoveVehicle(ctx, v.ID))
	require.NoError(t, svc.RemoveReason(ctx, r.ID))
	snap := svc.Snapshot()
	assert.Empty(t, snap.Branches)
	assert.Empty(t, snap.Vehicles)
	assert.Empty(t, snap.Reasons)
}

func TestUsers(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@swiftlog.com", Password: "123"})
	assert.ErrorIs(t, err, ErrValidation)

	u, err := svc.Register(ctx, RegisterInput{Name: "Ana Paula", Email: " Ana@SwiftLog.com ", Password: "segredo"})
	require.NoError(t, err)
	assert.Equal(t, "ana@swiftlog.com", u.Email)
	assert.Equal(t, DefaultRole, u.Role)
	assert.Empty(t, u.PasswordHash)

	_, err = svc.Register(ctx, RegisterInput{Name: "Outra Ana", Email: "ana@swiftlog.com", Password: "segredo"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Authenticate("ana@swiftlog.com", "errada")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	got, err := svc.Authenticate("ana@swiftlog.com", "segredo")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	// hash survives a reload from the row store
	require.NoError(t, svc.Load(ctx))
	_, err = svc.Authenticate("ana@swiftlog.com", "segredo")
	assert.NoError(t, err)
}

func TestTableStatus(t *testing.T) {
	svc, ms, _ := newService(t)
	ms.FailOn("select", models.TableVehicles, errors.New("permission denied"))

	status := svc.TableStatus(context.Background())
	require.Len(t, status, len(models.Tables))
	for _, st := range status {
		switch st.Table {
		case models.TableVehicles:
			assert.False(t, st.Reachable)
			assert.NotEmpty(t, st.Error)
		case models.TableDeliveries:
			assert.True(t, st.Reachable)
			assert.Equal(t, 5, st.Rows)
		}
	}
}

func TestLoadFailure(t *testing.T) {
	ms := store.NewMemoryStore()
	ms.FailOn("select", models.TableBranches, errors.New("offline"))
	svc := NewService(ms, Options{Clock: func() time.Time { return fixedNow }})
	assert.Error(t, svc.Load(context.Background()))
	assert.Empty(t, svc.Snapshot().Deliveries)
}

func TestReturnReport(t *testing.T) {
	svc, _, _ := newService(t)

	report := svc.ReturnReport(dashboard.Scope{Branch: "sp-01", Range: dashboard.RangeToday})
	assert.Equal(t, "sp-01", report.Title)
	assert.Equal(t, "10/03/2024", report.Period)
	assert.Equal(t, 1, report.Returns)
	assert.Equal(t, 3, report.Boxes)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "Carla", report.Rows[0].SellerName)
	assert.Contains(t, report.Rows[0].NoticeURL, "https://wa.me/5511988887777?text=")
	require.Len(t, report.Reasons, 1)
	assert.Equal(t, "Recusa do Cliente", report.Reasons[0].Reason)

	all := svc.ReturnReport(dashboard.Scope{Branch: models.BranchAll, Range: dashboard.RangeWeekly})
	assert.Equal(t, "Consolidado Geral", all.Title)
	assert.Equal(t, "03/03/2024 a 10/03/2024", all.Period)
}
