package logistics

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xelth-com/swiftlog/internal/dashboard"
	"github.com/xelth-com/swiftlog/internal/models"
	"github.com/xelth-com/swiftlog/internal/notify"
	"github.com/xelth-com/swiftlog/internal/utils"
	"github.com/xelth-com/swiftlog/internal/validator"
)

// Defaults for manually entered deliveries
const (
	ManualAddress    = "Endereço Manual"
	ManualCustomer   = "Cliente Manual"
	UnknownDriver    = "Motorista N/I"
	ImportedCustomer = "Cliente Importado"
)

// DeliveryInput is the manual entry form
type DeliveryInput struct {
	CustomerID   string   `json:"customerId" validate:"required"`
	CustomerName string   `json:"customerName" validate:"required"`
	Address      string   `json:"address"`
	DriverName   string   `json:"driverName"`
	BoxQuantity  int      `json:"boxQuantity"`
	Date         string   `json:"date"`
	TrackingCode string   `json:"trackingCode"`
	Branch       string   `json:"branch"`
	LicensePlate string   `json:"licensePlate"`
	Items        []string `json:"items"`
	Status       string   `json:"status" validate:"omitempty,delivery_status"`
}

// DeliveryPatch carries the fields of an edit; nil fields are left alone
type DeliveryPatch struct {
	CustomerID   *string                `json:"customerId"`
	CustomerName *string                `json:"customerName"`
	Address      *string                `json:"address"`
	DriverName   *string                `json:"driverName"`
	BoxQuantity  *int                   `json:"boxQuantity"`
	Date         *string                `json:"date"`
	TrackingCode *string                `json:"trackingCode"`
	Branch       *string                `json:"branch"`
	LicensePlate *string                `json:"licensePlate"`
	Items        *[]string              `json:"items"`
	Status       *models.DeliveryStatus `json:"status"`
	ReturnReason *string                `json:"returnReason"`
	ReturnNotes  *string                `json:"returnNotes"`
}

// ReturnInput registers a delivery as returned
type ReturnInput struct {
	Reason string `json:"reason" validate:"required"`
	Notes  string `json:"notes"`
}

// AddDelivery validates and stores one manually entered delivery
func (s *Service) AddDelivery(ctx context.Context, in DeliveryInput) (models.Delivery, error) {
	in.CustomerID = strings.TrimSpace(in.CustomerID)
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	if err := validator.ValidateStruct(in); err != nil {
		return models.Delivery{}, invalid("%v", err)
	}

	d := models.Delivery{
		CustomerID:   in.CustomerID,
		CustomerName: in.CustomerName,
		Address:      in.Address,
		DriverName:   in.DriverName,
		BoxQuantity:  in.BoxQuantity,
		Date:         in.Date,
		TrackingCode: in.TrackingCode,
		Branch:       in.Branch,
		LicensePlate: in.LicensePlate,
		Items:        in.Items,
		Status:       models.DeliveryStatus(in.Status),
	}
	if d.Address == "" {
		d.Address = ManualAddress
	}

	added, err := s.insertDeliveries(ctx, "add_delivery", []models.Delivery{d})
	if err != nil {
		return models.Delivery{}, err
	}
	return added[0], nil
}

// AddDeliveries stores a batch from bulk import or AI extraction. Records
// are completed with defaults rather than rejected.
func (s *Service) AddDeliveries(ctx context.Context, ds []models.Delivery) ([]models.Delivery, error) {
	if len(ds) == 0 {
		return nil, invalid("no deliveries to add")
	}
	return s.insertDeliveries(ctx, "add_deliveries", ds)
}

// ImportBulkText parses spreadsheet lines and stores them as new deliveries
func (s *Service) ImportBulkText(ctx context.Context, text, branch string) ([]models.Delivery, error) {
	ds := ParseBulkText(text, s.ResolveBranch(branch), s.Today())
	if len(ds) == 0 {
		return nil, invalid("no lines to import")
	}
	return s.insertDeliveries(ctx, "import_text", ds)
}

func (s *Service) insertDeliveries(ctx context.Context, op string, ds []models.Delivery) ([]models.Delivery, error) {
	today := s.Today()
	now := s.now()
	rows := make([]models.Delivery, len(ds))
	for i, d := range ds {
		rows[i] = s.complete(d, today)
		rows[i].CreatedAt = now
		rows[i].UpdatedAt = now
	}

	if err := s.store.Insert(ctx, models.TableDeliveries, &rows); err != nil {
		ids := make([]string, len(rows))
		for i, r := range rows {
			ids[i] = r.ID
		}
		return nil, s.syncFailed(op, ids, err)
	}

	s.mu.Lock()
	next := make([]models.Delivery, 0, len(s.state.Deliveries)+len(rows))
	next = append(next, s.state.Deliveries...)
	next = append(next, rows...)
	s.state.Deliveries = next
	total := len(next)
	s.mu.Unlock()

	log.Info().Str("op", op).Int("count", len(rows)).Int("total", total).Msg("🚚 Deliveries added")
	s.publish(EventDeliveries, map[string]interface{}{"op": op, "count": len(rows)})
	return clone(rows), nil
}

// complete fills every field a stored delivery must carry
func (s *Service) complete(d models.Delivery, today dashboard.Day) models.Delivery {
	d = d.Clone()
	if d.ID == "" {
		d.ID = utils.NewID()
	}
	d.CustomerID = strings.TrimSpace(d.CustomerID)
	if d.CustomerID == "" {
		d.CustomerID = utils.PlaceholderCustomerID()
	}
	if strings.TrimSpace(d.CustomerName) == "" {
		d.CustomerName = ImportedCustomer
	}
	if !d.Status.Valid() {
		d.Status = models.StatusPending
	}
	if d.BoxQuantity < 1 {
		d.BoxQuantity = models.DefaultBoxQuantity
	}
	if d.TrackingCode == "" {
		d.TrackingCode = utils.ManualTrackingCode()
	}
	d.Branch = s.ResolveBranch(d.Branch)
	d.Date = dashboard.ToISO(d.Date, today)
	d.DeliveryDay = dashboard.WeekdayLabel(d.Date)
	if d.Items == nil {
		d.Items = []string{}
	}
	return d
}

// UpdateDelivery applies an edit to one delivery
func (s *Service) UpdateDelivery(ctx context.Context, id string, p DeliveryPatch) (models.Delivery, error) {
	updated, err := s.patchDeliveries(ctx, "update_delivery", []string{id}, func(d models.Delivery) (models.Delivery, map[string]interface{}, error) {
		return applyPatch(d, p, s.Today())
	})
	if err != nil {
		return models.Delivery{}, err
	}
	return updated[0], nil
}

// UpdateStatus moves one delivery to status. Returned must go through
// RegisterReturn because it needs a reason.
func (s *Service) UpdateStatus(ctx context.Context, id string, status models.DeliveryStatus) (models.Delivery, error) {
	updated, err := s.BulkUpdateStatus(ctx, []string{id}, status)
	if err != nil {
		return models.Delivery{}, err
	}
	return updated[0], nil
}

// BulkUpdateStatus applies status to every listed delivery
func (s *Service) BulkUpdateStatus(ctx context.Context, ids []string, status models.DeliveryStatus) ([]models.Delivery, error) {
	if !status.Valid() {
		return nil, invalid("unknown status %q", status)
	}
	if status == models.StatusReturned {
		return nil, invalid("return reason is required")
	}
	return s.patchDeliveries(ctx, "bulk_status", ids, func(d models.Delivery) (models.Delivery, map[string]interface{}, error) {
		d.Status = status
		return d, map[string]interface{}{"status": status}, nil
	})
}

// BulkUpdateDate reschedules every listed delivery. An unreadable date
// falls back to today.
func (s *Service) BulkUpdateDate(ctx context.Context, ids []string, date string) ([]models.Delivery, error) {
	iso := dashboard.ToISO(date, s.Today())
	day := dashboard.WeekdayLabel(iso)
	return s.patchDeliveries(ctx, "bulk_date", ids, func(d models.Delivery) (models.Delivery, map[string]interface{}, error) {
		d.Date = iso
		d.DeliveryDay = day
		return d, map[string]interface{}{"date": iso, "delivery_day": day}, nil
	})
}

// RegisterReturn marks a delivery as returned with its reason
func (s *Service) RegisterReturn(ctx context.Context, id string, in ReturnInput) (models.Delivery, error) {
	in.Reason = strings.TrimSpace(in.Reason)
	if err := validator.ValidateStruct(in); err != nil {
		return models.Delivery{}, invalid("%v", err)
	}
	updated, err := s.patchDeliveries(ctx, "register_return", []string{id}, func(d models.Delivery) (models.Delivery, map[string]interface{}, error) {
		d.Status = models.StatusReturned
		d.ReturnReason = in.Reason
		d.ReturnNotes = in.Notes
		return d, map[string]interface{}{
			"status":        models.StatusReturned,
			"return_reason": in.Reason,
			"return_notes":  in.Notes,
		}, nil
	})
	if err != nil {
		return models.Delivery{}, err
	}
	s.copyToOps(notify.ReturnMessage(updated[0]))
	return updated[0], nil
}

// DeleteDeliveries removes the listed deliveries
func (s *Service) DeleteDeliveries(ctx context.Context, ids []string) error {
	ids = dedupe(ids)
	if err := removeRows(ctx, s, "delete_deliveries", models.TableDeliveries, models.FieldID, ids, deliveriesOf, deliveryID); err != nil {
		return err
	}
	s.publish(EventDeliveries, map[string]interface{}{"op": "delete", "ids": ids})
	return nil
}

// Delivery returns one delivery by id
func (s *Service) Delivery(id string) (models.Delivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.state.Deliveries {
		if d.ID == id {
			return d.Clone(), nil
		}
	}
	return models.Delivery{}, notFound("delivery", id)
}

type deliveryMutation func(models.Delivery) (models.Delivery, map[string]interface{}, error)

// patchDeliveries stamps updated_at on every change and publishes the
// ids that were applied.
func (s *Service) patchDeliveries(ctx context.Context, op string, ids []string, mutate deliveryMutation) ([]models.Delivery, error) {
	now := s.now()
	updated, err := updateRows(ctx, s, op, models.TableDeliveries, models.FieldID, ids, deliveriesOf, deliveryID,
		func(d models.Delivery) (models.Delivery, map[string]interface{}, error) {
			next, patch, err := mutate(d.Clone())
			if err != nil {
				return d, nil, err
			}
			next.UpdatedAt = now
			patch["updated_at"] = now
			return next, patch, nil
		})
	if len(updated) > 0 {
		ids := make([]string, len(updated))
		for i, d := range updated {
			ids[i] = d.ID
		}
		s.publish(EventDeliveries, map[string]interface{}{"op": op, "ids": ids})
	}
	return updated, err
}

func applyPatch(d models.Delivery, p DeliveryPatch, today dashboard.Day) (models.Delivery, map[string]interface{}, error) {
	cols := make(map[string]interface{})
	if p.CustomerID != nil {
		v := strings.TrimSpace(*p.CustomerID)
		if v == "" {
			return d, nil, invalid("customerId is required")
		}
		d.CustomerID = v
		cols["customer_id"] = v
	}
	if p.CustomerName != nil {
		v := strings.TrimSpace(*p.CustomerName)
		if v == "" {
			return d, nil, invalid("customerName is required")
		}
		d.CustomerName = v
		cols["customer_name"] = v
	}
	if p.Address != nil {
		d.Address = *p.Address
		cols["address"] = d.Address
	}
	if p.DriverName != nil {
		d.DriverName = *p.DriverName
		cols["driver_name"] = d.DriverName
	}
	if p.BoxQuantity != nil {
		d.BoxQuantity = *p.BoxQuantity
		if d.BoxQuantity < 1 {
			d.BoxQuantity = models.DefaultBoxQuantity
		}
		cols["box_quantity"] = d.BoxQuantity
	}
	if p.Date != nil {
		d.Date = dashboard.ToISO(*p.Date, today)
		d.DeliveryDay = dashboard.WeekdayLabel(d.Date)
		cols["date"] = d.Date
		cols["delivery_day"] = d.DeliveryDay
	}
	if p.TrackingCode != nil {
		d.TrackingCode = *p.TrackingCode
		cols["tracking_code"] = d.TrackingCode
	}
	if p.Branch != nil && *p.Branch != "" && *p.Branch != models.BranchAll {
		d.Branch = *p.Branch
		cols["branch"] = d.Branch
	}
	if p.LicensePlate != nil {
		d.LicensePlate = *p.LicensePlate
		cols["license_plate"] = d.LicensePlate
	}
	if p.Items != nil {
		items := append([]string{}, (*p.Items)...)
		d.Items = items
		cols["items"] = d.Items
	}
	if p.ReturnReason != nil {
		d.ReturnReason = strings.TrimSpace(*p.ReturnReason)
		cols["return_reason"] = d.ReturnReason
	}
	if p.ReturnNotes != nil {
		d.ReturnNotes = *p.ReturnNotes
		cols["return_notes"] = d.ReturnNotes
	}
	if p.Status != nil {
		if !p.Status.Valid() {
			return d, nil, invalid("unknown status %q", *p.Status)
		}
		d.Status = *p.Status
		cols["status"] = d.Status
	}
	if d.Status == models.StatusReturned && d.ReturnReason == "" {
		return d, nil, invalid("return reason is required")
	}
	if len(cols) == 0 {
		return d, nil, invalid("nothing to update")
	}
	return d, cols, nil
}
