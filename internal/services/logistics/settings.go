package logistics

import (
	"context"
	"strings"

	"github.com/xelth-com/swiftlog/internal/models"
	"github.com/xelth-com/swiftlog/internal/utils"
	"github.com/xelth-com/swiftlog/internal/validator"
)

// DriverInput registers a team member
type DriverInput struct {
	Name        string `json:"name" validate:"required,min=3"`
	LicenseType string `json:"licenseType"`
	BranchID    string `json:"branchId"`
	VehicleID   string `json:"vehicleId"`
}

// BranchInput registers a logistics unit
type BranchInput struct {
	ID       string `json:"id"`
	Name     string `json:"name" validate:"required"`
	Location string `json:"location"`
}

// VehicleInput registers a truck
type VehicleInput struct {
	Plate    string `json:"plate" validate:"required"`
	Model    string `json:"model"`
	Capacity string `json:"capacity"`
	BranchID string `json:"branchId"`
	DriverID string `json:"driverId"`
}

// ReasonInput registers a return reason
type ReasonInput struct {
	Label string `json:"label" validate:"required"`
	Color string `json:"color"`
}

// DefaultReasonColor is used for reasons created without a color
const DefaultReasonColor = "#4f46e5"

// AddDriver stores a new driver
func (s *Service) AddDriver(ctx context.Context, in DriverInput) (models.Driver, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validator.ValidateStruct(in); err != nil {
		return models.Driver{}, invalid("%v", err)
	}
	d := models.Driver{
		ID:          utils.NewID(),
		Name:        in.Name,
		LicenseType: in.LicenseType,
		Status:      models.DriverActive,
		BranchID:    s.ResolveBranch(in.BranchID),
		VehicleID:   in.VehicleID,
	}
	if err := insertRow(ctx, s, "add_driver", models.TableDrivers, driversOf, d); err != nil {
		return models.Driver{}, err
	}
	s.publish(EventDrivers, d)
	return d, nil
}

// RemoveDriver deletes a driver
func (s *Service) RemoveDriver(ctx context.Context, id string) error {
	if err := removeRows(ctx, s, "remove_driver", models.TableDrivers, models.FieldID, []string{id}, driversOf, func(d models.Driver) string { return d.ID }); err != nil {
		return err
	}
	s.publish(EventDrivers, map[string]string{"removed": id})
	return nil
}

// BulkSetDriverStatus sets the manual operational override of every listed
// driver; an empty status clears it so inference applies again.
func (s *Service) BulkSetDriverStatus(ctx context.Context, ids []string, status models.OperationalStatus) ([]models.Driver, error) {
	if status != "" && !status.Valid() {
		return nil, invalid("unknown operational status %q", status)
	}
	updated, err := updateRows(ctx, s, "driver_status", models.TableDrivers, models.FieldID, ids, driversOf,
		func(d models.Driver) string { return d.ID },
		func(d models.Driver) (models.Driver, map[string]interface{}, error) {
			d.ManualStatus = status
			return d, map[string]interface{}{models.FieldManualStatus: string(status)}, nil
		})
	if len(updated) > 0 {
		s.publish(EventDrivers, updated)
	}
	return updated, err
}

// AddBranch stores a new branch; the id defaults to a generated one
func (s *Service) AddBranch(ctx context.Context, in BranchInput) (models.Branch, error) {
	if err := validator.ValidateStruct(in); err != nil {
		return models.Branch{}, invalid("%v", err)
	}
	b := models.Branch{ID: strings.TrimSpace(in.ID), Name: in.Name, Location: in.Location}
	if b.ID == "" {
		b.ID = utils.NewID()
	}
	if b.ID == models.BranchAll {
		return models.Branch{}, invalid("branch id %q is reserved", b.ID)
	}
	for _, existing := range s.Branches() {
		if existing.ID == b.ID {
			return models.Branch{}, ErrConflict
		}
	}
	if err := insertRow(ctx, s, "add_branch", models.TableBranches, branchesOf, b); err != nil {
		return models.Branch{}, err
	}
	s.publish(EventReference, map[string]string{"branch": b.ID})
	return b, nil
}

// RemoveBranch deletes a branch
func (s *Service) RemoveBranch(ctx context.Context, id string) error {
	if err := removeRows(ctx, s, "remove_branch", models.TableBranches, models.FieldID, []string{id}, branchesOf, func(b models.Branch) string { return b.ID }); err != nil {
		return err
	}
	s.publish(EventReference, map[string]string{"removedBranch": id})
	return nil
}

// AddVehicle stores a new vehicle; plates are unique
func (s *Service) AddVehicle(ctx context.Context, in VehicleInput) (models.Vehicle, error) {
	in.Plate = strings.ToUpper(strings.TrimSpace(in.Plate))
	if err := validator.ValidateStruct(in); err != nil {
		return models.Vehicle{}, invalid("%v", err)
	}
	for _, existing := range s.Vehicles() {
		if strings.EqualFold(existing.Plate, in.Plate) {
			return models.Vehicle{}, ErrConflict
		}
	}
	v := models.Vehicle{
		ID:       utils.NewID(),
		Plate:    in.Plate,
		Model:    in.Model,
		Capacity: in.Capacity,
		BranchID: s.ResolveBranch(in.BranchID),
		DriverID: in.DriverID,
	}
	if err := insertRow(ctx, s, "add_vehicle", models.TableVehicles, vehiclesOf, v); err != nil {
		return models.Vehicle{}, err
	}
	s.publish(EventReference, map[string]string{"vehicle": v.ID})
	return v, nil
}

// RemoveVehicle deletes a vehicle
func (s *Service) RemoveVehicle(ctx context.Context, id string) error {
	if err := removeRows(ctx, s, "remove_vehicle", models.TableVehicles, models.FieldID, []string{id}, vehiclesOf, func(v models.Vehicle) string { return v.ID }); err != nil {
		return err
	}
	s.publish(EventReference, map[string]string{"removedVehicle": id})
	return nil
}

// AddReason stores a new active return reason
func (s *Service) AddReason(ctx context.Context, in ReasonInput) (models.ReturnReason, error) {
	in.Label = strings.TrimSpace(in.Label)
	if err := validator.ValidateStruct(in); err != nil {
		return models.ReturnReason{}, invalid("%v", err)
	}
	r := models.ReturnReason{ID: utils.NewID(), Label: in.Label, Color: in.Color, IsActive: true}
	if r.Color == "" {
		r.Color = DefaultReasonColor
	}
	if err := insertRow(ctx, s, "add_reason", models.TableReasons, reasonsOf, r); err != nil {
		return models.ReturnReason{}, err
	}
	s.publish(EventReference, map[string]string{"reason": r.ID})
	return r, nil
}

// RemoveReason deletes a return reason
func (s *Service) RemoveReason(ctx context.Context, id string) error {
	if err := removeRows(ctx, s, "remove_reason", models.TableReasons, models.FieldID, []string{id}, reasonsOf, func(r models.ReturnReason) string { return r.ID }); err != nil {
		return err
	}
	s.publish(EventReference, map[string]string{"removedReason": id})
	return nil
}

func driversOf(sn *Snapshot) *[]models.Driver { return &sn.Drivers }
func branchesOf(sn *Snapshot) *[]models.Branch { return &sn.Branches }
func vehiclesOf(sn *Snapshot) *[]models.Vehicle { return &sn.Vehicles }
func reasonsOf(sn *Snapshot) *[]models.ReturnReason { return &sn.Reasons }
func reputationsOf(sn *Snapshot) *[]models.CustomerReputation { return &sn.Reputations }
func mappingsOf(sn *Snapshot) *[]models.ClientMapping { return &sn.Mappings }
