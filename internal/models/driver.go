package models

// OperationalStatus is the inferred or manual state of a driver's day
type OperationalStatus string

const (
	OpBase  OperationalStatus = "base"  // finished the day's load
	OpRoute OperationalStatus = "rota"  // actively working
	OpYard  OperationalStatus = "patio" // has not started
)

// Valid reports whether s is one of the three operational states
func (s OperationalStatus) Valid() bool {
	return s == OpBase || s == OpRoute || s == OpYard
}

// Driver status values
const (
	DriverActive   = "Ativo"
	DriverInactive = "Inativo"
)

// Driver is a member of a branch's delivery team
type Driver struct {
	ID           string            `gorm:"primaryKey;type:text" json:"id"`
	Name         string            `gorm:"not null" json:"name"`
	LicenseType  string            `json:"licenseType"`
	Status       string            `gorm:"default:'Ativo'" json:"status"`
	ManualStatus OperationalStatus `gorm:"column:manual_status" json:"manualStatus,omitempty"`
	BranchID     string            `gorm:"column:branch_id;index" json:"branchId"`
	VehicleID    string            `gorm:"column:vehicle_id" json:"vehicleId,omitempty"`
}

func (Driver) TableName() string { return TableDrivers }

// Vehicle is a truck of the fleet
type Vehicle struct {
	ID       string `gorm:"primaryKey;type:text" json:"id"`
	Plate    string `gorm:"uniqueIndex" json:"plate"`
	Model    string `json:"model"`
	Capacity string `json:"capacity"`
	BranchID string `gorm:"column:branch_id;index" json:"branchId"`
	DriverID string `gorm:"column:driver_id" json:"driverId,omitempty"`
}

func (Vehicle) TableName() string { return TableVehicles }
