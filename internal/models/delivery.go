package models

import (
	"time"

	"gorm.io/datatypes"
)

// DeliveryStatus is the lifecycle state of a delivery
type DeliveryStatus string

// Delivery status values as stored in the deliveries table
const (
	StatusPending   DeliveryStatus = "Pendente"
	StatusInTransit DeliveryStatus = "Em Trânsito"
	StatusDelivered DeliveryStatus = "Entregue"
	StatusFailed    DeliveryStatus = "Falhou"
	StatusReturned  DeliveryStatus = "Retornado"
	StatusDPlus1    DeliveryStatus = "D+1"
)

// DeliveryStatuses lists every legal status
var DeliveryStatuses = []DeliveryStatus{
	StatusPending,
	StatusInTransit,
	StatusDelivered,
	StatusFailed,
	StatusReturned,
	StatusDPlus1,
}

// Valid reports whether s is one of the legal statuses
func (s DeliveryStatus) Valid() bool {
	for _, v := range DeliveryStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// DefaultBoxQuantity replaces missing or invalid box counts
const DefaultBoxQuantity = 1

// Delivery is a single last-mile drop for one customer.
// Date is always kept as ISO YYYY-MM-DD once inside the system.
type Delivery struct {
	ID           string                      `gorm:"primaryKey;type:text" json:"id"`
	CustomerID   string                      `gorm:"column:customer_id;index;not null" json:"customerId"`
	CustomerName string                      `json:"customerName"`
	Address      string                      `json:"address"`
	Status       DeliveryStatus              `gorm:"index" json:"status"`
	Date         string                      `gorm:"index;size:10" json:"date"`
	DeliveryDay  string                      `json:"deliveryDay"`
	TrackingCode string                      `gorm:"index" json:"trackingCode"`
	Items        datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"items"`
	BoxQuantity  int                         `gorm:"default:1" json:"boxQuantity"`
	DriverName   string                      `gorm:"index" json:"driverName"`
	Branch       string                      `gorm:"index" json:"branch"`
	LicensePlate string                      `json:"licensePlate,omitempty"`
	ReturnReason string                      `json:"returnReason,omitempty"`
	ReturnNotes  string                      `gorm:"type:text" json:"returnNotes,omitempty"`
	CreatedAt    time.Time                   `json:"createdAt"`
	UpdatedAt    time.Time                   `json:"updatedAt"`
}

func (Delivery) TableName() string { return TableDeliveries }

// Clone returns a copy that shares no slice storage with d
func (d Delivery) Clone() Delivery {
	if d.Items != nil {
		items := make(datatypes.JSONSlice[string], len(d.Items))
		copy(items, d.Items)
		d.Items = items
	}
	return d
}
