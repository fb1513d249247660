// internal/domain/shipment/entity.go
package shipment

import (
	"time"
)

// Status represents the delivery status of a shipment
type Status string

const (
	StatusProcessing Status = "processing"
	StatusInTransit  Status = "in_transit"
	StatusDelivered  Status = "delivered"
	StatusFailed     Status = "failed"
	StatusReturned   Status = "returned"
)

// Statuses lists every status in reporting order
var Statuses = []Status{StatusProcessing, StatusInTransit, StatusDelivered, StatusFailed, StatusReturned}

// Shipment represents the delivery of an order by a carrier
type Shipment struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	OrderID     string     `gorm:"not null;size:36;index" json:"order_id"`
	CarrierID   string     `gorm:"not null;size:36;index" json:"carrier_id"`
	Status      Status     `gorm:"not null;size:20;default:'processing'" json:"status"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Carrier represents a delivery company
type Carrier struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"not null;size:255" json:"name"`
	Active    bool      `gorm:"default:true;index" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides
func (Shipment) TableName() string { return "shipments" }
func (Carrier) TableName() string  { return "carriers" }

func (s *Shipment) IsDelivered() bool {
	return s.Status == StatusDelivered
}

// DeliveryDuration returns the time from creation to delivery. ok is false when the
// shipment is not delivered or has no delivery timestamp.
func (s *Shipment) DeliveryDuration() (d time.Duration, ok bool) {
	if !s.IsDelivered() || s.DeliveredAt == nil {
		return 0, false
	}
	return s.DeliveredAt.Sub(s.CreatedAt), true
}
