// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus represents payment status
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Order represents a storefront order. The analytics service only reads it.
type Order struct {
	ID            string        `gorm:"primaryKey;size:36" json:"id"`
	CustomerID    string        `gorm:"not null;size:36;index" json:"customer_id"`
	PaymentStatus PaymentStatus `gorm:"not null;size:20;default:'pending'" json:"payment_status"`

	// Financial Information
	Subtotal decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	Tax      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"tax"`
	Shipping decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"shipping"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Items []Item `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// Item represents a line item in an order
type Item struct {
	ID        string          `gorm:"primaryKey;size:36" json:"id"`
	OrderID   string          `gorm:"not null;size:36;index" json:"order_id"`
	ProductID string          `gorm:"not null;size:36;index" json:"product_id"`
	Name      string          `gorm:"not null;size:255" json:"name"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Subtotal  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"` // Quantity * UnitPrice
}

// TableName overrides
func (Order) TableName() string { return "orders" }
func (Item) TableName() string  { return "order_items" }

// Total returns subtotal + tax + shipping
func (o *Order) Total() decimal.Decimal {
	return o.Subtotal.Add(o.Tax).Add(o.Shipping)
}

// IsCompleted reports whether the order counts toward revenue
func (o *Order) IsCompleted() bool {
	return o.PaymentStatus == PaymentStatusCompleted
}

// NewItem builds a line item with its subtotal derived from quantity and unit price
func NewItem(productID, name string, quantity int, unitPrice decimal.Decimal) Item {
	return Item{
		ProductID: productID,
		Name:      name,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Subtotal:  unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}
}
