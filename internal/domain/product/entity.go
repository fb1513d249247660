// internal/domain/product/entity.go
package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLevel is the derived classification of on-hand quantity
type StockLevel string

const (
	StockLevelOut    StockLevel = "Out of Stock"
	StockLevelLow    StockLevel = "Low Stock"
	StockLevelMedium StockLevel = "Medium Stock"
	StockLevelHigh   StockLevel = "High Stock"
)

// Stock level boundaries: low is (0, LowStockLimit), medium is [LowStockLimit, HighStockLimit).
const (
	LowStockLimit  = 10
	HighStockLimit = 50
)

// StockLevels lists every level in reporting order
var StockLevels = []StockLevel{StockLevelOut, StockLevelLow, StockLevelMedium, StockLevelHigh}

// Product represents a catalog product
type Product struct {
	ID        string          `gorm:"primaryKey;size:36" json:"id"`
	Name      string          `gorm:"not null;size:255" json:"name"`
	Category  Category        `gorm:"embedded;embeddedPrefix:category_" json:"category"`
	Brand     string          `gorm:"size:100" json:"brand"`
	Quantity  int             `gorm:"not null;default:0" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Category is embedded in the product record
type Category struct {
	Name          string   `gorm:"size:255;index" json:"name"`
	Subcategories []string `gorm:"serializer:json" json:"subcategories"`
}

// TableName overrides
func (Product) TableName() string { return "products" }

// ClassifyStock maps a quantity onto its stock level
func ClassifyStock(quantity int) StockLevel {
	switch {
	case quantity <= 0:
		return StockLevelOut
	case quantity < LowStockLimit:
		return StockLevelLow
	case quantity < HighStockLimit:
		return StockLevelMedium
	default:
		return StockLevelHigh
	}
}

func (p *Product) StockLevel() StockLevel {
	return ClassifyStock(p.Quantity)
}

func (p *Product) InventoryValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}
