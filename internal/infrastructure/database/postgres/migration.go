// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"
	"time"

	"github.com/your-org/commerce-analytics/internal/domain/order"
	"github.com/your-org/commerce-analytics/internal/domain/product"
	"github.com/your-org/commerce-analytics/internal/domain/shipment"
	"github.com/your-org/commerce-analytics/internal/domain/user"
	"github.com/your-org/commerce-analytics/internal/infrastructure/database/sample"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migration handles schema setup for development databases. In production the
// storefront owns these tables and this service only reads them.
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for the record models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Define all models that need migration in dependency order
	models := []interface{}{
		&user.User{},
		&product.Product{},
		&order.Order{},
		&order.Item{},
		&shipment.Carrier{},
		&shipment.Shipment{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates the indexes the analytics queries filter and group on
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating analytics indexes...")

	indexes := []string{
		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_payment_status_created ON orders(payment_status, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_orders_customer_status ON orders(customer_id, payment_status)",

		// Order item indexes
		"CREATE INDEX IF NOT EXISTS idx_order_items_order_product ON order_items(order_id, product_id)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_quantity ON products(quantity)",

		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_role_created ON users(role, created_at)",

		// Shipment indexes
		"CREATE INDEX IF NOT EXISTS idx_shipments_created_status ON shipments(created_at, status)",
		"CREATE INDEX IF NOT EXISTS idx_shipments_carrier_created ON shipments(carrier_id, created_at)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts a year of sample storefront history. Existing rows are kept.
func (m *Migration) SeedInitialData(now time.Time) error {
	log.Println("🌱 Seeding sample data...")

	ds := sample.Build(now)
	insert := m.db.Clauses(clause.OnConflict{DoNothing: true})

	steps := []struct {
		name    string
		records interface{}
	}{
		{"users", &ds.Users},
		{"products", &ds.Products},
		{"carriers", &ds.Carriers},
		{"orders", &ds.Orders},
		{"shipments", &ds.Shipments},
	}
	for _, step := range steps {
		if err := insert.Create(step.records).Error; err != nil {
			return fmt.Errorf("failed to seed %s: %w", step.name, err)
		}
		log.Printf("✅ Seeded %s", step.name)
	}

	log.Println("✅ Sample data seeded successfully")
	return nil
}
