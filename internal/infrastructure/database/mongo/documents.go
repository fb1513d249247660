// internal/infrastructure/database/mongo/documents.go
package mongo

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/your-org/commerce-analytics/internal/domain/order"
	"github.com/your-org/commerce-analytics/internal/domain/product"
	"github.com/your-org/commerce-analytics/internal/domain/shipment"
	"github.com/your-org/commerce-analytics/internal/domain/user"
	"github.com/your-org/commerce-analytics/internal/infrastructure/database/sample"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	ordersCollection    = "orders"
	productsCollection  = "products"
	usersCollection     = "users"
	shipmentsCollection = "shipments"
	carriersCollection  = "carriers"
)

// Money is stored as double; aggregation results are rounded back to cents.
type orderDocument struct {
	ID            string         `bson:"_id"`
	CustomerID    string         `bson:"customer_id"`
	PaymentStatus string         `bson:"payment_status"`
	Subtotal      float64        `bson:"subtotal"`
	Tax           float64        `bson:"tax"`
	Shipping      float64        `bson:"shipping"`
	Items         []itemDocument `bson:"items"`
	CreatedAt     time.Time      `bson:"created_at"`
	UpdatedAt     time.Time      `bson:"updated_at"`
}

type itemDocument struct {
	ID        string  `bson:"id"`
	ProductID string  `bson:"product_id"`
	Name      string  `bson:"name"`
	Quantity  int     `bson:"quantity"`
	UnitPrice float64 `bson:"unit_price"`
	Subtotal  float64 `bson:"subtotal"`
}

type productDocument struct {
	ID        string           `bson:"_id"`
	Name      string           `bson:"name"`
	Category  categoryDocument `bson:"category"`
	Brand     string           `bson:"brand"`
	Quantity  int              `bson:"quantity"`
	Price     float64          `bson:"price"`
	CreatedAt time.Time        `bson:"created_at"`
	UpdatedAt time.Time        `bson:"updated_at"`
}

type categoryDocument struct {
	Name          string   `bson:"name"`
	Subcategories []string `bson:"subcategories,omitempty"`
}

type userDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Email     string    `bson:"email"`
	Role      string    `bson:"role"`
	CreatedAt time.Time `bson:"created_at"`
}

type shipmentDocument struct {
	ID          string     `bson:"_id"`
	OrderID     string     `bson:"order_id"`
	CarrierID   string     `bson:"carrier_id"`
	Status      string     `bson:"status"`
	DeliveredAt *time.Time `bson:"delivered_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at"`
}

type carrierDocument struct {
	ID     string `bson:"_id"`
	Name   string `bson:"name"`
	Active bool   `bson:"active"`
}

func newOrderDocument(o order.Order) orderDocument {
	doc := orderDocument{
		ID:            o.ID,
		CustomerID:    o.CustomerID,
		PaymentStatus: string(o.PaymentStatus),
		Subtotal:      o.Subtotal.InexactFloat64(),
		Tax:           o.Tax.InexactFloat64(),
		Shipping:      o.Shipping.InexactFloat64(),
		CreatedAt:     o.CreatedAt.UTC(),
		UpdatedAt:     o.UpdatedAt.UTC(),
	}
	for _, it := range o.Items {
		doc.Items = append(doc.Items, itemDocument{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.InexactFloat64(),
			Subtotal:  it.Subtotal.InexactFloat64(),
		})
	}
	return doc
}

func newProductDocument(p product.Product) productDocument {
	return productDocument{
		ID:        p.ID,
		Name:      p.Name,
		Category:  categoryDocument{Name: p.Category.Name, Subcategories: p.Category.Subcategories},
		Brand:     p.Brand,
		Quantity:  p.Quantity,
		Price:     p.Price.InexactFloat64(),
		CreatedAt: p.CreatedAt.UTC(),
		UpdatedAt: p.UpdatedAt.UTC(),
	}
}

func newUserDocument(u user.User) userDocument {
	return userDocument{ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role), CreatedAt: u.CreatedAt.UTC()}
}

func newShipmentDocument(s shipment.Shipment) shipmentDocument {
	return shipmentDocument{
		ID:          s.ID,
		OrderID:     s.OrderID,
		CarrierID:   s.CarrierID,
		Status:      string(s.Status),
		DeliveredAt: s.DeliveredAt,
		CreatedAt:   s.CreatedAt.UTC(),
	}
}

// EnsureIndexes creates the indexes the aggregation pipelines match on
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		ordersCollection: {
			{Keys: bson.D{{Key: "payment_status", Value: 1}, {Key: "created_at", Value: 1}}},
			{Keys: bson.D{{Key: "customer_id", Value: 1}}},
		},
		productsCollection: {
			{Keys: bson.D{{Key: "quantity", Value: 1}}},
		},
		usersCollection: {
			{Keys: bson.D{{Key: "role", Value: 1}, {Key: "created_at", Value: 1}}},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		shipmentsCollection: {
			{Keys: bson.D{{Key: "created_at", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "carrier_id", Value: 1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", name, err)
		}
	}
	return nil
}

// Seed inserts a year of sample storefront history. Documents that already exist are kept.
func Seed(ctx context.Context, db *mongo.Database, now time.Time) error {
	log.Println("🌱 Seeding sample documents...")

	ds := sample.Build(now)
	batches := []struct {
		collection string
		docs       []interface{}
	}{
		{usersCollection, convert(ds.Users, newUserDocument)},
		{productsCollection, convert(ds.Products, newProductDocument)},
		{carriersCollection, convert(ds.Carriers, func(c shipment.Carrier) carrierDocument {
			return carrierDocument{ID: c.ID, Name: c.Name, Active: c.Active}
		})},
		{ordersCollection, convert(ds.Orders, newOrderDocument)},
		{shipmentsCollection, convert(ds.Shipments, newShipmentDocument)},
	}

	for _, b := range batches {
		_, err := db.Collection(b.collection).InsertMany(ctx, b.docs, options.InsertMany().SetOrdered(false))
		if err != nil && !mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("failed to seed %s: %w", b.collection, err)
		}
		log.Printf("✅ Seeded %s", b.collection)
	}
	return nil
}

func convert[T, D any](records []T, fn func(T) D) []interface{} {
	docs := make([]interface{}, 0, len(records))
	for _, r := range records {
		docs = append(docs, fn(r))
	}
	return docs
}
