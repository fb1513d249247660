// internal/infrastructure/database/mongo/store.go
package mongo

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/your-org/commerce-analytics/internal/domain/analytics"
	"github.com/your-org/commerce-analytics/internal/domain/order"
	"github.com/your-org/commerce-analytics/internal/domain/product"
	"github.com/your-org/commerce-analytics/internal/domain/shipment"
	"github.com/your-org/commerce-analytics/internal/domain/user"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	completed = string(order.PaymentStatusCompleted)
	delivered = string(shipment.StatusDelivered)
)

// AnalyticsStore runs the report aggregations as pipelines against the storefront collections
type AnalyticsStore struct {
	db *mongo.Database
}

var _ analytics.Store = (*AnalyticsStore)(nil)

// NewAnalyticsStore creates a new document-backed analytics store
func NewAnalyticsStore(db *mongo.Database) *AnalyticsStore {
	return &AnalyticsStore{db: db}
}

func (s *AnalyticsStore) aggregate(ctx context.Context, collection string, pipeline []bson.M, dest interface{}) error {
	cursor, err := s.db.Collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("analytics query failed: %w", err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, dest); err != nil {
		return fmt.Errorf("analytics query failed: %w", err)
	}
	return nil
}

func (s *AnalyticsStore) count(ctx context.Context, collection string, filter bson.M) (int64, error) {
	n, err := s.db.Collection(collection).CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("analytics query failed: %w", err)
	}
	return n, nil
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func between(w analytics.Window) bson.M {
	return bson.M{"$gte": w.Start, "$lte": w.End}
}

func completedIn(w analytics.Window) bson.M {
	return bson.M{"$match": bson.M{"payment_status": completed, "created_at": between(w)}}
}

var orderRevenue = bson.M{"$add": bson.A{"$subtotal", "$tax", "$shipping"}}

// categoryOf resolves a product category name, labelling missing or blank names as Unknown
func categoryOf(field string) bson.M {
	return bson.M{"$cond": bson.A{
		bson.M{"$gt": bson.A{bson.M{"$ifNull": bson.A{field, ""}}, ""}},
		field,
		analytics.UnknownLabel,
	}}
}

func sumIf(cond interface{}) bson.M {
	return bson.M{"$sum": bson.M{"$cond": bson.A{cond, 1, 0}}}
}

// OrderTotals sums completed orders created in w
func (s *AnalyticsStore) OrderTotals(ctx context.Context, w analytics.Window) (analytics.OrderTotals, error) {
	var rows []struct {
		Orders   int64   `bson:"orders"`
		Subtotal float64 `bson:"subtotal"`
		Tax      float64 `bson:"tax"`
		Shipping float64 `bson:"shipping"`
	}
	err := s.aggregate(ctx, ordersCollection, []bson.M{
		completedIn(w),
		{"$group": bson.M{
			"_id":      nil,
			"orders":   bson.M{"$sum": 1},
			"subtotal": bson.M{"$sum": "$subtotal"},
			"tax":      bson.M{"$sum": "$tax"},
			"shipping": bson.M{"$sum": "$shipping"},
		}},
	}, &rows)
	if err != nil || len(rows) == 0 {
		return analytics.OrderTotals{Subtotal: decimal.Zero, Tax: decimal.Zero, Shipping: decimal.Zero}, err
	}
	r := rows[0]
	return analytics.OrderTotals{
		Orders:   r.Orders,
		Subtotal: money(r.Subtotal),
		Tax:      money(r.Tax),
		Shipping: money(r.Shipping),
	}, nil
}

type periodRow struct {
	ID struct {
		Year  int `bson:"year"`
		Month int `bson:"month"`
		Day   int `bson:"day"`
	} `bson:"_id"`
	Revenue float64 `bson:"revenue"`
	Orders  int64   `bson:"orders"`
}

func (s *AnalyticsStore) revenueBy(ctx context.Context, w analytics.Window, key bson.M, sort bson.D) ([]analytics.PeriodRevenue, error) {
	var rows []periodRow
	err := s.aggregate(ctx, ordersCollection, []bson.M{
		completedIn(w),
		{"$group": bson.M{
			"_id":     key,
			"revenue": bson.M{"$sum": orderRevenue},
			"orders":  bson.M{"$sum": 1},
		}},
		{"$sort": sort},
	}, &rows)
	if err != nil {
		return nil, err
	}

	out := make([]analytics.PeriodRevenue, 0, len(rows))
	for _, r := range rows {
		out = append(out, analytics.PeriodRevenue{
			Year:    r.ID.Year,
			Month:   r.ID.Month,
			Day:     r.ID.Day,
			Revenue: money(r.Revenue),
			Orders:  r.Orders,
		})
	}
	return out, nil
}

// RevenueByMonth groups completed orders by UTC calendar month
func (s *AnalyticsStore) RevenueByMonth(ctx context.Context, w analytics.Window) ([]analytics.PeriodRevenue, error) {
	return s.revenueBy(ctx, w,
		bson.M{"year": bson.M{"$year": "$created_at"}, "month": bson.M{"$month": "$created_at"}},
		bson.D{{Key: "_id.year", Value: 1}, {Key: "_id.month", Value: 1}})
}

// RevenueByDay groups completed orders by UTC calendar day
func (s *AnalyticsStore) RevenueByDay(ctx context.Context, w analytics.Window) ([]analytics.PeriodRevenue, error) {
	return s.revenueBy(ctx, w,
		bson.M{
			"year":  bson.M{"$year": "$created_at"},
			"month": bson.M{"$month": "$created_at"},
			"day":   bson.M{"$dayOfMonth": "$created_at"},
		},
		bson.D{{Key: "_id.year", Value: 1}, {Key: "_id.month", Value: 1}, {Key: "_id.day", Value: 1}})
}

// TopSellingProducts ranks line items of completed orders by quantity sold
func (s *AnalyticsStore) TopSellingProducts(ctx context.Context, w analytics.Window, limit int) ([]analytics.ProductSalesRow, error) {
	var rows []struct {
		ProductID string  `bson:"_id"`
		Name      string  `bson:"name"`
		Quantity  int64   `bson:"quantity"`
		Revenue   float64 `bson:"revenue"`
	}
	err := s.aggregate(ctx, ordersCollection, []bson.M{
		completedIn(w),
		{"$unwind": "$items"},
		{"$group": bson.M{
			"_id":      "$items.product_id",
			"name":     bson.M{"$max": "$items.name"},
			"quantity": bson.M{"$sum": "$items.quantity"},
			"revenue":  bson.M{"$sum": "$items.subtotal"},
		}},
		{"$sort": bson.D{{Key: "quantity", Value: -1}, {Key: "revenue", Value: -1}, {Key: "_id", Value: 1}}},
		{"$limit": limit},
	}, &rows)
	if err != nil {
		return nil, err
	}

	out := make([]analytics.ProductSalesRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, analytics.ProductSalesRow{
			ProductID: r.ProductID,
			Name:      r.Name,
			Quantity:  r.Quantity,
			Revenue:   money(r.Revenue),
		})
	}
	return out, nil
}

// SalesByCategory joins line items to the current product category. Items whose
// product was deleted fall into the Unknown category.
func (s *AnalyticsStore) SalesByCategory(ctx context.Context, w analytics.Window) ([]analytics.CategorySalesRow, error) {
	var rows []struct {
		Category string  `bson:"_id"`
		Revenue  float64 `bson:"revenue"`
		Orders   int64   `bson:"orders"`
	}
	err := s.aggregate(ctx, ordersCollection, []bson.M{
		completedIn(w),
		{"$unwind": "$items"},
		{"$lookup": bson.M{
			"from":         productsCollection,
			"localField":   "items.product_id",
			"foreignField": "_id",
			"as":           "product",
		}},
		{"$unwind": bson.M{"path": "$product", "preserveNullAndEmptyArrays": true}},
		{"$group": bson.M{
			"_id":     categoryOf("$product.category.name"),
			"revenue": bson.M{"$sum": "$items.subtotal"},
			"orders":  bson.M{"$addToSet": "$_id"},
		}},
		{"$project": bson.M{"revenue": 1, "orders": bson.M{"$size": "$orders"}}},
		{"$sort": bson.D{{Key: "revenue", Value: -1}, {Key: "_id", Value: 1}}},
	}, &rows)
	if err != nil {
		return nil, err
	}

	out := make([]analytics.CategorySalesRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, analytics.CategorySalesRow{Category: r.Category, Revenue: money(r.Revenue), Orders: r.Orders})
	}
	return out, nil
}

var stockValue = bson.M{"$multiply": bson.A{"$quantity", "$price"}}

// InventoryTotals counts products and values the stock on hand
func (s *AnalyticsStore) InventoryTotals(ctx context.Context) (analytics.InventoryTotals, error) {
	var rows []struct {
		Products int64   `bson:"products"`
		Value    float64 `bson:"value"`
	}
	err := s.aggregate(ctx, productsCollection, []bson.M{
		{"$group": bson.M{
			"_id":      nil,
			"products": bson.M{"$sum": 1},
			"value":    bson.M{"$sum": stockValue},
		}},
	}, &rows)
	if err != nil || len(rows) == 0 {
		return analytics.InventoryTotals{Value: decimal.Zero}, err
	}
	return analytics.InventoryTotals{Products: rows[0].Products, Value: money(rows[0].Value)}, nil
}

// StockLevels partitions the catalog by stock level in a single pass
func (s *AnalyticsStore) StockLevels(ctx context.Context) (analytics.StockLevelCounts, error) {
	var rows []struct {
		OutOfStock int64 `bson:"out_of_stock"`
		Low        int64 `bson:"low"`
		Medium     int64 `bson:"medium"`
		High       int64 `bson:"high"`
	}
	err := s.aggregate(ctx, productsCollection, []bson.M{
		{"$group": bson.M{
			"_id":          nil,
			"out_of_stock": sumIf(bson.M{"$lte": bson.A{"$quantity", 0}}),
			"low": sumIf(bson.M{"$and": bson.A{
				bson.M{"$gt": bson.A{"$quantity", 0}},
				bson.M{"$lt": bson.A{"$quantity", product.LowStockLimit}},
			}}),
			"medium": sumIf(bson.M{"$and": bson.A{
				bson.M{"$gte": bson.A{"$quantity", product.LowStockLimit}},
				bson.M{"$lt": bson.A{"$quantity", product.HighStockLimit}},
			}}),
			"high": sumIf(bson.M{"$gte": bson.A{"$quantity", product.HighStockLimit}}),
		}},
	}, &rows)
	if err != nil || len(rows) == 0 {
		return analytics.StockLevelCounts{}, err
	}
	r := rows[0]
	return analytics.StockLevelCounts{OutOfStock: r.OutOfStock, Low: r.Low, Medium: r.Medium, High: r.High}, nil
}

// InventoryByCategory counts and values products per category
func (s *AnalyticsStore) InventoryByCategory(ctx context.Context) ([]analytics.CategoryStockRow, error) {
	var rows []struct {
		Category string  `bson:"_id"`
		Products int64   `bson:"products"`
		Value    float64 `bson:"value"`
	}
	err := s.aggregate(ctx, productsCollection, []bson.M{
		{"$group": bson.M{
			"_id":      categoryOf("$category.name"),
			"products": bson.M{"$sum": 1},
			"value":    bson.M{"$sum": stockValue},
		}},
		{"$sort": bson.D{{Key: "products", Value: -1}, {Key: "_id", Value: 1}}},
	}, &rows)
	if err != nil {
		return nil, err
	}

	out := make([]analytics.CategoryStockRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, analytics.CategoryStockRow{Category: r.Category, Products: r.Products, Value: money(r.Value)})
	}
	return out, nil
}

// TopValueProducts ranks products by stock value
func (s *AnalyticsStore) TopValueProducts(ctx context.Context, limit int) ([]analytics.ProductValueRow, error) {
	var rows []struct {
		ProductID string  `bson:"_id"`
		Name      string  `bson:"name"`
		Category  string  `bson:"category"`
		Quantity  int64   `bson:"quantity"`
		Price     float64 `bson:"price"`
		Value     float64 `bson:"value"`
	}
	err := s.aggregate(ctx, productsCollection, []bson.M{
		{"$project": bson.M{
			"name":     1,
			"category": "$category.name",
			"quantity": 1,
			"price":    1,
			"value":    stockValue,
		}},
		{"$sort": bson.D{{Key: "value", Value: -1}, {Key: "_id", Value: 1}}},
		{"$limit": limit},
	}, &rows)
	if err != nil {
		return nil, err
	}

	out := make([]analytics.ProductValueRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, analytics.ProductValueRow{
			ProductID: r.ProductID,
			Name:      r.Name,
			Category:  r.Category,
			Quantity:  r.Quantity,
			Price:     money(r.Price),
			Value:     money(r.Value),
		})
	}
	return out, nil
}

// CountCustomers counts users with the customer role
func (s *AnalyticsStore) CountCustomers(ctx context.Context) (int64, error) {
	return s.count(ctx, usersCollection, bson.M{"role": string(user.RoleCustomer)})
}

// CountNewCustomers counts customers registered in w
func (s *AnalyticsStore) CountNewCustomers(ctx context.Context, w analytics.Window) (int64, error) {
	return s.count(ctx, usersCollection, bson.M{"role": string(user.RoleCustomer), "created_at": between(w)})
}

var perCustomer = bson.M{"$group": bson.M{
	"_id":    "$customer_id",
	"orders": bson.M{"$sum": 1},
	"spent":  bson.M{"$sum": orderRevenue},
}}

// CustomerTotals aggregates all-time completed orders per customer
func (s *AnalyticsStore) CustomerTotals(ctx context.Context) (analytics.CustomerTotals, error) {
	var rows []struct {
		Active int64   `bson:"active"`
		Repeat int64   `bson:"repeat"`
		Spent  float64 `bson:"spent"`
	}
	err := s.aggregate(ctx, ordersCollection, []bson.M{
		{"$match": bson.M{"payment_status": completed}},
		perCustomer,
		{"$group": bson.M{
			"_id":    nil,
			"active": bson.M{"$sum": 1},
			"repeat": sumIf(bson.M{"$gte": bson.A{"$orders", 2}}),
			"spent":  bson.M{"$sum": "$spent"},
		}},
	}, &rows)
	if err != nil || len(rows) == 0 {
		return analytics.CustomerTotals{Spent: decimal.Zero}, err
	}
	return analytics.CustomerTotals{Active: rows[0].Active, Repeat: rows[0].Repeat, Spent: money(rows[0].Spent)}, nil
}

// TopCustomers ranks customers by all-time completed spend
func (s *AnalyticsStore) TopCustomers(ctx context.Context, limit int) ([]analytics.CustomerSpendRow, error) {
	var rows []struct {
		CustomerID string  `bson:"_id"`
		Spent      float64 `bson:"spent"`
		Orders     int64   `bson:"orders"`
		Name       string  `bson:"name"`
		Email      string  `bson:"email"`
	}
	err := s.aggregate(ctx, ordersCollection, []bson.M{
		{"$match": bson.M{"payment_status": completed}},
		perCustomer,
		{"$sort": bson.D{{Key: "spent", Value: -1}, {Key: "orders", Value: -1}, {Key: "_id", Value: 1}}},
		{"$limit": limit},
		{"$lookup": bson.M{
			"from":         usersCollection,
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "user",
		}},
		{"$unwind": bson.M{"path": "$user", "preserveNullAndEmptyArrays": true}},
		{"$project": bson.M{"spent": 1, "orders": 1, "name": "$user.name", "email": "$user.email"}},
	}, &rows)
	if err != nil {
		return nil, err
	}

	out := make([]analytics.CustomerSpendRow, 0, len(rows))
	for _, r := range rows {
		name := r.Name
		if name == "" {
			name = r.Email
		}
		if name == "" {
			name = analytics.UnknownLabel
		}
		out = append(out, analytics.CustomerSpendRow{
			CustomerID: r.CustomerID,
			Name:       name,
			Spent:      money(r.Spent),
			Orders:     r.Orders,
		})
	}
	return out, nil
}

// ShipmentsByStatus counts shipments created in w per status
func (s *AnalyticsStore) ShipmentsByStatus(ctx context.Context, w analytics.Window) ([]analytics.ShipmentStatusRow, error) {
	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	err := s.aggregate(ctx, shipmentsCollection, []bson.M{
		{"$match": bson.M{"created_at": between(w)}},
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
		{"$sort": bson.D{{Key: "_id", Value: 1}}},
	}, &rows)
	if err != nil {
		return nil, err
	}

	out := make([]analytics.ShipmentStatusRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, analytics.ShipmentStatusRow{Status: shipment.Status(r.Status), Count: r.Count})
	}
	return out, nil
}

// CarrierPerformance aggregates shipments created in w per carrier
func (s *AnalyticsStore) CarrierPerformance(ctx context.Context, w analytics.Window) ([]analytics.CarrierShipmentRow, error) {
	isDelivered := bson.M{"$eq": bson.A{"$status", delivered}}
	isTimed := bson.M{"$and": bson.A{
		isDelivered,
		bson.M{"$eq": bson.A{bson.M{"$type": "$delivered_at"}, "date"}},
	}}

	var rows []struct {
		CarrierID       string  `bson:"_id"`
		Name            string  `bson:"name"`
		Shipments       int64   `bson:"shipments"`
		Delivered       int64   `bson:"delivered"`
		TimedDeliveries int64   `bson:"timed_deliveries"`
		DeliveryMillis  float64 `bson:"delivery_ms"`
	}
	err := s.aggregate(ctx, shipmentsCollection, []bson.M{
		{"$match": bson.M{"created_at": between(w)}},
		{"$group": bson.M{
			"_id":              "$carrier_id",
			"shipments":        bson.M{"$sum": 1},
			"delivered":        sumIf(isDelivered),
			"timed_deliveries": sumIf(isTimed),
			"delivery_ms": bson.M{"$sum": bson.M{"$cond": bson.A{
				isTimed,
				bson.M{"$subtract": bson.A{"$delivered_at", "$created_at"}},
				0,
			}}},
		}},
		{"$lookup": bson.M{
			"from":         carriersCollection,
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "carrier",
		}},
		{"$unwind": bson.M{"path": "$carrier", "preserveNullAndEmptyArrays": true}},
		{"$project": bson.M{
			"name":             bson.M{"$ifNull": bson.A{"$carrier.name", analytics.UnknownLabel}},
			"shipments":        1,
			"delivered":        1,
			"timed_deliveries": 1,
			"delivery_ms":      1,
		}},
		{"$sort": bson.D{{Key: "delivered", Value: -1}, {Key: "shipments", Value: -1}, {Key: "name", Value: 1}}},
	}, &rows)
	if err != nil {
		return nil, err
	}

	out := make([]analytics.CarrierShipmentRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, analytics.CarrierShipmentRow{
			CarrierID:       r.CarrierID,
			Name:            r.Name,
			Shipments:       r.Shipments,
			Delivered:       r.Delivered,
			TimedDeliveries: r.TimedDeliveries,
			DeliverySeconds: r.DeliveryMillis / 1000,
		})
	}
	return out, nil
}

// CountActiveCarriers counts carriers flagged active
func (s *AnalyticsStore) CountActiveCarriers(ctx context.Context) (int64, error) {
	return s.count(ctx, carriersCollection, bson.M{"active": true})
}
