package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/your-org/commerce-analytics/internal/domain/analytics"
	"github.com/your-org/commerce-analytics/internal/domain/shipment"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func testWindow() analytics.Window {
	return analytics.Window{
		Start: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.January, 31, 23, 59, 59, 0, time.UTC),
	}
}

func cursor(mt *mtest.T, collection string, docs ...bson.D) bson.D {
	return mtest.CreateCursorResponse(0, mt.DB.Name()+"."+collection, mtest.FirstBatch, docs...)
}

func TestAnalyticsStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("order totals", func(mt *mtest.T) {
		store := NewAnalyticsStore(mt.DB)
		mt.AddMockResponses(cursor(mt, ordersCollection, bson.D{
			{Key: "_id", Value: nil},
			{Key: "orders", Value: int32(2)},
			{Key: "subtotal", Value: 150.0},
			{Key: "tax", Value: 15.0},
			{Key: "shipping", Value: 5.0},
		}))

		totals, err := store.OrderTotals(ctx, testWindow())
		require.NoError(mt, err)
		require.EqualValues(mt, 2, totals.Orders)
		require.True(mt, decimal.RequireFromString("170").Equal(totals.Revenue()))
	})

	mt.Run("order totals with no orders", func(mt *mtest.T) {
		store := NewAnalyticsStore(mt.DB)
		mt.AddMockResponses(cursor(mt, ordersCollection))

		totals, err := store.OrderTotals(ctx, testWindow())
		require.NoError(mt, err)
		require.Zero(mt, totals.Orders)
		require.True(mt, totals.Revenue().IsZero())
	})

	mt.Run("revenue by month", func(mt *mtest.T) {
		store := NewAnalyticsStore(mt.DB)
		mt.AddMockResponses(cursor(mt, ordersCollection,
			bson.D{
				{Key: "_id", Value: bson.D{{Key: "year", Value: int32(2023)}, {Key: "month", Value: int32(12)}}},
				{Key: "revenue", Value: 99.5},
				{Key: "orders", Value: int32(3)},
			},
			bson.D{
				{Key: "_id", Value: bson.D{{Key: "year", Value: int32(2024)}, {Key: "month", Value: int32(1)}}},
				{Key: "revenue", Value: 10.0},
				{Key: "orders", Value: int32(1)},
			},
		))

		rows, err := store.RevenueByMonth(ctx, testWindow())
		require.NoError(mt, err)
		require.Len(mt, rows, 2)
		require.Equal(mt, 2023, rows[0].Year)
		require.Equal(mt, 12, rows[0].Month)
		require.Zero(mt, rows[0].Day)
		require.EqualValues(mt, 3, rows[0].Orders)
		require.True(mt, decimal.RequireFromString("99.5").Equal(rows[0].Revenue))
	})

	mt.Run("sales by category", func(mt *mtest.T) {
		store := NewAnalyticsStore(mt.DB)
		mt.AddMockResponses(cursor(mt, ordersCollection,
			bson.D{{Key: "_id", Value: "Electronics"}, {Key: "revenue", Value: 150.0}, {Key: "orders", Value: int32(2)}},
			bson.D{{Key: "_id", Value: analytics.UnknownLabel}, {Key: "revenue", Value: 30.0}, {Key: "orders", Value: int32(1)}},
		))

		rows, err := store.SalesByCategory(ctx, testWindow())
		require.NoError(mt, err)
		require.Len(mt, rows, 2)
		require.Equal(mt, "Electronics", rows[0].Category)
		require.EqualValues(mt, 2, rows[0].Orders)
		require.Equal(mt, analytics.UnknownLabel, rows[1].Category)
	})

	mt.Run("stock levels", func(mt *mtest.T) {
		store := NewAnalyticsStore(mt.DB)
		mt.AddMockResponses(cursor(mt, productsCollection, bson.D{
			{Key: "_id", Value: nil},
			{Key: "out_of_stock", Value: int32(1)},
			{Key: "low", Value: int32(2)},
			{Key: "medium", Value: int32(3)},
			{Key: "high", Value: int32(4)},
		}))

		counts, err := store.StockLevels(ctx)
		require.NoError(mt, err)
		require.Equal(mt, analytics.StockLevelCounts{OutOfStock: 1, Low: 2, Medium: 3, High: 4}, counts)
	})

	mt.Run("top customers fall back to email", func(mt *mtest.T) {
		store := NewAnalyticsStore(mt.DB)
		mt.AddMockResponses(cursor(mt, ordersCollection,
			bson.D{{Key: "_id", Value: "u1"}, {Key: "spent", Value: 300.0}, {Key: "orders", Value: int32(3)}, {Key: "name", Value: "Asha"}},
			bson.D{{Key: "_id", Value: "u2"}, {Key: "spent", Value: 80.0}, {Key: "orders", Value: int32(1)}, {Key: "email", Value: "ben@example.com"}},
			bson.D{{Key: "_id", Value: "u3"}, {Key: "spent", Value: 20.0}, {Key: "orders", Value: int32(1)}},
		))

		rows, err := store.TopCustomers(ctx, 10)
		require.NoError(mt, err)
		require.Len(mt, rows, 3)
		require.Equal(mt, "Asha", rows[0].Name)
		require.Equal(mt, "ben@example.com", rows[1].Name)
		require.Equal(mt, analytics.UnknownLabel, rows[2].Name)
	})

	mt.Run("shipments by status", func(mt *mtest.T) {
		store := NewAnalyticsStore(mt.DB)
		mt.AddMockResponses(cursor(mt, shipmentsCollection,
			bson.D{{Key: "_id", Value: "delivered"}, {Key: "count", Value: int32(4)}},
			bson.D{{Key: "_id", Value: "returned"}, {Key: "count", Value: int32(1)}},
		))

		rows, err := store.ShipmentsByStatus(ctx, testWindow())
		require.NoError(mt, err)
		require.Equal(mt, []analytics.ShipmentStatusRow{
			{Status: shipment.StatusDelivered, Count: 4},
			{Status: shipment.StatusReturned, Count: 1},
		}, rows)
	})

	mt.Run("carrier performance converts milliseconds", func(mt *mtest.T) {
		store := NewAnalyticsStore(mt.DB)
		mt.AddMockResponses(cursor(mt, shipmentsCollection, bson.D{
			{Key: "_id", Value: "c1"},
			{Key: "name", Value: "FastShip"},
			{Key: "shipments", Value: int32(4)},
			{Key: "delivered", Value: int32(3)},
			{Key: "timed_deliveries", Value: int32(2)},
			{Key: "delivery_ms", Value: int64(172800000)},
		}))

		rows, err := store.CarrierPerformance(ctx, testWindow())
		require.NoError(mt, err)
		require.Equal(mt, []analytics.CarrierShipmentRow{
			{CarrierID: "c1", Name: "FastShip", Shipments: 4, Delivered: 3, TimedDeliveries: 2, DeliverySeconds: 172800},
		}, rows)
	})

	mt.Run("count customers", func(mt *mtest.T) {
		store := NewAnalyticsStore(mt.DB)
		mt.AddMockResponses(cursor(mt, usersCollection, bson.D{{Key: "n", Value: int32(42)}}))

		n, err := store.CountCustomers(ctx)
		require.NoError(mt, err)
		require.EqualValues(mt, 42, n)
	})

	mt.Run("command errors propagate", func(mt *mtest.T) {
		store := NewAnalyticsStore(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "unknown operator",
		}))

		_, err := store.InventoryByCategory(ctx)
		require.Error(mt, err)
		require.Contains(mt, err.Error(), "analytics query failed")
	})
}
