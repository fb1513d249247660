package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/your-org/commerce-analytics/internal/domain/analytics"
	"github.com/your-org/commerce-analytics/internal/domain/order"
	"github.com/your-org/commerce-analytics/internal/domain/product"
	"github.com/your-org/commerce-analytics/internal/domain/shipment"
	"github.com/your-org/commerce-analytics/internal/domain/user"
	"github.com/your-org/commerce-analytics/internal/infrastructure/database/sample"
)

var (
	jan    = time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC)
	feb    = time.Date(2024, time.February, 3, 15, 0, 0, 0, time.UTC)
	window = analytics.Window{
		Start: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.February, 29, 23, 59, 59, 0, time.UTC),
	}
)

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newFixtureStore() *Store {
	s := NewStore()
	s.AddProducts(
		product.Product{ID: "p1", Name: "Lamp", Category: product.Category{Name: "Home"}, Quantity: 0, Price: money("20")},
		product.Product{ID: "p2", Name: "Mug", Category: product.Category{Name: "Kitchen"}, Quantity: 60, Price: money("5")},
	)
	s.AddUsers(
		user.User{ID: "u1", Name: "Ada", Role: user.RoleCustomer, CreatedAt: jan},
		user.User{ID: "u2", Email: "bo@example.com", Role: user.RoleCustomer, CreatedAt: jan.AddDate(-1, 0, 0)},
		user.User{ID: "u3", Name: "Admin", Role: user.RoleAdmin, CreatedAt: jan},
	)
	s.AddOrders(
		order.Order{ID: "o1", CustomerID: "u1", PaymentStatus: order.PaymentStatusCompleted, CreatedAt: jan,
			Subtotal: money("40"), Tax: money("4"), Shipping: money("6"),
			Items: []order.Item{order.NewItem("p1", "Lamp", 2, money("20"))}},
		order.Order{ID: "o2", CustomerID: "u1", PaymentStatus: order.PaymentStatusCompleted, CreatedAt: feb,
			Subtotal: money("15"), Shipping: money("5"),
			Items: []order.Item{order.NewItem("p2", "Mug", 1, money("5")), order.NewItem("gone", "Old Thing", 1, money("10"))}},
		order.Order{ID: "o3", CustomerID: "u2", PaymentStatus: order.PaymentStatusPending, CreatedAt: feb,
			Subtotal: money("100")},
		order.Order{ID: "o4", CustomerID: "u2", PaymentStatus: order.PaymentStatusCompleted, CreatedAt: jan.AddDate(-1, 0, 0),
			Subtotal: money("10")},
	)
	delivered := jan.Add(48 * time.Hour)
	s.AddCarriers(shipment.Carrier{ID: "c1", Name: "FastShip", Active: true}, shipment.Carrier{ID: "c2", Name: "Slow", Active: false})
	s.AddShipments(
		shipment.Shipment{ID: "s1", CarrierID: "c1", Status: shipment.StatusDelivered, CreatedAt: jan, DeliveredAt: &delivered},
		shipment.Shipment{ID: "s2", CarrierID: "c9", Status: shipment.StatusReturned, CreatedAt: feb},
	)
	return s
}

func TestSalesAggregates(t *testing.T) {
	s := newFixtureStore()
	ctx := context.Background()

	totals, err := s.OrderTotals(ctx, window)
	require.NoError(t, err)
	require.EqualValues(t, 2, totals.Orders)
	require.True(t, money("70").Equal(totals.Revenue()))

	months, err := s.RevenueByMonth(ctx, window)
	require.NoError(t, err)
	require.Len(t, months, 2)
	require.Equal(t, 1, months[0].Month)
	require.True(t, money("50").Equal(months[0].Revenue))

	categories, err := s.SalesByCategory(ctx, window)
	require.NoError(t, err)
	byName := map[string]analytics.CategorySalesRow{}
	for _, row := range categories {
		byName[row.Category] = row
	}
	require.True(t, money("40").Equal(byName["Home"].Revenue))
	require.True(t, money("10").Equal(byName[analytics.UnknownLabel].Revenue))
	require.EqualValues(t, 1, byName[analytics.UnknownLabel].Orders)
}

func TestInventoryAggregates(t *testing.T) {
	s := newFixtureStore()
	ctx := context.Background()

	totals, err := s.InventoryTotals(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, totals.Products)
	require.True(t, money("300").Equal(totals.Value))

	levels, err := s.StockLevels(ctx)
	require.NoError(t, err)
	require.Equal(t, analytics.StockLevelCounts{OutOfStock: 1, High: 1}, levels)
}

func TestCustomerAggregatesAreAllTime(t *testing.T) {
	s := newFixtureStore()
	ctx := context.Background()

	n, err := s.CountCustomers(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	fresh, err := s.CountNewCustomers(ctx, window)
	require.NoError(t, err)
	require.EqualValues(t, 1, fresh)

	totals, err := s.CustomerTotals(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, totals.Active)
	require.EqualValues(t, 1, totals.Repeat)
	require.True(t, money("80").Equal(totals.Spent))

	top, err := s.TopCustomers(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	require.Equal(t, "Ada", top[0].Name)
	require.Equal(t, "bo@example.com", top[1].Name)
}

func TestShipmentAggregates(t *testing.T) {
	s := newFixtureStore()
	ctx := context.Background()

	carriers, err := s.CarrierPerformance(ctx, window)
	require.NoError(t, err)
	require.Equal(t, []analytics.CarrierShipmentRow{
		{CarrierID: "c1", Name: "FastShip", Shipments: 1, Delivered: 1, TimedDeliveries: 1, DeliverySeconds: 172800},
		{CarrierID: "c9", Name: analytics.UnknownLabel, Shipments: 1},
	}, carriers)

	active, err := s.CountActiveCarriers(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, active)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newFixtureStore().OrderTotals(ctx, window)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSampleDatasetProducesFullReport(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	s := NewStore()
	s.Load(sample.Build(now))

	opts := analytics.DefaultOptions()
	opts.Now = func() time.Time { return now }
	report, err := analytics.NewService(s, opts, nil).GenerateReport(context.Background(), nil, nil)
	require.NoError(t, err)
	require.NotZero(t, report.Sales.TotalOrders)
	require.Len(t, report.Inventory.StockLevels, len(product.StockLevels))
	require.Len(t, report.Operations.ShipmentsByStatus, len(shipment.Statuses))
	require.EqualValues(t, 2, report.Operations.ActiveCarriers)
}
