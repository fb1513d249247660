package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/your-org/commerce-analytics/internal/domain/analytics"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (*AnalyticsStore, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewAnalyticsStore(db), mock
}

func testWindow() analytics.Window {
	return analytics.Window{
		Start: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.January, 31, 23, 59, 59, 0, time.UTC),
	}
}

func TestOrderTotals(t *testing.T) {
	store, mock := newMockStore(t)
	w := testWindow()

	mock.ExpectQuery(`SELECT COUNT\(\*\) AS orders`).
		WithArgs("completed", w.Start, w.End).
		WillReturnRows(sqlmock.NewRows([]string{"orders", "subtotal", "tax", "shipping"}).
			AddRow(2, "150.00", "15.00", "5.00"))

	totals, err := store.OrderTotals(context.Background(), w)
	require.NoError(t, err)
	require.EqualValues(t, 2, totals.Orders)
	require.True(t, decimal.RequireFromString("170").Equal(totals.Revenue()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRevenueByMonth(t *testing.T) {
	store, mock := newMockStore(t)
	w := testWindow()

	mock.ExpectQuery(`EXTRACT\(YEAR FROM created_at AT TIME ZONE 'UTC'\)`).
		WithArgs("completed", w.Start, w.End).
		WillReturnRows(sqlmock.NewRows([]string{"year", "month", "revenue", "orders"}).
			AddRow(2023, 12, "99.50", 3).
			AddRow(2024, 1, "10.00", 1))

	rows, err := store.RevenueByMonth(context.Background(), w)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, 2023, rows[0].Year)
	require.Equal(t, 12, rows[0].Month)
	require.EqualValues(t, 3, rows[0].Orders)
	require.True(t, decimal.RequireFromString("99.5").Equal(rows[0].Revenue))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStockLevelsUsesBoundaries(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`COUNT\(\*\) FILTER \(WHERE quantity <= 0\) AS out_of_stock`).
		WithArgs(10, 10, 50, 50).
		WillReturnRows(sqlmock.NewRows([]string{"out_of_stock", "low", "medium", "high"}).
			AddRow(1, 2, 3, 4))

	counts, err := store.StockLevels(context.Background())
	require.NoError(t, err)
	require.Equal(t, analytics.StockLevelCounts{OutOfStock: 1, Low: 2, Medium: 3, High: 4}, counts)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSalesByCategoryLabelsMissingProducts(t *testing.T) {
	store, mock := newMockStore(t)
	w := testWindow()

	mock.ExpectQuery(`COALESCE\(NULLIF\(p.category_name, ''\), 'Unknown'\) AS category`).
		WithArgs("completed", w.Start, w.End).
		WillReturnRows(sqlmock.NewRows([]string{"category", "revenue", "orders"}).
			AddRow("Electronics", "150", 2).
			AddRow("Unknown", "30", 1))

	rows, err := store.SalesByCategory(context.Background(), w)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, analytics.UnknownLabel, rows[1].Category)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCarrierPerformance(t *testing.T) {
	store, mock := newMockStore(t)
	w := testWindow()

	mock.ExpectQuery(`FROM shipments s\s+LEFT JOIN carriers c`).
		WithArgs("delivered", "delivered", "delivered", w.Start, w.End).
		WillReturnRows(sqlmock.NewRows([]string{"carrier_id", "name", "shipments", "delivered", "timed_deliveries", "delivery_seconds"}).
			AddRow("c1", "FastShip", 4, 3, 2, 172800.0))

	rows, err := store.CarrierPerformance(context.Background(), w)
	require.NoError(t, err)
	require.Equal(t, []analytics.CarrierShipmentRow{
		{CarrierID: "c1", Name: "FastShip", Shipments: 4, Delivered: 3, TimedDeliveries: 2, DeliverySeconds: 172800},
	}, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountCustomers(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE role = \$1`).
		WithArgs("customer").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	n, err := store.CountCustomers(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 42, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryErrorsPropagate(t *testing.T) {
	store, mock := newMockStore(t)
	cause := errors.New("connection reset")

	mock.ExpectQuery(`FROM carriers WHERE active`).WillReturnError(cause)

	_, err := store.CountActiveCarriers(context.Background())
	require.ErrorIs(t, err, cause)
	require.NoError(t, mock.ExpectationsWereMet())
}
