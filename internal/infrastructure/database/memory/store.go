// internal/infrastructure/database/memory/store.go
package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/your-org/commerce-analytics/internal/domain/analytics"
	"github.com/your-org/commerce-analytics/internal/domain/order"
	"github.com/your-org/commerce-analytics/internal/domain/product"
	"github.com/your-org/commerce-analytics/internal/domain/shipment"
	"github.com/your-org/commerce-analytics/internal/domain/user"
	"github.com/your-org/commerce-analytics/internal/infrastructure/database/sample"
)

// Store keeps records in process memory and aggregates them on read
type Store struct {
	mu        sync.RWMutex
	orders    []order.Order
	products  []product.Product
	users     []user.User
	shipments []shipment.Shipment
	carriers  []shipment.Carrier
}

var _ analytics.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		orders:    []order.Order{},
		products:  []product.Product{},
		users:     []user.User{},
		shipments: []shipment.Shipment{},
		carriers:  []shipment.Carrier{},
	}
}

func (s *Store) AddOrders(orders ...order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append(s.orders, orders...)
}

func (s *Store) AddProducts(products ...product.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, products...)
}

func (s *Store) AddUsers(users ...user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, users...)
}

func (s *Store) AddShipments(shipments ...shipment.Shipment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shipments = append(s.shipments, shipments...)
}

func (s *Store) AddCarriers(carriers ...shipment.Carrier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carriers = append(s.carriers, carriers...)
}

// completedOrders returns the completed orders created in w, or all of them when w is nil
func (s *Store) completedOrders(w *analytics.Window) []order.Order {
	var out []order.Order
	for _, o := range s.orders {
		if !o.IsCompleted() {
			continue
		}
		if w != nil && !w.Contains(o.CreatedAt) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func (s *Store) OrderTotals(ctx context.Context, w analytics.Window) (analytics.OrderTotals, error) {
	if err := ctx.Err(); err != nil {
		return analytics.OrderTotals{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := analytics.OrderTotals{}
	for _, o := range s.completedOrders(&w) {
		totals.Orders++
		totals.Subtotal = totals.Subtotal.Add(o.Subtotal)
		totals.Tax = totals.Tax.Add(o.Tax)
		totals.Shipping = totals.Shipping.Add(o.Shipping)
	}
	return totals, nil
}

func (s *Store) RevenueByMonth(ctx context.Context, w analytics.Window) ([]analytics.PeriodRevenue, error) {
	return s.revenueBy(ctx, w, false)
}

func (s *Store) RevenueByDay(ctx context.Context, w analytics.Window) ([]analytics.PeriodRevenue, error) {
	return s.revenueBy(ctx, w, true)
}

func (s *Store) revenueBy(ctx context.Context, w analytics.Window, daily bool) ([]analytics.PeriodRevenue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	type bucket struct{ year, month, day int }
	index := make(map[bucket]int)
	var out []analytics.PeriodRevenue
	for _, o := range s.completedOrders(&w) {
		t := o.CreatedAt.UTC()
		key := bucket{year: t.Year(), month: int(t.Month())}
		if daily {
			key.day = t.Day()
		}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, analytics.PeriodRevenue{Year: key.year, Month: key.month, Day: key.day})
		}
		out[i].Revenue = out[i].Revenue.Add(o.Total())
		out[i].Orders++
	}
	return out, nil
}

// TopSellingProducts returns every product sold in w; the service ranks and truncates.
func (s *Store) TopSellingProducts(ctx context.Context, w analytics.Window, _ int) ([]analytics.ProductSalesRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	index := make(map[string]int)
	var out []analytics.ProductSalesRow
	for _, o := range s.completedOrders(&w) {
		for _, item := range o.Items {
			i, ok := index[item.ProductID]
			if !ok {
				i = len(out)
				index[item.ProductID] = i
				out = append(out, analytics.ProductSalesRow{ProductID: item.ProductID, Name: item.Name})
			}
			out[i].Quantity += int64(item.Quantity)
			out[i].Revenue = out[i].Revenue.Add(item.Subtotal)
		}
	}
	return out, nil
}

func (s *Store) SalesByCategory(ctx context.Context, w analytics.Window) ([]analytics.CategorySalesRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make(map[string]string, len(s.products))
	for _, p := range s.products {
		categories[p.ID] = p.Category.Name
	}

	index := make(map[string]int)
	orders := make(map[string]map[string]struct{})
	var out []analytics.CategorySalesRow
	for _, o := range s.completedOrders(&w) {
		for _, item := range o.Items {
			name, ok := categories[item.ProductID]
			if !ok || name == "" {
				name = analytics.UnknownLabel
			}
			i, seen := index[name]
			if !seen {
				i = len(out)
				index[name] = i
				orders[name] = make(map[string]struct{})
				out = append(out, analytics.CategorySalesRow{Category: name})
			}
			out[i].Revenue = out[i].Revenue.Add(item.Subtotal)
			orders[name][o.ID] = struct{}{}
		}
	}
	for i := range out {
		out[i].Orders = int64(len(orders[out[i].Category]))
	}
	return out, nil
}

func (s *Store) InventoryTotals(ctx context.Context) (analytics.InventoryTotals, error) {
	if err := ctx.Err(); err != nil {
		return analytics.InventoryTotals{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := analytics.InventoryTotals{}
	for i := range s.products {
		totals.Products++
		totals.Value = totals.Value.Add(s.products[i].InventoryValue())
	}
	return totals, nil
}

func (s *Store) StockLevels(ctx context.Context) (analytics.StockLevelCounts, error) {
	if err := ctx.Err(); err != nil {
		return analytics.StockLevelCounts{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var counts analytics.StockLevelCounts
	for i := range s.products {
		switch s.products[i].StockLevel() {
		case product.StockLevelOut:
			counts.OutOfStock++
		case product.StockLevelLow:
			counts.Low++
		case product.StockLevelMedium:
			counts.Medium++
		case product.StockLevelHigh:
			counts.High++
		}
	}
	return counts, nil
}

func (s *Store) InventoryByCategory(ctx context.Context) ([]analytics.CategoryStockRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	index := make(map[string]int)
	var out []analytics.CategoryStockRow
	for i := range s.products {
		p := &s.products[i]
		name := p.Category.Name
		if name == "" {
			name = analytics.UnknownLabel
		}
		j, ok := index[name]
		if !ok {
			j = len(out)
			index[name] = j
			out = append(out, analytics.CategoryStockRow{Category: name})
		}
		out[j].Products++
		out[j].Value = out[j].Value.Add(p.InventoryValue())
	}
	return out, nil
}

func (s *Store) TopValueProducts(ctx context.Context, _ int) ([]analytics.ProductValueRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]analytics.ProductValueRow, 0, len(s.products))
	for i := range s.products {
		p := &s.products[i]
		out = append(out, analytics.ProductValueRow{
			ProductID: p.ID,
			Name:      p.Name,
			Category:  p.Category.Name,
			Quantity:  int64(p.Quantity),
			Price:     p.Price,
			Value:     p.InventoryValue(),
		})
	}
	return out, nil
}

func (s *Store) CountCustomers(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for i := range s.users {
		if s.users[i].IsCustomer() {
			n++
		}
	}
	return n, nil
}

func (s *Store) CountNewCustomers(ctx context.Context, w analytics.Window) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for i := range s.users {
		if s.users[i].IsCustomer() && w.Contains(s.users[i].CreatedAt) {
			n++
		}
	}
	return n, nil
}

type spend struct {
	total  decimal.Decimal
	orders int64
}

// spendByCustomer aggregates all-time completed orders per customer, in first-seen order
func (s *Store) spendByCustomer() ([]string, map[string]*spend) {
	var ids []string
	byCustomer := make(map[string]*spend)
	for _, o := range s.completedOrders(nil) {
		sp, ok := byCustomer[o.CustomerID]
		if !ok {
			sp = &spend{}
			byCustomer[o.CustomerID] = sp
			ids = append(ids, o.CustomerID)
		}
		sp.total = sp.total.Add(o.Total())
		sp.orders++
	}
	return ids, byCustomer
}

func (s *Store) CustomerTotals(ctx context.Context) (analytics.CustomerTotals, error) {
	if err := ctx.Err(); err != nil {
		return analytics.CustomerTotals{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids, byCustomer := s.spendByCustomer()
	totals := analytics.CustomerTotals{}
	for _, id := range ids {
		sp := byCustomer[id]
		totals.Active++
		if sp.orders >= 2 {
			totals.Repeat++
		}
		totals.Spent = totals.Spent.Add(sp.total)
	}
	return totals, nil
}

func (s *Store) TopCustomers(ctx context.Context, _ int) ([]analytics.CustomerSpendRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make(map[string]string, len(s.users))
	for i := range s.users {
		names[s.users[i].ID] = s.users[i].GetDisplayName()
	}

	ids, byCustomer := s.spendByCustomer()
	out := make([]analytics.CustomerSpendRow, 0, len(ids))
	for _, id := range ids {
		name, ok := names[id]
		if !ok {
			name = analytics.UnknownLabel
		}
		out = append(out, analytics.CustomerSpendRow{
			CustomerID: id,
			Name:       name,
			Spent:      byCustomer[id].total,
			Orders:     byCustomer[id].orders,
		})
	}
	return out, nil
}

func (s *Store) ShipmentsByStatus(ctx context.Context, w analytics.Window) ([]analytics.ShipmentStatusRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	index := make(map[shipment.Status]int)
	var out []analytics.ShipmentStatusRow
	for i := range s.shipments {
		sh := &s.shipments[i]
		if !w.Contains(sh.CreatedAt) {
			continue
		}
		j, ok := index[sh.Status]
		if !ok {
			j = len(out)
			index[sh.Status] = j
			out = append(out, analytics.ShipmentStatusRow{Status: sh.Status})
		}
		out[j].Count++
	}
	return out, nil
}

func (s *Store) CarrierPerformance(ctx context.Context, w analytics.Window) ([]analytics.CarrierShipmentRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make(map[string]string, len(s.carriers))
	for i := range s.carriers {
		names[s.carriers[i].ID] = s.carriers[i].Name
	}

	index := make(map[string]int)
	var out []analytics.CarrierShipmentRow
	for i := range s.shipments {
		sh := &s.shipments[i]
		if !w.Contains(sh.CreatedAt) {
			continue
		}
		j, ok := index[sh.CarrierID]
		if !ok {
			name, known := names[sh.CarrierID]
			if !known {
				name = analytics.UnknownLabel
			}
			j = len(out)
			index[sh.CarrierID] = j
			out = append(out, analytics.CarrierShipmentRow{CarrierID: sh.CarrierID, Name: name})
		}
		out[j].Shipments++
		if sh.IsDelivered() {
			out[j].Delivered++
		}
		if d, ok := sh.DeliveryDuration(); ok {
			out[j].TimedDeliveries++
			out[j].DeliverySeconds += d.Seconds()
		}
	}
	return out, nil
}

func (s *Store) CountActiveCarriers(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for i := range s.carriers {
		if s.carriers[i].Active {
			n++
		}
	}
	return n, nil
}

// Load appends every record of a sample dataset
func (s *Store) Load(ds sample.Dataset) {
	s.AddUsers(ds.Users...)
	s.AddProducts(ds.Products...)
	s.AddOrders(ds.Orders...)
	s.AddCarriers(ds.Carriers...)
	s.AddShipments(ds.Shipments...)
}
