// internal/infrastructure/database/sample/dataset.go
package sample

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/your-org/commerce-analytics/internal/domain/order"
	"github.com/your-org/commerce-analytics/internal/domain/product"
	"github.com/your-org/commerce-analytics/internal/domain/shipment"
	"github.com/your-org/commerce-analytics/internal/domain/user"
)

// Dataset is a coherent set of storefront records used to seed development stores
type Dataset struct {
	Users     []user.User
	Products  []product.Product
	Orders    []order.Order
	Shipments []shipment.Shipment
	Carriers  []shipment.Carrier
}

// namespace keeps generated IDs stable across runs so seeding is repeatable
var namespace = uuid.MustParse("6f1c2a3e-2b7d-4c59-9a0e-5f0c1f9d8e21")

func id(kind string, n int) string {
	return uuid.NewSHA1(namespace, []byte(fmt.Sprintf("%s-%d", kind, n))).String()
}

// Build generates twelve months of history ending at now
func Build(now time.Time) Dataset {
	now = now.UTC()
	var ds Dataset

	ds.Users = append(ds.Users,
		user.User{ID: id("user", 0), Name: "Store Admin", Email: "admin@example.com", Role: user.RoleAdmin, CreatedAt: now.AddDate(-2, 0, 0)},
		user.User{ID: id("user", 1), Name: "Operations Manager", Email: "manager@example.com", Role: user.RoleManager, CreatedAt: now.AddDate(-2, 0, 0)},
	)
	customers := []string{"Asha Rao", "Ben Ortiz", "Chen Wei", "Dana Kim", "Eli Novak", "Fatima Idris", "Goran Petrov", "Hana Sato"}
	for i, name := range customers {
		ds.Users = append(ds.Users, user.User{
			ID:        id("user", i+2),
			Name:      name,
			Email:     fmt.Sprintf("customer%d@example.com", i+1),
			Role:      user.RoleCustomer,
			CreatedAt: now.AddDate(0, -(i * 2), -i),
		})
	}

	catalog := []struct {
		name     string
		category string
		subs     []string
		brand    string
		quantity int
		price    string
	}{
		{"Wireless Headphones", "Electronics", []string{"Audio"}, "Sonic", 42, "89.99"},
		{"Smart Watch", "Electronics", []string{"Wearables"}, "Pulse", 7, "199.00"},
		{"USB-C Charger", "Electronics", []string{"Accessories"}, "Volt", 120, "19.50"},
		{"Running Shoes", "Sports & Outdoors", []string{"Footwear"}, "Stride", 0, "74.00"},
		{"Yoga Mat", "Sports & Outdoors", []string{"Fitness"}, "Flex", 65, "25.00"},
		{"Cotton T-Shirt", "Clothing", []string{"Tops"}, "Basic", 230, "12.00"},
		{"Rain Jacket", "Clothing", []string{"Outerwear"}, "Drift", 18, "64.50"},
		{"Cookbook", "Books", []string{"Food"}, "Pantry Press", 3, "29.95"},
		{"Desk Lamp", "Home & Garden", []string{"Lighting"}, "Lumen", 33, "34.99"},
	}
	for i, c := range catalog {
		ds.Products = append(ds.Products, product.Product{
			ID:        id("product", i),
			Name:      c.name,
			Category:  product.Category{Name: c.category, Subcategories: c.subs},
			Brand:     c.brand,
			Quantity:  c.quantity,
			Price:     decimal.RequireFromString(c.price),
			CreatedAt: now.AddDate(-1, -1, 0),
		})
	}

	ds.Carriers = []shipment.Carrier{
		{ID: id("carrier", 0), Name: "FastShip", Active: true},
		{ID: id("carrier", 1), Name: "Parcel Express", Active: true},
		{ID: id("carrier", 2), Name: "Budget Freight", Active: false},
	}

	statuses := []order.PaymentStatus{
		order.PaymentStatusCompleted, order.PaymentStatusCompleted, order.PaymentStatusCompleted,
		order.PaymentStatusPending, order.PaymentStatusCompleted, order.PaymentStatusFailed,
		order.PaymentStatusCompleted, order.PaymentStatusRefunded,
	}
	shipStatuses := []shipment.Status{
		shipment.StatusDelivered, shipment.StatusDelivered, shipment.StatusInTransit,
		shipment.StatusDelivered, shipment.StatusReturned, shipment.StatusProcessing, shipment.StatusFailed,
	}

	tax := decimal.NewFromFloat(0.08)
	flatShipping := decimal.NewFromInt(5)
	n := 0
	for month := 11; month >= 0; month-- {
		for slot := 0; slot < 4; slot++ {
			n++
			created := now.AddDate(0, -month, -(slot*6 + 1))
			if created.After(now) {
				continue
			}
			customer := ds.Users[2+(n%len(customers))]

			var items []order.Item
			for k := 0; k <= n%3; k++ {
				p := ds.Products[(n+k*4)%len(ds.Products)]
				it := order.NewItem(p.ID, p.Name, 1+(n+k)%4, p.Price)
				it.ID = id("item", n*10+k)
				items = append(items, it)
			}
			subtotal := decimal.Zero
			for i := range items {
				items[i].OrderID = id("order", n)
				subtotal = subtotal.Add(items[i].Subtotal)
			}

			o := order.Order{
				ID:            id("order", n),
				CustomerID:    customer.ID,
				PaymentStatus: statuses[n%len(statuses)],
				Subtotal:      subtotal,
				Tax:           subtotal.Mul(tax).Round(2),
				Shipping:      flatShipping,
				CreatedAt:     created,
				Items:         items,
			}
			ds.Orders = append(ds.Orders, o)

			if !o.IsCompleted() {
				continue
			}
			sh := shipment.Shipment{
				ID:        id("shipment", n),
				OrderID:   o.ID,
				CarrierID: ds.Carriers[n%len(ds.Carriers)].ID,
				Status:    shipStatuses[n%len(shipStatuses)],
				CreatedAt: created.Add(6 * time.Hour),
			}
			if sh.IsDelivered() {
				delivered := sh.CreatedAt.Add(time.Duration(24+(n%5)*18) * time.Hour)
				if delivered.After(now) {
					sh.Status = shipment.StatusInTransit
				} else {
					sh.DeliveredAt = &delivered
				}
			}
			ds.Shipments = append(ds.Shipments, sh)
		}
	}

	return ds
}
