// internal/domain/analytics/operations.go
package analytics

import (
	"context"
	"sort"

	"github.com/your-org/commerce-analytics/internal/domain/shipment"
	"golang.org/x/sync/errgroup"
)

const secondsPerDay = 24 * 60 * 60

// operationsAnalytics computes shipment metrics for shipments created in w. A delivered
// shipment counts as on time; shipments carry no promised delivery date.
func (s *Service) operationsAnalytics(ctx context.Context, w Window) (*OperationalAnalytics, error) {
	var (
		statuses []ShipmentStatusRow
		carriers []CarrierShipmentRow
		active   int64
	)

	g, gctx := errgroup.WithContext(ctx)
	timeout := s.opts.QueryTimeout
	fetch(g, gctx, timeout, &statuses, func(ctx context.Context) ([]ShipmentStatusRow, error) {
		return s.store.ShipmentsByStatus(ctx, w)
	})
	fetch(g, gctx, timeout, &carriers, func(ctx context.Context) ([]CarrierShipmentRow, error) {
		return s.store.CarrierPerformance(ctx, w)
	})
	fetch(g, gctx, timeout, &active, s.store.CountActiveCarriers)
	if err := g.Wait(); err != nil {
		return nil, err
	}

	counts := make(map[shipment.Status]int64, len(statuses))
	var total int64
	for _, r := range statuses {
		counts[r.Status] += r.Count
		total += r.Count
	}

	var timed int64
	var seconds float64
	for _, c := range carriers {
		timed += c.TimedDeliveries
		seconds += c.DeliverySeconds
	}

	return &OperationalAnalytics{
		TotalShipments:      total,
		OnTimeDeliveryRate:  percent(counts[shipment.StatusDelivered], total),
		AverageDeliveryTime: averageDays(seconds, timed),
		ReturnRate:          percent(counts[shipment.StatusReturned], total),
		ActiveCarriers:      active,
		ShipmentsByStatus:   shipmentsByStatus(counts, total),
		CarrierPerformance:  carrierPerformance(carriers),
	}, nil
}

// shipmentsByStatus emits every known status in lifecycle order, followed by any status
// the store returned that is not part of the enum.
func shipmentsByStatus(counts map[shipment.Status]int64, total int64) []StatusCount {
	out := make([]StatusCount, 0, len(counts))
	known := make(map[shipment.Status]bool, len(shipment.Statuses))
	for _, st := range shipment.Statuses {
		known[st] = true
		out = append(out, StatusCount{
			Status:     string(st),
			Count:      counts[st],
			Percentage: percent(counts[st], total),
		})
	}

	var extra []string
	for st := range counts {
		if !known[st] {
			extra = append(extra, string(st))
		}
	}
	sort.Strings(extra)
	for _, st := range extra {
		n := counts[shipment.Status(st)]
		out = append(out, StatusCount{Status: st, Count: n, Percentage: percent(n, total)})
	}
	return out
}

func carrierPerformance(rows []CarrierShipmentRow) []CarrierPerformance {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Delivered != b.Delivered {
			return a.Delivered > b.Delivered
		}
		if a.Shipments != b.Shipments {
			return a.Shipments > b.Shipments
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.CarrierID < b.CarrierID
	})

	out := make([]CarrierPerformance, 0, len(rows))
	for _, r := range rows {
		out = append(out, CarrierPerformance{
			CarrierID:       r.CarrierID,
			Name:            r.Name,
			Shipments:       r.Shipments,
			Delivered:       r.Delivered,
			OnTimeRate:      percent(r.Delivered, r.Shipments),
			AvgDeliveryTime: averageDays(r.DeliverySeconds, r.TimedDeliveries),
		})
	}
	return out
}

func averageDays(seconds float64, deliveries int64) float64 {
	if deliveries <= 0 {
		return 0
	}
	return round2(seconds / float64(deliveries) / secondsPerDay)
}
