package application

import (
	"context"
	"sort"
	"strings"

	"github.com/husnhira/storefront/internal/domains/orders/application/types"
	"github.com/husnhira/storefront/internal/domains/orders/domain"
	"github.com/husnhira/storefront/internal/domains/orders/ports"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

func (s *Service) ListOrders(ctx context.Context, query types.OrderListQuery) ([]*domain.Order, error) {
	if !query.Status.Valid() {
		return nil, mapError(domain.ErrInvalidStatus)
	}
	status := query.Status
	q := ports.Query{
		Status: &status,
		Search: strings.TrimSpace(query.Search),
	}
	if query.Date != nil {
		from, to := domain.DayRange(*query.Date)
		q.CreatedFrom, q.CreatedTo = &from, &to
	}
	q.Offset, q.Limit = pageWindow(query.Page, query.PageSize)
	return s.repo.Find(ctx, q)
}

func pageWindow(page, size int) (offset, limit int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if page < 1 {
		page = 1
	}
	return (page - 1) * size, size
}

// ChartData buckets orders by calendar day in domain.Location, oldest day first.
// A nil status aggregates every order.
func (s *Service) ChartData(ctx context.Context, status *domain.Status, mode types.RevenueMode) (*types.ChartData, error) {
	if status != nil && !status.Valid() {
		return nil, mapError(domain.ErrInvalidStatus)
	}
	orders, err := s.repo.Find(ctx, ports.Query{Status: status})
	if err != nil {
		return nil, err
	}
	return aggregateByDay(orders, mode), nil
}

func aggregateByDay(orders []*domain.Order, mode types.RevenueMode) *types.ChartData {
	counts := map[string]int{}
	revenue := map[string]int{}
	for _, order := range orders {
		day := domain.DayLabel(order.CreatedAt)
		counts[day]++
		if mode == types.RevenueRecorded {
			revenue[day] += order.Price
		} else {
			revenue[day] += domain.LegacyRevenue(order.Coupon)
		}
	}
	chart := &types.ChartData{
		Labels:      make([]string, 0, len(counts)),
		OrderCounts: make([]int, 0, len(counts)),
		Revenue:     make([]int, 0, len(counts)),
	}
	for day := range counts {
		chart.Labels = append(chart.Labels, day)
	}
	sort.Strings(chart.Labels)
	for _, day := range chart.Labels {
		chart.OrderCounts = append(chart.OrderCounts, counts[day])
		chart.Revenue = append(chart.Revenue, revenue[day])
	}
	return chart
}

// ExportOrders returns a snapshot for the exporters. A nil status exports everything.
func (s *Service) ExportOrders(ctx context.Context, status *domain.Status) ([]*domain.Order, error) {
	if status != nil && !status.Valid() {
		return nil, mapError(domain.ErrInvalidStatus)
	}
	return s.repo.Find(ctx, ports.Query{Status: status})
}
