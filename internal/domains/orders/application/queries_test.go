package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/husnhira/storefront/internal/domains/orders/application/types"
	"github.com/husnhira/storefront/internal/domains/orders/domain"
)

func seedCOD(t *testing.T, f *fixture, at time.Time, name, mobile, coupon string) *domain.Order {
	t.Helper()
	f.now = at
	input := ashaCheckout(coupon)
	input.Name = name
	input.Mobile = mobile
	order, err := f.svc.CreateCODOrder(context.Background(), input)
	require.NoError(t, err)
	return order
}

func TestListOrders_SearchIsLiteralAndCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, domain.Location)
	seedCOD(t, f, base, "Asha Verma", "9876543210", "")
	seedCOD(t, f, base.Add(time.Minute), "a.b Traders", "9123456780", "")
	seedCOD(t, f, base.Add(2*time.Minute), "aXb Stores", "9000000001", "")

	got, err := f.svc.ListOrders(context.Background(), types.OrderListQuery{Status: domain.StatusPending, Search: "9876543210"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Asha Verma", got[0].Customer.Name)

	got, err = f.svc.ListOrders(context.Background(), types.OrderListQuery{Status: domain.StatusPending, Search: "ASHA"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = f.svc.ListOrders(context.Background(), types.OrderListQuery{Status: domain.StatusPending, Search: "a.b"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "a.b Traders", got[0].Customer.Name)

	got, err = f.svc.ListOrders(context.Background(), types.OrderListQuery{Status: domain.StatusPending, Search: "COD"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "aXb Stores", got[0].Customer.Name, "newest first")
}

func TestListOrders_DateFilterExcludesNextMidnight(t *testing.T) {
	f := newFixture(t)
	seedCOD(t, f, time.Date(2024, 4, 30, 23, 59, 59, 0, domain.Location), "Before Day", "9000000001", "")
	seedCOD(t, f, time.Date(2024, 5, 1, 0, 0, 0, 0, domain.Location), "Start Day", "9000000002", "")
	seedCOD(t, f, time.Date(2024, 5, 1, 23, 59, 59, 0, domain.Location), "End Day", "9000000003", "")
	seedCOD(t, f, time.Date(2024, 5, 2, 0, 0, 0, 0, domain.Location), "Next Day", "9000000004", "")

	day, err := domain.ParseDay("2024-05-01")
	require.NoError(t, err)
	got, err := f.svc.ListOrders(context.Background(), types.OrderListQuery{Status: domain.StatusPending, Date: &day})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "End Day", got[0].Customer.Name)
	require.Equal(t, "Start Day", got[1].Customer.Name)
}

func TestListOrders_FiltersByTabAndPaginates(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, domain.Location)
	var last *domain.Order
	for i := 0; i < 5; i++ {
		last = seedCOD(t, f, base.Add(time.Duration(i)*time.Minute), "Asha Verma", "9876543210", "")
	}
	_, err := f.svc.Transition(context.Background(), last.ID, domain.StatusDelivering)
	require.NoError(t, err)

	pending, err := f.svc.ListOrders(context.Background(), types.OrderListQuery{Status: domain.StatusPending, Page: 2, PageSize: 3})
	require.NoError(t, err)
	require.Len(t, pending, 1)

	delivering, err := f.svc.ListOrders(context.Background(), types.OrderListQuery{Status: domain.StatusDelivering})
	require.NoError(t, err)
	require.Len(t, delivering, 1)
	require.Equal(t, last.ID, delivering[0].ID)

	_, err = f.svc.ListOrders(context.Background(), types.OrderListQuery{Status: "archived"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestChartData_Modes(t *testing.T) {
	f := newFixture(t)
	seedCOD(t, f, time.Date(2024, 5, 1, 9, 0, 0, 0, domain.Location), "Asha Verma", "9876543210", "HUSN40")
	seedCOD(t, f, time.Date(2024, 5, 1, 23, 0, 0, 0, domain.Location), "Ravi Kumar", "9876543211", "")
	seedCOD(t, f, time.Date(2024, 5, 3, 1, 0, 0, 0, domain.Location), "Meera Das", "9876543212", "")

	pending := domain.StatusPending
	legacy, err := f.svc.ChartData(context.Background(), &pending, types.RevenueLegacy)
	require.NoError(t, err)
	require.Equal(t, []string{"2024-05-01", "2024-05-03"}, legacy.Labels)
	require.Equal(t, []int{2, 1}, legacy.OrderCounts)
	require.Equal(t, []int{149 + 249, 249}, legacy.Revenue)

	recorded, err := f.svc.ChartData(context.Background(), nil, types.RevenueRecorded)
	require.NoError(t, err)
	require.Equal(t, []int{189 + 289, 289}, recorded.Revenue)

	done := domain.StatusDone
	empty, err := f.svc.ChartData(context.Background(), &done, types.RevenueLegacy)
	require.NoError(t, err)
	require.Empty(t, empty.Labels)
}

func TestExportOrders(t *testing.T) {
	f := newFixture(t)
	order := seedCOD(t, f, time.Date(2024, 5, 1, 9, 0, 0, 0, domain.Location), "Asha Verma", "9876543210", "")
	seedCOD(t, f, time.Date(2024, 5, 1, 10, 0, 0, 0, domain.Location), "Ravi Kumar", "9876543211", "")
	_, err := f.svc.Transition(context.Background(), order.ID, domain.StatusDone)
	require.NoError(t, err)

	done := domain.StatusDone
	history, err := f.svc.ExportOrders(context.Background(), &done)
	require.NoError(t, err)
	require.Len(t, history, 1)

	all, err := f.svc.ExportOrders(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
}
