package ports

import (
	"context"

	"github.com/husnhira/storefront/internal/domains/orders/application/types"
	"github.com/husnhira/storefront/internal/domains/orders/domain"
)

// Service exposes checkout and order triage use cases to adapters.
type Service interface {
	CreatePaymentIntent(ctx context.Context, input types.CheckoutInput) (*types.PaymentIntent, error)
	ConfirmOnlineOrder(ctx context.Context, input types.PaymentConfirmation) (*domain.Order, error)
	CreateCODOrder(ctx context.Context, input types.CheckoutInput) (*domain.Order, error)
	Transition(ctx context.Context, id string, target domain.Status) (*domain.Order, error)
	// Cancel deletes id from any state and returns the status it had.
	Cancel(ctx context.Context, id string) (domain.Status, error)
	DeleteFromHistory(ctx context.Context, id string) error
	ClearHistory(ctx context.Context) (int64, error)
	ListOrders(ctx context.Context, query types.OrderListQuery) ([]*domain.Order, error)
	ChartData(ctx context.Context, status *domain.Status, mode types.RevenueMode) (*types.ChartData, error)
	ExportOrders(ctx context.Context, status *domain.Status) ([]*domain.Order, error)
}
