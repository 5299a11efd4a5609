package ports

import (
	"context"

	"github.com/husnhira/storefront/internal/domains/orders/domain"
)

// Notification is the customer-facing confirmation for a new order.
type Notification struct {
	To            string
	Name          string
	OrderID       string
	Address       string
	PaymentMethod domain.PaymentMethod
	CouponApplied bool
}

// NotificationFromOrder builds the confirmation for order.
func NotificationFromOrder(order *domain.Order) Notification {
	return Notification{
		To:            order.Customer.Mobile,
		Name:          order.Customer.Name,
		OrderID:       order.OrderID,
		Address:       order.Customer.Address,
		PaymentMethod: order.PaymentMethod,
		CouponApplied: order.CouponApplied(),
	}
}

// Notifier delivers a notification and returns the provider's delivery id.
type Notifier interface {
	Notify(ctx context.Context, n Notification) (string, error)
}

// NoopNotifier drops notifications.
var NoopNotifier Notifier = noopNotifier{}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, Notification) (string, error) { return "", nil }
