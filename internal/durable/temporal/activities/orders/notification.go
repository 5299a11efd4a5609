package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	"github.com/husnhira/storefront/internal/domains/orders/ports"
)

// SendOrderSMSActivityName delivers an order confirmation through the configured notifier.
const SendOrderSMSActivityName = "orders.activities.SendOrderSMS"

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	notifier ports.Notifier
}

// NewActivities wires the notifier used by the worker. It must not be a
// workflow-starting notifier or each run would schedule another.
func NewActivities(notifier ports.Notifier) *Activities {
	return &Activities{notifier: notifier}
}

// SendOrderSMS sends the confirmation and returns the provider delivery id.
func (a *Activities) SendOrderSMS(ctx context.Context, n ports.Notification) (string, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.notifier == nil {
		logger.Error("order notification activity not initialized", "orderId", n.OrderID)
		return "", errors.New("order notification activity not initialized")
	}
	logger.Info("SendOrderSMS activity started", "orderId", n.OrderID)
	deliveryID, err := a.notifier.Notify(ctx, n)
	if err != nil {
		logger.Error("SendOrderSMS activity failed", "orderId", n.OrderID, "error", err)
		return "", err
	}
	logger.Info("SendOrderSMS activity completed", "orderId", n.OrderID, "deliveryId", deliveryID)
	return deliveryID, nil
}
