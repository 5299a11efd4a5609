package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/husnhira/storefront/internal/domains/orders/ports"
	orderactivities "github.com/husnhira/storefront/internal/durable/temporal/activities/orders"
)

// NotificationTimeout bounds the single SMS attempt.
const NotificationTimeout = 30 * time.Second

// RunOrderNotificationSequence sends the order confirmation exactly once. A
// failed SMS is not retried; customers must not receive duplicates.
func RunOrderNotificationSequence(ctx workflow.Context, n ports.Notification) (string, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order notification sequence started", "orderId", n.OrderID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: NotificationTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var deliveryID string
	err := workflow.ExecuteActivity(ctx, orderactivities.SendOrderSMSActivityName, n).Get(ctx, &deliveryID)
	if err != nil {
		logger.Warn("order notification sequence failed", "orderId", n.OrderID, "error", err)
		return "", err
	}
	logger.Info("order notification sequence completed", "orderId", n.OrderID, "deliveryId", deliveryID)
	return deliveryID, nil
}
