package orders

import (
	"go.temporal.io/sdk/workflow"

	"github.com/husnhira/storefront/internal/domains/orders/ports"
	"github.com/husnhira/storefront/internal/durable/temporal/sequences"
)

const (
	// NotificationWorkflowName is the public identifier for registering the workflow.
	NotificationWorkflowName = "orders.workflows.Notification"
	// NotificationTaskQueue is the queue consumed by the notification worker.
	NotificationTaskQueue = "ORDER_NOTIFICATIONS"
)

// NotificationWorkflowInput carries the confirmation plus the originating trace.
type NotificationWorkflowInput struct {
	Notification ports.Notification
	TraceID      string
}

// NotificationWorkflow delivers the confirmation SMS for one order.
func NotificationWorkflow(ctx workflow.Context, input NotificationWorkflowInput) (string, error) {
	logger := workflow.GetLogger(ctx)
	orderID := input.Notification.OrderID
	logger.Info("NotificationWorkflow started", withTraceID(input.TraceID, "orderId", orderID)...)
	deliveryID, err := sequences.RunOrderNotificationSequence(ctx, input.Notification)
	if err != nil {
		logger.Error("NotificationWorkflow failed", withTraceID(input.TraceID, "orderId", orderID, "error", err)...)
		return "", err
	}
	logger.Info("NotificationWorkflow completed", withTraceID(input.TraceID, "orderId", orderID, "deliveryId", deliveryID)...)
	return deliveryID, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
