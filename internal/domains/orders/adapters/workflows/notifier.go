package workflows

import (
	"context"
	"errors"
	"fmt"

	oteltrace "go.opentelemetry.io/otel/trace"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/husnhira/storefront/internal/domains/orders/ports"
	orderworkflows "github.com/husnhira/storefront/internal/durable/temporal/workflows/orders"
)

var _ ports.Notifier = (*TemporalNotifier)(nil)

// workflowStarter is the part of client.Client the notifier needs.
type workflowStarter interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}

// TemporalNotifier hands order confirmations to the notification workflow.
// The returned delivery id is the workflow run id, not the SMS id.
type TemporalNotifier struct {
	client    workflowStarter
	taskQueue string
}

// NewTemporalNotifier wires a Temporal client into the notifier.
func NewTemporalNotifier(c client.Client) *TemporalNotifier {
	return &TemporalNotifier{client: c, taskQueue: orderworkflows.NotificationTaskQueue}
}

// Notify starts the workflow without waiting for it. A workflow already
// started for the same order counts as delivered.
func (n *TemporalNotifier) Notify(ctx context.Context, msg ports.Notification) (string, error) {
	if n == nil || n.client == nil {
		return "", errors.New("temporal notifier not configured")
	}
	options := client.StartWorkflowOptions{
		ID:                    NotificationWorkflowID(msg.OrderID),
		TaskQueue:             n.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
	}
	run, err := n.client.ExecuteWorkflow(ctx, options, orderworkflows.NotificationWorkflowName,
		orderworkflows.NotificationWorkflowInput{Notification: msg, TraceID: workflowTraceID(ctx)})
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			return alreadyStarted.RunId, nil
		}
		return "", err
	}
	return run.GetRunID(), nil
}

// NotificationWorkflowID is deterministic per order so retries collapse onto one workflow.
func NotificationWorkflowID(orderID string) string {
	return fmt.Sprintf("order-notification-%s", orderID)
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
