package application

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/husnhira/storefront/internal/domains/orders/ports"
)

// DefaultNotifyTimeout bounds a single notification attempt.
const DefaultNotifyTimeout = 10 * time.Second

// Dispatcher sends order notifications in the background. Failures are logged
// and dropped; they never reach the caller that created the order.
type Dispatcher struct {
	notifier ports.Notifier
	timeout  time.Duration
	logger   *slog.Logger
	wg       sync.WaitGroup
}

type DispatcherOption func(*Dispatcher)

func WithNotifyTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

func WithDispatcherLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

func NewDispatcher(notifier ports.Notifier, opts ...DispatcherOption) *Dispatcher {
	if notifier == nil {
		notifier = ports.NoopNotifier
	}
	d := &Dispatcher{
		notifier: notifier,
		timeout:  DefaultNotifyTimeout,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Dispatch returns immediately. The attempt outlives ctx cancellation but not the timeout.
func (d *Dispatcher) Dispatch(ctx context.Context, n ports.Notification) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()
		deliveryID, err := d.notifier.Notify(ctx, n)
		if err != nil {
			d.logger.WarnContext(ctx, "order notification failed",
				slog.String("order.order_id", n.OrderID),
				slog.String("error", err.Error()))
			return
		}
		d.logger.InfoContext(ctx, "order notification sent",
			slog.String("order.order_id", n.OrderID),
			slog.String("delivery.id", deliveryID))
	}()
}

// Wait blocks until in-flight notifications finish.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
