package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/husnhira/storefront/internal/domains/orders/ports"
)

type blockingNotifier struct {
	deadline chan time.Time
}

func (b *blockingNotifier) Notify(ctx context.Context, _ ports.Notification) (string, error) {
	d, _ := ctx.Deadline()
	b.deadline <- d
	<-ctx.Done()
	return "", ctx.Err()
}

func TestDispatcher_DetachesFromRequestAndTimesOut(t *testing.T) {
	notifier := &blockingNotifier{deadline: make(chan time.Time, 1)}
	d := NewDispatcher(notifier, WithNotifyTimeout(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	start := time.Now()
	d.Dispatch(ctx, ports.Notification{OrderID: "HH000001"})
	cancel()

	deadline := <-notifier.deadline
	require.WithinDuration(t, start.Add(50*time.Millisecond), deadline, 40*time.Millisecond)

	done := make(chan struct{})
	go func() {
		d.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher did not honour its timeout")
	}
	require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}
