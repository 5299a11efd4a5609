package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/husnhira/storefront/internal/domains/orders/domain"
	"github.com/husnhira/storefront/internal/domains/orders/ports"
)

type captureSender struct {
	to, body string
}

func (c *captureSender) SendSMS(_ context.Context, to, body string) (string, error) {
	c.to, c.body = to, body
	return "SM42", nil
}

func TestSMSNotifier_Notify(t *testing.T) {
	sender := &captureSender{}
	id, err := NewSMSNotifier(sender).Notify(context.Background(), ports.Notification{
		To:            "9876543210",
		Name:          "Asha Verma",
		OrderID:       "HH123456",
		Address:       "12 Lake Road, Pune, MH 411001",
		PaymentMethod: domain.PaymentCOD,
	})
	require.NoError(t, err)
	require.Equal(t, "SM42", id)
	require.Equal(t, "9876543210", sender.to)
	require.Equal(t, "Hi Asha Verma, your order has been placed successfully!\n"+
		"Order ID: HH123456\n"+
		"Address: 12 Lake Road, Pune, MH 411001\n"+
		"Thank you for shopping with Husn Hira!", sender.body)
}

func TestLoggingNotifier_NeverFails(t *testing.T) {
	id, err := NewLoggingNotifier(nil).Notify(context.Background(), ports.Notification{OrderID: "HH1"})
	require.NoError(t, err)
	require.Empty(t, id)
}
