// Package notify delivers order confirmations to customers.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/husnhira/storefront/internal/domains/orders/ports"
)

// SMSSender is satisfied by the Twilio client.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) (string, error)
}

// SMSNotifier texts the order confirmation to the customer's mobile.
type SMSNotifier struct {
	sender SMSSender
}

func NewSMSNotifier(sender SMSSender) *SMSNotifier {
	return &SMSNotifier{sender: sender}
}

func (n *SMSNotifier) Notify(ctx context.Context, msg ports.Notification) (string, error) {
	if n == nil || n.sender == nil {
		return "", errors.New("sms notifier not configured")
	}
	return n.sender.SendSMS(ctx, msg.To, OrderMessage(msg))
}

// OrderMessage renders the confirmation text.
func OrderMessage(msg ports.Notification) string {
	return fmt.Sprintf("Hi %s, your order has been placed successfully!\nOrder ID: %s\nAddress: %s\nThank you for shopping with Husn Hira!",
		msg.Name, msg.OrderID, msg.Address)
}

// LoggingNotifier records notifications instead of sending them. Used when no
// SMS provider is configured.
type LoggingNotifier struct {
	logger *slog.Logger
}

func NewLoggingNotifier(logger *slog.Logger) *LoggingNotifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LoggingNotifier{logger: logger}
}

func (n *LoggingNotifier) Notify(ctx context.Context, msg ports.Notification) (string, error) {
	n.logger.InfoContext(ctx, "order notification not sent, sms disabled",
		slog.String("order.order_id", msg.OrderID),
		slog.String("order.payment_method", string(msg.PaymentMethod)),
		slog.Bool("order.coupon_applied", msg.CouponApplied))
	return "", nil
}

var (
	_ ports.Notifier = (*SMSNotifier)(nil)
	_ ports.Notifier = (*LoggingNotifier)(nil)
)
