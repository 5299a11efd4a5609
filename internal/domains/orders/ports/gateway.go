package ports

import "context"

// PaymentIntent is a gateway order awaiting payment.
type PaymentIntent struct {
	ID          string
	AmountPaise int64
	Currency    string
	Receipt     string
}

// PaymentGateway creates intents on the payment provider.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amountRupees int, receipt string) (*PaymentIntent, error)
}
