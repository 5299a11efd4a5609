package razorpay

import (
	"context"
	"errors"

	razorpayclient "github.com/husnhira/storefront/internal/clients/http/razorpay"
	"github.com/husnhira/storefront/internal/domains/orders/ports"
)

// Currency is the only currency the storefront charges in.
const Currency = "INR"

// Gateway implements ports.PaymentGateway on the Razorpay Orders API.
type Gateway struct {
	client *razorpayclient.Client
}

func NewGateway(client *razorpayclient.Client) *Gateway {
	return &Gateway{client: client}
}

// CreateIntent converts rupees to paise and registers the order.
func (g *Gateway) CreateIntent(ctx context.Context, amountRupees int, receipt string) (*ports.PaymentIntent, error) {
	if g == nil || g.client == nil {
		return nil, errors.New("razorpay gateway not configured")
	}
	order, err := g.client.CreateOrder(ctx, razorpayclient.OrderRequest{
		Amount:   int64(amountRupees) * 100,
		Currency: Currency,
		Receipt:  receipt,
	})
	if err != nil {
		return nil, err
	}
	return &ports.PaymentIntent{
		ID:          order.ID,
		AmountPaise: order.Amount,
		Currency:    order.Currency,
		Receipt:     order.Receipt,
	}, nil
}

var _ ports.PaymentGateway = (*Gateway)(nil)
