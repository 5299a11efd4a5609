//go:build pact
// +build pact

package consumer_test

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"

	razorpayclient "github.com/husnhira/storefront/internal/clients/http/razorpay"
	pacttest "github.com/husnhira/storefront/test/pact"
)

func TestRazorpayOrdersContract(t *testing.T) {
	t.Helper()

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ProviderName,
		Provider: pacttest.RazorpayProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	basicAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte(pacttest.GatewayKeyID+":"+pacttest.GatewaySecret))

	pact.AddInteraction().
		Given(pacttest.StateGatewayOrder).
		UponReceiving("a request to create a payment order").
		WithRequest("POST", "/v1/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.Header("Authorization", matchers.S(basicAuth))
			b.JSONBody(matchers.Map{
				"amount":   matchers.Like(14900),
				"currency": matchers.S("INR"),
				"receipt":  matchers.Like("rcpt_1714538400"),
			})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{
				"id":       matchers.Term(pacttest.IntentID, "^order_\\w+$"),
				"entity":   matchers.S("order"),
				"amount":   matchers.Like(14900),
				"currency": matchers.S("INR"),
				"receipt":  matchers.Like("rcpt_1714538400"),
				"status":   matchers.S("created"),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateGatewayOrder).
		UponReceiving("a payment order request with an invalid amount").
		WithRequest("POST", "/v1/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.Header("Authorization", matchers.S(basicAuth))
			b.JSONBody(map[string]any{"amount": 50, "currency": "INR", "receipt": "rcpt_small"})
		}).
		WillRespondWith(http.StatusBadRequest, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{
				"error": matchers.Map{
					"code":        matchers.S("BAD_REQUEST_ERROR"),
					"description": matchers.Like("Order amount less than minimum amount allowed"),
				},
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		host := config.Host
		if host == "" {
			host = "localhost"
		}
		client, err := razorpayclient.NewClient(fmt.Sprintf("http://%s:%d", host, config.Port),
			pacttest.GatewayKeyID, pacttest.GatewaySecret, &http.Client{Timeout: 5 * time.Second})
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		order, err := client.CreateOrder(ctx, razorpayclient.OrderRequest{Amount: 14900, Currency: "INR", Receipt: "rcpt_1714538400"})
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if order.ID == "" || order.Amount != 14900 {
			return fmt.Errorf("unexpected order %+v", order)
		}

		_, err = client.CreateOrder(ctx, razorpayclient.OrderRequest{Amount: 50, Currency: "INR", Receipt: "rcpt_small"})
		var apiErr *razorpayclient.APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest || apiErr.Code != "BAD_REQUEST_ERROR" {
			return fmt.Errorf("expected gateway rejection, got %v", err)
		}
		return nil
	})
	require.NoError(t, err)
}
