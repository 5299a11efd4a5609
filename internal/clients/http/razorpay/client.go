// Package razorpay is a minimal client for the Razorpay Orders API.
package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultBaseURL is the public Razorpay API endpoint.
const DefaultBaseURL = "https://api.razorpay.com"

const maxErrorBody = 4 << 10

// OrderRequest is the body of POST /v1/orders. Amount is in paise.
type OrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// Order is the subset of the Razorpay order entity the storefront reads.
type Order struct {
	ID       string `json:"id"`
	Entity   string `json:"entity"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("razorpay API error (%d %s): %s", e.StatusCode, e.Code, e.Description)
	}
	return fmt.Sprintf("razorpay API error: status %d", e.StatusCode)
}

type errorEnvelope struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// Client talks to the Orders API with HTTP basic auth.
type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

// NewClient builds a client. A nil httpClient gets a 10s timeout and an otelhttp transport.
func NewClient(baseURL, keyID, keySecret string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if strings.TrimSpace(keyID) == "" || strings.TrimSpace(keySecret) == "" {
		return nil, errors.New("razorpay key id and secret are required")
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Client{baseURL: baseURL, keyID: keyID, keySecret: keySecret, httpClient: httpClient}, nil
}

// KeyID is the public key handed to the checkout widget.
func (c *Client) KeyID() string {
	if c == nil {
		return ""
	}
	return c.keyID
}

// CreateOrder registers a payment order.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if c == nil || c.httpClient == nil {
		return nil, errors.New("razorpay client not configured")
	}
	if req.Amount <= 0 {
		return nil, errors.New("razorpay order amount must be positive")
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode razorpay order: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build razorpay request: %w", err)
	}
	httpReq.SetBasicAuth(c.keyID, c.keySecret)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call razorpay API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, decodeError(resp)
	}
	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("decode razorpay order: %w", err)
	}
	if strings.TrimSpace(order.ID) == "" {
		return nil, errors.New("razorpay API returned an order without id")
	}
	return &order, nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var envelope errorEnvelope
	if json.Unmarshal(raw, &envelope) == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Description = envelope.Error.Description
	}
	return apiErr
}
