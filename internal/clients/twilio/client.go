// Package twilio sends SMS through the Twilio Messages API.
package twilio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	twiliosdk "github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// IndiaPrefix is prepended to bare ten-digit mobile numbers.
const IndiaPrefix = "+91"

// messageCreator is the slice of the Twilio REST API the client uses.
type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// Config holds Twilio account credentials and the sending number.
type Config struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// Enabled reports whether every credential is present.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.AccountSID) != "" &&
		strings.TrimSpace(c.AuthToken) != "" &&
		strings.TrimSpace(c.FromNumber) != ""
}

// Client sends text messages from a single Twilio number.
type Client struct {
	api  messageCreator
	from string
}

// NewClient builds a Twilio REST client from cfg.
func NewClient(cfg Config) (*Client, error) {
	if !cfg.Enabled() {
		return nil, errors.New("twilio account sid, auth token and from number are required")
	}
	rest := twiliosdk.NewRestClientWithParams(twiliosdk.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &Client{api: rest.Api, from: cfg.FromNumber}, nil
}

// SendSMS delivers body to a ten-digit Indian mobile or an E.164 number and returns the message SID.
func (c *Client) SendSMS(ctx context.Context, to, body string) (string, error) {
	if c == nil || c.api == nil {
		return "", errors.New("twilio client not configured")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	params := &openapi.CreateMessageParams{}
	params.SetTo(E164(to))
	params.SetFrom(c.from)
	params.SetBody(body)

	resp, err := c.api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("twilio create message: %w", err)
	}
	if resp == nil || resp.Sid == nil {
		return "", errors.New("twilio returned a message without sid")
	}
	return *resp.Sid, nil
}

// E164 leaves numbers that already carry a country code untouched.
func E164(mobile string) string {
	mobile = strings.TrimSpace(mobile)
	if strings.HasPrefix(mobile, "+") {
		return mobile
	}
	return IndiaPrefix + mobile
}
