package twilio

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type fakeCreator struct {
	params *openapi.CreateMessageParams
	err    error
}

func (f *fakeCreator) CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	sid := "SM123"
	return &openapi.ApiV2010Message{Sid: &sid}, nil
}

func TestClient_SendSMS(t *testing.T) {
	fake := &fakeCreator{}
	client := &Client{api: fake, from: "+15005550006"}

	sid, err := client.SendSMS(context.Background(), "9876543210", "hello")
	require.NoError(t, err)
	require.Equal(t, "SM123", sid)
	require.Equal(t, "+919876543210", *fake.params.To)
	require.Equal(t, "+15005550006", *fake.params.From)
	require.Equal(t, "hello", *fake.params.Body)
}

func TestClient_SendSMSError(t *testing.T) {
	client := &Client{api: &fakeCreator{err: errors.New("unverified number")}, from: "+15005550006"}
	_, err := client.SendSMS(context.Background(), "9876543210", "hello")
	require.ErrorContains(t, err, "unverified number")
}

func TestE164(t *testing.T) {
	require.Equal(t, "+919876543210", E164(" 9876543210 "))
	require.Equal(t, "+447700900123", E164("+447700900123"))
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient(Config{AccountSID: "AC1", AuthToken: "tok"})
	require.Error(t, err)
	client, err := NewClient(Config{AccountSID: "AC1", AuthToken: "tok", FromNumber: "+15005550006"})
	require.NoError(t, err)
	require.NotNil(t, client)
}
