//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"

	"github.com/husnhira/storefront/internal/app/api"
	adminhttp "github.com/husnhira/storefront/internal/domains/admin/adapters/http"
	adminmemory "github.com/husnhira/storefront/internal/domains/admin/adapters/memory"
	adminapp "github.com/husnhira/storefront/internal/domains/admin/application"
	ordershttp "github.com/husnhira/storefront/internal/domains/orders/adapters/http"
	ordersmemory "github.com/husnhira/storefront/internal/domains/orders/adapters/memory"
	ordersobs "github.com/husnhira/storefront/internal/domains/orders/adapters/observability"
	ordersapp "github.com/husnhira/storefront/internal/domains/orders/application"
	"github.com/husnhira/storefront/internal/domains/orders/domain"
	"github.com/husnhira/storefront/internal/domains/orders/ports"
	otphttp "github.com/husnhira/storefront/internal/domains/otp/adapters/http"
	otpmemory "github.com/husnhira/storefront/internal/domains/otp/adapters/memory"
	otpapp "github.com/husnhira/storefront/internal/domains/otp/application"
	pacttest "github.com/husnhira/storefront/test/pact"
)

func TestStorefrontProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	reset := func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
		app.resetOrders(t)
		return nil, nil
	}
	verifier := pactprovider.NewVerifier()
	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers: models.StateHandlers{
			pacttest.StateOrdersBaseline: reset,
			pacttest.StateIntentReady:    reset,
			pacttest.StateOTPReady:       reset,
		},
		BeforeEach: func() error {
			app.resetOrders(t)
			return nil
		},
	})
	require.NoError(t, err)
}

type fixedGateway struct{}

func (fixedGateway) CreateIntent(_ context.Context, amountRupees int, receipt string) (*ports.PaymentIntent, error) {
	return &ports.PaymentIntent{
		ID:          pacttest.IntentID,
		AmountPaise: int64(amountRupees) * 100,
		Currency:    "INR",
		Receipt:     receipt,
	}, nil
}

type discardSMS struct{}

func (discardSMS) SendSMS(context.Context, string, string) (string, error) { return "SMpact", nil }

type contractProviderApp struct {
	repo   *ordersmemory.Repository
	server *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	repo := ordersmemory.NewRepository()
	orders := ordersobs.New(ordersapp.NewService(repo, fixedGateway{}, pacttest.GatewaySecret))
	admin, err := adminapp.NewService(adminapp.Credentials{
		Username: "pact-admin",
		Password: "pact-password",
		Secret:   []byte("pact-session-secret-0123"),
	}, adminmemory.NewSessionStore())
	require.NoError(t, err)

	router, err := api.NewRouter("husnhira-api-pact", api.Handlers{
		Orders: ordershttp.NewOrdersAPI(orders, pacttest.GatewayKeyID),
		Admin:  adminhttp.NewHandler(admin),
		OTP:    otphttp.NewHandler(otpapp.NewService(otpmemory.NewStore(), discardSMS{})),
	}, nil)
	require.NoError(t, err)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &contractProviderApp{repo: repo, server: server}
}

func (a *contractProviderApp) resetOrders(t testing.TB) {
	t.Helper()
	ctx := context.Background()
	for _, status := range []domain.Status{domain.StatusPending, domain.StatusDelivering, domain.StatusDone} {
		_, err := a.repo.DeleteByStatus(ctx, status)
		require.NoError(t, err)
	}
}
