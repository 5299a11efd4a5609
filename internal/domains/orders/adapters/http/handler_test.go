package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/husnhira/storefront/internal/domains/orders/adapters/memory"
	"github.com/husnhira/storefront/internal/domains/orders/application"
	"github.com/husnhira/storefront/internal/domains/orders/domain"
	"github.com/husnhira/storefront/internal/domains/orders/ports"
	"github.com/husnhira/storefront/internal/shared/httpx"
)

const testSecret = "rzp_test_secret"

type stubGateway struct{}

func (stubGateway) CreateIntent(_ context.Context, amountRupees int, receipt string) (*ports.PaymentIntent, error) {
	return &ports.PaymentIntent{ID: "order_Q1", AmountPaise: int64(amountRupees) * 100, Currency: "INR", Receipt: receipt}, nil
}

type harness struct {
	router *gin.Engine
	repo   *memory.Repository
	now    time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, httpx.RegisterValidators())
	h := &harness{
		repo: memory.NewRepository(),
		now:  time.Date(2024, 5, 1, 10, 0, 0, 0, domain.Location),
	}
	clock := func() time.Time { return h.now }
	svc := application.NewService(h.repo, stubGateway{}, testSecret, application.WithClock(clock))
	api := NewOrdersAPI(svc, "rzp_test_key", WithClock(clock))
	h.router = gin.New()
	api.RegisterCheckout(h.router.Group("/api"))
	api.RegisterAdmin(h.router.Group(adminBasePath))
	return h
}

func (h *harness) do(method, path, body string, jsonClient bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", gin.MIMEJSON)
	}
	if jsonClient {
		req.Header.Set("Accept", gin.MIMEJSON)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

const checkoutForm = `"name":"Asha Verma","address":"12 Lake Road, Pune 411001","mobile_number":"9876543210"`

func TestCreateOrder(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/api/createOrder", `{`+checkoutForm+`,"coupon":" husn40 "}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.Equal(t, true, body["success"])
	require.Equal(t, "order_Q1", body["intentId"])
	require.Equal(t, "order_Q1", body["id"])
	require.EqualValues(t, 149, body["amount"])
	require.EqualValues(t, 14900, body["amountPaise"])
	require.Equal(t, "rzp_test_key", body["key"])

	rec = h.do(http.MethodPost, "/api/createOrder", `{"name":"Asha Verma","address":"12 Lake Road, Pune","mobile_number":"98765"}`, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body = decode(t, rec)
	require.Equal(t, false, body["success"])
	require.Equal(t, "mobile_number must be 10 digits", body["msg"])
}

func TestVerifyPayment(t *testing.T) {
	h := newHarness(t)
	signature := domain.Sign("order_Q1", "pay_9", testSecret)

	rec := h.do(http.MethodPost, "/api/verifyPayment",
		`{`+checkoutForm+`,"order_id":"order_Q1","payment_id":"pay_9","signature":"deadbeef"}`, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid payment signature", decode(t, rec)["msg"])

	rec = h.do(http.MethodPost, "/api/verifyPayment", `{`+checkoutForm+`,"order_id":"order_Q1"}`, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Missing payment verification parameters", decode(t, rec)["msg"])

	payload := `{` + checkoutForm + `,"order_id":"order_Q1","payment_id":"pay_9","signature":"` + signature + `"}`
	for i := 0; i < 2; i++ {
		rec = h.do(http.MethodPost, "/api/verifyPayment", payload, true)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		require.Equal(t, true, body["success"])
		require.Equal(t, "order_Q1", body["orderId"])
	}
	stored, err := h.repo.Find(context.Background(), ports.Query{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, 249, stored[0].Price)
}

func TestCreateCODOrder(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodPost, "/api/cod-order",
		`{"name":"Asha Verma","address":"12 Lake Road, Pune 411001","mobile":"9876543210","altNumber":"","coupon":"HUSN40"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.Equal(t, "COD order placed successfully", body["msg"])
	require.EqualValues(t, 189, body["price"])
	require.Regexp(t, `^HH\d{6}$`, body["orderId"])

	rec = h.do(http.MethodPost, "/api/cod-order", `{"name":"Asha Verma","mobile":"9876543210"}`, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "address is required", decode(t, rec)["msg"])
}

func (h *harness) seed(t *testing.T, orderID string, status domain.Status, at time.Time) *domain.Order {
	t.Helper()
	customer, err := domain.NewCustomer("Asha Verma", "12 Lake Road, Pune 411001", "9876543210", "")
	require.NoError(t, err)
	order, err := domain.NewCODOrder(customer, orderID, "", at)
	require.NoError(t, err)
	saved, err := h.repo.Create(context.Background(), order)
	require.NoError(t, err)
	if status != domain.StatusPending {
		saved, err = h.repo.UpdateStatus(context.Background(), saved.ID, domain.StatusPending, status)
		require.NoError(t, err)
	}
	return saved
}

func TestDashboardTabs(t *testing.T) {
	h := newHarness(t)
	day := time.Date(2024, 5, 1, 0, 30, 0, 0, domain.Location)
	h.seed(t, "HH000001", domain.StatusPending, day)
	h.seed(t, "HH000002", domain.StatusPending, day.Add(-time.Hour))
	h.seed(t, "HH000003", domain.StatusDelivering, day)

	rec := h.do(http.MethodGet, adminBasePath+"/dashboard?date=2024-05-01", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.Equal(t, "pending", body["currentTab"])
	require.Equal(t, "2024-05-01", body["selectedDate"])
	orders := body["orders"].([]any)
	require.Len(t, orders, 1)
	require.Equal(t, "HH000001", orders[0].(map[string]any)["orderId"])
	chart := body["chartData"].(map[string]any)
	require.Equal(t, []any{"2024-04-30", "2024-05-01"}, chart["labels"])

	rec = h.do(http.MethodGet, adminBasePath+"/delivering?search=hh000003", "", true)
	require.Len(t, decode(t, rec)["orders"].([]any), 1)

	rec = h.do(http.MethodGet, adminBasePath+"/dashboard?date=01-05-2024", "", true)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodGet, adminBasePath+"/history?page=-1", "", true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusActions_RedirectBrowsers(t *testing.T) {
	h := newHarness(t)
	order := h.seed(t, "HH000010", domain.StatusPending, h.now)

	rec := h.do(http.MethodPost, adminBasePath+"/deliver/"+order.ID, "", false)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, adminBasePath+"/dashboard", rec.Header().Get("Location"))

	rec = h.do(http.MethodPost, adminBasePath+"/delete/"+order.ID, "", true)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = h.do(http.MethodPost, adminBasePath+"/done/"+order.ID, "", false)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, adminBasePath+"/delivering", rec.Header().Get("Location"))

	rec = h.do(http.MethodPost, adminBasePath+"/deliver/"+order.ID, "", true)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = h.do(http.MethodPost, adminBasePath+"/cancel/"+order.ID, "", false)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, adminBasePath+"/history", rec.Header().Get("Location"))

	rec = h.do(http.MethodPost, adminBasePath+"/cancel/"+order.ID, "", true)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(http.MethodPost, adminBasePath+"/cancel/not-an-id", "", true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelAndClearHistory_JSONClients(t *testing.T) {
	h := newHarness(t)
	delivering := h.seed(t, "HH000020", domain.StatusDelivering, h.now)
	h.seed(t, "HH000021", domain.StatusDone, h.now)
	h.seed(t, "HH000022", domain.StatusDone, h.now)

	rec := h.do(http.MethodPost, adminBasePath+"/cancel/"+delivering.ID, "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "delivering", decode(t, rec)["previousStatus"])

	rec = h.do(http.MethodPost, adminBasePath+"/clear-history", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.EqualValues(t, 2, decode(t, rec)["deleted"])
}

func TestChartData(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "HH000030", domain.StatusPending, h.now)

	rec := h.do(http.MethodGet, adminBasePath+"/chart-data?mode=recorded", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.Equal(t, []any{float64(289)}, body["revenue"])

	rec = h.do(http.MethodGet, adminBasePath+"/chart-data", "", true)
	require.Equal(t, []any{float64(249)}, decode(t, rec)["revenue"])

	rec = h.do(http.MethodGet, adminBasePath+"/chart-data?status=shipped", "", true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	rec = h.do(http.MethodGet, adminBasePath+"/chart-data?mode=gross", "", true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExports(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, adminBasePath+"/export/csv?type=done", "", false)
	require.Equal(t, http.StatusNotFound, rec.Code)

	h.seed(t, "HH000040", domain.StatusDelivering, h.now)
	h.seed(t, "HH000041", domain.StatusPending, h.now)

	rec = h.do(http.MethodGet, adminBasePath+"/export/csv?type=delivered", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Disposition"), "orders-delivered-20240501-100000.csv")
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[1], "HH000040")

	rec = h.do(http.MethodGet, adminBasePath+"/export/excel/all", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	wb, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	rows, err := wb.GetRows("Orders")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	rec = h.do(http.MethodGet, adminBasePath+"/export/excel/pending", "", false)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
