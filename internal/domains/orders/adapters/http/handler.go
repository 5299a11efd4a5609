// Package http exposes checkout and admin order routes over gin.
package http

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/husnhira/storefront/internal/domains/orders/adapters/export"
	"github.com/husnhira/storefront/internal/domains/orders/adapters/http/mapper"
	"github.com/husnhira/storefront/internal/domains/orders/application"
	"github.com/husnhira/storefront/internal/domains/orders/application/types"
	"github.com/husnhira/storefront/internal/domains/orders/domain"
	"github.com/husnhira/storefront/internal/domains/orders/ports"
	apierrors "github.com/husnhira/storefront/internal/shared/errors"
	"github.com/husnhira/storefront/internal/shared/httpx"
)

const adminBasePath = "/admin-portal-1024"

var tabPaths = map[domain.Status]string{
	domain.StatusPending:    adminBasePath + "/dashboard",
	domain.StatusDelivering: adminBasePath + "/delivering",
	domain.StatusDone:       adminBasePath + "/history",
}

// OrdersAPI wires HTTP transport with the orders service.
type OrdersAPI struct {
	service   ports.Service
	keyID     string
	revenue   types.RevenueMode
	responder *apierrors.ChainedResponder
	now       func() time.Time
}

type Option func(*OrdersAPI)

// WithRevenueMode sets the chart revenue mode used when a request does not pick one.
func WithRevenueMode(mode types.RevenueMode) Option {
	return func(api *OrdersAPI) {
		if mode != "" {
			api.revenue = mode
		}
	}
}

// WithClock overrides time.Now for export file names.
func WithClock(now func() time.Time) Option {
	return func(api *OrdersAPI) {
		if now != nil {
			api.now = now
		}
	}
}

// NewOrdersAPI creates an OrdersAPI. keyID is the public gateway key handed to the checkout widget.
func NewOrdersAPI(service ports.Service, keyID string, opts ...Option) *OrdersAPI {
	api := &OrdersAPI{
		service:   service,
		keyID:     keyID,
		revenue:   types.RevenueLegacy,
		responder: apierrors.NewChainedResponder(mapError),
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

func mapError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, application.ErrAuthenticity):
		return apierrors.ErrPaymentAuthenticity, true
	case errors.Is(err, application.ErrMissingPaymentParams):
		return apierrors.ErrBadRequest.WithMsg("Missing payment verification parameters"), true
	case errors.Is(err, ports.ErrInvalidID):
		return apierrors.ErrBadRequest.WithMsg("Invalid order ID"), true
	case errors.Is(err, application.ErrInvalidInput):
		return apierrors.ErrValidation.WithMsg("Invalid order details").WithDetail(err.Error()), true
	case errors.Is(err, ports.ErrNotFound):
		return apierrors.ErrNotFound.WithMsg("Order not found"), true
	case errors.Is(err, application.ErrInvalidTransition):
		return apierrors.ErrConflict.WithMsg("Order cannot move to that status"), true
	case errors.Is(err, ports.ErrDuplicateOrder):
		return apierrors.ErrConflict.WithMsg("Order already exists"), true
	case errors.Is(err, application.ErrUpstream):
		return apierrors.ErrInternal.WithMsg("Failed to create payment order"), true
	default:
		return apierrors.ProblemDetail{}, false
	}
}

// RegisterCheckout mounts the storefront routes, normally on /api.
func (api *OrdersAPI) RegisterCheckout(group gin.IRoutes) {
	group.POST("/createOrder", api.CreateOrder)
	group.POST("/verifyPayment", api.VerifyPayment)
	group.POST("/cod-order", api.CreateCODOrder)
}

// RegisterAdmin mounts the triage routes on a group that is already guarded.
func (api *OrdersAPI) RegisterAdmin(group gin.IRoutes, exportMiddleware ...gin.HandlerFunc) {
	group.GET("/dashboard", api.tab(domain.StatusPending))
	group.GET("/delivering", api.tab(domain.StatusDelivering))
	group.GET("/history", api.tab(domain.StatusDone))

	group.POST("/cancel/:id", api.CancelOrder)
	group.POST("/deliver/:id", api.transition(domain.StatusDelivering, tabPaths[domain.StatusPending]))
	group.POST("/done/:id", api.transition(domain.StatusDone, tabPaths[domain.StatusDelivering]))
	group.POST("/delete/:id", api.DeleteFromHistory)
	group.POST("/clear-history", api.ClearHistory)

	group.GET("/chart-data", api.GetChartData)
	withExport := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, exportMiddleware...), h)
	}
	group.GET("/export/csv", withExport(api.ExportCSV)...)
	group.GET("/export/excel/:scope", withExport(api.ExportExcel)...)
}

// Post /api/createOrder
// Creates a payment intent for the order form
func (api *OrdersAPI) CreateOrder(c *gin.Context) {
	var payload mapper.CheckoutRequest
	if err := c.ShouldBind(&payload); err != nil {
		apierrors.Respond(c, httpx.BindingProblem(err))
		return
	}
	intent, err := api.service.CreatePaymentIntent(c.Request.Context(), mapper.ToCheckoutInput(payload))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromIntent(intent, api.keyID))
}

// Post /api/verifyPayment
// Verifies the gateway signature and records the paid order
func (api *OrdersAPI) VerifyPayment(c *gin.Context) {
	var payload mapper.PaymentVerificationRequest
	if err := c.ShouldBind(&payload); err != nil {
		apierrors.Respond(c, httpx.BindingProblem(err))
		return
	}
	order, err := api.service.ConfirmOnlineOrder(c.Request.Context(), mapper.ToPaymentConfirmation(payload))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"msg":     "Payment verified and order saved",
		"orderId": order.OrderID,
	})
}

// Post /api/cod-order
// Places a cash-on-delivery order
func (api *OrdersAPI) CreateCODOrder(c *gin.Context) {
	var payload mapper.CODRequest
	if err := c.ShouldBind(&payload); err != nil {
		apierrors.Respond(c, httpx.BindingProblem(err))
		return
	}
	order, err := api.service.CreateCODOrder(c.Request.Context(), mapper.CODToCheckoutInput(payload))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"msg":     "COD order placed successfully",
		"orderId": order.OrderID,
		"price":   order.Price,
	})
}

// Get /admin-portal-1024/{dashboard,delivering,history}
func (api *OrdersAPI) tab(status domain.Status) gin.HandlerFunc {
	return func(c *gin.Context) {
		query, ok := api.listQuery(c, status)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		orders, err := api.service.ListOrders(ctx, query)
		if err != nil {
			api.responder.RespondError(c, err)
			return
		}
		chart, err := api.service.ChartData(ctx, &status, api.revenue)
		if err != nil {
			api.responder.RespondError(c, err)
			return
		}
		view := mapper.DashboardView{
			Orders:     mapper.FromDomainOrders(orders),
			CurrentTab: string(status),
			Search:     query.Search,
			ChartData:  chart,
		}
		if query.Date != nil {
			view.SelectedDate = query.Date.Format(domain.DayLayout)
		}
		c.JSON(http.StatusOK, view)
	}
}

func (api *OrdersAPI) listQuery(c *gin.Context, status domain.Status) (types.OrderListQuery, bool) {
	query := types.OrderListQuery{Status: status, Search: c.Query("search")}
	var date *openapi_types.Date
	if c.Query("date") != "" {
		if err := runtime.BindQueryParameter("form", true, false, "date", c.Request.URL.Query(), &date); err != nil {
			apierrors.Respond(c, apierrors.ErrBadRequest.WithMsg("date must be YYYY-MM-DD").WithDetail(err.Error()))
			return query, false
		}
	}
	if date != nil {
		day, _ := domain.DayRange(date.Time)
		query.Date = &day
	}
	var ok bool
	if query.Page, ok = intQuery(c, "page"); !ok {
		return query, false
	}
	if query.PageSize, ok = intQuery(c, "page_size"); !ok {
		return query, false
	}
	return query, true
}

func intQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithMsg(name+" must be a non-negative integer"))
		return 0, false
	}
	return value, true
}

// Post /admin-portal-1024/cancel/:id
// Deletes an order from any tab and returns to the tab it was on
func (api *OrdersAPI) CancelOrder(c *gin.Context) {
	prior, err := api.service.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	api.done(c, tabPaths[prior], gin.H{"success": true, "msg": "Order cancelled", "previousStatus": prior})
}

func (api *OrdersAPI) transition(target domain.Status, redirect string) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := api.service.Transition(c.Request.Context(), c.Param("id"), target)
		if err != nil {
			api.responder.RespondError(c, err)
			return
		}
		api.done(c, redirect, gin.H{"success": true, "msg": "Order status updated", "order": mapper.FromDomainOrder(order)})
	}
}

// Post /admin-portal-1024/delete/:id
// Removes a completed order from history
func (api *OrdersAPI) DeleteFromHistory(c *gin.Context) {
	if err := api.service.DeleteFromHistory(c.Request.Context(), c.Param("id")); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	api.done(c, tabPaths[domain.StatusDone], gin.H{"success": true, "msg": "Order deleted from history"})
}

// Post /admin-portal-1024/clear-history
func (api *OrdersAPI) ClearHistory(c *gin.Context) {
	removed, err := api.service.ClearHistory(c.Request.Context())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	api.done(c, tabPaths[domain.StatusDone], gin.H{"success": true, "msg": "History cleared", "deleted": removed})
}

// done answers an admin action: JSON clients get body, browsers go back to a tab.
func (api *OrdersAPI) done(c *gin.Context, redirect string, body gin.H) {
	if httpx.WantsJSON(c) {
		c.JSON(http.StatusOK, body)
		return
	}
	c.Redirect(http.StatusSeeOther, redirect)
}

// Get /admin-portal-1024/chart-data
func (api *OrdersAPI) GetChartData(c *gin.Context) {
	var status *domain.Status
	if raw := c.Query("status"); raw != "" {
		parsed, err := domain.ParseStatus(raw)
		if err != nil {
			apierrors.Respond(c, apierrors.ErrBadRequest.WithMsg("Unknown order status"))
			return
		}
		status = &parsed
	}
	mode := api.revenue
	if raw := c.Query("mode"); raw != "" {
		parsed, ok := types.ParseRevenueMode(raw)
		if !ok {
			apierrors.Respond(c, apierrors.ErrBadRequest.WithMsg("mode must be legacy or recorded"))
			return
		}
		mode = parsed
	}
	chart, err := api.service.ChartData(c.Request.Context(), status, mode)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chart)
}

// Get /admin-portal-1024/export/csv?type=
// type=delivered exports delivering orders, type=done completed ones, anything else all orders.
func (api *OrdersAPI) ExportCSV(c *gin.Context) {
	var status *domain.Status
	scope := "all"
	switch c.Query("type") {
	case "delivered":
		s := domain.StatusDelivering
		status, scope = &s, "delivered"
	case "done":
		s := domain.StatusDone
		status, scope = &s, "done"
	}
	orders, err := api.service.ExportOrders(c.Request.Context(), status)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	if len(orders) == 0 {
		apierrors.Respond(c, apierrors.ErrNotFound.WithMsg("No orders found to export"))
		return
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, orders); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.Header("Content-Disposition", attachment(export.FileName(scope, "csv", api.now())))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Get /admin-portal-1024/export/excel/:scope
// scope is all, delivering or history.
func (api *OrdersAPI) ExportExcel(c *gin.Context) {
	var status *domain.Status
	scope := c.Param("scope")
	switch scope {
	case "all":
	case "delivering":
		s := domain.StatusDelivering
		status = &s
	case "history":
		s := domain.StatusDone
		status = &s
	default:
		apierrors.Respond(c, apierrors.ErrBadRequest.WithMsg("Unknown export scope"))
		return
	}
	orders, err := api.service.ExportOrders(c.Request.Context(), status)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, orders); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.Header("Content-Disposition", attachment(export.FileName(scope, "xlsx", api.now())))
	c.Data(http.StatusOK, export.XLSXContentType, buf.Bytes())
}

func attachment(name string) string {
	return `attachment; filename="` + name + `"`
}
