package mapper

import (
	"time"

	"github.com/husnhira/storefront/internal/domains/orders/application/types"
	"github.com/husnhira/storefront/internal/domains/orders/domain"
)

// CheckoutRequest is the order form posted by the storefront before payment.
type CheckoutRequest struct {
	Name            string `json:"name" form:"name" binding:"required,min=3"`
	Address         string `json:"address" form:"address" binding:"required,min=10"`
	MobileNumber    string `json:"mobile_number" form:"mobile_number" binding:"required,mobile"`
	AlternateNumber string `json:"alternate_number" form:"alternate_number" binding:"omitempty,mobile"`
	Coupon          string `json:"coupon" form:"coupon"`
}

// PaymentVerificationRequest relays the gateway callback together with the order form.
type PaymentVerificationRequest struct {
	CheckoutRequest
	OrderID   string `json:"order_id" form:"order_id"`
	PaymentID string `json:"payment_id" form:"payment_id"`
	Signature string `json:"signature" form:"signature"`
}

// CODRequest is the cash-on-delivery form. Its field names predate the online checkout.
type CODRequest struct {
	Name      string `json:"name" form:"name" binding:"required,min=3"`
	Address   string `json:"address" form:"address" binding:"required,min=10"`
	Mobile    string `json:"mobile" form:"mobile" binding:"required,mobile"`
	AltNumber string `json:"altNumber" form:"altNumber" binding:"omitempty,mobile"`
	Coupon    string `json:"coupon" form:"coupon"`
}

func ToCheckoutInput(req CheckoutRequest) types.CheckoutInput {
	return types.CheckoutInput{
		Name:            req.Name,
		Address:         req.Address,
		Mobile:          req.MobileNumber,
		AlternateMobile: req.AlternateNumber,
		Coupon:          req.Coupon,
	}
}

func ToPaymentConfirmation(req PaymentVerificationRequest) types.PaymentConfirmation {
	return types.PaymentConfirmation{
		Checkout:   ToCheckoutInput(req.CheckoutRequest),
		IntentID:   req.OrderID,
		PaymentRef: req.PaymentID,
		Signature:  req.Signature,
	}
}

func CODToCheckoutInput(req CODRequest) types.CheckoutInput {
	return types.CheckoutInput{
		Name:            req.Name,
		Address:         req.Address,
		Mobile:          req.Mobile,
		AlternateMobile: req.AltNumber,
		Coupon:          req.Coupon,
	}
}

// IntentResponse is what the checkout widget needs to open the gateway.
type IntentResponse struct {
	Success     bool   `json:"success"`
	IntentID    string `json:"intentId"`
	ID          string `json:"id"`
	Amount      int    `json:"amount"`
	AmountPaise int64  `json:"amountPaise"`
	Currency    string `json:"currency"`
	Key         string `json:"key"`
}

// FromIntent keeps the gateway's "id" field alongside intentId for older widgets.
func FromIntent(intent *types.PaymentIntent, key string) IntentResponse {
	return IntentResponse{
		Success:     true,
		IntentID:    intent.IntentID,
		ID:          intent.IntentID,
		Amount:      intent.Amount,
		AmountPaise: intent.AmountPaise,
		Currency:    intent.Currency,
		Key:         key,
	}
}

// Order is the admin view of a stored order.
type Order struct {
	ID              string    `json:"id"`
	OrderID         string    `json:"orderId"`
	TransactionID   string    `json:"transactionId"`
	Name            string    `json:"name"`
	Address         string    `json:"address"`
	MobileNumber    string    `json:"mobile_number"`
	AlternateNumber string    `json:"alternate_number,omitempty"`
	Coupon          string    `json:"coupon,omitempty"`
	Price           int       `json:"price"`
	PaymentMethod   string    `json:"paymentMethod"`
	Status          string    `json:"status"`
	Date            time.Time `json:"date"`
}

func FromDomainOrder(order *domain.Order) Order {
	if order == nil {
		return Order{}
	}
	return Order{
		ID:              order.ID,
		OrderID:         order.OrderID,
		TransactionID:   order.TransactionID,
		Name:            order.Customer.Name,
		Address:         order.Customer.Address,
		MobileNumber:    order.Customer.Mobile,
		AlternateNumber: order.Customer.AlternateMobile,
		Coupon:          order.Coupon,
		Price:           order.Price,
		PaymentMethod:   string(order.PaymentMethod),
		Status:          string(order.Status),
		Date:            order.CreatedAtLocal(),
	}
}

func FromDomainOrders(orders []*domain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, order := range orders {
		out = append(out, FromDomainOrder(order))
	}
	return out
}

// DashboardView is the model behind one admin tab.
type DashboardView struct {
	Orders       []Order          `json:"orders"`
	CurrentTab   string           `json:"currentTab"`
	Search       string           `json:"search"`
	SelectedDate string           `json:"selectedDate"`
	ChartData    *types.ChartData `json:"chartData"`
}
