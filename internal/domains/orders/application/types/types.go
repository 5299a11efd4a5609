package types

import (
	"time"

	"github.com/husnhira/storefront/internal/domains/orders/domain"
)

// CheckoutInput carries the order form.
type CheckoutInput struct {
	Name            string
	Address         string
	Mobile          string
	AlternateMobile string
	Coupon          string
}

// PaymentConfirmation is the gateway callback relayed by the browser.
type PaymentConfirmation struct {
	Checkout   CheckoutInput
	IntentID   string
	PaymentRef string
	Signature  string
}

// PaymentIntent is returned to the checkout widget before payment.
type PaymentIntent struct {
	IntentID    string
	Amount      int
	AmountPaise int64
	Currency    string
}

// OrderListQuery selects one admin tab.
type OrderListQuery struct {
	Status domain.Status
	Search string
	// Date is a calendar day interpreted in domain.Location.
	Date     *time.Time
	Page     int
	PageSize int
}

// RevenueMode picks how chart revenue is computed.
type RevenueMode string

const (
	// RevenueLegacy counts 149 for coupon orders and 249 otherwise.
	RevenueLegacy RevenueMode = "legacy"
	// RevenueRecorded sums the stored order price.
	RevenueRecorded RevenueMode = "recorded"
)

// ParseRevenueMode defaults to legacy for empty input.
func ParseRevenueMode(raw string) (RevenueMode, bool) {
	switch RevenueMode(raw) {
	case "", RevenueLegacy:
		return RevenueLegacy, true
	case RevenueRecorded:
		return RevenueRecorded, true
	default:
		return "", false
	}
}

// ChartData is the per-day aggregation shown above each tab.
type ChartData struct {
	Labels      []string `json:"labels"`
	OrderCounts []int    `json:"orderCounts"`
	Revenue     []int    `json:"revenue"`
}
