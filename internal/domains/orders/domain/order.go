package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrMissingOrderID       = errors.New("order id is required")
	ErrMissingTransactionID = errors.New("transaction id is required")
	ErrInvalidPrice         = errors.New("price must be greater than zero")
	ErrCODTransaction       = errors.New("transaction id does not match payment method")
)

// Order is the persisted storefront order aggregate.
type Order struct {
	// ID is assigned by the store.
	ID            string
	OrderID       string
	TransactionID string
	Customer      Customer
	Coupon        string
	Price         int
	PaymentMethod PaymentMethod
	Status        Status
	CreatedAt     time.Time
}

// NewOnlineOrder builds a pending order for a verified gateway payment.
func NewOnlineOrder(customer Customer, orderRef, paymentRef, coupon string, now time.Time) (*Order, error) {
	order := &Order{
		OrderID:       strings.TrimSpace(orderRef),
		TransactionID: strings.TrimSpace(paymentRef),
		Customer:      customer,
		Coupon:        NormalizeCoupon(coupon),
		Price:         OnlinePrice(coupon),
		PaymentMethod: PaymentOnline,
		Status:        StatusPending,
		CreatedAt:     now.UTC(),
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// NewCODOrder builds a pending cash-on-delivery order.
func NewCODOrder(customer Customer, orderID, coupon string, now time.Time) (*Order, error) {
	order := &Order{
		OrderID:       orderID,
		TransactionID: CODTransactionID,
		Customer:      customer,
		Coupon:        NormalizeCoupon(coupon),
		Price:         CODPrice(coupon),
		PaymentMethod: PaymentCOD,
		Status:        StatusPending,
		CreatedAt:     now.UTC(),
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.OrderID == "" {
		return ErrMissingOrderID
	}
	if o.TransactionID == "" {
		return ErrMissingTransactionID
	}
	if err := o.Customer.Validate(); err != nil {
		return err
	}
	if o.Price <= 0 {
		return ErrInvalidPrice
	}
	if !o.PaymentMethod.Valid() {
		return ErrInvalidPaymentMethod
	}
	if (o.PaymentMethod == PaymentCOD) != (o.TransactionID == CODTransactionID) {
		return ErrCODTransaction
	}
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// CouponApplied reports whether the order was priced with the coupon.
func (o *Order) CouponApplied() bool {
	return CouponApplied(o.Coupon)
}

// CreatedAtLocal returns the creation instant in the display offset.
func (o *Order) CreatedAtLocal() time.Time {
	return o.CreatedAt.In(Location)
}
