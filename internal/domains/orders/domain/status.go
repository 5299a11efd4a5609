package domain

import (
	"errors"
	"strings"
)

// Status enumerates order progression on the admin tabs.
type Status string

const (
	StatusPending    Status = "pending"
	StatusDelivering Status = "delivering"
	StatusDone       Status = "done"
)

// PaymentMethod records how the customer pays.
type PaymentMethod string

const (
	PaymentOnline PaymentMethod = "Online"
	PaymentCOD    PaymentMethod = "COD"
)

// CODTransactionID marks cash orders that carry no gateway payment.
const CODTransactionID = "COD"

var (
	ErrInvalidStatus        = errors.New("order status is invalid")
	ErrInvalidPaymentMethod = errors.New("payment method is invalid")
	ErrStatusRegression     = errors.New("order status cannot move backwards")
)

// ParseStatus accepts a status name in any letter case.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// Valid reports whether s is one of the known states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusDelivering, StatusDone:
		return true
	default:
		return false
	}
}

func (s Status) rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusDelivering:
		return 1
	case StatusDone:
		return 2
	default:
		return -1
	}
}

// ValidateTransition checks that target is reachable from s. Staying in place
// is accepted and pending may move straight to done.
func (s Status) ValidateTransition(target Status) error {
	if !s.Valid() || !target.Valid() {
		return ErrInvalidStatus
	}
	if target.rank() < s.rank() {
		return ErrStatusRegression
	}
	return nil
}

// Valid reports whether m is a supported payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentOnline || m == PaymentCOD
}
