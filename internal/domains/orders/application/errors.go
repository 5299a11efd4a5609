package application

import (
	"errors"
	"fmt"

	"github.com/husnhira/storefront/internal/domains/orders/domain"
	"github.com/husnhira/storefront/internal/domains/orders/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrMissingPaymentParams is returned before any hashing takes place.
	ErrMissingPaymentParams = errors.New("missing payment verification parameters")
	// ErrAuthenticity means the payment signature did not verify. Never retried.
	ErrAuthenticity = errors.New("invalid payment signature")
	// ErrUpstream wraps failures of the payment gateway.
	ErrUpstream = errors.New("payment gateway unavailable")
	// ErrInvalidTransition rejects status regressions and history deletes of open orders.
	ErrInvalidTransition = errors.New("invalid order status transition")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidName) ||
		errors.Is(err, domain.ErrInvalidAddress) ||
		errors.Is(err, domain.ErrInvalidMobile) ||
		errors.Is(err, domain.ErrInvalidAlternateMobile) ||
		errors.Is(err, domain.ErrInvalidStatus) ||
		errors.Is(err, domain.ErrMissingOrderID) ||
		errors.Is(err, domain.ErrMissingTransactionID) ||
		errors.Is(err, ErrMissingPaymentParams) ||
		errors.Is(err, ports.ErrInvalidID) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
