package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/husnhira/storefront/internal/domains/orders/application/types"
	"github.com/husnhira/storefront/internal/domains/orders/domain"
	"github.com/husnhira/storefront/internal/domains/orders/ports"
)

const (
	codOrderIDAttempts    = 3
	maxTransitionAttempts = 3
)

// Service orchestrates the checkout and order triage use cases.
type Service struct {
	repo       ports.Repository
	gateway    ports.PaymentGateway
	secret     string
	dispatcher *Dispatcher
	now        func() time.Time
}

type Option func(*Service)

// WithDispatcher routes creation notifications through d.
func WithDispatcher(d *Dispatcher) Option {
	return func(s *Service) {
		if d != nil {
			s.dispatcher = d
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the order store, payment gateway and the gateway's shared signing secret.
func NewService(repo ports.Repository, gateway ports.PaymentGateway, secret string, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		gateway:    gateway,
		secret:     secret,
		dispatcher: NewDispatcher(ports.NoopNotifier),
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) CreatePaymentIntent(ctx context.Context, input types.CheckoutInput) (*types.PaymentIntent, error) {
	if _, err := customerFrom(input); err != nil {
		return nil, mapError(err)
	}
	if s.gateway == nil {
		return nil, fmt.Errorf("%w: gateway not configured", ErrUpstream)
	}
	amount := domain.OnlinePrice(input.Coupon)
	receipt := fmt.Sprintf("receipt_%d", s.now().UnixMilli())
	intent, err := s.gateway.CreateIntent(ctx, amount, receipt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return &types.PaymentIntent{
		IntentID:    intent.ID,
		Amount:      amount,
		AmountPaise: intent.AmountPaise,
		Currency:    intent.Currency,
	}, nil
}

func (s *Service) ConfirmOnlineOrder(ctx context.Context, input types.PaymentConfirmation) (*domain.Order, error) {
	intentID := strings.TrimSpace(input.IntentID)
	paymentRef := strings.TrimSpace(input.PaymentRef)
	signature := strings.TrimSpace(input.Signature)
	if intentID == "" || paymentRef == "" || signature == "" {
		return nil, mapError(ErrMissingPaymentParams)
	}
	customer, err := customerFrom(input.Checkout)
	if err != nil {
		return nil, mapError(err)
	}
	if !domain.VerifySignature(intentID, paymentRef, signature, s.secret) {
		return nil, ErrAuthenticity
	}

	existing, err := s.repo.GetByOrderID(ctx, intentID)
	switch {
	case err == nil:
		return sameConfirmation(existing, paymentRef)
	case !errors.Is(err, ports.ErrNotFound):
		return nil, err
	}

	order, err := domain.NewOnlineOrder(customer, intentID, paymentRef, input.Checkout.Coupon, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Create(ctx, order)
	if errors.Is(err, ports.ErrDuplicateOrder) {
		// A concurrent confirmation won the unique index.
		existing, getErr := s.repo.GetByOrderID(ctx, intentID)
		if getErr != nil {
			return nil, getErr
		}
		return sameConfirmation(existing, paymentRef)
	}
	if err != nil {
		return nil, err
	}
	s.dispatcher.Dispatch(ctx, ports.NotificationFromOrder(saved))
	return saved, nil
}

// sameConfirmation accepts a replay of the payment that created existing.
func sameConfirmation(existing *domain.Order, paymentRef string) (*domain.Order, error) {
	if existing.TransactionID == paymentRef {
		return existing, nil
	}
	return nil, fmt.Errorf("%w: %s", ports.ErrDuplicateOrder, existing.OrderID)
}

func (s *Service) CreateCODOrder(ctx context.Context, input types.CheckoutInput) (*domain.Order, error) {
	customer, err := customerFrom(input)
	if err != nil {
		return nil, mapError(err)
	}
	now := s.now()
	for attempt := 0; attempt < codOrderIDAttempts; attempt++ {
		orderID := domain.NewCODOrderID(now.Add(time.Duration(attempt) * time.Millisecond))
		order, err := domain.NewCODOrder(customer, orderID, input.Coupon, now)
		if err != nil {
			return nil, mapError(err)
		}
		saved, err := s.repo.Create(ctx, order)
		if errors.Is(err, ports.ErrDuplicateOrder) {
			continue
		}
		if err != nil {
			return nil, err
		}
		s.dispatcher.Dispatch(ctx, ports.NotificationFromOrder(saved))
		return saved, nil
	}
	return nil, fmt.Errorf("%w: no free cash order id after %d attempts", ports.ErrDuplicateOrder, codOrderIDAttempts)
}

func (s *Service) Transition(ctx context.Context, id string, target domain.Status) (*domain.Order, error) {
	if !target.Valid() {
		return nil, mapError(domain.ErrInvalidStatus)
	}
	for attempt := 0; attempt < maxTransitionAttempts; attempt++ {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, mapError(err)
		}
		if current.Status == target {
			return current, nil
		}
		if err := current.Status.ValidateTransition(target); err != nil {
			return nil, fmt.Errorf("%w: %s to %s: %w", ErrInvalidTransition, current.Status, target, err)
		}
		updated, err := s.repo.UpdateStatus(ctx, id, current.Status, target)
		if errors.Is(err, ports.ErrStatusConflict) {
			continue
		}
		if err != nil {
			return nil, mapError(err)
		}
		return updated, nil
	}
	return nil, fmt.Errorf("%w: order %s changed during update", ErrInvalidTransition, id)
}

func (s *Service) Cancel(ctx context.Context, id string) (domain.Status, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return "", mapError(err)
	}
	return deleted.Status, nil
}

func (s *Service) DeleteFromHistory(ctx context.Context, id string) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return mapError(err)
	}
	if current.Status != domain.StatusDone {
		return fmt.Errorf("%w: order %s is %s, only done orders leave history", ErrInvalidTransition, id, current.Status)
	}
	_, err = s.repo.Delete(ctx, id)
	return mapError(err)
}

func (s *Service) ClearHistory(ctx context.Context) (int64, error) {
	return s.repo.DeleteByStatus(ctx, domain.StatusDone)
}

func customerFrom(input types.CheckoutInput) (domain.Customer, error) {
	return domain.NewCustomer(input.Name, input.Address, input.Mobile, input.AlternateMobile)
}

var _ ports.Service = (*Service)(nil)
