package ports

import (
	"context"
	"errors"
	"time"

	"github.com/husnhira/storefront/internal/domains/orders/domain"
)

var (
	ErrNotFound       = errors.New("order not found")
	ErrDuplicateOrder = errors.New("order id already exists")
	ErrInvalidID      = errors.New("order record id is malformed")
	// ErrStatusConflict means the stored status no longer matches the expected one.
	ErrStatusConflict = errors.New("order status changed concurrently")
)

// Query narrows Find results. Nil fields do not filter.
type Query struct {
	Status *domain.Status
	// Search is a literal, case-insensitive substring matched against
	// name, mobile number, order id and transaction id.
	Search      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Offset      int
	Limit       int
}

// Repository persists orders. Implementations enforce a unique orderId.
type Repository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error)
	// UpdateStatus moves id from one status to another and fails with
	// ErrStatusConflict when the stored status is not from.
	UpdateStatus(ctx context.Context, id string, from, to domain.Status) (*domain.Order, error)
	// Delete removes id and returns the record as it was.
	Delete(ctx context.Context, id string) (*domain.Order, error)
	DeleteByStatus(ctx context.Context, status domain.Status) (int64, error)
	// Find returns matches newest first.
	Find(ctx context.Context, query Query) ([]*domain.Order, error)
}
