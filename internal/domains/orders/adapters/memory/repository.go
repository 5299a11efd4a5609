package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/husnhira/storefront/internal/domains/orders/domain"
	"github.com/husnhira/storefront/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter with a unique orderId index.
type Repository struct {
	mu        sync.RWMutex
	orders    map[string]*domain.Order
	byOrderID map[string]string
}

func NewRepository() *Repository {
	return &Repository{
		orders:    map[string]*domain.Order{},
		byOrderID: map[string]string{},
	}
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := *order
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byOrderID[clone.OrderID]; taken {
		return nil, ports.ErrDuplicateOrder
	}
	clone.ID = uuid.NewString()
	r.orders[clone.ID] = &clone
	r.byOrderID[clone.OrderID] = clone.ID
	out := clone
	return &out, nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ports.ErrInvalidID
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *order
	return &clone, nil
}

func (r *Repository) GetByOrderID(_ context.Context, orderID string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byOrderID[orderID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *r.orders[id]
	return &clone, nil
}

func (r *Repository) UpdateStatus(_ context.Context, id string, from, to domain.Status) (*domain.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ports.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if order.Status != from {
		return nil, ports.ErrStatusConflict
	}
	order.Status = to
	clone := *order
	return &clone, nil
}

func (r *Repository) Delete(_ context.Context, id string) (*domain.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ports.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	delete(r.orders, id)
	delete(r.byOrderID, order.OrderID)
	return order, nil
}

func (r *Repository) DeleteByStatus(_ context.Context, status domain.Status) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for id, order := range r.orders {
		if order.Status != status {
			continue
		}
		delete(r.orders, id)
		delete(r.byOrderID, order.OrderID)
		removed++
	}
	return removed, nil
}

func (r *Repository) Find(_ context.Context, query ports.Query) ([]*domain.Order, error) {
	needle := strings.ToLower(query.Search)
	r.mu.RLock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if matches(order, query, needle) {
			clone := *order
			list = append(list, &clone)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].OrderID > list[j].OrderID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	if query.Offset > 0 {
		if query.Offset >= len(list) {
			return []*domain.Order{}, nil
		}
		list = list[query.Offset:]
	}
	if query.Limit > 0 && len(list) > query.Limit {
		list = list[:query.Limit]
	}
	return list, nil
}

func matches(order *domain.Order, query ports.Query, needle string) bool {
	if query.Status != nil && order.Status != *query.Status {
		return false
	}
	if query.CreatedFrom != nil && order.CreatedAt.Before(*query.CreatedFrom) {
		return false
	}
	if query.CreatedTo != nil && !order.CreatedAt.Before(*query.CreatedTo) {
		return false
	}
	if needle == "" {
		return true
	}
	for _, field := range []string{order.Customer.Name, order.Customer.Mobile, order.OrderID, order.TransactionID} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
