package memory

import (
	"context"
	"sync"

	"github.com/husnhira/storefront/internal/domains/otp/ports"
)

// Store keeps codes in process memory. Expiry is checked by the caller at read time.
type Store struct {
	mu      sync.Mutex
	entries map[string]ports.Entry
}

func NewStore() *Store {
	return &Store{entries: map[string]ports.Entry{}}
}

func (s *Store) Put(_ context.Context, mobile string, entry ports.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[mobile] = entry
	return nil
}

func (s *Store) Get(_ context.Context, mobile string) (*ports.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[mobile]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &entry, nil
}

func (s *Store) Delete(_ context.Context, mobile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, mobile)
	return nil
}

var _ ports.Store = (*Store)(nil)
