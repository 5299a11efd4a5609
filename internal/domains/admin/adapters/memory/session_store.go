package memory

import (
	"context"
	"sync"
	"time"

	"github.com/husnhira/storefront/internal/domains/admin/domain"
	"github.com/husnhira/storefront/internal/domains/admin/ports"
)

// SessionStore is an in-memory SessionStore implementation.
type SessionStore struct {
	sessions sync.Map
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{now: time.Now}
}

func (s *SessionStore) Save(_ context.Context, session *domain.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}
	clone := *session
	s.sessions.Store(session.ID, &clone)
	return nil
}

// Get drops the session when it has expired.
func (s *SessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	value, ok := s.sessions.Load(id)
	if !ok {
		return nil, ports.ErrSessionNotFound
	}
	session := value.(*domain.Session)
	if session.Expired(s.now()) {
		s.sessions.Delete(id)
		return nil, ports.ErrSessionNotFound
	}
	clone := *session
	return &clone, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.sessions.Delete(id)
	return nil
}

var _ ports.SessionStore = (*SessionStore)(nil)
