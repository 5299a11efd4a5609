package ports

import (
	"context"
	"errors"

	"github.com/husnhira/storefront/internal/domains/admin/domain"
)

// ErrSessionNotFound is returned for unknown, revoked or expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore abstracts admin session persistence.
type SessionStore interface {
	Save(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}
