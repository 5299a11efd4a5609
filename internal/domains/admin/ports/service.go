package ports

import (
	"context"

	"github.com/husnhira/storefront/internal/domains/admin/domain"
)

// Service authenticates the storefront administrator.
type Service interface {
	// Login checks credentials and returns a signed session token.
	Login(ctx context.Context, username, password string) (string, *domain.Session, error)
	// Authenticate resolves a token to a live session.
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
	// Logout revokes the session behind token. Unknown tokens are ignored.
	Logout(ctx context.Context, token string) error
}
