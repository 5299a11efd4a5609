package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/husnhira/storefront/internal/domains/admin/adapters/memory"
)

var secret = []byte("0123456789abcdef0123")

func newService(t *testing.T, creds Credentials, now *time.Time) *Service {
	t.Helper()
	if creds.Secret == nil {
		creds.Secret = secret
	}
	svc, err := NewService(creds, memory.NewSessionStore(), WithClock(func() time.Time { return *now }))
	require.NoError(t, err)
	return svc
}

func TestService_LoginAuthenticateLogout(t *testing.T) {
	now := time.Now()
	svc := newService(t, Credentials{Username: "owner", Password: "s3cret-pass", SessionTTL: time.Hour}, &now)
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "owner", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "intruder", "s3cret-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	token, session, err := svc.Login(ctx, " owner ", "s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, session.ID)

	got, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	require.Equal(t, session.ID, got.ID)

	require.NoError(t, svc.Logout(ctx, token))
	_, err = svc.Authenticate(ctx, token)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestService_BcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hashed-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now()
	svc := newService(t, Credentials{Username: "owner", Password: "ignored", PasswordHash: string(hash)}, &now)

	_, _, err = svc.Login(context.Background(), "owner", "ignored")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(context.Background(), "owner", "hashed-pass")
	require.NoError(t, err)
}

func TestService_RejectsExpiredAndForeignTokens(t *testing.T) {
	now := time.Now()
	svc := newService(t, Credentials{Username: "owner", Password: "pw-123456", SessionTTL: time.Hour}, &now)
	ctx := context.Background()

	token, _, err := svc.Login(ctx, "owner", "pw-123456")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = svc.Authenticate(ctx, token)
	require.ErrorIs(t, err, ErrUnauthenticated)

	now = time.Now()
	other := newService(t, Credentials{Username: "owner", Password: "pw-123456", Secret: []byte("another-secret-of-16b")}, &now)
	foreign, _, err := other.Login(ctx, "owner", "pw-123456")
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, foreign)
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Authenticate(ctx, "")
	require.ErrorIs(t, err, ErrUnauthenticated)
	_, err = svc.Authenticate(ctx, "not.a.jwt")
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestCredentials_Validate(t *testing.T) {
	require.Error(t, Credentials{Password: "x", Secret: secret}.Validate())
	require.Error(t, Credentials{Username: "owner", Secret: secret}.Validate())
	require.Error(t, Credentials{Username: "owner", Password: "x", Secret: []byte("short")}.Validate())
	require.NoError(t, Credentials{Username: "owner", Password: "x", Secret: secret}.Validate())
}
