package application

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/husnhira/storefront/internal/domains/admin/domain"
	"github.com/husnhira/storefront/internal/domains/admin/ports"
)

// MinSecretLength is the shortest accepted signing secret in bytes.
const MinSecretLength = 16

// DefaultSessionTTL applies when Credentials.SessionTTL is zero.
const DefaultSessionTTL = 12 * time.Hour

const issuer = "husnhira-admin"

// Credentials configures the single admin account. PasswordHash (bcrypt) wins over Password.
type Credentials struct {
	Username     string
	Password     string
	PasswordHash string
	Secret       []byte
	SessionTTL   time.Duration
}

// Validate rejects configurations the service cannot run with.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Username) == "" {
		return errors.New("admin username is required")
	}
	if c.Password == "" && c.PasswordHash == "" {
		return errors.New("admin password or password hash is required")
	}
	if len(c.Secret) < MinSecretLength {
		return fmt.Errorf("session secret must be at least %d bytes", MinSecretLength)
	}
	return nil
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

// Service issues and checks admin session tokens.
type Service struct {
	creds    Credentials
	sessions ports.SessionStore
	now      func() time.Time
	newID    func() string
}

type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(creds Credentials, sessions ports.SessionStore, opts ...Option) (*Service, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	if sessions == nil {
		return nil, errors.New("session store is required")
	}
	if creds.SessionTTL <= 0 {
		creds.SessionTTL = DefaultSessionTTL
	}
	s := &Service{creds: creds, sessions: sessions, now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

func (s *Service) Login(ctx context.Context, username, password string) (string, *domain.Session, error) {
	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), []byte(s.creds.Username)) == 1
	passOK := s.checkPassword(password)
	if !userOK || !passOK {
		return "", nil, ErrInvalidCredentials
	}
	session, err := domain.NewSession(s.newID(), s.creds.Username, s.now(), s.creds.SessionTTL)
	if err != nil {
		return "", nil, err
	}
	token, err := s.sign(session)
	if err != nil {
		return "", nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return "", nil, err
	}
	return token, session, nil
}

func (s *Service) checkPassword(password string) bool {
	if s.creds.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.creds.PasswordHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.creds.Password)) == 1
}

func (s *Service) sign(session *domain.Session) (string, error) {
	claims := sessionClaims{RegisteredClaims: jwt.RegisteredClaims{
		ID:        session.ID,
		Subject:   session.Username,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
		ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
	}}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.creds.Secret)
}

func (s *Service) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	session, err := s.sessions.Get(ctx, claims.ID)
	if errors.Is(err, ports.ErrSessionNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	if session.Username != claims.Subject || session.Expired(s.now()) {
		return nil, ErrUnauthenticated
	}
	return session, nil
}

func (s *Service) parse(token string) (*sessionClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthenticated
	}
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.creds.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, ErrUnauthenticated
	}
	return claims, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return nil
	}
	return s.sessions.Delete(ctx, claims.ID)
}

var _ ports.Service = (*Service)(nil)
