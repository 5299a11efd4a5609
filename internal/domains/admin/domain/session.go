package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptySessionID = errors.New("session id is required")
	ErrEmptyUsername  = errors.New("username is required")
	ErrInvalidExpiry  = errors.New("session must expire after it is issued")
)

// Session is an authenticated admin login. ID doubles as the token's jti.
type Session struct {
	ID        string
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// NewSession opens a session for username valid for ttl from now.
func NewSession(id, username string, now time.Time, ttl time.Duration) (*Session, error) {
	s := &Session{
		ID:        strings.TrimSpace(id),
		Username:  strings.TrimSpace(username),
		IssuedAt:  now.UTC(),
		ExpiresAt: now.Add(ttl).UTC(),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) Validate() error {
	if s.ID == "" {
		return ErrEmptySessionID
	}
	if s.Username == "" {
		return ErrEmptyUsername
	}
	if !s.ExpiresAt.After(s.IssuedAt) {
		return ErrInvalidExpiry
	}
	return nil
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
