package ports

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no code was requested for a mobile number.
var ErrNotFound = errors.New("one-time code not found")

// Entry is a pending one-time code.
type Entry struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the entry is past its expiry at now.
func (e Entry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// Store keeps at most one pending code per mobile number; Put overwrites.
type Store interface {
	Put(ctx context.Context, mobile string, entry Entry) error
	Get(ctx context.Context, mobile string) (*Entry, error)
	Delete(ctx context.Context, mobile string) error
}

// Sender delivers a text message and returns the provider message id.
type Sender interface {
	SendSMS(ctx context.Context, to, body string) (string, error)
}
