package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/husnhira/storefront/internal/domains/otp/ports"
)

const (
	keyPrefix = "otp:"
	// expiryGrace keeps an expired entry readable long enough to answer "expired"
	// instead of "not requested".
	expiryGrace = 10 * time.Minute
)

// Store keeps codes in Redis with a native TTL.
type Store struct {
	client goredis.Cmdable
	now    func() time.Time
}

func NewStore(client goredis.Cmdable) *Store {
	return &Store{client: client, now: time.Now}
}

func (s *Store) Put(ctx context.Context, mobile string, entry ports.Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	ttl := entry.ExpiresAt.Sub(s.now()) + expiryGrace
	if ttl <= 0 {
		ttl = expiryGrace
	}
	return s.client.Set(ctx, keyPrefix+mobile, payload, ttl).Err()
}

func (s *Store) Get(ctx context.Context, mobile string) (*ports.Entry, error) {
	raw, err := s.client.Get(ctx, keyPrefix+mobile).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var entry ports.Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *Store) Delete(ctx context.Context, mobile string) error {
	return s.client.Del(ctx, keyPrefix+mobile).Err()
}

var _ ports.Store = (*Store)(nil)
