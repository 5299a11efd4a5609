package application

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/husnhira/storefront/internal/domains/otp/ports"
)

// DefaultTTL is how long a code stays valid.
const DefaultTTL = 5 * time.Minute

var (
	ErrInvalidMobile = errors.New("invalid mobile number")
	ErrInvalidCode   = errors.New("invalid mobile number or OTP")
	ErrNotRequested  = errors.New("OTP not requested")
	ErrExpired       = errors.New("OTP expired")
	ErrIncorrect     = errors.New("incorrect OTP")
	// ErrDelivery means the SMS provider rejected the message.
	ErrDelivery = errors.New("failed to send OTP via SMS")
)

var mobilePattern = regexp.MustCompile(`^\d{10}$`)

// Service issues and checks SMS one-time codes.
type Service struct {
	store    ports.Store
	sender   ports.Sender
	ttl      time.Duration
	now      func() time.Time
	generate func() (string, error)
}

type Option func(*Service)

func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithGenerator replaces the random code source.
func WithGenerator(generate func() (string, error)) Option {
	return func(s *Service) {
		if generate != nil {
			s.generate = generate
		}
	}
}

func NewService(store ports.Store, sender ports.Sender, opts ...Option) *Service {
	s := &Service{
		store:    store,
		sender:   sender,
		ttl:      DefaultTTL,
		now:      time.Now,
		generate: GenerateCode,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// SendOTP stores a fresh code for mobile, replacing any pending one, and texts it.
func (s *Service) SendOTP(ctx context.Context, mobile string) error {
	mobile = strings.TrimSpace(mobile)
	if !mobilePattern.MatchString(mobile) {
		return ErrInvalidMobile
	}
	code, err := s.generate()
	if err != nil {
		return err
	}
	if err := s.store.Put(ctx, mobile, ports.Entry{Code: code, ExpiresAt: s.now().Add(s.ttl)}); err != nil {
		return err
	}
	if s.sender == nil {
		return fmt.Errorf("%w: sms sender not configured", ErrDelivery)
	}
	if _, err := s.sender.SendSMS(ctx, mobile, Message(code)); err != nil {
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}
	return nil
}

// VerifyOTP consumes the code on success. Expired entries are removed; a wrong
// code leaves the entry in place.
func (s *Service) VerifyOTP(ctx context.Context, mobile, code string) error {
	mobile = strings.TrimSpace(mobile)
	code = strings.TrimSpace(code)
	if !mobilePattern.MatchString(mobile) || code == "" {
		return ErrInvalidCode
	}
	entry, err := s.store.Get(ctx, mobile)
	if errors.Is(err, ports.ErrNotFound) {
		return ErrNotRequested
	}
	if err != nil {
		return err
	}
	if entry.Expired(s.now()) {
		if err := s.store.Delete(ctx, mobile); err != nil {
			return err
		}
		return ErrExpired
	}
	if subtle.ConstantTimeCompare([]byte(entry.Code), []byte(code)) != 1 {
		return ErrIncorrect
	}
	return s.store.Delete(ctx, mobile)
}

// Message is the SMS text carrying code.
func Message(code string) string {
	return fmt.Sprintf("Your Husn Hira OTP is: %s. Do not share it with anyone.", code)
}

// GenerateCode returns a uniformly random six-digit code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
