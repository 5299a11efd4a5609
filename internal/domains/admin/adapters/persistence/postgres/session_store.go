package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/husnhira/storefront/internal/domains/admin/domain"
	"github.com/husnhira/storefront/internal/domains/admin/ports"
)

// SessionStore persists admin sessions in PostgreSQL.
type SessionStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSessionStore wires a PostgreSQL-backed session store. Caller owns DB lifecycle.
func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db, now: time.Now}
}

// SessionRecord maps a session to the admin_sessions table.
type SessionRecord struct {
	ID        string    `gorm:"primaryKey;column:id;size:64"`
	Username  string    `gorm:"column:username;size:128;not null;index"`
	IssuedAt  time.Time `gorm:"column:issued_at;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (SessionRecord) TableName() string { return "admin_sessions" }

// Save upserts a session keyed by id.
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if err := session.Validate(); err != nil {
		return err
	}
	rec := SessionRecord{
		ID:        session.ID,
		Username:  session.Username,
		IssuedAt:  session.IssuedAt.UTC(),
		ExpiresAt: session.ExpiresAt.UTC(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "issued_at", "expires_at"}),
		}).
		Create(&rec).Error
}

// Get returns a live session; expired rows read as missing.
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var rec SessionRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ? AND expires_at > ?", id, s.now().UTC()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ports.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &domain.Session{
		ID:        rec.ID,
		Username:  rec.Username,
		IssuedAt:  rec.IssuedAt.UTC(),
		ExpiresAt: rec.ExpiresAt.UTC(),
	}, nil
}

// Delete removes a session by id.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&SessionRecord{}, "id = ?", id).Error
}

// PurgeExpired removes all expired sessions. Use for housekeeping or cron.
func (s *SessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	result := s.db.WithContext(ctx).Where("expires_at <= ?", s.now().UTC()).Delete(&SessionRecord{})
	return result.RowsAffected, result.Error
}

func (s *SessionStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres session store not configured")
	}
	return nil
}

var _ ports.SessionStore = (*SessionStore)(nil)
