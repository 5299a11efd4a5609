package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/husnhira/storefront/internal/domains/admin/domain"
	"github.com/husnhira/storefront/internal/domains/admin/ports"
)

func newSQLiteStore(t *testing.T) *SessionStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&SessionRecord{}))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewSessionStore(db)
}

func TestSessionStore_SaveGetDelete(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()
	session, err := domain.NewSession("jti-1", "owner", time.Now(), time.Hour)
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, session))
	require.NoError(t, store.Save(ctx, session))

	got, err := store.Get(ctx, "jti-1")
	require.NoError(t, err)
	require.Equal(t, "owner", got.Username)

	require.NoError(t, store.Delete(ctx, "jti-1"))
	_, err = store.Get(ctx, "jti-1")
	require.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestSessionStore_PurgeExpired(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()
	now := time.Now()

	stale, err := domain.NewSession("stale", "owner", now.Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)
	live, err := domain.NewSession("live", "owner", now, time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, stale))
	require.NoError(t, store.Save(ctx, live))

	_, err = store.Get(ctx, "stale")
	require.ErrorIs(t, err, ports.ErrSessionNotFound)

	removed, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)

	_, err = store.Get(ctx, "live")
	require.NoError(t, err)
}
