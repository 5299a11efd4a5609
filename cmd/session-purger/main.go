package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/viper"

	adminpostgres "github.com/husnhira/storefront/internal/domains/admin/adapters/persistence/postgres"
	platformpostgres "github.com/husnhira/storefront/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	v := viper.New()
	v.AutomaticEnv()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectOptional(ctx, v.GetString("POSTGRES_DSN"), logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge sessions")
	}

	removed, err := adminpostgres.NewSessionStore(db).PurgeExpired(ctx)
	if err != nil {
		log.Fatalf("failed to purge sessions: %v", err)
	}
	logger.Info("session purge completed", slog.Int64("removed", removed))
}
