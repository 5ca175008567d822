package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Apurer/go-marketplace-api/internal/app/api"
	userpostgres "github.com/Apurer/go-marketplace-api/internal/domains/users/adapters/persistence/postgres"
	platformpostgres "github.com/Apurer/go-marketplace-api/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge sessions")
	}

	store := userpostgres.NewSessionStore(db, cfg.SessionTTL)
	if _, err := api.PurgeSessions(ctx, store, logger); err != nil {
		log.Fatalf("failed to purge sessions: %v", err)
	}
}
