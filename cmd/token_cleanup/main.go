// Command token_cleanup deletes revoked tokens whose expiry has passed. Run it from cron.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/logging"
	"foodgram/internal/repository"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", logging.Err(err))
		os.Exit(1)
	}
	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("db connect failed", logging.Err(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	deleted, err := repository.NewTokenRepository(db).DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		logger.Error("cleanup revoked_tokens failed", logging.Err(err))
		os.Exit(1)
	}
	logger.Info("token cleanup completed", slog.Int64("revoked_tokens", deleted))
}
