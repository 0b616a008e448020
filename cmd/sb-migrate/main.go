package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/tuanvumaihuynh/shop-backend/internal/config"
	"github.com/tuanvumaihuynh/shop-backend/internal/log"
	"github.com/tuanvumaihuynh/shop-backend/internal/storage/db"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running migrate application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log   config.Log
		Mongo config.Mongo
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	database, err := db.NewMongoDatabase(ctx, cfg.Mongo)
	if err != nil {
		return fmt.Errorf("error connecting to mongodb: %w", err)
	}
	defer func() {
		_ = database.Client().Disconnect(ctx)
	}()

	logger.InfoContext(ctx, "ensuring database indexes")

	if err := db.EnsureIndexes(ctx, database); err != nil {
		return fmt.Errorf("error ensuring indexes: %w", err)
	}

	logger.InfoContext(ctx, "database indexes ensured successfully")

	return nil
}
