package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/tuanvumaihuynh/shop-backend/internal/config"
	"github.com/tuanvumaihuynh/shop-backend/internal/event"
	"github.com/tuanvumaihuynh/shop-backend/internal/http"
	"github.com/tuanvumaihuynh/shop-backend/internal/log"
	"github.com/tuanvumaihuynh/shop-backend/internal/repository"
	"github.com/tuanvumaihuynh/shop-backend/internal/service"
	"github.com/tuanvumaihuynh/shop-backend/internal/storage/cache"
	"github.com/tuanvumaihuynh/shop-backend/internal/storage/db"
	"github.com/tuanvumaihuynh/shop-backend/internal/storage/mq"
	"github.com/tuanvumaihuynh/shop-backend/internal/telemetry"
	"github.com/tuanvumaihuynh/shop-backend/pkg/cmdutil"
	"github.com/tuanvumaihuynh/shop-backend/pkg/validator"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running standalone application: %v\n", err)
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
		Redis config.Redis
		HTTP  config.HTTP
		Kafka config.Kafka
		Alert config.Alert
		Otel  config.Otel
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	cleanupTracer, err := telemetry.InitTracer(ctx, cfg.Otel)
	if err != nil {
		return fmt.Errorf("error initializing tracer: %w", err)
	}
	defer func() {
		if err := cleanupTracer(ctx); err != nil {
			logger.ErrorContext(ctx, "error cleaning up tracer", slog.Any("error", err))
		}
	}()

	database, err := db.NewMongoDatabase(ctx, cfg.Mongo)
	if err != nil {
		return fmt.Errorf("error connecting to mongodb: %w", err)
	}
	defer func() {
		if err := database.Client().Disconnect(ctx); err != nil {
			logger.ErrorContext(ctx, "error disconnecting mongodb", slog.Any("error", err))
		}
	}()
	dbClient := db.NewClient(database)

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("error connecting to redis: %w", err)
	}
	defer redisClient.Close()
	productCache := cache.NewRedisCache(redisClient, cfg.Redis.CacheTTL)

	kafkaProducer, err := mq.NewKafkaProducer(ctx, cfg.Kafka)
	if err != nil {
		return fmt.Errorf("error creating kafka producer: %w", err)
	}
	defer kafkaProducer.Close()

	kafkaConsumer, err := mq.NewKafkaConsumer(ctx, cfg.Kafka, logger)
	if err != nil {
		return fmt.Errorf("error creating kafka consumer: %w", err)
	}
	defer kafkaConsumer.Close()

	validate, err := validator.NewDefaultValidator()
	if err != nil {
		return fmt.Errorf("error creating validator: %w", err)
	}

	productRepository := repository.NewProductRepository(database)
	cartRepository := repository.NewCartRepository(database)

	productService := service.NewProductService(logger, productRepository, productCache, kafkaProducer)
	cartService := service.NewCartService(logger, cartRepository, productRepository, productCache, kafkaProducer)

	interruptChan := cmdutil.InterruptChan()
	var wg sync.WaitGroup

	wg.Go(func() {
		svc := event.New(cfg.Alert, logger, kafkaConsumer)
		cleanup, err := svc.Run(ctx)
		if err != nil {
			panic(fmt.Errorf("error running event service: %w", err))
		}
		logger.InfoContext(ctx, "event service started")

		<-interruptChan

		logger.InfoContext(ctx, "event service is shutting down")
		cleanup()

		logger.InfoContext(ctx, "event service is stopped")
	})

	wg.Go(func() {
		svc := http.New(cfg.HTTP, logger, validate, productService, cartService, dbClient)
		cleanup, err := svc.Run(ctx)
		if err != nil {
			panic(fmt.Errorf("error running http service: %w", err))
		}

		logger.InfoContext(ctx, "http service started", slog.String("address", fmt.Sprintf(":%d", cfg.HTTP.Port)))

		<-interruptChan

		logger.InfoContext(ctx, "http service is shutting down")
		if err := cleanup(ctx); err != nil {
			logger.ErrorContext(ctx, "error shutting down http service", slog.Any("error", err))
		}

		logger.InfoContext(ctx, "http service is stopped")
	})

	wg.Wait()

	return nil
}
