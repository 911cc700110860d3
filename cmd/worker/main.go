package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/parsfiltration/site-backend/internal/config"
	"github.com/parsfiltration/site-backend/internal/db"
	"github.com/parsfiltration/site-backend/internal/models"
	"github.com/parsfiltration/site-backend/internal/queue"
	"github.com/parsfiltration/site-backend/internal/repository"
	"github.com/parsfiltration/site-backend/internal/worker"
)

func main() {
	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	logger.Info("starting notification worker")

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Connect to database
	database, err := db.New(db.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	logger.Info("connected to database")

	// Connect to the notification queue
	queueClient, err := queue.NewRedisClient(queue.RedisConfig{
		URL:       cfg.Queue.RedisURL,
		QueueName: cfg.Queue.QueueName,
	}, logger)
	if err != nil {
		logger.Error("failed to connect to Redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer queueClient.Close()

	// Initialize repositories
	quoteRepo := repository.NewQuoteRepository(database.DB)
	contactRepo := repository.NewContactRepository(database.DB)

	// Delivery is an external collaborator; the log sender stands in for it
	sender := worker.NewLogSender(logger)

	processor := worker.NewNotificationProcessor(
		quoteRepo,
		contactRepo,
		sender,
		queueClient,
		cfg.Worker.MaxRetryCount,
		logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start consuming jobs
	consumerErrors := make(chan error, 1)
	go func() {
		handler := func(ctx context.Context, job *models.NotificationJob) error {
			return processor.Process(ctx, job)
		}

		consumerErrors <- queueClient.Consume(ctx, handler, cfg.Worker.Concurrency)
	}()

	// Wait for interrupt signal or consumer error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-consumerErrors:
		if err != nil && err != context.Canceled {
			logger.Error("consumer error", slog.String("error", err.Error()))
			os.Exit(1)
		}

	case sig := <-quit:
		logger.Info("shutting down worker", slog.String("signal", sig.String()))

		cancel()

		// Give the consumer time to finish in-flight jobs
		time.Sleep(5 * time.Second)

		logger.Info("worker stopped gracefully")
	}
}
