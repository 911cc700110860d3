package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/parsfiltration/site-backend/internal/auth"
	"github.com/parsfiltration/site-backend/internal/config"
	"github.com/parsfiltration/site-backend/internal/db"
	"github.com/parsfiltration/site-backend/internal/handler"
	"github.com/parsfiltration/site-backend/internal/queue"
	"github.com/parsfiltration/site-backend/internal/repository"
	"github.com/parsfiltration/site-backend/internal/service"
)

func main() {
	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	logger.Info("starting site backend API server")

	// Load .env if present, then configuration from the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Run schema migrations
	if err := db.Migrate(cfg.Database.MigrationsDir, cfg.Database.URL()); err != nil {
		logger.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("database migrated")

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
	productRepo := repository.NewProductRepository(database.DB)
	userRepo := repository.NewUserRepository(database.DB)

	// Initialize services
	tokens := auth.NewTokenManager(cfg.Auth.SecretKey, time.Duration(cfg.Auth.TokenExpiryMinutes)*time.Minute)

	authSvc := service.NewAuthService(userRepo, tokens, logger)
	quoteSvc := service.NewQuoteService(quoteRepo, userRepo, queueClient, logger)
	contactSvc := service.NewContactService(contactRepo, queueClient, logger)
	productSvc := service.NewProductService(productRepo, logger)
	exportSvc := service.NewExportService(quoteRepo, logger)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authSvc, logger)
	quoteHandler := handler.NewQuoteHandler(quoteSvc, exportSvc, logger)
	contactHandler := handler.NewContactHandler(contactSvc, logger)
	productHandler := handler.NewProductHandler(productSvc, logger)
	healthHandler := handler.NewHealthHandler(database.DB, queueClient, logger)

	// Setup router
	r := chi.NewRouter()

	r.Use(handler.RecoveryMiddleware(logger))
	r.Use(handler.LoggingMiddleware(logger))
	r.Use(handler.CORSMiddleware)
	r.Use(handler.TimeoutMiddleware)

	r.Get("/health", healthHandler.Health)

	// Public endpoints consumed by the marketing site
	r.Post("/api/auth/login", authHandler.Login)
	r.Post("/api/contacts", contactHandler.Submit)
	r.Post("/api/quote-requests", quoteHandler.Submit)

	// Staff endpoints behind the bearer token
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(handler.AuthMiddleware(tokens, authSvc, logger))

		r.Route("/quote-requests", func(r chi.Router) {
			r.Get("/", quoteHandler.List)
			r.Get("/stats", quoteHandler.Stats)
			r.Get("/export", quoteHandler.Export)
			r.Get("/{id}", quoteHandler.Get)
			r.Patch("/{id}", quoteHandler.Update)
			r.Patch("/{id}/status", quoteHandler.UpdateStatus)
			r.Patch("/{id}/assign", quoteHandler.Assign)
			r.Patch("/{id}/amount", quoteHandler.RecordAmount)
			r.With(handler.RequireAdmin).Delete("/{id}", quoteHandler.Delete)
		})

		r.Route("/contacts", func(r chi.Router) {
			r.Get("/", contactHandler.List)
			r.Get("/{id}", contactHandler.Get)
			r.Patch("/{id}/status", contactHandler.UpdateStatus)
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", productHandler.Create)
			r.Get("/", productHandler.List)
			r.Get("/{id}", productHandler.Get)
			r.Put("/{id}", productHandler.Update)
			r.With(handler.RequireAdmin).Delete("/{id}", productHandler.Delete)
		})
	})

	// Create server
	addr := fmt.Sprintf(":%d", cfg.API.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("API server listening", slog.String("addr", addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for interrupt signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)

	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown failed", slog.String("error", err.Error()))
			os.Exit(1)
		}

		logger.Info("server stopped gracefully")
	}
}
