// Command createadmin bootstraps the first staff account.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/parsfiltration/site-backend/internal/config"
	"github.com/parsfiltration/site-backend/internal/db"
	"github.com/parsfiltration/site-backend/internal/models"
	"github.com/parsfiltration/site-backend/internal/repository"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	username := flag.String("username", "", "username for the new admin")
	email := flag.String("email", "", "email for the new admin")
	password := flag.String("password", "", "password for the new admin")
	flag.Parse()

	if *username == "" || *email == "" || *password == "" {
		logger.Error("username, email and password are required")
		os.Exit(1)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

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

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash password", slog.String("error", err.Error()))
		os.Exit(1)
	}

	user := &models.User{
		Username:     *username,
		Email:        *email,
		PasswordHash: string(hash),
		IsAdmin:      true,
		IsActive:     true,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userRepo := repository.NewUserRepository(database.DB)
	if err := userRepo.Create(ctx, user); err != nil {
		logger.Error("failed to create admin user", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("admin user created",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
	)
}
