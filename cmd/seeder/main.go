package main

import (
	"context"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/fastygo/taskflow/internal/bootstrap"
	"github.com/fastygo/taskflow/internal/config"
	"github.com/fastygo/taskflow/internal/security"
	"github.com/fastygo/taskflow/pkg/logger"
	authUC "github.com/fastygo/taskflow/usecase/auth"
)

// seeder creates the admin account named by ADMIN_EMAIL / ADMIN_PASSWORD
// (or the -email / -password flags) unless it already exists.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	email := flag.String("email", cfg.Admin.Email, "admin email")
	password := flag.String("password", cfg.Admin.Password, "admin password")
	flag.Parse()

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: "console",
		Service:  cfg.AppName + "-seeder",
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	if *email == "" || *password == "" {
		zapLogger.Error("admin email and password are required")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Context.ShutdownTimeout)
	defer cancel()

	storage, err := bootstrap.OpenStorage(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("storage unavailable", zap.Error(err))
	}
	defer storage.Close()

	hasher, err := security.NewPasswordHasher(cfg.Auth.BcryptCost)
	if err != nil {
		zapLogger.Fatal("password hasher init failed", zap.Error(err))
	}

	// Seeding never issues tokens, so the token service is left out.
	created, err := authUC.New(storage.Users, hasher, nil, zapLogger).SeedAdmin(ctx, *email, *password)
	if err != nil {
		zapLogger.Fatal("admin seeding failed", zap.Error(err))
	}
	if !created {
		zapLogger.Info("admin user already exists", zap.String("email", *email))
		return
	}
	zapLogger.Info("admin user created", zap.String("email", *email))
}
