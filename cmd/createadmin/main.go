// Command createadmin создает первую административную учетную запись
// из переменных окружения AUTH_ADMIN_NAME, AUTH_ADMIN_EMAIL и
// AUTH_ADMIN_PASSWORD. Если администратор уже существует, команда
// завершается успешно без изменений.
package main

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"

	"authgate/internal/auth/adapters/mongodb"
	"authgate/internal/auth/adapters/services"
	"authgate/internal/auth/app"
	"authgate/internal/auth/config"
	"authgate/internal/auth/db"
	"authgate/pkg/logger"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "AUTH_LOGGER_MODE"
	EnvLoggerLevel = "AUTH_LOGGER_LEVEL"
)

// Константы для сообщений.
const (
	ErrInitLogger         = "failed to initialize logger"
	ErrLoadConfig         = "failed to load configuration"
	ErrMissingCredentials = "admin credentials are not provided, set AUTH_ADMIN_NAME, AUTH_ADMIN_EMAIL and AUTH_ADMIN_PASSWORD"
	ErrConnectDatabase    = "failed to connect to database"
	ErrSeedAdmin          = "failed to seed admin account"
	ErrCloseDatabase      = "failed to close database connection"

	LogAdminCreated = "admin account created successfully"
	LogAdminSkipped = "admin account already exists"
)

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}
	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Error(ctx, ErrLoadConfig, zap.Error(err))
		os.Exit(1)
	}

	if !cfg.Admin.Provided() {
		log.Error(ctx, ErrMissingCredentials)
		os.Exit(1)
	}

	database, err := db.New(ctx, &cfg.Mongo)
	if err != nil {
		log.Error(ctx, ErrConnectDatabase, zap.Error(err))
		os.Exit(1)
	}

	users := mongodb.NewUserRepository(database.Database())
	passwords := services.NewBcrypt(cfg.JWT.BCryptCost)

	admin, created, err := app.SeedAdmin(ctx, users, passwords,
		cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)

	if closeErr := database.Close(ctx); closeErr != nil {
		log.Error(ctx, ErrCloseDatabase, zap.Error(closeErr))
	}

	if err != nil {
		log.Error(ctx, ErrSeedAdmin, zap.Error(err))
		os.Exit(1)
	}

	if !created {
		log.Info(ctx, LogAdminSkipped)
		return
	}

	log.Info(ctx, LogAdminCreated,
		zap.String("email", admin.Email),
		zap.String("role", string(admin.Role)))
}
