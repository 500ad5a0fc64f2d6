// Command authgate запускает HTTP сервис аутентификации.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"authgate/internal/auth/adapters/httpapi"
	"authgate/internal/auth/adapters/mongodb"
	"authgate/internal/auth/adapters/ratelimit"
	"authgate/internal/auth/adapters/services"
	"authgate/internal/auth/app"
	"authgate/internal/auth/config"
	"authgate/internal/auth/db"
	portservices "authgate/internal/auth/ports/services"
	"authgate/pkg/logger"
	"authgate/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "AUTH_LOGGER_MODE"
	EnvLoggerLevel = "AUTH_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrConnectDatabase      = "failed to connect to database"
	ErrStartHTTPServer      = "failed to start HTTP server"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "auth service started"
	LogServiceShutdownDone = "auth service shutdown complete"
	LogInitDatabase        = "initializing database"
	LogInitServices        = "initializing services"
	LogInitUseCases        = "initializing use cases"
	LogInitRateLimiter     = "initializing rate limiter"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
	LogStoppingHTTP        = "stopping HTTP server"
	LogClosingDatabase     = "closing database connection"
	LogClosingRateLimiter  = "closing rate limiter"
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

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(cfg.Logging.GetEnvironment())),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		log.Info(ctx, LogInitDatabase)
		database, err := db.New(ctx, &cfg.Mongo)
		if err != nil {
			log.Error(ctx, ErrConnectDatabase, zap.Error(err))
			exitCode = 1
			return
		}

		log.Info(ctx, LogInitServices)
		serviceFactory := services.NewServiceFactory(&cfg.JWT, &cfg.SMTP, cfg.App.BaseURL)
		repositoryFactory := mongodb.NewRepositoryFactory(database.Database())

		var limiter portservices.RateLimiter
		if cfg.RateLimit.Enabled {
			log.Info(ctx, LogInitRateLimiter, zap.String("address", cfg.RateLimit.GetRedisAddress()))
			limiter = ratelimit.NewRedisLimiter(&cfg.RateLimit)
		}

		log.Info(ctx, LogInitUseCases)
		authUseCase := app.NewAuthUseCase(
			repositoryFactory.UserRepository(),
			repositoryFactory.TokenRegistry(),
			serviceFactory.TokenService(),
			serviceFactory.PasswordService(),
			serviceFactory.MailService(),
			&cfg.App,
			cfg.JWT.GetRefreshTokenTTL(),
		)
		accountUseCase := app.NewAccountUseCase(
			repositoryFactory.UserRepository(),
			repositoryFactory.TokenRegistry(),
			serviceFactory.PasswordService(),
			serviceFactory.MailService(),
			&cfg.App,
		)
		userUseCase := app.NewUserUseCase(
			repositoryFactory.UserRepository(),
			repositoryFactory.TokenRegistry(),
		)

		log.Info(ctx, LogInitHTTPServer)
		fiberApp := fiber.New(fiber.Config{
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
		})

		httpapi.SetupRouter(fiberApp, &httpapi.Router{
			Auth:           authUseCase,
			Account:        accountUseCase,
			Users:          userUseCase,
			TokenService:   serviceFactory.TokenService(),
			UserRepository: repositoryFactory.UserRepository(),
			RateLimiter:    limiter,
		})

		log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
		go func() {
			if err := fiberApp.Listen(cfg.HTTP.GetAddress()); err != nil {
				log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
			}
		}()

		shutdown.Wait(cfg.Shutdown.GetTimeout(),
			// Остановка HTTP сервера.
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingHTTP)
				return fiberApp.Shutdown()
			},
			// Закрытие соединения с базой данных.
			func(ctx context.Context) error {
				log.Info(ctx, LogClosingDatabase)
				return database.Close(ctx)
			},
			// Закрытие лимитера.
			func(ctx context.Context) error {
				if limiter == nil {
					return nil
				}
				log.Info(ctx, LogClosingRateLimiter)
				return limiter.Close()
			},
		)

		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
