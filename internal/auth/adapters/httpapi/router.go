package httpapi

import (
	"github.com/gofiber/fiber/v3"

	"authgate/internal/auth/adapters/httpapi/dto"
	"authgate/internal/auth/adapters/httpapi/middleware"
	"authgate/internal/auth/domain/entities"
	"authgate/internal/auth/ports/api"
	"authgate/internal/auth/ports/repositories"
	"authgate/internal/auth/ports/services"
)

// Router собирает зависимости маршрутизации HTTP API.
type Router struct {
	Auth    api.AuthUseCase
	Account api.AccountUseCase
	Users   api.UserUseCase

	TokenService   services.TokenService
	UserRepository repositories.UserRepository

	// RateLimiter может быть nil: лимитирование выключено конфигурацией.
	RateLimiter services.RateLimiter
}

// SetupRouter настраивает маршрутизацию HTTP сервера.
func SetupRouter(app *fiber.App, router *Router) {
	authHandler := NewAuthHandler(router.Auth, router.Account)
	userHandler := NewUserHandler(router.Users)

	requireAuth := middleware.NewAuthMiddleware(router.TokenService, router.UserRepository)

	// Middleware для всех запросов.
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())

	// Лимитирование применяется только к маршрутам, пригодным для перебора.
	var limited []fiber.Handler
	if router.RateLimiter != nil {
		limited = []fiber.Handler{middleware.NewRateLimitMiddleware(router.RateLimiter)}
	}

	// API версии 1.
	apiV1 := app.Group("/api/v1")

	// Auth routes (публичные).
	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/register", authHandler.Register, limited...)
	authRoutes.Post("/login", authHandler.Login, limited...)
	authRoutes.Post("/refresh-token", authHandler.RefreshTokens)
	authRoutes.Post("/logout", authHandler.Logout)
	authRoutes.Get("/verify-email/:token", authHandler.VerifyEmail)
	authRoutes.Post("/forgot-password", authHandler.ForgotPassword, limited...)
	authRoutes.Post("/reset-password/:token", authHandler.ResetPassword)

	// Auth routes (защищенные).
	authRoutes.Post("/logout-all", authHandler.LogoutAll, requireAuth)
	authRoutes.Get("/profile", userHandler.GetProfile, requireAuth)
	authRoutes.Put("/profile", userHandler.UpdateProfile, requireAuth)
	authRoutes.Post("/change-password", authHandler.ChangePassword, requireAuth)

	// Административные маршруты.
	userRoutes := apiV1.Group("/users")
	userRoutes.Use(requireAuth)
	userRoutes.Get("/", userHandler.ListUsers, middleware.NewRequireMinRole(entities.RoleModerator))
	userRoutes.Patch("/:id/role", userHandler.ChangeRole, middleware.NewRequireRoles(entities.RoleAdmin))
	userRoutes.Patch("/:id/status", userHandler.SetStatus, middleware.NewRequireRoles(entities.RoleAdmin))
	userRoutes.Delete("/:id", userHandler.DeleteUser, middleware.NewRequireRoles(entities.RoleAdmin))

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(dto.Envelope{
			Success: false,
			Message: "route not found",
		})
	})
}
