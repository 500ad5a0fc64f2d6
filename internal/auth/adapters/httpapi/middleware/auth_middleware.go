package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"authgate/internal/auth/adapters/httpapi/dto"
	"authgate/internal/auth/domain/entities"
	"authgate/internal/auth/domain/services"
	"authgate/internal/auth/ports/repositories"
	svc "authgate/internal/auth/ports/services"
	"authgate/pkg/logger"
)

// Ключи Locals с данными аутентифицированного пользователя.
const (
	CtxUserID    = "userID"
	CtxUserEmail = "userEmail"
	CtxUserRole  = "userRole"
)

// Константы для сообщений.
const (
	bearerPrefix = "Bearer "

	ErrorNoAuthHeader       = "authorization header is required"
	ErrorInvalidTokenFormat = "invalid authorization header format"
	ErrorInvalidToken       = "invalid or expired access token"
)

// Ошибки извлечения и проверки access-токена. Отказы по состоянию
// учетной записи используют доменные ошибки, чтобы причина отказа
// была различима вызывающим кодом.
var (
	errNoAuthHeader       = errors.New(ErrorNoAuthHeader)
	errInvalidTokenFormat = errors.New(ErrorInvalidTokenFormat)
	errInvalidToken       = errors.New(ErrorInvalidToken)
)

// unauthorized отправляет 401 в общем конверте.
func unauthorized(ctx fiber.Ctx, message string) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(dto.Envelope{
		Success: false,
		Message: message,
	})
}

// bearerToken извлекает токен из заголовка Authorization.
func bearerToken(ctx fiber.Ctx) (string, error) {
	authHeader := ctx.Get("Authorization")
	if authHeader == "" {
		return "", errNoAuthHeader
	}
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", errInvalidTokenFormat
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
	if token == "" {
		return "", errInvalidTokenFormat
	}
	return token, nil
}

// authenticate проверяет access-токен и возвращает его владельца.
// Токены, выданные до смены пароля, отклоняются с
// services.ErrStaleAccessToken.
func authenticate(ctx fiber.Ctx, tokens svc.TokenService, users repositories.UserRepository) (*entities.User, error) {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))

	token, err := bearerToken(ctx)
	if err != nil {
		log.Debug(requestCtx, err.Error())
		return nil, err
	}

	claims, err := tokens.ValidateAccessToken(requestCtx, token)
	if err != nil {
		log.Debug(requestCtx, ErrorInvalidToken, zap.Error(err))
		return nil, errInvalidToken
	}

	user, err := users.FindByID(requestCtx, claims.UserID)
	if err != nil {
		log.Debug(requestCtx, ErrorInvalidToken, zap.Error(err))
		return nil, errInvalidToken
	}

	if !user.CanAuthenticate() {
		log.Debug(requestCtx, services.ErrAccountInactive.Error(), zap.String("userID", claims.UserID))
		return nil, services.ErrAccountInactive
	}

	if user.PasswordChangedAfter(claims.IssuedAt) {
		log.Debug(requestCtx, services.ErrStaleAccessToken.Error(), zap.String("userID", claims.UserID))
		return nil, services.ErrStaleAccessToken
	}

	return user, nil
}

// NewAuthMiddleware создает промежуточное ПО обязательной аутентификации.
// Личность пользователя помещается в Locals запроса.
func NewAuthMiddleware(tokens svc.TokenService, users repositories.UserRepository) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		user, err := authenticate(ctx, tokens, users)
		if err != nil {
			return unauthorized(ctx, err.Error())
		}

		ctx.Locals(CtxUserID, user.ID.Hex())
		ctx.Locals(CtxUserEmail, user.Email)
		ctx.Locals(CtxUserRole, user.Role)

		return ctx.Next()
	}
}

// NewOptionalAuthMiddleware создает промежуточное ПО необязательной
// аутентификации: при любой ошибке запрос продолжается анонимно.
func NewOptionalAuthMiddleware(tokens svc.TokenService, users repositories.UserRepository) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		if user, err := authenticate(ctx, tokens, users); err == nil {
			ctx.Locals(CtxUserID, user.ID.Hex())
			ctx.Locals(CtxUserEmail, user.Email)
			ctx.Locals(CtxUserRole, user.Role)
		}
		return ctx.Next()
	}
}

// UserID извлекает идентификатор аутентифицированного пользователя из Locals.
func UserID(ctx fiber.Ctx) (string, bool) {
	id, ok := ctx.Locals(CtxUserID).(string)
	return id, ok && id != ""
}

// UserRole извлекает роль аутентифицированного пользователя из Locals.
func UserRole(ctx fiber.Ctx) (entities.Role, bool) {
	role, ok := ctx.Locals(CtxUserRole).(entities.Role)
	return role, ok
}
