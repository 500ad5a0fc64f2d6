package middleware

import (
	"github.com/gofiber/fiber/v3"

	"authgate/internal/auth/adapters/httpapi/dto"
	"authgate/internal/auth/domain/entities"
)

// ErrorInsufficientRole - сообщение при нехватке прав.
const ErrorInsufficientRole = "insufficient permissions"

// forbidden отправляет 403 в общем конверте.
func forbidden(ctx fiber.Ctx) error {
	return ctx.Status(fiber.StatusForbidden).JSON(dto.Envelope{
		Success: false,
		Message: ErrorInsufficientRole,
	})
}

// NewRequireRoles создает промежуточное ПО, пропускающее только
// пользователей с одной из перечисленных ролей. Применяется после
// NewAuthMiddleware.
func NewRequireRoles(allowed ...entities.Role) fiber.Handler {
	allowedSet := make(map[entities.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(ctx fiber.Ctx) error {
		role, ok := UserRole(ctx)
		if !ok {
			return forbidden(ctx)
		}
		if _, ok := allowedSet[role]; !ok {
			return forbidden(ctx)
		}
		return ctx.Next()
	}
}

// NewRequireMinRole создает промежуточное ПО, пропускающее пользователей
// с ролью не ниже указанной по иерархии user < moderator < admin.
func NewRequireMinRole(minimum entities.Role) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		role, ok := UserRole(ctx)
		if !ok || !role.AtLeast(minimum) {
			return forbidden(ctx)
		}
		return ctx.Next()
	}
}
