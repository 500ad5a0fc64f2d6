package middleware

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"authgate/internal/auth/adapters/httpapi/dto"
	"authgate/internal/auth/ports/services"
	"authgate/pkg/logger"
)

// ErrorTooManyRequests - сообщение при превышении лимита запросов.
const ErrorTooManyRequests = "too many requests, please try again later"

// NewRateLimitMiddleware создает промежуточное ПО ограничения частоты
// запросов по IP клиента. При недоступности лимитера запрос пропускается.
func NewRateLimitMiddleware(limiter services.RateLimiter) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := ctx.Context()

		allowed, err := limiter.Allow(requestCtx, ctx.IP()+":"+ctx.Path())
		if err != nil {
			logger.Log(requestCtx).Warn(requestCtx, "rate limiter unavailable", zap.Error(err))
			return ctx.Next()
		}

		if !allowed {
			return ctx.Status(fiber.StatusTooManyRequests).JSON(dto.Envelope{
				Success: false,
				Message: ErrorTooManyRequests,
			})
		}

		return ctx.Next()
	}
}
