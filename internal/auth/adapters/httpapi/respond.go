// Package httpapi содержит HTTP обработчики и маршрутизацию сервиса
// аутентификации поверх Fiber.
package httpapi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"authgate/internal/auth/adapters/httpapi/dto"
	"authgate/internal/auth/domain/entities"
	"authgate/internal/auth/domain/services"
)

// Сообщения ответов API.
const (
	MsgInvalidRequestBody = "invalid request body"
	MsgValidationFailed   = "validation failed"
	MsgInternalError      = "internal server error"
)

// validate - общий валидатор DTO.
var validate = validator.New()

// respondSuccess отправляет успешный ответ в общем конверте.
func respondSuccess(ctx fiber.Ctx, status int, message string, data any) error {
	if err := ctx.Status(status).JSON(dto.Envelope{
		Success: true,
		Message: message,
		Data:    data,
	}); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// respondFail отправляет ответ об ошибке в общем конверте.
func respondFail(ctx fiber.Ctx, status int, message string, fieldErrors []dto.FieldError) error {
	if err := ctx.Status(status).JSON(dto.Envelope{
		Success: false,
		Message: message,
		Errors:  fieldErrors,
	}); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// bindAndValidate разбирает тело запроса и проверяет его валидатором.
// Ошибка уже отправлена клиенту, если возвращено (false, err).
func bindAndValidate(ctx fiber.Ctx, req any) (bool, error) {
	if err := ctx.Bind().JSON(req); err != nil {
		return false, respondFail(ctx, fiber.StatusBadRequest, MsgInvalidRequestBody, nil)
	}

	if err := validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return false, respondFail(ctx, fiber.StatusBadRequest, MsgValidationFailed, fieldErrors(validationErrors))
		}
		return false, respondFail(ctx, fiber.StatusBadRequest, MsgValidationFailed, nil)
	}

	return true, nil
}

// fieldErrors преобразует ошибки валидатора в список ошибок полей.
func fieldErrors(validationErrors validator.ValidationErrors) []dto.FieldError {
	result := make([]dto.FieldError, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		result = append(result, dto.FieldError{
			Field:   strings.ToLower(fieldError.Field()[:1]) + fieldError.Field()[1:],
			Message: fmt.Sprintf("failed on '%s' validation", fieldError.Tag()),
		})
	}
	return result
}

// errorStatus сопоставляет доменные ошибки со статусами и сообщениями API.
// Неопознанные ошибки дают 500 без деталей.
func errorStatus(err error) (int, string) {
	sentinels := []struct {
		target error
		status int
	}{
		{services.ErrInvalidCredentials, fiber.StatusUnauthorized},
		{services.ErrEmailNotVerified, fiber.StatusUnauthorized},
		{services.ErrInvalidRefreshToken, fiber.StatusUnauthorized},
		{services.ErrRevokedRefreshToken, fiber.StatusUnauthorized},
		{services.ErrAccountInactive, fiber.StatusUnauthorized},
		{services.ErrStaleAccessToken, fiber.StatusUnauthorized},
		{services.ErrEmailAlreadyExists, fiber.StatusConflict},
		{services.ErrSelfModification, fiber.StatusConflict},
		{services.ErrVerificationToken, fiber.StatusBadRequest},
		{services.ErrResetToken, fiber.StatusBadRequest},
		{entities.ErrUserNotFound, fiber.StatusNotFound},
		{entities.ErrInvalidUserID, fiber.StatusBadRequest},
		{entities.ErrInvalidEmail, fiber.StatusBadRequest},
		{entities.ErrEmptyName, fiber.StatusBadRequest},
		{entities.ErrPasswordTooShort, fiber.StatusBadRequest},
		{entities.ErrPasswordTooWeak, fiber.StatusBadRequest},
		{entities.ErrInvalidRole, fiber.StatusBadRequest},
	}

	for _, sentinel := range sentinels {
		if errors.Is(err, sentinel.target) {
			return sentinel.status, sentinel.target.Error()
		}
	}

	return fiber.StatusInternalServerError, MsgInternalError
}

// respondError отправляет доменную ошибку в общем конверте.
func respondError(ctx fiber.Ctx, err error) error {
	status, message := errorStatus(err)
	return respondFail(ctx, status, message, nil)
}
