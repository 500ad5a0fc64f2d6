package httpapi

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"authgate/internal/auth/adapters/httpapi/dto"
	"authgate/internal/auth/adapters/httpapi/middleware"
	"authgate/internal/auth/domain/entities"
	"authgate/internal/auth/ports/api"
	"authgate/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerRegister       = "auth handler: register"
	LogHandlerLogin          = "auth handler: login"
	LogHandlerRefreshTokens  = "auth handler: refresh tokens" // #nosec G101 - not a credential
	LogHandlerLogout         = "auth handler: logout"
	LogHandlerLogoutAll      = "auth handler: logout all"
	LogHandlerVerifyEmail    = "auth handler: verify email"
	LogHandlerForgotPassword = "auth handler: forgot password"
	LogHandlerResetPassword  = "auth handler: reset password"
	LogHandlerChangePassword = "auth handler: change password"

	ErrorFailedToServeRequest = "failed to serve request"
)

// Сообщения успешных ответов.
const (
	MsgRegistered      = "registration successful"
	MsgLoggedIn        = "login successful"
	MsgTokensRefreshed = "tokens refreshed"
	MsgLoggedOut       = "logged out successfully"
	MsgLoggedOutAll    = "all sessions terminated"
	MsgEmailVerified   = "email verified successfully"
	MsgResetRequested  = "if the email exists, a reset link has been sent"
	MsgPasswordReset   = "password reset successfully"
	MsgPasswordChanged = "password changed successfully"
)

// AuthHandler содержит HTTP обработчики аутентификации и учетной записи.
type AuthHandler struct {
	auth    api.AuthUseCase
	account api.AccountUseCase
}

// NewAuthHandler создает новый экземпляр обработчика аутентификации.
func NewAuthHandler(auth api.AuthUseCase, account api.AccountUseCase) *AuthHandler {
	return &AuthHandler{auth: auth, account: account}
}

// Register обрабатывает запрос регистрации нового пользователя.
func (h *AuthHandler) Register(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerRegister)

	var req dto.RegisterRequest
	if ok, err := bindAndValidate(ctx, &req); !ok {
		return err
	}

	result, err := h.auth.Register(requestCtx, req.Name, req.Email, req.Password, entities.RoleUser)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return respondError(ctx, err)
	}

	return respondSuccess(ctx, fiber.StatusCreated, MsgRegistered, dto.NewAuthResponse(result))
}

// Login обрабатывает запрос входа пользователя.
func (h *AuthHandler) Login(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerLogin)

	var req dto.LoginRequest
	if ok, err := bindAndValidate(ctx, &req); !ok {
		return err
	}

	result, err := h.auth.Login(requestCtx, req.Email, req.Password)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return respondError(ctx, err)
	}

	return respondSuccess(ctx, fiber.StatusOK, MsgLoggedIn, dto.NewAuthResponse(result))
}

// RefreshTokens обрабатывает запрос обновления пары токенов.
func (h *AuthHandler) RefreshTokens(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerRefreshTokens)

	var req dto.RefreshRequest
	if ok, err := bindAndValidate(ctx, &req); !ok {
		return err
	}

	tokens, err := h.auth.RefreshTokens(requestCtx, req.RefreshToken)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return respondError(ctx, err)
	}

	return respondSuccess(ctx, fiber.StatusOK, MsgTokensRefreshed, dto.NewTokensResponse(tokens))
}

// Logout обрабатывает запрос выхода. Операция идемпотентна.
func (h *AuthHandler) Logout(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerLogout)

	var req dto.LogoutRequest
	if ok, err := bindAndValidate(ctx, &req); !ok {
		return err
	}

	if err := h.auth.Logout(requestCtx, req.RefreshToken); err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return respondError(ctx, err)
	}

	return respondSuccess(ctx, fiber.StatusOK, MsgLoggedOut, nil)
}

// LogoutAll завершает все сессии аутентифицированного пользователя.
func (h *AuthHandler) LogoutAll(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerLogoutAll)

	userID, ok := middleware.UserID(ctx)
	if !ok {
		return respondFail(ctx, fiber.StatusUnauthorized, middleware.ErrorInvalidToken, nil)
	}

	if err := h.auth.LogoutAll(requestCtx, userID); err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return respondError(ctx, err)
	}

	return respondSuccess(ctx, fiber.StatusOK, MsgLoggedOutAll, nil)
}

// VerifyEmail подтверждает адрес по токену из письма.
func (h *AuthHandler) VerifyEmail(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerVerifyEmail)

	if err := h.account.VerifyEmail(requestCtx, ctx.Params("token")); err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return respondError(ctx, err)
	}

	return respondSuccess(ctx, fiber.StatusOK, MsgEmailVerified, nil)
}

// ForgotPassword обрабатывает запрос восстановления пароля.
// Ответ одинаков для существующих и несуществующих адресов.
func (h *AuthHandler) ForgotPassword(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerForgotPassword)

	var req dto.ForgotPasswordRequest
	if ok, err := bindAndValidate(ctx, &req); !ok {
		return err
	}

	if err := h.account.ForgotPassword(requestCtx, req.Email); err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return respondError(ctx, err)
	}

	return respondSuccess(ctx, fiber.StatusOK, MsgResetRequested, nil)
}

// ResetPassword устанавливает новый пароль по токену из письма.
func (h *AuthHandler) ResetPassword(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerResetPassword)

	var req dto.ResetPasswordRequest
	if ok, err := bindAndValidate(ctx, &req); !ok {
		return err
	}

	if err := h.account.ResetPassword(requestCtx, ctx.Params("token"), req.Password); err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return respondError(ctx, err)
	}

	return respondSuccess(ctx, fiber.StatusOK, MsgPasswordReset, nil)
}

// ChangePassword меняет пароль аутентифицированного пользователя.
func (h *AuthHandler) ChangePassword(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerChangePassword)

	userID, ok := middleware.UserID(ctx)
	if !ok {
		return respondFail(ctx, fiber.StatusUnauthorized, middleware.ErrorInvalidToken, nil)
	}

	var req dto.ChangePasswordRequest
	if ok, err := bindAndValidate(ctx, &req); !ok {
		return err
	}

	if err := h.account.ChangePassword(requestCtx, userID, req.CurrentPassword, req.NewPassword); err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return respondError(ctx, err)
	}

	return respondSuccess(ctx, fiber.StatusOK, MsgPasswordChanged, nil)
}
