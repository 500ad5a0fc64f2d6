package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"authgate/internal/auth/config"
	"authgate/internal/auth/domain/entities"
	"authgate/internal/auth/domain/services"
	"authgate/internal/auth/ports/api"
	"authgate/internal/auth/ports/repositories"
	svc "authgate/internal/auth/ports/services"
	"authgate/pkg/logger"
)

// Константы журналирования use case учетной записи.
const (
	msgVerifyingEmail    = "verifying email"
	msgEmailVerified     = "email verified"
	msgForgotPassword    = "processing forgot password request"
	msgResetPassword     = "resetting password"
	msgPasswordReset     = "password reset completed"
	msgChangingPassword  = "changing password"
	msgPasswordChanged   = "password changed"
	errCtxVerifyEmail    = "verifying email"
	errCtxForgotPassword = "processing forgot password"
	errCtxResetPassword  = "resetting password"
	errCtxChangePassword = "changing password"
	errMsgSendResetMail  = "failed to send password reset email"
	errMsgSetResetToken  = "failed to store password reset token"
	errMsgClearRegistry  = "failed to clear refresh registry"
)

// UseCaseAccount реализует порт api.AccountUseCase.
type UseCaseAccount struct {
	users     repositories.UserRepository
	registry  repositories.TokenRegistry
	passwords svc.PasswordService
	mail      svc.MailService
	appCfg    *config.AppConfig
}

// NewAccountUseCase создает новый use case жизненного цикла учетной записи.
func NewAccountUseCase(
	users repositories.UserRepository,
	registry repositories.TokenRegistry,
	passwords svc.PasswordService,
	mail svc.MailService,
	appCfg *config.AppConfig,
) api.AccountUseCase {
	return &UseCaseAccount{
		users:     users,
		registry:  registry,
		passwords: passwords,
		mail:      mail,
		appCfg:    appCfg,
	}
}

// VerifyEmail подтверждает адрес по одноразовому токену из письма.
func (uc *UseCaseAccount) VerifyEmail(ctx context.Context, token string) error {
	log := logger.Log(ctx).With(zap.String("usecase", "account"))
	log.Debug(ctx, msgVerifyingEmail)

	user, err := uc.users.FindByVerificationToken(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return fmt.Errorf("%s: %w", errCtxVerifyEmail, services.ErrVerificationToken)
		}
		return fmt.Errorf("%s: %w", errCtxVerifyEmail, err)
	}

	if err := uc.users.MarkEmailVerified(ctx, user.ID.Hex()); err != nil {
		return fmt.Errorf("%s: %w", errCtxVerifyEmail, err)
	}

	log.Info(ctx, msgEmailVerified, zap.String("userID", user.ID.Hex()))
	return nil
}

// ForgotPassword сохраняет токен сброса и отправляет письмо.
// Ответ всегда успешный: существование адреса не раскрывается.
func (uc *UseCaseAccount) ForgotPassword(ctx context.Context, email string) error {
	log := logger.Log(ctx).With(zap.String("usecase", "account"), zap.String("email", email))
	log.Debug(ctx, msgForgotPassword)

	user, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("%s: %w", errCtxForgotPassword, err)
	}

	if !user.CanAuthenticate() {
		return nil
	}

	raw, hash, err := newOpaqueToken()
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxForgotPassword, err)
	}

	expires := time.Now().Add(uc.appCfg.GetPasswordResetTokenTTL())
	if err := uc.users.SetResetToken(ctx, user.ID.Hex(), hash, expires); err != nil {
		log.Error(ctx, errMsgSetResetToken, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxForgotPassword, err)
	}

	mailCtx := context.WithoutCancel(ctx)
	go func() {
		if err := uc.mail.SendPasswordResetEmail(mailCtx, user.Email, raw); err != nil {
			log.Warn(mailCtx, errMsgSendResetMail, zap.Error(err))
		}
	}()

	return nil
}

// ResetPassword устанавливает новый пароль по токену из письма.
// Все активные сессии завершаются: реестр refresh-токенов очищается.
func (uc *UseCaseAccount) ResetPassword(ctx context.Context, token, newPassword string) error {
	log := logger.Log(ctx).With(zap.String("usecase", "account"))
	log.Debug(ctx, msgResetPassword)

	if err := validatePassword(newPassword); err != nil {
		return fmt.Errorf("%s: %w", errCtxResetPassword, err)
	}

	user, err := uc.users.FindByResetToken(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return fmt.Errorf("%s: %w", errCtxResetPassword, services.ErrResetToken)
		}
		return fmt.Errorf("%s: %w", errCtxResetPassword, err)
	}

	passwordHash, err := uc.passwords.Hash(ctx, newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxResetPassword, err)
	}

	if err := uc.users.UpdatePassword(ctx, user.ID.Hex(), passwordHash, time.Now()); err != nil {
		return fmt.Errorf("%s: %w", errCtxResetPassword, err)
	}

	if err := uc.registry.RemoveAll(ctx, user.ID.Hex()); err != nil {
		log.Error(ctx, errMsgClearRegistry, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxResetPassword, err)
	}

	log.Info(ctx, msgPasswordReset, zap.String("userID", user.ID.Hex()))
	return nil
}

// ChangePassword меняет пароль аутентифицированного пользователя
// после проверки текущего. Реестр refresh-токенов очищается.
func (uc *UseCaseAccount) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	log := logger.Log(ctx).With(zap.String("usecase", "account"), zap.String("userID", userID))
	log.Debug(ctx, msgChangingPassword)

	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxChangePassword, err)
	}

	match, err := uc.passwords.Verify(ctx, currentPassword, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxChangePassword, err)
	}
	if !match {
		return fmt.Errorf("%s: %w", errCtxChangePassword, services.ErrInvalidCredentials)
	}

	if err := validatePassword(newPassword); err != nil {
		return fmt.Errorf("%s: %w", errCtxChangePassword, err)
	}

	passwordHash, err := uc.passwords.Hash(ctx, newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxChangePassword, err)
	}

	if err := uc.users.UpdatePassword(ctx, userID, passwordHash, time.Now()); err != nil {
		return fmt.Errorf("%s: %w", errCtxChangePassword, err)
	}

	if err := uc.registry.RemoveAll(ctx, userID); err != nil {
		log.Error(ctx, errMsgClearRegistry, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxChangePassword, err)
	}

	log.Info(ctx, msgPasswordChanged)
	return nil
}
