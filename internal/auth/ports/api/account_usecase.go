package api

import (
	"context"
)

// AccountUseCase определяет порт для операций жизненного цикла учетной записи:
// подтверждение email, восстановление и смена пароля.
type AccountUseCase interface {
	VerifyEmail(ctx context.Context, token string) error

	ForgotPassword(ctx context.Context, email string) error

	ResetPassword(ctx context.Context, token, newPassword string) error

	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}
