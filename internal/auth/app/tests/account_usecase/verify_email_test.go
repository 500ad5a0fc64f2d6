package accountusecase_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"authgate/internal/auth/app"
	"authgate/internal/auth/config"
	"authgate/internal/auth/domain/entities"
	"authgate/internal/auth/domain/services"
)

var ErrDatabase = errors.New("database connection error")

func newTestAppConfig() *config.AppConfig {
	return &config.AppConfig{
		BaseURL:               "http://localhost:8080",
		RequireVerifiedEmail:  true,
		VerificationTokenTTL:  "24h",
		PasswordResetTokenTTL: "1h",
	}
}

func sha256hex(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func TestVerifyEmail(t *testing.T) {
	userID := primitive.NewObjectID()
	rawToken := "raw-verification-token"

	testUser := &entities.User{
		ID:       userID,
		Email:    "test@example.com",
		IsActive: true,
	}

	t.Run("success - email verified", func(t *testing.T) {
		users := new(mockUserRepository)
		registry := new(mockTokenRegistry)

		users.On("FindByVerificationToken", mock.Anything, sha256hex(rawToken)).Return(testUser, nil).Once()
		users.On("MarkEmailVerified", mock.Anything, userID.Hex()).Return(nil).Once()

		accountUseCase := app.NewAccountUseCase(users, registry, new(mockPasswordService), new(mockMailService), newTestAppConfig())

		err := accountUseCase.VerifyEmail(context.Background(), rawToken)

		require.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("error - unknown or expired token", func(t *testing.T) {
		users := new(mockUserRepository)

		users.On("FindByVerificationToken", mock.Anything, mock.Anything).
			Return(nil, entities.ErrUserNotFound).Once()

		accountUseCase := app.NewAccountUseCase(users, new(mockTokenRegistry), new(mockPasswordService), new(mockMailService), newTestAppConfig())

		err := accountUseCase.VerifyEmail(context.Background(), "expired-token")

		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrVerificationToken)
		users.AssertExpectations(t)
	})

	t.Run("error - storage failure surfaces", func(t *testing.T) {
		users := new(mockUserRepository)

		users.On("FindByVerificationToken", mock.Anything, mock.Anything).Return(nil, ErrDatabase).Once()

		accountUseCase := app.NewAccountUseCase(users, new(mockTokenRegistry), new(mockPasswordService), new(mockMailService), newTestAppConfig())

		err := accountUseCase.VerifyEmail(context.Background(), rawToken)

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDatabase)
		assert.NotErrorIs(t, err, services.ErrVerificationToken)
	})
}
