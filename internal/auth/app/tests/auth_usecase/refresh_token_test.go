package authusecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"authgate/internal/auth/app"
	"authgate/internal/auth/domain/entities"
	"authgate/internal/auth/domain/services"
)

func TestRefreshTokens(t *testing.T) {
	userID := primitive.NewObjectID()
	oldRefreshToken := "old-refresh-token"
	now := time.Now()
	accessExpiry := now.Add(15 * time.Minute)
	refreshExpiry := now.Add(testRefreshTTL)

	validClaims := &services.RefreshClaims{
		UserID:    userID.Hex(),
		TokenID:   "token-id-1",
		IssuedAt:  now.Add(-time.Hour),
		ExpiresAt: now.Add(testRefreshTTL - time.Hour),
	}

	activeUser := func() *entities.User {
		return &entities.User{
			ID:            userID,
			Email:         "test@example.com",
			Role:          entities.RoleUser,
			IsActive:      true,
			EmailVerified: true,
		}
	}

	tests := []struct {
		name        string
		setupMocks  func(users *mockUserRepository, registry *mockTokenRegistry, tokens *mockTokenService)
		expectedErr error
	}{
		{
			name: "success - pair rotated",
			setupMocks: func(users *mockUserRepository, registry *mockTokenRegistry, tokens *mockTokenService) {
				tokens.On("ValidateRefreshToken", mock.Anything, oldRefreshToken).Return(validClaims, nil).Once()
				users.On("FindByID", mock.Anything, userID.Hex()).Return(activeUser(), nil).Once()
				tokens.On("GenerateAccessToken", mock.Anything, mock.Anything).
					Return("new-access-token", accessExpiry, nil).Once()
				tokens.On("GenerateRefreshToken", mock.Anything, userID.Hex()).
					Return("new-refresh-token", refreshExpiry, nil).Once()
				registry.On("Rotate", mock.Anything, userID.Hex(), oldRefreshToken, "new-refresh-token", mock.Anything).
					Return(nil).Once()
			},
		},
		{
			name: "error - invalid token",
			setupMocks: func(_ *mockUserRepository, _ *mockTokenRegistry, tokens *mockTokenService) {
				tokens.On("ValidateRefreshToken", mock.Anything, oldRefreshToken).
					Return(nil, services.ErrInvalidJWTToken).Once()
			},
			expectedErr: services.ErrInvalidRefreshToken,
		},
		{
			name: "error - subject no longer exists",
			setupMocks: func(users *mockUserRepository, _ *mockTokenRegistry, tokens *mockTokenService) {
				tokens.On("ValidateRefreshToken", mock.Anything, oldRefreshToken).Return(validClaims, nil).Once()
				users.On("FindByID", mock.Anything, userID.Hex()).
					Return(nil, entities.ErrUserNotFound).Once()
			},
			expectedErr: services.ErrInvalidRefreshToken,
		},
		{
			name: "error - deactivated account",
			setupMocks: func(users *mockUserRepository, _ *mockTokenRegistry, tokens *mockTokenService) {
				user := activeUser()
				user.IsActive = false
				tokens.On("ValidateRefreshToken", mock.Anything, oldRefreshToken).Return(validClaims, nil).Once()
				users.On("FindByID", mock.Anything, userID.Hex()).Return(user, nil).Once()
			},
			expectedErr: services.ErrAccountInactive,
		},
		{
			name: "error - token already rotated",
			setupMocks: func(users *mockUserRepository, registry *mockTokenRegistry, tokens *mockTokenService) {
				tokens.On("ValidateRefreshToken", mock.Anything, oldRefreshToken).Return(validClaims, nil).Once()
				users.On("FindByID", mock.Anything, userID.Hex()).Return(activeUser(), nil).Once()
				tokens.On("GenerateAccessToken", mock.Anything, mock.Anything).
					Return("new-access-token", accessExpiry, nil).Once()
				tokens.On("GenerateRefreshToken", mock.Anything, userID.Hex()).
					Return("new-refresh-token", refreshExpiry, nil).Once()
				registry.On("Rotate", mock.Anything, userID.Hex(), oldRefreshToken, "new-refresh-token", mock.Anything).
					Return(services.ErrRevokedRefreshToken).Once()
			},
			expectedErr: services.ErrRevokedRefreshToken,
		},
	}

	for _, ttt := range tests {
		t.Run(ttt.name, func(t *testing.T) {
			users := new(mockUserRepository)
			registry := new(mockTokenRegistry)
			passwords := new(mockPasswordService)
			tokens := new(mockTokenService)
			mail := new(mockMailService)

			ttt.setupMocks(users, registry, tokens)

			authUseCase := app.NewAuthUseCase(users, registry, tokens, passwords, mail, newTestAppConfig(), testRefreshTTL)

			pair, err := authUseCase.RefreshTokens(context.Background(), oldRefreshToken)

			if ttt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, ttt.expectedErr)
				assert.Nil(t, pair)
			} else {
				require.NoError(t, err)
				require.NotNil(t, pair)
				assert.Equal(t, "new-access-token", pair.AccessToken)
				assert.Equal(t, "new-refresh-token", pair.RefreshToken)
			}

			users.AssertExpectations(t)
			registry.AssertExpectations(t)
			tokens.AssertExpectations(t)
		})
	}
}
