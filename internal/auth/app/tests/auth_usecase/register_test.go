package authusecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

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

const testRefreshTTL = 168 * time.Hour

func newTestAppConfig() *config.AppConfig {
	return &config.AppConfig{
		BaseURL:               "http://localhost:8080",
		RequireVerifiedEmail:  true,
		VerificationTokenTTL:  "24h",
		PasswordResetTokenTTL: "1h",
	}
}

func TestRegister(t *testing.T) {
	testName := "Test User"
	testEmail := "test@example.com"
	testPassword := "password123"
	hashedPassword := "$2a$12$hashed"

	userID := primitive.NewObjectID()
	now := time.Now()
	accessExpiry := now.Add(15 * time.Minute)
	refreshExpiry := now.Add(testRefreshTTL)

	createdUser := &entities.User{
		ID:           userID,
		Name:         testName,
		Email:        testEmail,
		PasswordHash: hashedPassword,
		Role:         entities.RoleUser,
		IsActive:     true,
	}

	tests := []struct {
		name        string
		userName    string
		email       string
		password    string
		setupMocks  func(users *mockUserRepository, registry *mockTokenRegistry, passwords *mockPasswordService, tokens *mockTokenService, mail *mockMailService)
		expectedErr error
	}{
		{
			name:     "success - user registered",
			userName: testName,
			email:    testEmail,
			password: testPassword,
			setupMocks: func(users *mockUserRepository, registry *mockTokenRegistry, passwords *mockPasswordService, tokens *mockTokenService, mail *mockMailService) {
				passwords.On("Hash", mock.Anything, testPassword).Return(hashedPassword, nil).Once()
				users.On("Create", mock.Anything, mock.MatchedBy(func(u *entities.User) bool {
					return u.Email == testEmail && u.Role == entities.RoleUser && u.IsActive
				})).Return(createdUser, nil).Once()
				users.On("SetVerificationToken", mock.Anything, userID.Hex(), mock.Anything, mock.Anything).
					Return(nil).Once()
				mail.On("SendVerificationEmail", mock.Anything, testEmail, mock.Anything).Return(nil).Maybe()
				tokens.On("GenerateAccessToken", mock.Anything, createdUser).
					Return("access-token", accessExpiry, nil).Once()
				tokens.On("GenerateRefreshToken", mock.Anything, userID.Hex()).
					Return("refresh-token", refreshExpiry, nil).Once()
				registry.On("Add", mock.Anything, userID.Hex(), "refresh-token", mock.Anything).Return(nil).Once()
			},
		},
		{
			name:        "error - empty name",
			userName:    "   ",
			email:       testEmail,
			password:    testPassword,
			setupMocks:  func(*mockUserRepository, *mockTokenRegistry, *mockPasswordService, *mockTokenService, *mockMailService) {},
			expectedErr: entities.ErrEmptyName,
		},
		{
			name:        "error - invalid email",
			userName:    testName,
			email:       "not-an-email",
			password:    testPassword,
			setupMocks:  func(*mockUserRepository, *mockTokenRegistry, *mockPasswordService, *mockTokenService, *mockMailService) {},
			expectedErr: entities.ErrInvalidEmail,
		},
		{
			name:        "error - password too short",
			userName:    testName,
			email:       testEmail,
			password:    "a1b2c3",
			setupMocks:  func(*mockUserRepository, *mockTokenRegistry, *mockPasswordService, *mockTokenService, *mockMailService) {},
			expectedErr: entities.ErrPasswordTooShort,
		},
		{
			name:        "error - password without digits",
			userName:    testName,
			email:       testEmail,
			password:    "passwordonly",
			setupMocks:  func(*mockUserRepository, *mockTokenRegistry, *mockPasswordService, *mockTokenService, *mockMailService) {},
			expectedErr: entities.ErrPasswordTooWeak,
		},
		{
			name:     "error - duplicate email",
			userName: testName,
			email:    testEmail,
			password: testPassword,
			setupMocks: func(users *mockUserRepository, _ *mockTokenRegistry, passwords *mockPasswordService, _ *mockTokenService, _ *mockMailService) {
				passwords.On("Hash", mock.Anything, testPassword).Return(hashedPassword, nil).Once()
				users.On("Create", mock.Anything, mock.Anything).
					Return(nil, services.ErrEmailAlreadyExists).Once()
			},
			expectedErr: services.ErrEmailAlreadyExists,
		},
		{
			name:     "error - token generation fails",
			userName: testName,
			email:    testEmail,
			password: testPassword,
			setupMocks: func(users *mockUserRepository, _ *mockTokenRegistry, passwords *mockPasswordService, tokens *mockTokenService, mail *mockMailService) {
				passwords.On("Hash", mock.Anything, testPassword).Return(hashedPassword, nil).Once()
				users.On("Create", mock.Anything, mock.Anything).Return(createdUser, nil).Once()
				users.On("SetVerificationToken", mock.Anything, userID.Hex(), mock.Anything, mock.Anything).
					Return(nil).Once()
				mail.On("SendVerificationEmail", mock.Anything, testEmail, mock.Anything).Return(nil).Maybe()
				tokens.On("GenerateAccessToken", mock.Anything, createdUser).
					Return("", time.Time{}, ErrDatabase).Once()
			},
			expectedErr: services.ErrTokenGenerationFailed,
		},
	}

	for _, ttt := range tests {
		t.Run(ttt.name, func(t *testing.T) {
			users := new(mockUserRepository)
			registry := new(mockTokenRegistry)
			passwords := new(mockPasswordService)
			tokens := new(mockTokenService)
			mail := new(mockMailService)

			ttt.setupMocks(users, registry, passwords, tokens, mail)

			authUseCase := app.NewAuthUseCase(users, registry, tokens, passwords, mail, newTestAppConfig(), testRefreshTTL)

			result, err := authUseCase.Register(context.Background(), ttt.userName, ttt.email, ttt.password, entities.RoleUser)

			if ttt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, ttt.expectedErr)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				require.NotNil(t, result)
				assert.Equal(t, testEmail, result.User.Email)
				assert.Equal(t, "access-token", result.Tokens.AccessToken)
				assert.Equal(t, "refresh-token", result.Tokens.RefreshToken)
				assert.Equal(t, accessExpiry, result.Tokens.AccessExpiresAt)
				assert.Equal(t, refreshExpiry, result.Tokens.RefreshExpiresAt)
			}

			users.AssertExpectations(t)
			registry.AssertExpectations(t)
			passwords.AssertExpectations(t)
			tokens.AssertExpectations(t)
		})
	}
}
