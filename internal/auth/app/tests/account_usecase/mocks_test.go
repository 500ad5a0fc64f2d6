package accountusecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"authgate/internal/auth/domain/entities"
	domain "authgate/internal/auth/domain/services"
	"authgate/internal/auth/ports/repositories"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) FindByVerificationToken(ctx context.Context, tokenHash string) (*entities.User, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) FindByResetToken(ctx context.Context, tokenHash string) (*entities.User, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) List(ctx context.Context, filter repositories.ListFilter) (*repositories.UserPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.UserPage), args.Error(1)
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, id, name, email string) (*entities.User, error) {
	args := m.Called(ctx, id, name, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error {
	return m.Called(ctx, id, passwordHash, changedAt).Error(0)
}

func (m *mockUserRepository) MarkEmailVerified(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserRepository) SetVerificationToken(ctx context.Context, id, tokenHash string, expires time.Time) error {
	return m.Called(ctx, id, tokenHash, expires).Error(0)
}

func (m *mockUserRepository) SetResetToken(ctx context.Context, id, tokenHash string, expires time.Time) error {
	return m.Called(ctx, id, tokenHash, expires).Error(0)
}

func (m *mockUserRepository) SetRole(ctx context.Context, id string, role entities.Role) error {
	return m.Called(ctx, id, role).Error(0)
}

func (m *mockUserRepository) SetActive(ctx context.Context, id string, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *mockUserRepository) SoftDelete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserRepository) SetLastLogin(ctx context.Context, id string, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

type mockTokenRegistry struct {
	mock.Mock
}

func (m *mockTokenRegistry) Add(ctx context.Context, userID, token string, issuedAt time.Time) error {
	return m.Called(ctx, userID, token, issuedAt).Error(0)
}

func (m *mockTokenRegistry) Remove(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockTokenRegistry) RemoveAll(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockTokenRegistry) Rotate(ctx context.Context, userID, oldToken, newToken string, issuedAt time.Time) error {
	return m.Called(ctx, userID, oldToken, newToken, issuedAt).Error(0)
}

func (m *mockTokenRegistry) Prune(ctx context.Context, userID string, olderThan time.Time) error {
	return m.Called(ctx, userID, olderThan).Error(0)
}

type mockPasswordService struct {
	mock.Mock
}

func (m *mockPasswordService) Hash(ctx context.Context, password string) (string, error) {
	args := m.Called(ctx, password)
	return args.String(0), args.Error(1)
}

func (m *mockPasswordService) Verify(ctx context.Context, password, hash string) (bool, error) {
	args := m.Called(ctx, password, hash)
	return args.Bool(0), args.Error(1)
}

type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) GenerateAccessToken(ctx context.Context, user *entities.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *mockTokenService) GenerateRefreshToken(ctx context.Context, userID string) (string, time.Time, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *mockTokenService) ValidateAccessToken(ctx context.Context, token string) (*domain.AccessClaims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccessClaims), args.Error(1)
}

func (m *mockTokenService) ValidateRefreshToken(ctx context.Context, token string) (*domain.RefreshClaims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefreshClaims), args.Error(1)
}

type mockMailService struct {
	mock.Mock
}

func (m *mockMailService) SendVerificationEmail(ctx context.Context, to, token string) error {
	return m.Called(ctx, to, token).Error(0)
}

func (m *mockMailService) SendPasswordResetEmail(ctx context.Context, to, token string) error {
	return m.Called(ctx, to, token).Error(0)
}
