package middleware_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"authgate/internal/auth/adapters/httpapi/dto"
	"authgate/internal/auth/adapters/httpapi/middleware"
	"authgate/internal/auth/domain/entities"
	domain "authgate/internal/auth/domain/services"
	"authgate/internal/auth/ports/repositories"
	"authgate/internal/auth/ports/services"
	"authgate/pkg/logger"
)

type fakeTokenService struct {
	services.TokenService
	claims *domain.AccessClaims
	err    error
}

func (f *fakeTokenService) ValidateAccessToken(_ context.Context, _ string) (*domain.AccessClaims, error) {
	return f.claims, f.err
}

type fakeUserRepository struct {
	repositories.UserRepository
	user *entities.User
	err  error
}

func (f *fakeUserRepository) FindByID(_ context.Context, _ string) (*entities.User, error) {
	return f.user, f.err
}

func newProtectedApp(t *testing.T, tokens services.TokenService, users repositories.UserRepository) *fiber.App {
	t.Helper()
	require.NoError(t, logger.InitGlobalLogger(logger.Development))

	app := fiber.New()
	app.Get("/protected", func(ctx fiber.Ctx) error {
		userID, ok := middleware.UserID(ctx)
		if !ok {
			return ctx.SendStatus(fiber.StatusInternalServerError)
		}
		return ctx.SendString(userID)
	}, middleware.NewAuthMiddleware(tokens, users))

	return app
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) (*http.Response, dto.Envelope) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	var envelope dto.Envelope
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = json.Unmarshal(body, &envelope)

	return resp, envelope
}

func TestAuthMiddleware(t *testing.T) {
	now := time.Now()
	userID := primitive.NewObjectID()

	activeUser := func() *entities.User {
		return &entities.User{
			ID:       userID,
			Email:    "user@example.com",
			Role:     entities.RoleUser,
			IsActive: true,
		}
	}
	freshClaims := &domain.AccessClaims{
		UserID:    userID.Hex(),
		Email:     "user@example.com",
		Role:      entities.RoleUser,
		IssuedAt:  now,
		ExpiresAt: now.Add(15 * time.Minute),
	}

	t.Run("missing authorization header", func(t *testing.T) {
		app := newProtectedApp(t, &fakeTokenService{}, &fakeUserRepository{})

		resp, envelope := doRequest(t, app, "")

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.False(t, envelope.Success)
		assert.Equal(t, middleware.ErrorNoAuthHeader, envelope.Message)
	})

	t.Run("malformed authorization header", func(t *testing.T) {
		app := newProtectedApp(t, &fakeTokenService{}, &fakeUserRepository{})

		resp, envelope := doRequest(t, app, "Token abc")

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, middleware.ErrorInvalidTokenFormat, envelope.Message)
	})

	t.Run("invalid access token", func(t *testing.T) {
		tokens := &fakeTokenService{err: domain.ErrInvalidJWTToken}
		app := newProtectedApp(t, tokens, &fakeUserRepository{})

		resp, envelope := doRequest(t, app, "Bearer bad-token")

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, middleware.ErrorInvalidToken, envelope.Message)
	})

	t.Run("deactivated account", func(t *testing.T) {
		user := activeUser()
		user.IsActive = false
		app := newProtectedApp(t,
			&fakeTokenService{claims: freshClaims},
			&fakeUserRepository{user: user})

		resp, envelope := doRequest(t, app, "Bearer token")

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, domain.ErrAccountInactive.Error(), envelope.Message)
	})

	t.Run("token issued before password change", func(t *testing.T) {
		changedAt := now.Add(-30 * time.Minute)
		user := activeUser()
		user.PasswordChangedAt = &changedAt

		staleClaims := &domain.AccessClaims{
			UserID:    userID.Hex(),
			Email:     "user@example.com",
			Role:      entities.RoleUser,
			IssuedAt:  now.Add(-time.Hour),
			ExpiresAt: now.Add(15 * time.Minute),
		}
		app := newProtectedApp(t,
			&fakeTokenService{claims: staleClaims},
			&fakeUserRepository{user: user})

		resp, envelope := doRequest(t, app, "Bearer stale-token")

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.False(t, envelope.Success)
		assert.Equal(t, domain.ErrStaleAccessToken.Error(), envelope.Message)
	})

	t.Run("token issued after password change", func(t *testing.T) {
		changedAt := now.Add(-30 * time.Minute)
		user := activeUser()
		user.PasswordChangedAt = &changedAt

		app := newProtectedApp(t,
			&fakeTokenService{claims: freshClaims},
			&fakeUserRepository{user: user})

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer fresh-token")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, userID.Hex(), string(body))
	})
}
