// Package dto содержит структуры запросов и ответов HTTP API.
// Хэш пароля и служебные токены никогда не попадают в ответы.
package dto

import (
	"time"

	"authgate/internal/auth/domain/entities"
	"authgate/internal/auth/domain/services"
	"authgate/internal/auth/ports/repositories"
)

// RegisterRequest - запрос регистрации.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,min=2,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest - запрос входа.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest - запрос обновления пары токенов.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// LogoutRequest - запрос выхода.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// ForgotPasswordRequest - запрос восстановления пароля.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest - запрос установки нового пароля по токену.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

// ChangePasswordRequest - запрос смены пароля аутентифицированным пользователем.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=8"`
}

// UpdateProfileRequest - запрос изменения профиля. Пустые поля не меняются.
type UpdateProfileRequest struct {
	Name  string `json:"name"  validate:"omitempty,min=2,max=100"`
	Email string `json:"email" validate:"omitempty,email"`
}

// ChangeRoleRequest - административный запрос смены роли.
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user moderator admin"`
}

// SetStatusRequest - административный запрос смены статуса учетной записи.
type SetStatusRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// FieldError описывает ошибку валидации отдельного поля.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Envelope - общий формат ответа API.
type Envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	Data    any          `json:"data,omitempty"`
}

// UserResponse - представление пользователя в ответах API.
type UserResponse struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Role          string     `json:"role"`
	IsActive      bool       `json:"isActive"`
	EmailVerified bool       `json:"emailVerified"`
	LastLogin     *time.Time `json:"lastLogin,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// TokensResponse - пара токенов в ответах API.
type TokensResponse struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

// AuthResponse - ответ регистрации и входа.
type AuthResponse struct {
	User   UserResponse   `json:"user"`
	Tokens TokensResponse `json:"tokens"`
}

// UserPageResponse - страница административного списка пользователей.
type UserPageResponse struct {
	Users      []UserResponse `json:"users"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int64          `json:"totalPages"`
}

// NewUserResponse преобразует доменную сущность в ответ API.
func NewUserResponse(user *entities.User) UserResponse {
	return UserResponse{
		ID:            user.ID.Hex(),
		Name:          user.Name,
		Email:         user.Email,
		Role:          string(user.Role),
		IsActive:      user.IsActive,
		EmailVerified: user.EmailVerified,
		LastLogin:     user.LastLogin,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}

// NewTokensResponse преобразует пару токенов в ответ API.
func NewTokensResponse(tokens *services.TokenPair) TokensResponse {
	return TokensResponse{
		AccessToken:      tokens.AccessToken,
		RefreshToken:     tokens.RefreshToken,
		AccessExpiresAt:  tokens.AccessExpiresAt,
		RefreshExpiresAt: tokens.RefreshExpiresAt,
	}
}

// NewAuthResponse преобразует результат аутентификации в ответ API.
func NewAuthResponse(result *services.AuthResult) AuthResponse {
	return AuthResponse{
		User:   NewUserResponse(result.User),
		Tokens: NewTokensResponse(result.Tokens),
	}
}

// NewUserPageResponse преобразует страницу пользователей в ответ API.
func NewUserPageResponse(page *repositories.UserPage) UserPageResponse {
	users := make([]UserResponse, 0, len(page.Users))
	for _, user := range page.Users {
		users = append(users, NewUserResponse(user))
	}
	return UserPageResponse{
		Users:      users,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	}
}
