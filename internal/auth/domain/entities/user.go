package entities

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Определяем ошибки домена пользователя как константы.
var (
	ErrEmptyUserID      = errors.New("user ID cannot be empty")
	ErrInvalidUserID    = errors.New("invalid user ID format")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrPasswordTooShort = errors.New("password must contain at least 8 characters")
	ErrPasswordTooWeak  = errors.New("password must contain at least one letter and one digit")
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidRole      = errors.New("invalid role")
)

// Role представляет уровень доступа пользователя.
type Role string

// Роли упорядочены: user < moderator < admin.
const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// roleLevels задает полный порядок на множестве ролей.
var roleLevels = map[Role]int{
	RoleUser:      1,
	RoleModerator: 2,
	RoleAdmin:     3,
}

// ParseRole проверяет и нормализует строковое представление роли.
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if _, ok := roleLevels[role]; !ok {
		return "", ErrInvalidRole
	}
	return role, nil
}

// Valid сообщает, принадлежит ли роль допустимому множеству.
func (r Role) Valid() bool {
	_, ok := roleLevels[r]
	return ok
}

// AtLeast сравнивает роли по иерархии.
func (r Role) AtLeast(minimum Role) bool {
	return roleLevels[r] >= roleLevels[minimum]
}

// RefreshTokenEntry - запись реестра refresh-токенов пользователя.
type RefreshTokenEntry struct {
	Token    string    `bson:"token"`
	IssuedAt time.Time `bson:"issued_at"`
}

// User представляет основную сущность домена пользователя.
// Хэш пароля никогда не попадает во внешние ответы.
type User struct {
	ID                     primitive.ObjectID  `bson:"_id,omitempty"`
	Name                   string              `bson:"name"`
	Email                  string              `bson:"email"`
	PasswordHash           string              `bson:"password_hash"`
	Role                   Role                `bson:"role"`
	IsActive               bool                `bson:"is_active"`
	IsDeleted              bool                `bson:"is_deleted"`
	EmailVerified          bool                `bson:"email_verified"`
	EmailVerificationToken string              `bson:"email_verification_token,omitempty"`
	EmailVerificationExp   *time.Time          `bson:"email_verification_expires,omitempty"`
	PasswordResetToken     string              `bson:"password_reset_token,omitempty"`
	PasswordResetExp       *time.Time          `bson:"password_reset_expires,omitempty"`
	PasswordChangedAt      *time.Time          `bson:"password_changed_at,omitempty"`
	RefreshTokens          []RefreshTokenEntry `bson:"refresh_tokens"`
	LastLogin              *time.Time          `bson:"last_login,omitempty"`
	CreatedAt              time.Time           `bson:"created_at"`
	UpdatedAt              time.Time           `bson:"updated_at"`
}

// CanAuthenticate сообщает, допускается ли учетная запись к аутентификации.
func (u *User) CanAuthenticate() bool {
	return u.IsActive && !u.IsDeleted
}

// PasswordChangedAfter сообщает, менялся ли пароль после указанного момента.
// Используется для отклонения access-токенов, выданных до смены пароля.
func (u *User) PasswordChangedAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.After(issuedAt)
}
