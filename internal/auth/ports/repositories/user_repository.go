package repositories

import (
	"context"
	"time"

	"authgate/internal/auth/domain/entities"
)

// ListFilter описывает фильтры и пагинацию административного списка пользователей.
type ListFilter struct {
	Page     int
	Limit    int
	Role     *entities.Role
	IsActive *bool
}

// UserPage - страница результатов административного списка.
type UserPage struct {
	Users      []*entities.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int64
}

// UserRepository определяет интерфейс для операций сохранения данных пользователя.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) (*entities.User, error)

	FindByID(ctx context.Context, id string) (*entities.User, error)

	FindByEmail(ctx context.Context, email string) (*entities.User, error)

	FindByVerificationToken(ctx context.Context, tokenHash string) (*entities.User, error)

	FindByResetToken(ctx context.Context, tokenHash string) (*entities.User, error)

	List(ctx context.Context, filter ListFilter) (*UserPage, error)

	UpdateProfile(ctx context.Context, id, name, email string) (*entities.User, error)

	UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error

	MarkEmailVerified(ctx context.Context, id string) error

	SetVerificationToken(ctx context.Context, id, tokenHash string, expires time.Time) error

	SetResetToken(ctx context.Context, id, tokenHash string, expires time.Time) error

	SetRole(ctx context.Context, id string, role entities.Role) error

	SetActive(ctx context.Context, id string, active bool) error

	SoftDelete(ctx context.Context, id string) error

	SetLastLogin(ctx context.Context, id string, at time.Time) error
}
