package api

import (
	"context"

	"authgate/internal/auth/domain/entities"
	"authgate/internal/auth/ports/repositories"
)

// UserUseCase определяет порт для пользовательских и административных операций.
type UserUseCase interface {
	GetProfile(ctx context.Context, userID string) (*entities.User, error)

	UpdateProfile(ctx context.Context, userID, name, email string) (*entities.User, error)

	ListUsers(ctx context.Context, filter repositories.ListFilter) (*repositories.UserPage, error)

	ChangeRole(ctx context.Context, actorID, targetID string, role entities.Role) (*entities.User, error)

	SetStatus(ctx context.Context, actorID, targetID string, active bool) (*entities.User, error)

	DeleteUser(ctx context.Context, actorID, targetID string) error
}
