package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"authgate/internal/auth/domain/entities"
	"authgate/internal/auth/domain/services"
	"authgate/internal/auth/ports/api"
	"authgate/internal/auth/ports/repositories"
	"authgate/pkg/logger"
)

// Константы журналирования пользовательского use case.
const (
	msgGettingProfile  = "getting user profile"
	msgUpdatingProfile = "updating user profile"
	msgListingUsers    = "listing users"
	msgChangingRole    = "changing user role"
	msgRoleChanged     = "user role changed"
	msgSettingStatus   = "setting account status"
	msgStatusSet       = "account status changed"
	msgDeletingUser    = "deleting user"
	msgUserDeleted     = "user deleted"
	errCtxGetProfile   = "getting profile"
	errCtxUpdate       = "updating profile"
	errCtxList         = "listing users"
	errCtxChangeRole   = "changing role"
	errCtxSetStatus    = "setting status"
	errCtxDelete       = "deleting user"
)

// UseCaseUser реализует порт api.UserUseCase.
type UseCaseUser struct {
	users    repositories.UserRepository
	registry repositories.TokenRegistry
}

// NewUserUseCase создает новый пользовательский use case.
func NewUserUseCase(users repositories.UserRepository, registry repositories.TokenRegistry) api.UserUseCase {
	return &UseCaseUser{users: users, registry: registry}
}

// GetProfile возвращает профиль пользователя.
func (uc *UseCaseUser) GetProfile(ctx context.Context, userID string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("usecase", "user"), zap.String("userID", userID))
	log.Debug(ctx, msgGettingProfile)

	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxGetProfile, err)
	}
	return user, nil
}

// UpdateProfile изменяет имя и email пользователя. Пустые поля
// остаются без изменений.
func (uc *UseCaseUser) UpdateProfile(ctx context.Context, userID, name, email string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("usecase", "user"), zap.String("userID", userID))
	log.Debug(ctx, msgUpdatingProfile)

	name = strings.TrimSpace(name)
	if email != "" {
		if err := validateEmail(email); err != nil {
			return nil, fmt.Errorf("%s: %w", errCtxUpdate, err)
		}
	}
	if name == "" && email == "" {
		return uc.users.FindByID(ctx, userID)
	}

	user, err := uc.users.UpdateProfile(ctx, userID, name, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxUpdate, err)
	}
	return user, nil
}

// ListUsers возвращает страницу пользователей по фильтрам администратора.
func (uc *UseCaseUser) ListUsers(ctx context.Context, filter repositories.ListFilter) (*repositories.UserPage, error) {
	log := logger.Log(ctx).With(zap.String("usecase", "user"))
	log.Debug(ctx, msgListingUsers, zap.Int("page", filter.Page), zap.Int("limit", filter.Limit))

	page, err := uc.users.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxList, err)
	}
	return page, nil
}

// ChangeRole изменяет роль пользователя. Администратор не может
// изменить собственную роль.
func (uc *UseCaseUser) ChangeRole(ctx context.Context, actorID, targetID string, role entities.Role) (*entities.User, error) {
	log := logger.Log(ctx).With(
		zap.String("usecase", "user"),
		zap.String("actorID", actorID),
		zap.String("targetID", targetID),
	)
	log.Debug(ctx, msgChangingRole, zap.String("role", string(role)))

	if actorID == targetID {
		return nil, fmt.Errorf("%s: %w", errCtxChangeRole, services.ErrSelfModification)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%s: %w", errCtxChangeRole, entities.ErrInvalidRole)
	}

	if err := uc.users.SetRole(ctx, targetID, role); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxChangeRole, err)
	}

	user, err := uc.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxChangeRole, err)
	}

	log.Info(ctx, msgRoleChanged, zap.String("role", string(role)))
	return user, nil
}

// SetStatus активирует или деактивирует учетную запись. Деактивация
// завершает все сессии пользователя. Администратор не может
// деактивировать собственную учетную запись.
func (uc *UseCaseUser) SetStatus(ctx context.Context, actorID, targetID string, active bool) (*entities.User, error) {
	log := logger.Log(ctx).With(
		zap.String("usecase", "user"),
		zap.String("actorID", actorID),
		zap.String("targetID", targetID),
	)
	log.Debug(ctx, msgSettingStatus, zap.Bool("active", active))

	if actorID == targetID {
		return nil, fmt.Errorf("%s: %w", errCtxSetStatus, services.ErrSelfModification)
	}

	if err := uc.users.SetActive(ctx, targetID, active); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxSetStatus, err)
	}

	if !active {
		if err := uc.registry.RemoveAll(ctx, targetID); err != nil {
			return nil, fmt.Errorf("%s: %w", errCtxSetStatus, err)
		}
	}

	user, err := uc.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxSetStatus, err)
	}

	log.Info(ctx, msgStatusSet, zap.Bool("active", active))
	return user, nil
}

// DeleteUser помечает учетную запись удаленной и завершает её сессии.
// Администратор не может удалить собственную учетную запись.
func (uc *UseCaseUser) DeleteUser(ctx context.Context, actorID, targetID string) error {
	log := logger.Log(ctx).With(
		zap.String("usecase", "user"),
		zap.String("actorID", actorID),
		zap.String("targetID", targetID),
	)
	log.Debug(ctx, msgDeletingUser)

	if actorID == targetID {
		return fmt.Errorf("%s: %w", errCtxDelete, services.ErrSelfModification)
	}

	if err := uc.users.SoftDelete(ctx, targetID); err != nil {
		return fmt.Errorf("%s: %w", errCtxDelete, err)
	}

	if err := uc.registry.RemoveAll(ctx, targetID); err != nil {
		return fmt.Errorf("%s: %w", errCtxDelete, err)
	}

	log.Info(ctx, msgUserDeleted)
	return nil
}
