package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"authgate/internal/auth/domain/entities"
	"authgate/internal/auth/ports/repositories"
	svc "authgate/internal/auth/ports/services"
	"authgate/pkg/logger"
)

// Константы журналирования посева администратора.
const (
	msgSeedingAdmin     = "seeding admin account"
	msgAdminExists      = "admin account already exists, nothing to do"
	msgAdminCreated     = "admin account created"
	errCtxSeedAdmin     = "seeding admin"
	errCtxCheckExisting = "checking for existing admin"
)

// SeedAdmin создает первую административную учетную запись из переданных
// реквизитов. Если администратор уже существует, операция ничего не меняет
// и возвращает (nil, false, nil). Учетная запись создается активной и с
// подтвержденным email, чтобы административные маршруты были доступны
// сразу после развертывания.
func SeedAdmin(
	ctx context.Context,
	users repositories.UserRepository,
	passwords svc.PasswordService,
	name, email, password string,
) (*entities.User, bool, error) {
	log := logger.Log(ctx).With(zap.String("usecase", "seed_admin"))
	log.Info(ctx, msgSeedingAdmin)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, fmt.Errorf("%s: %w", errCtxSeedAdmin, entities.ErrEmptyName)
	}
	if err := validateEmail(email); err != nil {
		return nil, false, fmt.Errorf("%s: %w", errCtxSeedAdmin, err)
	}
	if err := validatePassword(password); err != nil {
		return nil, false, fmt.Errorf("%s: %w", errCtxSeedAdmin, err)
	}

	adminRole := entities.RoleAdmin
	page, err := users.List(ctx, repositories.ListFilter{Page: 1, Limit: 1, Role: &adminRole})
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", errCtxCheckExisting, err)
	}
	if page.Total > 0 {
		log.Info(ctx, msgAdminExists)
		return nil, false, nil
	}

	hash, err := passwords.Hash(ctx, password)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", errCtxSeedAdmin, err)
	}

	admin, err := users.Create(ctx, &entities.User{
		Name:          name,
		Email:         email,
		PasswordHash:  hash,
		Role:          entities.RoleAdmin,
		IsActive:      true,
		EmailVerified: true,
	})
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", errCtxSeedAdmin, err)
	}

	log.Info(ctx, msgAdminCreated, zap.String("email", admin.Email))
	return admin, true, nil
}
