package mongodb

import (
	"go.mongodb.org/mongo-driver/mongo"

	"authgate/internal/auth/ports/repositories"
)

// RepositoryFactory создает все необходимые репозитории поверх одной базы.
type RepositoryFactory struct {
	userRepository repositories.UserRepository
	tokenRegistry  repositories.TokenRegistry
}

// NewRepositoryFactory создает новую фабрику репозиториев.
func NewRepositoryFactory(database *mongo.Database) *RepositoryFactory {
	return &RepositoryFactory{
		userRepository: NewUserRepository(database),
		tokenRegistry:  NewTokenRegistry(database),
	}
}

// UserRepository возвращает репозиторий пользователей.
func (f *RepositoryFactory) UserRepository() repositories.UserRepository {
	return f.userRepository
}

// TokenRegistry возвращает реестр refresh-токенов.
func (f *RepositoryFactory) TokenRegistry() repositories.TokenRegistry {
	return f.tokenRegistry
}
