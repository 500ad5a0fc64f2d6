package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"authgate/internal/auth/domain/entities"
	"authgate/internal/auth/domain/services"
	"authgate/internal/auth/ports/repositories"
	"authgate/pkg/logger"
)

// Константы реестра refresh-токенов.
const (
	refreshTokensField = "refresh_tokens"
	tokenField         = "refresh_tokens.token"

	msgTokenAdded    = "refresh token added to registry"
	msgTokenRemoved  = "refresh token removed from registry"
	msgTokensCleared = "all refresh tokens removed"
	msgTokenRotated  = "refresh token rotated"
	msgTokenRevoked  = "refresh token not found in registry"
)

// TokenRegistry реализует интерфейс repositories.TokenRegistry поверх
// встроенного массива refresh_tokens документа пользователя.
type TokenRegistry struct {
	collection *mongo.Collection
}

// NewTokenRegistry создает новый экземпляр реестра refresh-токенов.
func NewTokenRegistry(database *mongo.Database) repositories.TokenRegistry {
	return &TokenRegistry{collection: database.Collection(UsersCollection)}
}

// Add регистрирует новый refresh-токен пользователя.
func (r *TokenRegistry) Add(ctx context.Context, userID, token string, issuedAt time.Time) error {
	log := logger.Log(ctx).With(zap.String("repository", "tokenRegistry"), zap.String("userID", userID))

	oid, err := objectID(userID)
	if err != nil {
		return err
	}

	entry := entities.RefreshTokenEntry{Token: token, IssuedAt: issuedAt}
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$push": bson.M{refreshTokensField: entry}},
	)
	if err != nil {
		log.Error(ctx, "error adding refresh token", zap.Error(err))
		return fmt.Errorf("error adding refresh token: %w", err)
	}
	if result.MatchedCount == 0 {
		return entities.ErrUserNotFound
	}

	log.Debug(ctx, msgTokenAdded)
	return nil
}

// Remove удаляет токен из реестра его владельца. Отсутствие токена
// не считается ошибкой: повторный выход идемпотентен.
func (r *TokenRegistry) Remove(ctx context.Context, token string) error {
	log := logger.Log(ctx).With(zap.String("repository", "tokenRegistry"))

	_, err := r.collection.UpdateOne(ctx,
		bson.M{tokenField: token},
		bson.M{"$pull": bson.M{refreshTokensField: bson.M{"token": token}}},
	)
	if err != nil {
		log.Error(ctx, "error removing refresh token", zap.Error(err))
		return fmt.Errorf("error removing refresh token: %w", err)
	}

	log.Debug(ctx, msgTokenRemoved)
	return nil
}

// RemoveAll очищает реестр refresh-токенов пользователя.
func (r *TokenRegistry) RemoveAll(ctx context.Context, userID string) error {
	log := logger.Log(ctx).With(zap.String("repository", "tokenRegistry"), zap.String("userID", userID))

	oid, err := objectID(userID)
	if err != nil {
		return err
	}

	_, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{refreshTokensField: []entities.RefreshTokenEntry{}}},
	)
	if err != nil {
		log.Error(ctx, "error clearing refresh tokens", zap.Error(err))
		return fmt.Errorf("error clearing refresh tokens: %w", err)
	}

	log.Debug(ctx, msgTokensCleared)
	return nil
}

// Rotate атомарно заменяет старый токен новым одной операцией compare-and-swap.
// Фильтр совпадает только если старый токен ещё числится в реестре, поэтому
// из двух конкурирующих запросов с одним refresh-токеном выигрывает ровно один.
func (r *TokenRegistry) Rotate(ctx context.Context, userID, oldToken, newToken string, issuedAt time.Time) error {
	log := logger.Log(ctx).With(zap.String("repository", "tokenRegistry"), zap.String("userID", userID))

	oid, err := objectID(userID)
	if err != nil {
		return err
	}

	entry := entities.RefreshTokenEntry{Token: newToken, IssuedAt: issuedAt}
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": oid, tokenField: oldToken},
		bson.M{"$set": bson.M{refreshTokensField + ".$": entry}},
	)
	if err != nil {
		log.Error(ctx, "error rotating refresh token", zap.Error(err))
		return fmt.Errorf("error rotating refresh token: %w", err)
	}
	if result.MatchedCount == 0 {
		log.Warn(ctx, msgTokenRevoked)
		return services.ErrRevokedRefreshToken
	}

	log.Debug(ctx, msgTokenRotated)
	return nil
}

// Prune удаляет из реестра токены, выданные раньше указанного момента.
func (r *TokenRegistry) Prune(ctx context.Context, userID string, olderThan time.Time) error {
	log := logger.Log(ctx).With(zap.String("repository", "tokenRegistry"), zap.String("userID", userID))

	oid, err := objectID(userID)
	if err != nil {
		return err
	}

	_, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$pull": bson.M{refreshTokensField: bson.M{"issued_at": bson.M{"$lt": olderThan}}}},
	)
	if err != nil {
		log.Error(ctx, "error pruning refresh tokens", zap.Error(err))
		return fmt.Errorf("error pruning refresh tokens: %w", err)
	}

	return nil
}
