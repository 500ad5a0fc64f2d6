// Package mongodb реализует порты репозиториев поверх MongoDB.
// Учетная запись и её реестр refresh-токенов хранятся одним документом
// коллекции users.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"authgate/internal/auth/domain/entities"
	"authgate/internal/auth/domain/services"
	"authgate/internal/auth/ports/repositories"
	"authgate/pkg/logger"
)

// UsersCollection - имя коллекции пользователей.
const UsersCollection = "users"

// Ограничения пагинации административного списка.
const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// UserRepository реализует интерфейс repositories.UserRepository для работы с MongoDB.
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository создает новый экземпляр репозитория пользователей.
func NewUserRepository(database *mongo.Database) repositories.UserRepository {
	return &UserRepository{collection: database.Collection(UsersCollection)}
}

// objectID разбирает строковый идентификатор документа.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("parsing user id: %w", entities.ErrInvalidUserID)
	}
	return oid, nil
}

// Create сохраняет нового пользователя. Email хранится в нижнем регистре,
// уникальность обеспечивает индекс коллекции.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Create"))

	now := time.Now()
	user.Email = strings.ToLower(user.Email)
	if user.Role == "" {
		user.Role = entities.RoleUser
	}
	if user.RefreshTokens == nil {
		user.RefreshTokens = []entities.RefreshTokenEntry{}
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			log.Debug(ctx, "duplicate email on insert")
			return nil, services.ErrEmailAlreadyExists
		}
		log.Error(ctx, "error inserting user", zap.Error(err))
		return nil, fmt.Errorf("error inserting user: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}

	return user, nil
}

// findOne выполняет поиск одного документа с маппингом ErrNoDocuments.
func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*entities.User, error) {
	var user entities.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("error querying user: %w", err)
	}
	return &user, nil
}

// FindByID находит пользователя по ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindByID"))

	oid, err := objectID(id)
	if err != nil {
		log.Debug(ctx, "invalid user id", zap.String("id", id))
		return nil, err
	}

	user, err := r.findOne(ctx, bson.M{"_id": oid})
	if err != nil {
		if !errors.Is(err, entities.ErrUserNotFound) {
			log.Error(ctx, "error finding user by id", zap.Error(err))
		}
		return nil, err
	}
	return user, nil
}

// FindByEmail находит пользователя по email без учета регистра.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindByEmail"))

	user, err := r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
	if err != nil {
		if !errors.Is(err, entities.ErrUserNotFound) {
			log.Error(ctx, "error finding user by email", zap.Error(err))
		}
		return nil, err
	}
	return user, nil
}

// FindByVerificationToken находит пользователя по хэшу токена подтверждения
// с неистекшим сроком действия.
func (r *UserRepository) FindByVerificationToken(ctx context.Context, tokenHash string) (*entities.User, error) {
	return r.findOne(ctx, bson.M{
		"email_verification_token":   tokenHash,
		"email_verification_expires": bson.M{"$gt": time.Now()},
	})
}

// FindByResetToken находит пользователя по хэшу токена сброса пароля
// с неистекшим сроком действия.
func (r *UserRepository) FindByResetToken(ctx context.Context, tokenHash string) (*entities.User, error) {
	return r.findOne(ctx, bson.M{
		"password_reset_token":   tokenHash,
		"password_reset_expires": bson.M{"$gt": time.Now()},
	})
}

// List возвращает страницу пользователей по фильтрам администратора.
func (r *UserRepository) List(ctx context.Context, filter repositories.ListFilter) (*repositories.UserPage, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "List"))

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	query := bson.M{"is_deleted": false}
	if filter.Role != nil {
		query["role"] = *filter.Role
	}
	if filter.IsActive != nil {
		query["is_active"] = *filter.IsActive
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		log.Error(ctx, "error counting users", zap.Error(err))
		return nil, fmt.Errorf("error counting users: %w", err)
	}

	skip := int64(filter.Page-1) * int64(filter.Limit)
	findOptions := options.Find().
		SetSkip(skip).
		SetLimit(int64(filter.Limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		log.Error(ctx, "error querying users", zap.Error(err))
		return nil, fmt.Errorf("error querying users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*entities.User
	if err := cursor.All(ctx, &users); err != nil {
		log.Error(ctx, "error decoding users", zap.Error(err))
		return nil, fmt.Errorf("error decoding users: %w", err)
	}

	totalPages := total / int64(filter.Limit)
	if total%int64(filter.Limit) > 0 {
		totalPages++
	}

	return &repositories.UserPage{
		Users:      users,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// updateByID выполняет обновление документа с маппингом отсутствия совпадений.
func (r *UserRepository) updateByID(ctx context.Context, id string, update bson.M) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("error updating user: %w", err)
	}
	if result.MatchedCount == 0 {
		return entities.ErrUserNotFound
	}
	return nil
}

// UpdateProfile обновляет имя и email и возвращает обновленный документ.
func (r *UserRepository) UpdateProfile(ctx context.Context, id, name, email string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "UpdateProfile"))

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	fields := bson.M{"updated_at": time.Now()}
	if name != "" {
		fields["name"] = name
	}
	if email != "" {
		fields["email"] = strings.ToLower(email)
	}

	after := options.After
	var user entities.User
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entities.ErrUserNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			log.Debug(ctx, "duplicate email on profile update")
			return nil, services.ErrEmailAlreadyExists
		}
		log.Error(ctx, "error updating profile", zap.Error(err))
		return nil, fmt.Errorf("error updating profile: %w", err)
	}

	return &user, nil
}

// UpdatePassword заменяет хэш пароля и фиксирует момент смены.
// Поля токена сброса очищаются: токен одноразовый.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"password_hash":       passwordHash,
			"password_changed_at": changedAt,
			"updated_at":          changedAt,
		},
		"$unset": bson.M{
			"password_reset_token":   "",
			"password_reset_expires": "",
		},
	})
}

// MarkEmailVerified отмечает email подтвержденным и очищает поля токена.
func (r *UserRepository) MarkEmailVerified(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"email_verified": true,
			"updated_at":     time.Now(),
		},
		"$unset": bson.M{
			"email_verification_token":   "",
			"email_verification_expires": "",
		},
	})
}

// SetVerificationToken сохраняет хэш токена подтверждения email.
func (r *UserRepository) SetVerificationToken(ctx context.Context, id, tokenHash string, expires time.Time) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"email_verification_token":   tokenHash,
			"email_verification_expires": expires,
			"updated_at":                 time.Now(),
		},
	})
}

// SetResetToken сохраняет хэш токена сброса пароля.
func (r *UserRepository) SetResetToken(ctx context.Context, id, tokenHash string, expires time.Time) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"password_reset_token":   tokenHash,
			"password_reset_expires": expires,
			"updated_at":             time.Now(),
		},
	})
}

// SetRole изменяет роль пользователя.
func (r *UserRepository) SetRole(ctx context.Context, id string, role entities.Role) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{"role": role, "updated_at": time.Now()},
	})
}

// SetActive изменяет флаг активности учетной записи.
func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{"is_active": active, "updated_at": time.Now()},
	})
}

// SoftDelete помечает учетную запись удаленной и деактивирует её.
func (r *UserRepository) SoftDelete(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{"is_deleted": true, "is_active": false, "updated_at": time.Now()},
	})
}

// SetLastLogin фиксирует момент успешного входа.
func (r *UserRepository) SetLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{"last_login": at},
	})
}
