// Package db обеспечивает подключение к MongoDB и подготовку индексов.
package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"authgate/internal/auth/config"
	"authgate/pkg/logger"
)

// Константы сообщений журналирования.
const (
	msgConnecting       = "connecting to mongodb"
	msgConnected        = "connected to mongodb"
	msgEnsuringIndexes  = "ensuring mongodb indexes"
	msgClosing          = "closing mongodb connection"
	errMsgConnectFailed = "failed to connect to mongodb"
	errMsgPingFailed    = "failed to ping mongodb"
	errMsgIndexFailed   = "failed to create index"
)

// UsersCollection - имя коллекции пользователей, для которой готовятся индексы.
const UsersCollection = "users"

// Open устанавливает соединение с MongoDB и проверяет его ping-ом.
func Open(ctx context.Context, cfg *config.MongoConfig) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.GetConnectTimeout())
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errMsgConnectFailed, err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("%s: %w", errMsgPingFailed, err)
	}

	return client, nil
}

// EnsureIndexes создает индексы коллекции пользователей.
// Уникальный индекс по email обеспечивает единственность учетной записи,
// индекс по refresh_tokens.token ускоряет операции реестра токенов.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "refresh_tokens.token", Value: 1}},
		},
	}

	_, err := database.Collection(UsersCollection).Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("%s: %w", errMsgIndexFailed, err)
	}

	return nil
}

// Database оборачивает клиент MongoDB и выбранную базу.
type Database struct {
	client *mongo.Client
	db     *mongo.Database
}

// New создает подключение к базе данных и готовит индексы.
func New(ctx context.Context, cfg *config.MongoConfig) (*Database, error) {
	log := logger.Log(ctx).With(zap.String("component", "db"))
	log.Info(ctx, msgConnecting, zap.String("database", cfg.Database))

	client, err := Open(ctx, cfg)
	if err != nil {
		log.Error(ctx, errMsgConnectFailed, zap.Error(err))
		return nil, err
	}

	database := client.Database(cfg.Database)

	log.Debug(ctx, msgEnsuringIndexes)
	if err := EnsureIndexes(ctx, database); err != nil {
		log.Error(ctx, errMsgIndexFailed, zap.Error(err))
		_ = client.Disconnect(ctx)
		return nil, err
	}

	log.Info(ctx, msgConnected)
	return &Database{client: client, db: database}, nil
}

// Database возвращает выбранную базу данных.
func (d *Database) Database() *mongo.Database {
	return d.db
}

// Close закрывает соединение с базой данных.
func (d *Database) Close(ctx context.Context) error {
	logger.Log(ctx).Info(ctx, msgClosing)
	if err := d.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("closing mongodb connection: %w", err)
	}
	return nil
}
