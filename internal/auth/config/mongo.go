package config

import (
	"time"
)

// MongoConfig содержит настройки подключения к базе данных.
type MongoConfig struct {
	URI            string `yaml:"uri" env:"AUTH_MONGO_URI" env-default:"mongodb://localhost:27017"`
	Database       string `yaml:"database" env:"AUTH_MONGO_DATABASE" env-default:"authgate"`
	ConnectTimeout int    `yaml:"connect_timeout" env:"AUTH_MONGO_CONNECT_TIMEOUT" env-default:"10"`
}

// GetConnectTimeout возвращает timeout подключения как time.Duration.
func (m *MongoConfig) GetConnectTimeout() time.Duration {
	return time.Duration(m.ConnectTimeout) * time.Second
}
