package config

// SMTPConfig содержит настройки почтового транспорта.
type SMTPConfig struct {
	Host     string `yaml:"host" env:"AUTH_SMTP_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"AUTH_SMTP_PORT" env-default:"587"`
	Username string `yaml:"username" env:"AUTH_SMTP_USERNAME" env-default:""`
	Password string `yaml:"password" env:"AUTH_SMTP_PASSWORD" env-default:""`
	From     string `yaml:"from" env:"AUTH_SMTP_FROM" env-default:"noreply@authgate.local"`
}
