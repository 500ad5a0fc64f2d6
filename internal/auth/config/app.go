package config

import (
	"time"
)

// AppConfig содержит общие настройки приложения.
type AppConfig struct {
	// BaseURL используется для построения ссылок в письмах.
	BaseURL               string `yaml:"base_url" env:"AUTH_APP_BASE_URL" env-default:"http://localhost:8080"`
	RequireVerifiedEmail  bool   `yaml:"require_verified_email" env:"AUTH_REQUIRE_VERIFIED_EMAIL" env-default:"true"`
	VerificationTokenTTL  string `yaml:"verification_token_ttl" env:"AUTH_VERIFICATION_TOKEN_TTL" env-default:"24h"`
	PasswordResetTokenTTL string `yaml:"password_reset_token_ttl" env:"AUTH_PASSWORD_RESET_TOKEN_TTL" env-default:"1h"`
}

// GetVerificationTokenTTL возвращает время жизни токена подтверждения email.
func (a *AppConfig) GetVerificationTokenTTL() time.Duration {
	duration, err := time.ParseDuration(a.VerificationTokenTTL)
	if err != nil {
		return 24 * time.Hour
	}
	return duration
}

// GetPasswordResetTokenTTL возвращает время жизни токена сброса пароля.
func (a *AppConfig) GetPasswordResetTokenTTL() time.Duration {
	duration, err := time.ParseDuration(a.PasswordResetTokenTTL)
	if err != nil {
		return time.Hour
	}
	return duration
}
