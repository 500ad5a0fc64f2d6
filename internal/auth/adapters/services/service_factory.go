// Package services предоставляет фабрику для создания и доступа к различным сервисам аутентификации,
// таким как сервисы работы с паролями, JWT токенами и почтой.
package services

import (
	"authgate/internal/auth/config"
	"authgate/internal/auth/ports/services"
)

// ServiceFactory создает все необходимые сервисы для аутентификации.
type ServiceFactory struct {
	passwordService services.PasswordService
	tokenService    services.TokenService
	mailService     services.MailService
}

// NewServiceFactory создает новую фабрику сервисов из конфигурации.
func NewServiceFactory(jwtCfg *config.JWTConfig, smtpCfg *config.SMTPConfig, baseURL string) *ServiceFactory {
	return &ServiceFactory{
		passwordService: NewBcrypt(jwtCfg.BCryptCost),
		tokenService: NewJWT(
			jwtCfg.SecretKey,
			jwtCfg.Issuer,
			jwtCfg.Audience,
			jwtCfg.GetAccessTokenTTL(),
			jwtCfg.GetRefreshTokenTTL(),
		),
		mailService: NewMail(smtpCfg, baseURL),
	}
}

// PasswordService возвращает сервис для работы с паролями.
func (f *ServiceFactory) PasswordService() services.PasswordService {
	return f.passwordService
}

// TokenService возвращает сервис для работы с токенами.
func (f *ServiceFactory) TokenService() services.TokenService {
	return f.tokenService
}

// MailService возвращает сервис отправки почты.
func (f *ServiceFactory) MailService() services.MailService {
	return f.mailService
}
