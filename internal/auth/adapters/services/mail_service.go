package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"authgate/internal/auth/config"
	svc "authgate/internal/auth/ports/services"
	"authgate/pkg/logger"
)

// Константы почтового сервиса.
const (
	subjectVerification  = "Email Verification"
	subjectPasswordReset = "Password Reset Request"

	msgSendingMail = "sending mail"
	msgMailSent    = "mail sent successfully"
	errMsgSendMail = "failed to send mail"
)

// Шаблоны писем.
const (
	verificationBodyTemplate = `<h1>Welcome!</h1>
<p>Please verify your email address by clicking the link below:</p>
<a href="%s">Verify Email</a>
<p>The link expires in 24 hours.</p>`

	passwordResetBodyTemplate = `<h1>Password Reset Request</h1>
<p>You requested a password reset. Click the link below to set a new password:</p>
<a href="%s">Reset Password</a>
<p>If you did not request this, please ignore this email.</p>`
)

// ServiceMail реализует интерфейс MailService поверх SMTP.
type ServiceMail struct {
	dialer  *gomail.Dialer
	from    string
	baseURL string
}

// NewMail создает новый экземпляр почтового сервиса.
func NewMail(cfg *config.SMTPConfig, baseURL string) svc.MailService {
	return &ServiceMail{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:    cfg.From,
		baseURL: baseURL,
	}
}

// VerificationURL строит ссылку подтверждения email.
func (s *ServiceMail) VerificationURL(token string) string {
	return s.baseURL + "/api/v1/auth/verify-email/" + token
}

// PasswordResetURL строит ссылку сброса пароля.
func (s *ServiceMail) PasswordResetURL(token string) string {
	return s.baseURL + "/reset-password/" + token
}

// SendVerificationEmail отправляет письмо подтверждения адреса.
func (s *ServiceMail) SendVerificationEmail(ctx context.Context, to, token string) error {
	body := fmt.Sprintf(verificationBodyTemplate, s.VerificationURL(token))
	return s.send(ctx, to, subjectVerification, body)
}

// SendPasswordResetEmail отправляет письмо со ссылкой сброса пароля.
func (s *ServiceMail) SendPasswordResetEmail(ctx context.Context, to, token string) error {
	body := fmt.Sprintf(passwordResetBodyTemplate, s.PasswordResetURL(token))
	return s.send(ctx, to, subjectPasswordReset, body)
}

func (s *ServiceMail) send(ctx context.Context, to, subject, body string) error {
	log := logger.Log(ctx).With(zap.String("to", to), zap.String("subject", subject))
	log.Debug(ctx, msgSendingMail)

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		log.Error(ctx, errMsgSendMail, zap.Error(err))
		return fmt.Errorf("%s: %w", errMsgSendMail, err)
	}

	log.Debug(ctx, msgMailSent)
	return nil
}
