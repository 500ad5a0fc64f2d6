package services

import "context"

// MailService определяет отправку служебных писем. Доставка не должна
// блокировать обработку запроса: вызывающая сторона запускает отправку
// в отдельной горутине и только логирует сбои.
type MailService interface {
	SendVerificationEmail(ctx context.Context, to, token string) error

	SendPasswordResetEmail(ctx context.Context, to, token string) error
}
