package app

import (
	"regexp"
	"unicode"

	"authgate/internal/auth/domain/entities"
	"authgate/internal/auth/domain/services"
)

// emailPattern проверяет базовую форму адреса. Точную проверку
// выполняет только доставка письма подтверждения.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// validateEmail проверяет форму email.
func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return entities.ErrInvalidEmail
	}
	return nil
}

// validatePassword проверяет минимальную длину и состав пароля:
// не меньше восьми символов, хотя бы одна буква и одна цифра.
func validatePassword(password string) error {
	if len(password) < services.MinPasswordLength {
		return entities.ErrPasswordTooShort
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return entities.ErrPasswordTooWeak
	}

	return nil
}
