package app

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// opaqueTokenBytes - длина случайных токенов подтверждения и сброса (256 бит).
const opaqueTokenBytes = 32

// newOpaqueToken генерирует одноразовый токен для писем. Пользователю
// уходит исходное значение, в базе хранится только его sha256-хэш.
func newOpaqueToken() (raw, hash string, err error) {
	buf := make([]byte, opaqueTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generating opaque token: %w", err)
	}

	raw = hex.EncodeToString(buf)
	return raw, hashToken(raw), nil
}

// hashToken возвращает hex-представление sha256-хэша токена.
func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
