package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"authgate/internal/auth/domain/entities"
	"authgate/internal/auth/domain/services"
	svc "authgate/internal/auth/ports/services"
	"authgate/pkg/logger"
)

// Константы для работы с JWT.
const (
	methodGenerateAccessToken  = "GenerateAccessToken"
	methodGenerateRefreshToken = "GenerateRefreshToken"
	methodValidateAccessToken  = "ValidateAccessToken"
	methodValidateRefreshToken = "ValidateRefreshToken"
	msgGeneratingAccessToken   = "generating access token"
	msgGeneratingRefreshToken  = "generating refresh token"
	msgValidatingToken         = "validating token"
	msgTokenGenerated          = "token generated successfully"
	msgTokenValidated          = "token validated successfully"
	msgInvalidToken            = "invalid token format"
	msgTokenExpired            = "token has expired"
	msgWrongTokenType          = "unexpected token type"
	//nolint:gosec
	errSigningToken = "error signing token"
	//nolint:gosec
	errParsingToken       = "error parsing token"
	errCtxGeneratingToken = "generating token"
	errCtxParsingToken    = "parsing token"
	errCtxValidatingToken = "validating token"
)

// ErrInvalidAlgorithm представляет статическую ошибку неверного алгоритма подписи.
var ErrInvalidAlgorithm = errors.New("invalid signing algorithm")

// refreshTokenIDBytes - длина случайного идентификатора refresh-токена (128 бит).
const refreshTokenIDBytes = 16

// Claims используется для адаптации между доменной моделью и библиотекой JWT.
type Claims struct {
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// ServiceJWT реализует интерфейс TokenService.
type ServiceJWT struct {
	config services.JWTConfig
}

// NewJWT создает новый экземпляр сервиса JWT.
func NewJWT(secretKey, issuer, audience string, accessTokenTTL, refreshTokenTTL time.Duration) svc.TokenService {
	return &ServiceJWT{
		config: services.JWTConfig{
			SecretKey:       []byte(secretKey),
			Issuer:          issuer,
			Audience:        audience,
			AccessTokenTTL:  accessTokenTTL,
			RefreshTokenTTL: refreshTokenTTL,
		},
	}
}

// newRefreshTokenID генерирует случайный 128-битный идентификатор в hex.
func newRefreshTokenID() (string, error) {
	buf := make([]byte, refreshTokenIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating token id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// GenerateAccessToken генерирует JWT токен доступа с claims субъекта.
func (s *ServiceJWT) GenerateAccessToken(ctx context.Context, user *entities.User) (string, time.Time, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodGenerateAccessToken),
		zap.String("userID", user.ID.Hex()),
	)
	log.Debug(ctx, msgGeneratingAccessToken)

	if len(s.config.SecretKey) == 0 {
		log.Error(ctx, "empty secret key provided")
		return "", time.Time{}, fmt.Errorf("%s: %w: empty secret key", errCtxGeneratingToken, services.ErrGeneratingJWTToken)
	}

	now := time.Now()
	expiresAt := now.Add(s.config.AccessTokenTTL)

	claims := Claims{
		Email:     user.Email,
		Role:      string(user.Role),
		TokenType: string(services.TokenTypeAccess),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			Issuer:    s.config.Issuer,
			Audience:  jwt.ClaimStrings{s.config.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.config.SecretKey)
	if err != nil {
		log.Error(ctx, errSigningToken, zap.Error(err))
		return "", time.Time{}, fmt.Errorf("%s: %w: %w", errCtxGeneratingToken, services.ErrGeneratingJWTToken, err)
	}

	log.Debug(ctx, msgTokenGenerated, zap.Time("expiresAt", expiresAt))
	return tokenString, expiresAt, nil
}

// GenerateRefreshToken генерирует refresh токен со свежим случайным идентификатором.
func (s *ServiceJWT) GenerateRefreshToken(ctx context.Context, userID string) (string, time.Time, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodGenerateRefreshToken),
		zap.String("userID", userID),
	)
	log.Debug(ctx, msgGeneratingRefreshToken)

	if len(s.config.SecretKey) == 0 {
		log.Error(ctx, "empty secret key provided")
		return "", time.Time{}, fmt.Errorf("%s: %w: empty secret key", errCtxGeneratingToken, services.ErrGeneratingJWTToken)
	}

	tokenID, err := newRefreshTokenID()
	if err != nil {
		log.Error(ctx, "failed to generate token id", zap.Error(err))
		return "", time.Time{}, fmt.Errorf("%s: %w: %w", errCtxGeneratingToken, services.ErrGeneratingJWTToken, err)
	}

	now := time.Now()
	expiresAt := now.Add(s.config.RefreshTokenTTL)

	claims := Claims{
		TokenType: string(services.TokenTypeRefresh),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   userID,
			Issuer:    s.config.Issuer,
			Audience:  jwt.ClaimStrings{s.config.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.config.SecretKey)
	if err != nil {
		log.Error(ctx, errSigningToken, zap.Error(err))
		return "", time.Time{}, fmt.Errorf("%s: %w: %w", errCtxGeneratingToken, services.ErrGeneratingJWTToken, err)
	}

	log.Debug(ctx, msgTokenGenerated, zap.Time("expiresAt", expiresAt))
	return tokenString, expiresAt, nil
}

// parse разбирает и проверяет подпись, издателя, аудиторию и тип токена.
func (s *ServiceJWT) parse(ctx context.Context, tokenString string, expected services.TokenType, method string) (*Claims, error) {
	log := logger.Log(ctx).With(zap.String("method", method))
	log.Debug(ctx, msgValidatingToken)

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAlgorithm, token.Header["alg"])
		}
		return s.config.SecretKey, nil
	}, jwt.WithIssuer(s.config.Issuer), jwt.WithAudience(s.config.Audience))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			log.Debug(ctx, msgTokenExpired)
			return nil, fmt.Errorf("%s: %w", errCtxValidatingToken, services.ErrExpiredJWTToken)
		}
		log.Debug(ctx, errParsingToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", errCtxParsingToken, services.ErrInvalidJWTToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		log.Debug(ctx, msgInvalidToken)
		return nil, fmt.Errorf("%s: %w", errCtxValidatingToken, services.ErrInvalidJWTToken)
	}

	if claims.Subject == "" {
		log.Debug(ctx, "subject claim is empty")
		return nil, fmt.Errorf("%s: %w: empty subject", errCtxValidatingToken, services.ErrInvalidJWTToken)
	}

	if claims.TokenType != string(expected) {
		log.Debug(ctx, msgWrongTokenType, zap.String("typ", claims.TokenType))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingToken, services.ErrWrongTokenType)
	}

	log.Debug(ctx, msgTokenValidated, zap.String("userID", claims.Subject))
	return claims, nil
}

// ValidateAccessToken проверяет access токен и возвращает доменные claims.
func (s *ServiceJWT) ValidateAccessToken(ctx context.Context, tokenString string) (*services.AccessClaims, error) {
	claims, err := s.parse(ctx, tokenString, services.TokenTypeAccess, methodValidateAccessToken)
	if err != nil {
		return nil, err
	}

	access := &services.AccessClaims{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   entities.Role(claims.Role),
	}
	if claims.IssuedAt != nil {
		access.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		access.ExpiresAt = claims.ExpiresAt.Time
	}

	return access, nil
}

// ValidateRefreshToken проверяет refresh токен и возвращает доменные claims.
func (s *ServiceJWT) ValidateRefreshToken(ctx context.Context, tokenString string) (*services.RefreshClaims, error) {
	claims, err := s.parse(ctx, tokenString, services.TokenTypeRefresh, methodValidateRefreshToken)
	if err != nil {
		return nil, err
	}

	refresh := &services.RefreshClaims{
		UserID:  claims.Subject,
		TokenID: claims.ID,
	}
	if claims.IssuedAt != nil {
		refresh.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		refresh.ExpiresAt = claims.ExpiresAt.Time
	}

	return refresh, nil
}
