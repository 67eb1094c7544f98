package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Классификация ошибок верификации токена
var (
	// ErrTokenExpired indicates that the token is past its expiry
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenMalformed indicates that the token string is not a valid JWT
	ErrTokenMalformed = errors.New("token malformed")

	// ErrBadSignature indicates that the token signature does not match
	ErrBadSignature = errors.New("bad token signature")
)

// Config содержит секреты и времена жизни токенов
// Access и refresh токены подписываются разными секретами: утекший
// access token нельзя предъявить как refresh token
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Claims представляет JWT claims для нашего приложения
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Codec выпускает и проверяет подписанные токены
type Codec struct {
	cfg Config
}

// NewCodec создает новый codec с переданной конфигурацией
func NewCodec(cfg Config) *Codec {
	return &Codec{cfg: cfg}
}

// AccessTTL возвращает настроенное время жизни access token
func (c *Codec) AccessTTL() time.Duration {
	return c.cfg.AccessTTL
}

// IssueAccess создает новый access token для пользователя
func (c *Codec) IssueAccess(userID string) (string, error) {
	return c.issue(userID, c.cfg.AccessSecret, c.cfg.AccessTTL)
}

// IssueRefresh создает новый refresh token для пользователя
func (c *Codec) IssueRefresh(userID string) (string, error) {
	return c.issue(userID, c.cfg.RefreshSecret, c.cfg.RefreshTTL)
}

// VerifyAccess валидирует access token и возвращает ID пользователя
func (c *Codec) VerifyAccess(tokenString string) (string, error) {
	return c.verify(tokenString, c.cfg.AccessSecret)
}

// VerifyRefresh валидирует refresh token и возвращает ID пользователя
func (c *Codec) VerifyRefresh(tokenString string) (string, error) {
	return c.verify(tokenString, c.cfg.RefreshSecret)
}

func (c *Codec) issue(userID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "postboard",
			// Уникальный jti: два токена одного пользователя, выпущенные
			// в одну секунду, не должны совпадать байт в байт, иначе
			// ротация выдаст тот же токен
			ID: uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

func (c *Codec) verify(tokenString string, secret []byte) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Проверяем что используется правильный алгоритм подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})

	if err != nil {
		return "", classifyParseError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", ErrTokenMalformed
	}

	return claims.UserID, nil
}

// classifyParseError сводит ошибки jwt/v5 к нашей классификации
func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrBadSignature
	default:
		return fmt.Errorf("%w: %s", ErrTokenMalformed, err)
	}
}
