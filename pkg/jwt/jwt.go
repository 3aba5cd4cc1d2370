package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"bizops/config"
)

var (
	ErrTokenExpired = errors.New("token 已过期")
	ErrTokenInvalid = errors.New("token 无效")
)

const issuer = "bizops"

// Claims 会话 Cookie 中携带的声明
// RegisteredClaims.ID 即服务端会话 ID
type Claims struct {
	UserID string `json:"user_id"`
	jwtv5.RegisteredClaims
}

// SessionID 返回声明中的会话 ID
func (c *Claims) SessionID() string { return c.ID }

// Manager 会话 Token 签发与校验
type Manager struct {
	secret     []byte
	sessionTTL time.Duration
}

// NewManager 创建 Token 管理器
func NewManager(cfg *config.AuthConfig) *Manager {
	return &Manager{
		secret:     []byte(cfg.SessionSecret),
		sessionTTL: cfg.SessionTTL,
	}
}

// SessionTTL 会话有效期
func (m *Manager) SessionTTL() time.Duration { return m.sessionTTL }

// GenerateSessionToken 为服务端会话生成签名 Token，返回 Token 与过期时间
func (m *Manager) GenerateSessionToken(sessionID, userID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.sessionTTL)
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        sessionID,
			Subject:   userID,
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(expiresAt),
			Issuer:    issuer,
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseToken 解析并验证 Token
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	}, jwtv5.WithIssuer(issuer))
	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
