package jwt

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"worksync/internal/pkg/config"
	"worksync/pkg/responses"
)

// UserClaims 会话 Claims
type UserClaims struct {
	UserID int64 `json:"id"`
	jwt.RegisteredClaims
}

// Manager 负责签发与校验会话 token
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewManager 创建 Manager
func NewManager(cfg *config.JWTConfig) *Manager {
	return &Manager{
		secret: []byte(cfg.Secret),
		ttl:    time.Duration(cfg.AccessTokenExpire) * time.Second,
		now:    time.Now,
	}
}

// WithClock 替换时钟，测试使用
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// TTL token 有效期
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Generate 为用户签发 token
func (m *Manager) Generate(userID int64) (string, error) {
	now := m.now()
	claims := UserClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse 校验签名与有效期
func (m *Manager) Parse(tokenString string) (*UserClaims, error) {
	claims := &UserClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, responses.ErrTokenExpired
		}
		return nil, responses.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == 0 || claims.IssuedAt == nil {
		return nil, responses.ErrInvalidToken
	}
	return claims, nil
}
