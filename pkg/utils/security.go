package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// 允许认证服务与本服务之间的时钟偏差
const tokenLeeway = 30 * time.Second

// Claims 认证服务签发的 Bearer Token。用户 ID 同时写在 sub 和 user_id 中，优先取 user_id
type Claims struct {
	UserID int64 `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

// ResolveUserID 解析出的用户 ID，缺失或非法返回 0
func (c *Claims) ResolveUserID() int64 {
	if c.UserID > 0 {
		return c.UserID
	}
	id, err := strconv.ParseInt(c.RegisteredClaims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// GenerateToken 签发 HS256 Token，仅供本地调试和测试
func GenerateToken(userID int64, secret, issuer string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken 校验签名和有效期，返回带合法用户 ID 的 Claims
func ParseToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(tokenLeeway),
		jwt.WithExpirationRequired(),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, ErrInvalidToken
	}

	if claims.ResolveUserID() <= 0 {
		return nil, ErrInvalidToken
	}
	claims.UserID = claims.ResolveUserID()
	return claims, nil
}
