package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "dext-stats"

var (
	ErrEmptySecret    = errors.New("JWT 密钥为空")
	ErrMissingSubject = errors.New("令牌缺少Subject声明")
)

// 令牌有效期限制在 5 分钟到 30 天之间
func clampExpiration(d time.Duration) time.Duration {
	if d < 5*time.Minute {
		return 5 * time.Minute
	}
	if d > 30*24*time.Hour {
		return 30 * 24 * time.Hour
	}
	return d
}

// GenerateToken 签发访问统计接口用的 HS256 令牌
func GenerateToken(secret, subject string, expiration time.Duration) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, ErrEmptySecret
	}
	if subject == "" {
		return "", time.Time{}, ErrMissingSubject
	}

	now := time.Now()
	expires := now.Add(clampExpiration(expiration))

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expires),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    tokenIssuer,
		ID:        uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("签名失败: %w", err)
	}
	return tokenString, expires, nil
}

// ParseToken 校验签名、有效期与 Subject
func ParseToken(secret, tokenString string) (*jwt.RegisteredClaims, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("不支持的签名算法: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired(), jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}
	return claims, nil
}
