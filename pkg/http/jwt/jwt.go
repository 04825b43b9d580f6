package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims are the claims Concord issues and consumes. TenantId scopes
// every settings and gating operation.
type AuthClaims struct {
	UserId   string `json:"userId"`
	TenantId string `json:"tenantId"`
	jwt.RegisteredClaims
}

var issuer = "concord"

var (
	ErrInvalidToken = errors.New("invalid token")
)

// GenToken generates an access token for the given user and tenant.
func GenToken(userId, tenantId string, secretKey []byte, expire time.Duration) (string, error) {
	claims := &AuthClaims{
		UserId:   userId,
		TenantId: tenantId,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expire)),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
}

// ParseToken validates an access token and returns its claims.
func ParseToken(token, secretKey string) (*AuthClaims, error) {
	claims := new(AuthClaims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
