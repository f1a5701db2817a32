// Package auth issues and verifies the signed session tokens used on
// protected routes.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"makers/config"
)

// TokenTTL is the fixed lifetime of every issued session token.
const TokenTTL = time.Hour

// Claims is the typed token payload. Email is the caller's identity; the
// admin role is never embedded in the token — it is looked up in storage on
// every admin-gated request.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func secret() []byte {
	return []byte(config.TokenSecret())
}

// GenerateToken creates an HS256-signed token bound to email, expiring in
// TokenTTL.
func GenerateToken(email string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// ValidateToken parses and verifies a token string, returning its claims.
func ValidateToken(t string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(t, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return secret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}
