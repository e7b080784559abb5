package socket

import (
	"errors"
	"fmt"

	"github.com/dgrijalva/jwt-go"
)

// IdentityResolver maps a connection credential to a user id. Failures reject
// the connection before any command is processed.
type IdentityResolver func(token string) (string, error)

// NewJWTResolver verifies HMAC-signed tokens and pulls the user id from the
// sub, id, or userId claim, whichever is present first.
func NewJWTResolver(secret []byte) IdentityResolver {
	return func(tokenStr string) (string, error) {
		if tokenStr == "" {
			return "", errors.New("missing token")
		}

		claims := jwt.MapClaims{}
		decoded, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		})
		if err != nil {
			return "", fmt.Errorf("failed to decode token: %w", err)
		}
		if !decoded.Valid {
			return "", errors.New("invalid token")
		}

		for _, name := range []string{"sub", "id", "userId"} {
			if v, ok := claims[name].(string); ok && v != "" {
				return v, nil
			}
		}
		return "", errors.New("token carries no user id")
	}
}
