// internal/utils/jwt.go
package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenClaims is what the storefront reads from a backend token.
// The signature is not checked here; the backend verifies it on every call.
type TokenClaims struct {
	Subject   string
	ExpiresAt *time.Time
	Roles     []string
}

var ErrMalformedToken = errors.New("malformed token")

func DecodeTokenClaims(tokenString string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrMalformedToken
	}

	result := &TokenClaims{}
	if sub, ok := claims["sub"].(string); ok {
		result.Subject = sub
	}
	if exp, ok := claims["exp"].(float64); ok {
		t := time.Unix(int64(exp), 0)
		result.ExpiresAt = &t
	}

	for _, name := range []string{"roles", "authorities", "role"} {
		result.Roles = append(result.Roles, claimStrings(claims[name])...)
	}

	return result, nil
}

// Expired reports whether the token carries an exp claim in the past.
func (c *TokenClaims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !now.Before(*c.ExpiresAt)
}

func (c *TokenClaims) HasRole(names ...string) bool {
	for _, role := range c.Roles {
		role = strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(role)), "ROLE_")
		for _, name := range names {
			if role == strings.ToUpper(strings.TrimSpace(name)) {
				return true
			}
		}
	}
	return false
}

// claimStrings flattens "ADMIN", ["ADMIN"] and [{"authority":"ADMIN"}] shapes.
func claimStrings(value interface{}) []string {
	switch v := value.(type) {
	case string:
		return strings.Split(v, ",")
	case []interface{}:
		var out []string
		for _, item := range v {
			switch it := item.(type) {
			case string:
				out = append(out, it)
			case map[string]interface{}:
				for _, key := range []string{"authority", "nombreRol", "name"} {
					if s, ok := it[key].(string); ok {
						out = append(out, s)
					}
				}
			}
		}
		return out
	}
	return nil
}
