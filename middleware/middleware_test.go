package middleware

import (
	"testing"
	"time"

	"velora/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, userID string) string {
	t.Helper()
	claims := Claims{
		UserID: userID,
		Role:   []string{"user"},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	require.NoError(t, err)
	return signed
}

func TestValidateJWT(t *testing.T) {
	token := signToken(t, "u1")

	t.Run("bare token", func(t *testing.T) {
		claims, err := ValidateJWT(token)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.UserID)
	})

	t.Run("bearer prefix", func(t *testing.T) {
		claims, err := ValidateJWT("Bearer " + token)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.UserID)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ValidateJWT("")
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ValidateJWT("Bearer not.a.jwt")
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		claims := Claims{
			UserID: "u1",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
		require.NoError(t, err)
		_, err = ValidateJWT(signed)
		assert.Error(t, err)
	})
}
