//go:build unit

package jwt_test

import (
	"testing"
	"time"

	"washday/internal/domain/user"
	"washday/internal/pkg/jwt"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_ValidateToken(t *testing.T) {
	svc := jwt.NewService("secret")
	playerID := uuid.New()

	t.Run("valid token", func(t *testing.T) {
		token, err := svc.SignToken(playerID, user.RoleOperator, time.Hour)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, playerID, claims.PlayerID)
		assert.Equal(t, "operator", claims.Role)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := svc.SignToken(playerID, user.RolePlayer, -time.Minute)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := jwt.NewService("other").SignToken(playerID, user.RolePlayer, time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("missing player id", func(t *testing.T) {
		token, err := svc.SignToken(uuid.Nil, user.RolePlayer, time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	forge := func(t *testing.T, method gojwt.SigningMethod, claims jwt.Claims) string {
		t.Helper()
		raw, err := gojwt.NewWithClaims(method, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		return raw
	}

	t.Run("other HMAC algorithm", func(t *testing.T) {
		raw := forge(t, gojwt.SigningMethodHS512, jwt.Claims{
			PlayerID:         playerID,
			Role:             "player",
			RegisteredClaims: gojwt.RegisteredClaims{ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour))},
		})

		_, err := svc.ValidateToken(raw)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("missing expiry", func(t *testing.T) {
		raw := forge(t, gojwt.SigningMethodHS256, jwt.Claims{PlayerID: playerID, Role: "player"})

		_, err := svc.ValidateToken(raw)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})
}
