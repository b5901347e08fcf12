//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"washday/internal/domain/user"
	"washday/internal/pkg/config"
	"washday/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// JWTHelper mints tokens the way the identity service would.
type JWTHelper struct {
	service *jwt.Service
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{service: jwt.NewService(cfg.Secret)}
}

func (h *JWTHelper) GenerateToken(t *testing.T, playerID uuid.UUID, role user.Role) string {
	t.Helper()
	token, err := h.service.SignToken(playerID, role, time.Hour)
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, playerID uuid.UUID, role user.Role) string {
	t.Helper()
	token, err := h.service.SignToken(playerID, role, -time.Minute)
	require.NoError(t, err)
	return token
}

// NewPlayer returns a fresh player id with a valid token.
func (h *JWTHelper) NewPlayer(t *testing.T) (uuid.UUID, string) {
	t.Helper()
	id := uuid.New()
	return id, h.GenerateToken(t, id, user.RolePlayer)
}
