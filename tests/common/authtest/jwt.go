//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"campus-market/internal/domain/user"
	"campus-market/internal/pkg/config"
	"campus-market/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// JWTHelper mints tokens the way the campus identity service would, using
// the shared secret from config.
type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) GenerateToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	token, err := jwt.NewService(h.cfg.Secret, h.cfg.Duration, jwt.WithIssuer(h.cfg.Issuer)).GenerateToken(userID, role)
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	token, err := jwt.NewService(h.cfg.Secret, -time.Minute, jwt.WithIssuer(h.cfg.Issuer)).GenerateToken(userID, role)
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) CreateForeignToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	token, err := jwt.NewService(h.cfg.Secret+"-other", h.cfg.Duration, jwt.WithIssuer(h.cfg.Issuer)).GenerateToken(userID, role)
	require.NoError(t, err)
	return token
}
