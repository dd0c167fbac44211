//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"kilnbook/internal/domain/member"
	"kilnbook/internal/pkg/config"
	"kilnbook/internal/pkg/jwt"

	"github.com/stretchr/testify/require"
)

type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) GenerateToken(t *testing.T, memberID int64, caps ...member.Capability) string {
	t.Helper()
	duration, err := time.ParseDuration(h.cfg.Duration)
	require.NoError(t, err)
	return h.sign(t, duration, memberID, caps)
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, memberID int64) string {
	t.Helper()
	token := h.sign(t, time.Millisecond, memberID, nil)
	time.Sleep(10 * time.Millisecond)
	return token
}

func (h *JWTHelper) sign(t *testing.T, d time.Duration, memberID int64, caps []member.Capability) string {
	names := make([]string, 0, len(caps))
	for _, c := range caps {
		names = append(names, string(c))
	}
	token, err := jwt.NewService(h.cfg.Secret, h.cfg.Issuer, d).GenerateToken(memberID, names)
	require.NoError(t, err)
	return token
}
