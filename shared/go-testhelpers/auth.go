package testhelpers

import (
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AndreaCerratoSP/CIAMS/shared/go-middleware"
)

// CreateJWT mints a short-lived access token signed with the service secret.
// It returns "" when the service runs without JWT auth.
func (h *TestHelper) CreateJWT(subject string, roles ...string) string {
	if len(h.JWTSecret) == 0 {
		return ""
	}
	token, _, err := middleware.IssueToken(h.JWTSecret, subject, roles, 15*time.Minute)
	require.NoError(h.T, err, "Failed to sign test JWT")
	return token
}
