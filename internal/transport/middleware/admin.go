package middleware

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/heartmarshall/finhistory-backend/internal/config"
)

// AdminGate checks the shared admin token. A bcrypt hash takes precedence
// over a plain token. With neither configured every request is rejected.
type AdminGate struct {
	token []byte
	hash  []byte
}

// NewAdminGate builds a gate from the auth settings.
func NewAdminGate(cfg config.AuthConfig) *AdminGate {
	g := &AdminGate{}
	if h := strings.TrimSpace(cfg.AdminTokenHash); h != "" {
		g.hash = []byte(h)
	} else if t := strings.TrimSpace(cfg.AdminToken); t != "" {
		g.token = []byte(t)
	}
	return g
}

// Enabled reports whether any admin credential is configured.
func (g *AdminGate) Enabled() bool {
	return len(g.hash) > 0 || len(g.token) > 0
}

// Check reports whether token matches the configured credential.
func (g *AdminGate) Check(token string) bool {
	if token == "" {
		return false
	}
	switch {
	case len(g.hash) > 0:
		return bcrypt.CompareHashAndPassword(g.hash, []byte(token)) == nil
	case len(g.token) > 0:
		return subtle.ConstantTimeCompare(g.token, []byte(token)) == 1
	default:
		return false
	}
}
