// Package session resolves who is using the portal and with which role.
package session

import (
	"time"

	"hr-portal/internal/domain"
)

// Session is the persisted login of one user.
type Session struct {
	UserID    string      `json:"user_id"`
	Role      domain.Role `json:"role"`
	Name      string      `json:"name"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Expired reports whether the token is past its expiry. A zero expiry never
// expires.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

func (s Session) Valid(now time.Time) bool {
	return s.UserID != "" && s.Token != "" && s.Role.Valid() && !s.Expired(now)
}
