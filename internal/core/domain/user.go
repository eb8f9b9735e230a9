package domain

import (
	"strings"
	"time"
)

// Role is the patrol a user belongs to.
type Role string

const (
	RoleLifeguard Role = "lifeguard"
	RoleSkiPatrol Role = "skipatrol"

	DefaultRole = RoleLifeguard
)

// ParseRole maps user input to a Role. An empty value selects DefaultRole;
// anything outside the known set is rejected.
func ParseRole(s string) (Role, error) {
	switch Role(strings.TrimSpace(s)) {
	case "":
		return DefaultRole, nil
	case RoleLifeguard:
		return RoleLifeguard, nil
	case RoleSkiPatrol:
		return RoleSkiPatrol, nil
	default:
		return "", ErrInvalidRole
	}
}

// NormalizeEmail is applied to every email before it is stored or looked up,
// so addresses differing only in case or surrounding space are the same identity.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// OneTimeCode is the pending second-factor challenge of a user. Only a digest
// of the code is kept.
type OneTimeCode struct {
	Hash      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the code can no longer be redeemed at now.
func (c OneTimeCode) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// User models an account holder.
type User struct {
	ID                  string       `json:"id"`
	Name                string       `json:"name"`
	Email               string       `json:"email"`
	Telephone           string       `json:"telephone,omitempty"`
	PasswordHash        string       `json:"-"`
	SecurityQuestion1   string       `json:"-"`
	SecurityQuestion2   string       `json:"-"`
	SecurityAnswerHash1 string       `json:"-"`
	SecurityAnswerHash2 string       `json:"-"`
	Role                Role         `json:"role"`
	OneTimeCode         *OneTimeCode `json:"-"`
	// SessionVersion is embedded in every session token; bumping it revokes
	// all tokens issued before the bump.
	SessionVersion int       `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
