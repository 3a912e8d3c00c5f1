package domain

import "time"

// Role is the authorization role of a console user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is an account known to the backend.
type User struct {
	ID        string
	Email     string
	Role      Role
	CreatedAt time.Time
}

// IsAdmin reports whether the user may access the admin endpoints.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session is the authenticated identity the console acts as.
type Session struct {
	Token     string
	UserID    string
	Email     string
	Role      Role
	ExpiresAt time.Time // zero when the token carries no expiry
}

// Valid reports whether the session carries a token.
func (s Session) Valid() bool {
	return s.Token != ""
}

// Expired reports whether the session expiry is known and in the past.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// IsAdmin reports whether the session belongs to an administrator.
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}
