package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of principal roles. It gates which workflow
// operations are permitted.
type Role string

const (
	RoleUser       Role = "user"
	RoleHotelOwner Role = "hotel owner"
	RoleAdmin      Role = "admin"
)

// Valid reports whether the role belongs to the closed enumeration.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleHotelOwner, RoleAdmin:
		return true
	}
	return false
}

// User represents an authenticated principal.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewUser creates a user with a generated id.
func NewUser(email, hashedPassword string, role Role) (*User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	return &User{
		ID:             uuid.New().String(),
		Email:          email,
		HashedPassword: hashedPassword,
		Role:           role,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// Claims are the verified contents of an access token.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// RefreshSession is a persisted refresh-token record. Sessions are rotated on
// every refresh and removed on logout.
type RefreshSession struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewRefreshSession creates a session with a fresh UUID token.
func NewRefreshSession(userID string, ttl time.Duration) *RefreshSession {
	now := time.Now().UTC()
	return &RefreshSession{
		ID:           uuid.New().String(),
		UserID:       userID,
		RefreshToken: uuid.New().String(),
		ExpiresAt:    now.Add(ttl),
		CreatedAt:    now,
	}
}

// IsExpired checks if the session has expired.
func (s *RefreshSession) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
