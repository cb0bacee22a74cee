package auth

import "time"

const (
	// RoleOwner is the default role stored on every registered account.
	// There is no role hierarchy; read delegation happens per report
	// through share grants, not through roles.
	RoleOwner = "owner"
)

// User is a registered account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the authenticated principal resolved from a verified token.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
