package model

import (
	"strconv"
	"time"
)

// Roles stored in the users.role column and carried in access-token claims.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User mirrors the 'users' table. PasswordHash is empty for social-auth
// accounts. Phone and NID are optional and sparsely unique: NULL rows do
// not collide, non-NULL values must be unique.
type User struct {
	ID                  uint64     // users.id
	Name                string     // users.name
	Email               string     // users.email
	PasswordHash        string     // users.password_hash ('' for social accounts)
	Role                string     // users.role
	IsVerified          bool       // users.is_verified
	Phone               *string    // users.phone (nullable, unique)
	NID                 *string    // users.nid (nullable, unique)
	PasswordResetToken  *string    // users.password_reset_token (nullable)
	PasswordResetExpire *time.Time // users.password_reset_expire (nullable)
	CreatedAt           time.Time  // users.created_at
	UpdatedAt           time.Time  // users.updated_at
}

// Profile is the sanitized projection of a User returned to clients and
// stored in the session cache. The type has no password field, so a cached
// snapshot can never leak credentials no matter which caller builds it.
type Profile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	IsVerified bool   `json:"is_verified"`
	Phone      string `json:"phone,omitempty"`
}

// NewProfile builds the sanitized snapshot for a user, coercing the numeric
// id to its string form.
func NewProfile(u *User) Profile {
	p := Profile{
		ID:         strconv.FormatUint(u.ID, 10),
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		IsVerified: u.IsVerified,
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	return p
}
