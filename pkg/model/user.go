package model

import (
	"database/sql"
	"time"
)

// Role values for authentication principals.
const (
	RoleAdmin  = "ADMIN"
	RoleRegion = "REGION"
)

// User represents an authentication principal. ADMIN users are global,
// REGION users are scoped to exactly one region.
type User struct {
	ID               int            `json:"id" db:"id"`
	Login            string         `json:"login" db:"login"`
	PasswordHash     string         `json:"-" db:"password_hash"`
	Role             string         `json:"role" db:"role"`
	RegionID         *int           `json:"region_id" db:"region_id"`
	TwoFactorEnabled bool           `json:"two_factor_enabled" db:"two_factor_enabled"`
	TwoFactorSecret  sql.NullString `json:"-" db:"two_factor_secret"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" db:"updated_at"`

	Region *Region `json:"region,omitempty" db:"-"`
}

// Actor identifies who performs an authoritative operation. It is built
// from the verified JWT claims and passed into every service call instead
// of relying on ambient session state.
type Actor struct {
	UserID   int
	Role     string
	RegionID *int
}

// IsAdmin reports whether the actor holds the global role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// UserCredentials is used for login requests
type UserCredentials struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
	TOTPCode string `json:"totp_code"`
}

// TwoFactorSetupResponse contains info for QR code setup
type TwoFactorSetupResponse struct {
	Secret    string `json:"secret"`
	QRCodeURL string `json:"qrcode_url"`
}

// TwoFactorVerifyRequest is used to verify and enable 2FA
type TwoFactorVerifyRequest struct {
	TOTPCode string `json:"totp_code" binding:"required"`
}

// UserCreateRequest is the admin payload for provisioning a region user.
type UserCreateRequest struct {
	Login    string `json:"login" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
	RegionID int    `json:"region_id" binding:"required"`
}

// UserUpdateRequest is the admin payload for updating a user account.
// Nil fields are left untouched.
type UserUpdateRequest struct {
	Login    *string `json:"login"`
	Password *string `json:"password"`
	RegionID *int    `json:"region_id"`
}
