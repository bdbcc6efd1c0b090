package entity

import (
	"time"
)

// Role represents an authorization role carried in session tokens.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// DefaultProfilePicture is used when neither the user nor the identity provider supplies one.
const DefaultProfilePicture = "user.jpg"

// User is the aggregate root for the identity domain.
// Password holds a bcrypt hash; OTP holds a sha256 digest and is set only while the account is pending.
type User struct {
	ID             string     `json:"id"`
	FullName       string     `json:"fullName"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	Password       string     `json:"-"`
	Role           Role       `json:"role"`
	ProfilePicture string     `json:"profilePicture"`
	IsActive       bool       `json:"isActive"`
	OTP            string     `json:"-"`
	OTPExpiration  *time.Time `json:"-"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// HasPendingOTP reports whether a verification challenge is outstanding.
func (u *User) HasPendingOTP() bool {
	return u.OTP != "" && u.OTPExpiration != nil
}

// OTPValidAt reports whether the outstanding challenge is still accepted at now.
// The code is accepted strictly before its expiration instant.
func (u *User) OTPValidAt(now time.Time) bool {
	return u.HasPendingOTP() && now.Before(*u.OTPExpiration)
}
