package entity

import "time"

// User is a registered account. A user with IsVerified == false is a pending
// registration waiting for its one-time code.
type User struct {
	ID         string
	Username   string
	Email      string
	Password   string // bcrypt hash, never the plain password
	OTP        string
	OTPExpires *time.Time
	IsVerified bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
