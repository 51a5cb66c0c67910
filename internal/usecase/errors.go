package usecase

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateAccount   = errors.New("user already exists with this email")
	ErrDeliveryFailed     = errors.New("failed to send OTP email")
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCode        = errors.New("invalid OTP")
	ErrExpired            = errors.New("OTP has expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnverified         = errors.New("please verify your email before logging in")

	ErrMissingToken = errors.New("no authorization header found")
	ErrInvalidToken = errors.New("invalid token")
	ErrUserNotFound = errors.New("user for token not found")

	ErrInvalidID    = errors.New("invalid blog post ID")
	ErrPostNotFound = errors.New("blog post not found")
	ErrForbidden    = errors.New("not authorized to modify this blog post")
)
