package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/usecase"
)

var errorTable = []struct {
	err    error
	status int
	msg    string
}{
	{usecase.ErrDuplicateAccount, http.StatusBadRequest, "User already exists with this email"},
	{usecase.ErrDeliveryFailed, http.StatusInternalServerError, "Failed to send OTP email"},
	{usecase.ErrNotFound, http.StatusBadRequest, "User not found"},
	{usecase.ErrInvalidCode, http.StatusBadRequest, "Invalid OTP"},
	{usecase.ErrExpired, http.StatusBadRequest, "OTP has expired"},
	{usecase.ErrInvalidCredentials, http.StatusBadRequest, "Invalid credentials"},
	{usecase.ErrUnverified, http.StatusBadRequest, "Please verify your email before logging in"},
	{usecase.ErrMissingToken, http.StatusUnauthorized, "No authorization header found"},
	{usecase.ErrInvalidToken, http.StatusUnauthorized, "Invalid token"},
	{usecase.ErrUserNotFound, http.StatusUnauthorized, "User not found"},
	{usecase.ErrInvalidID, http.StatusBadRequest, "Invalid blog post ID"},
	{usecase.ErrPostNotFound, http.StatusNotFound, "Blog post not found"},
	{usecase.ErrForbidden, http.StatusForbidden, "You are not authorized to modify this blog post"},
}

// StatusFor maps a use-case error to its HTTP status and client message.
// Unknown errors become a 500 without leaking details.
func StatusFor(err error) (int, string) {
	if errors.Is(err, usecase.ErrInvalidInput) {
		msg := strings.TrimPrefix(err.Error(), usecase.ErrInvalidInput.Error()+": ")
		return http.StatusBadRequest, msg
	}
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			return e.status, e.msg
		}
	}
	return http.StatusInternalServerError, "Internal server error"
}
