package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/usecase"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	testCases := []struct {
		err        error
		wantStatus int
		wantMsg    string
	}{
		{usecase.ErrDuplicateAccount, http.StatusBadRequest, "User already exists with this email"},
		{fmt.Errorf("%w: smtp down", usecase.ErrDeliveryFailed), http.StatusInternalServerError, "Failed to send OTP email"},
		{usecase.ErrExpired, http.StatusBadRequest, "OTP has expired"},
		{usecase.ErrUnverified, http.StatusBadRequest, "Please verify your email before logging in"},
		{usecase.ErrMissingToken, http.StatusUnauthorized, "No authorization header found"},
		{usecase.ErrUserNotFound, http.StatusUnauthorized, "User not found"},
		{usecase.ErrPostNotFound, http.StatusNotFound, "Blog post not found"},
		{usecase.ErrForbidden, http.StatusForbidden, "You are not authorized to modify this blog post"},
		{fmt.Errorf("%w: title and body are required", usecase.ErrInvalidInput), http.StatusBadRequest, "title and body are required"},
		{errors.New("mongo: connection reset"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range testCases {
		t.Run(tc.wantMsg, func(t *testing.T) {
			status, msg := StatusFor(tc.err)
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantMsg, msg)
		})
	}
}

func TestFail_WritesEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Fail(rec, usecase.ErrInvalidCode)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":false,"error":"Invalid OTP"}`, rec.Body.String())
}
