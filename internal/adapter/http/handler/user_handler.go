package handler

import (
	"net/http"
	"strings"

	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/adapter/http/middleware"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/adapter/http/response"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/usecase"
	"go.uber.org/zap"
)

type UserHandler struct {
	auth   AuthService
	logger *zap.Logger
}

func NewUserHandler(auth AuthService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		auth:   auth,
		logger: logger.Named("UserHTTPHandler"),
	}
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	OTP      string `json:"otp"`
}

// Signup sends a verification code when no otp is supplied and completes the
// registration when one is.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		h.logger.Warn("Failed to decode request body for Signup", zap.Error(err))
		writeDecodeError(w, err)
		return
	}

	if strings.TrimSpace(req.OTP) == "" {
		err := h.auth.RequestSignupOTP(r.Context(), usecase.SignupInput{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			h.logger.Info("Signup OTP request failed", zap.String("email", req.Email), zap.Error(err))
			response.Fail(w, err)
			return
		}
		response.OTPSent(w)
		return
	}

	res, err := h.auth.VerifySignupOTP(r.Context(), req.Email, strings.TrimSpace(req.OTP))
	if err != nil {
		h.logger.Info("Signup OTP verification failed", zap.String("email", req.Email), zap.Error(err))
		response.Fail(w, err)
		return
	}
	response.Data(w, http.StatusCreated, newAuthView(res))
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	Password   string `json:"password"`
}

func (r loginRequest) identifier() string {
	switch {
	case r.Identifier != "":
		return r.Identifier
	case r.Email != "":
		return r.Email
	default:
		return r.Username
	}
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		h.logger.Warn("Failed to decode request body for Login", zap.Error(err))
		writeDecodeError(w, err)
		return
	}

	res, err := h.auth.Login(r.Context(), req.identifier(), req.Password)
	if err != nil {
		h.logger.Info("Login failed", zap.String("identifier", req.identifier()), zap.Error(err))
		response.Fail(w, err)
		return
	}
	response.Data(w, http.StatusOK, newAuthView(res))
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.logger.Warn("User not found in request context for Me")
		response.Fail(w, usecase.ErrMissingToken)
		return
	}
	response.Data(w, http.StatusOK, newUserView(user))
}
