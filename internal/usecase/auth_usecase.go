package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/entity"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/platform/metrics"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/port/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var tracer trace.Tracer = otel.Tracer("github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/usecase")

type OTPSender interface {
	SendOTP(ctx context.Context, to, code string) error
}

type TokenManager interface {
	Issue(userID string) (string, time.Time, error)
	Parse(token string) (string, error)
}

type UserEventPublisher interface {
	PublishUserOTPRequested(ctx context.Context, user *entity.User) error
	PublishUserVerified(ctx context.Context, user *entity.User) error
}

type AuthConfig struct {
	OTPTTL     time.Duration
	BcryptCost int
}

type SignupInput struct {
	Username string
	Email    string
	Password string
}

type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *entity.User
}

type AuthUseCase struct {
	userRepo  repository.UserRepository
	tokens    TokenManager
	otpSender OTPSender
	publisher UserEventPublisher
	metrics   *metrics.MetricsManager
	cfg       AuthConfig
	logger    *zap.Logger

	now     func() time.Time
	newCode func() (string, error)
}

func NewAuthUseCase(
	ur repository.UserRepository,
	tm TokenManager,
	sender OTPSender,
	pub UserEventPublisher,
	mm *metrics.MetricsManager,
	cfg AuthConfig,
	log *zap.Logger,
) *AuthUseCase {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthUseCase{
		userRepo:  ur,
		tokens:    tm,
		otpSender: sender,
		publisher: pub,
		metrics:   mm,
		cfg:       cfg,
		logger:    log.Named("AuthUseCase"),
		now:       time.Now,
		newCode:   generateOTP,
	}
}

func failSpan(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// RequestSignupOTP starts or restarts a registration. Every call overwrites the
// pending record's hash and code, so only the latest code verifies.
func (uc *AuthUseCase) RequestSignupOTP(ctx context.Context, in SignupInput) error {
	ctx, span := tracer.Start(ctx, "AuthUseCase.RequestSignupOTP")
	defer span.End()

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		uc.metrics.ObserveSignupOTP("invalid_input")
		return fmt.Errorf("%w: username, email and password are required", ErrInvalidInput)
	}

	existing, err := uc.userRepo.GetByEmail(ctx, in.Email)
	switch {
	case err == nil && existing.IsVerified:
		uc.metrics.ObserveSignupOTP("duplicate")
		return ErrDuplicateAccount
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		failSpan(span, err)
		return fmt.Errorf("AuthUseCase.RequestSignupOTP: failed to look up email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.cfg.BcryptCost)
	if err != nil {
		failSpan(span, err)
		return fmt.Errorf("AuthUseCase.RequestSignupOTP: failed to hash password: %w", err)
	}

	code, err := uc.newCode()
	if err != nil {
		failSpan(span, err)
		return fmt.Errorf("AuthUseCase.RequestSignupOTP: %w", err)
	}

	now := uc.now()
	expires := now.Add(uc.cfg.OTPTTL)
	user := &entity.User{
		Username:   in.Username,
		Email:      in.Email,
		Password:   string(hash),
		OTP:        code,
		OTPExpires: &expires,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := uc.userRepo.UpsertPending(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			uc.metrics.ObserveSignupOTP("duplicate")
			return ErrDuplicateAccount
		}
		failSpan(span, err)
		return fmt.Errorf("AuthUseCase.RequestSignupOTP: failed to store pending user: %w", err)
	}

	if err := uc.otpSender.SendOTP(ctx, user.Email, code); err != nil {
		uc.logger.Error("Failed to deliver OTP", zap.String("email", user.Email), zap.Error(err))
		uc.metrics.ObserveSignupOTP("delivery_failed")
		failSpan(span, err)
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	if uc.publisher != nil {
		if errPub := uc.publisher.PublishUserOTPRequested(ctx, user); errPub != nil {
			uc.logger.Warn("Failed to publish NATS event for OTP requested",
				zap.Error(errPub),
				zap.String("user_id", user.ID),
			)
		}
	}

	uc.metrics.ObserveSignupOTP("sent")
	uc.logger.Info("Signup OTP sent", zap.String("user_id", user.ID), zap.String("email", user.Email))
	return nil
}

// VerifySignupOTP checks the code before its expiry so a wrong code never
// reveals whether the pending record has expired.
func (uc *AuthUseCase) VerifySignupOTP(ctx context.Context, email, code string) (*AuthResult, error) {
	ctx, span := tracer.Start(ctx, "AuthUseCase.VerifySignupOTP")
	defer span.End()

	email = strings.TrimSpace(email)
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			uc.metrics.ObserveOTPVerification("not_found")
			return nil, ErrNotFound
		}
		failSpan(span, err)
		return nil, fmt.Errorf("AuthUseCase.VerifySignupOTP: failed to look up email: %w", err)
	}

	if user.OTP == "" || subtle.ConstantTimeCompare([]byte(user.OTP), []byte(code)) != 1 {
		uc.metrics.ObserveOTPVerification("invalid_code")
		return nil, ErrInvalidCode
	}

	now := uc.now()
	if user.OTPExpires == nil || now.After(*user.OTPExpires) {
		uc.metrics.ObserveOTPVerification("expired")
		return nil, ErrExpired
	}

	// The write re-checks the code so a resend that landed after the read
	// above still invalidates it.
	if err := uc.userRepo.MarkVerified(ctx, user.ID, code, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			uc.metrics.ObserveOTPVerification("invalid_code")
			return nil, ErrInvalidCode
		}
		failSpan(span, err)
		return nil, fmt.Errorf("AuthUseCase.VerifySignupOTP: failed to mark verified: %w", err)
	}
	user.IsVerified = true
	user.OTP = ""
	user.OTPExpires = nil
	user.UpdatedAt = now

	token, expiresAt, err := uc.tokens.Issue(user.ID)
	if err != nil {
		failSpan(span, err)
		return nil, fmt.Errorf("AuthUseCase.VerifySignupOTP: %w", err)
	}

	if uc.publisher != nil {
		if errPub := uc.publisher.PublishUserVerified(ctx, user); errPub != nil {
			uc.logger.Warn("Failed to publish NATS event for user verified",
				zap.Error(errPub),
				zap.String("user_id", user.ID),
			)
		}
	}

	uc.metrics.ObserveOTPVerification("verified")
	uc.logger.Info("User verified", zap.String("user_id", user.ID))
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Login accepts either the email or the username as identifier. The password
// is checked first so an unverified account is only disclosed to its owner.
func (uc *AuthUseCase) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	ctx, span := tracer.Start(ctx, "AuthUseCase.Login")
	defer span.End()

	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		uc.metrics.ObserveLogin("invalid_credentials")
		return nil, ErrInvalidCredentials
	}

	user, err := uc.userRepo.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			uc.metrics.ObserveLogin("invalid_credentials")
			return nil, ErrInvalidCredentials
		}
		failSpan(span, err)
		return nil, fmt.Errorf("AuthUseCase.Login: failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		uc.metrics.ObserveLogin("invalid_credentials")
		return nil, ErrInvalidCredentials
	}

	if !user.IsVerified {
		uc.metrics.ObserveLogin("unverified")
		return nil, ErrUnverified
	}

	token, expiresAt, err := uc.tokens.Issue(user.ID)
	if err != nil {
		failSpan(span, err)
		return nil, fmt.Errorf("AuthUseCase.Login: %w", err)
	}

	uc.metrics.ObserveLogin("success")
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Authenticate resolves an Authorization header of the form "Bearer <token>"
// to the user it was issued for.
func (uc *AuthUseCase) Authenticate(ctx context.Context, header string) (*entity.User, error) {
	ctx, span := tracer.Start(ctx, "AuthUseCase.Authenticate")
	defer span.End()

	parts := strings.Fields(header)
	if len(parts) == 0 || (len(parts) == 1 && strings.EqualFold(parts[0], "bearer")) {
		return nil, ErrMissingToken
	}
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, ErrInvalidToken
	}

	userID, err := uc.tokens.Parse(parts[1])
	if err != nil {
		uc.logger.Debug("Rejected token", zap.Error(err))
		return nil, ErrInvalidToken
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		failSpan(span, err)
		return nil, fmt.Errorf("AuthUseCase.Authenticate: failed to load user: %w", err)
	}
	return user, nil
}

// ForceVerify marks a user verified without a code. Operator tooling only.
func (uc *AuthUseCase) ForceVerify(ctx context.Context, username string) (*entity.User, error) {
	ctx, span := tracer.Start(ctx, "AuthUseCase.ForceVerify")
	defer span.End()

	user, err := uc.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		failSpan(span, err)
		return nil, fmt.Errorf("AuthUseCase.ForceVerify: failed to look up user: %w", err)
	}
	if user.IsVerified {
		return user, nil
	}

	now := uc.now()
	if err := uc.userRepo.MarkVerified(ctx, user.ID, "", now); err != nil {
		failSpan(span, err)
		return nil, fmt.Errorf("AuthUseCase.ForceVerify: %w", err)
	}
	uc.metrics.ObserveOTPVerification("forced")
	user.IsVerified = true
	user.OTP = ""
	user.OTPExpires = nil
	user.UpdatedAt = now

	uc.logger.Info("User force-verified", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}
