package repository

import (
	"context"
	"time"

	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/entity"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	// GetByIdentifier matches either the email or the username.
	GetByIdentifier(ctx context.Context, identifier string) (*entity.User, error)
	// UpsertPending creates or overwrites the unverified record for user.Email.
	// It returns ErrDuplicateEmail when the email belongs to a verified account.
	UpsertPending(ctx context.Context, user *entity.User) error
	// MarkVerified sets the verified flag and clears the OTP. A non-empty code
	// makes the write conditional: it only applies while that code is stored
	// and unexpired at `at`, and ErrNotFound is returned otherwise.
	MarkVerified(ctx context.Context, id, code string, at time.Time) error
	GetUsernames(ctx context.Context, ids []string) (map[string]string, error)
}
