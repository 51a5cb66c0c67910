package middleware

import (
	"context"

	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/entity"
)

type contextKey string

const userCtxKey = contextKey("user")

func WithUser(ctx context.Context, user *entity.User) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

// UserFromContext returns the user stored by JWTAuth.
func UserFromContext(ctx context.Context) (*entity.User, bool) {
	user, ok := ctx.Value(userCtxKey).(*entity.User)
	return user, ok && user != nil
}
