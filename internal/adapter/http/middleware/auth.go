package middleware

import (
	"context"
	"net/http"

	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/adapter/http/response"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/entity"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Authenticator interface {
	Authenticate(ctx context.Context, header string) (*entity.User, error)
}

// JWTAuth rejects requests without a valid bearer token and stores the
// resolved user in the request context.
func JWTAuth(auth Authenticator, logger *zap.Logger) func(http.Handler) http.Handler {
	log := logger.Named("JWTAuth")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := auth.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				log.Debug("Request not authenticated",
					zap.String("path", r.URL.Path),
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.Error(err),
				)
				response.Fail(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}
