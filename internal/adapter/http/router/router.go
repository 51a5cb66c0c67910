package router

import (
	"net/http"

	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/adapter/http/handler"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/adapter/http/middleware"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Deps struct {
	UserHandler    *handler.UserHandler
	PostHandler    *handler.PostHandler
	Authenticator  middleware.Authenticator
	Metrics        *metrics.MetricsManager
	MetricsPath    string
	AllowedOrigins []string
	Logger         *zap.Logger
}

func New(d Deps) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics(d.Metrics))
	r.Use(middleware.CORS(d.AllowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	})
	if d.Metrics != nil && d.MetricsPath != "" {
		r.Method(http.MethodGet, d.MetricsPath, d.Metrics.Handler())
	}

	auth := middleware.JWTAuth(d.Authenticator, d.Logger)
	SetupUserRoutes(r, d.UserHandler, auth)
	SetupBlogRoutes(r, d.PostHandler, auth)
	return r
}
