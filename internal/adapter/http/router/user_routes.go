package router

import (
	"net/http"

	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/adapter/http/handler"
	"github.com/go-chi/chi/v5"
)

func SetupUserRoutes(r chi.Router, userHandler *handler.UserHandler, auth func(http.Handler) http.Handler) {
	r.Route("/api/users", func(r chi.Router) {
		r.Post("/signup", userHandler.Signup)
		r.Post("/login", userHandler.Login)
		r.With(auth).Get("/me", userHandler.Me)
	})
}
