package router

import (
	"net/http"

	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/adapter/http/handler"
	"github.com/go-chi/chi/v5"
)

// SetupBlogRoutes registers the post routes. Reads are public; writes need a
// bearer token.
func SetupBlogRoutes(r chi.Router, postHandler *handler.PostHandler, auth func(http.Handler) http.Handler) {
	r.Route("/api/blogs", func(r chi.Router) {
		r.Get("/", postHandler.List)
		r.Get("/search", postHandler.Search)
		r.Get("/{id}", postHandler.Get)

		r.Group(func(authRouter chi.Router) {
			authRouter.Use(auth)
			authRouter.Post("/", postHandler.Create)
			authRouter.Put("/{id}", postHandler.Update)
			authRouter.Delete("/{id}", postHandler.Delete)
		})
	})
}
