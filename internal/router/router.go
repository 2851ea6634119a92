// Package router sets up all HTTP routes and middleware chains for the
// inkpress server. It organizes the JSON API under /api with auth and
// upload middleware stacks, and mounts the public site at the root.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"inkpress/internal/handlers"
	"inkpress/internal/middleware"
	"inkpress/internal/store"
	"inkpress/internal/token"
	"inkpress/internal/upload"
	"inkpress/internal/web"
)

// Deps carries everything the router wires together.
type Deps struct {
	Tokens      *token.Service
	Users       *store.UserStore
	Auth        *handlers.Auth
	Categories  *handlers.Categories
	Posts       *handlers.Posts
	Site        *web.Site
	AuthLimiter *middleware.RateLimiter
	UploadDir   string
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	requireAuth := middleware.RequireAuth(d.Tokens, d.Users)

	// Health check.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// Credential endpoints are rate limited per IP.
			r.Group(func(r chi.Router) {
				r.Use(d.AuthLimiter.Middleware)
				r.Post("/register", d.Auth.Register)
				r.Post("/login", d.Auth.Login)
			})

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", d.Auth.Me)
				r.Put("/profile", d.Auth.UpdateProfile)
				r.Post("/2fa/setup", d.Auth.TwoFASetup)
				r.Post("/2fa/enable", d.Auth.TwoFAEnable)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", d.Categories.List)
			r.Get("/{key}", d.Categories.Get)

			// Mutations are admin only.
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Use(middleware.RequireAdmin)
				r.Post("/", d.Categories.Create)
				r.Put("/{id}", d.Categories.Update)
				r.Delete("/{id}", d.Categories.Delete)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", d.Posts.List)
			r.Get("/{key}", d.Posts.Get)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.With(upload.Image(d.UploadDir)).Post("/", d.Posts.Create)
				r.With(upload.Image(d.UploadDir)).Put("/{id}", d.Posts.Update)
				r.Delete("/{id}", d.Posts.Delete)
				r.Post("/{id}/comments", d.Posts.AddComment)
			})
		})
	})

	// Uploaded images are served as static files.
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(d.UploadDir))))

	// Public site.
	r.Get("/", d.Site.Home)
	r.Get("/posts/{slug}", d.Site.Post)
	r.Get("/categories/{slug}", d.Site.Category)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
