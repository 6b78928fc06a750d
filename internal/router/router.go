// Package router sets up all HTTP routes and middleware chains for the
// inkwell API. Routes are organized into an open auth group and an
// authenticated data group.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
	"inkwell/internal/session"
	"inkwell/internal/store"
)

// Options carries the router's cross-cutting configuration.
type Options struct {
	// CORSOrigins is the allowlist for the dashboard client. Credentials
	// are always allowed since the client authenticates with a cookie.
	CORSOrigins []string
}

// New creates and returns the configured chi router with all middleware
// and route groups wired up.
func New(users *store.UserStore, sessions *session.Store, api *handlers.API, auth *handlers.Auth, opts Options) http.Handler {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	limiter := middleware.NewRateLimiter(300, time.Minute)
	r.Use(limiter.Middleware)

	r.Use(middleware.Authenticate(users, sessions))

	// Health check — no auth.
	r.Get("/health", healthHandler)

	// Auth routes — reachable without a credential; GetUserInfo answers
	// 401 itself when no session exists.
	r.Route("/auth", func(r chi.Router) {
		r.Get("/user", auth.GetUserInfo)
		r.Get("/github/login", auth.GithubLogin)
		r.Get("/github/callback", auth.GithubCallback)
		r.Get("/logout", auth.Logout)
	})

	// Data routes — everything here requires a user.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)

		// Post listings
		r.Get("/posts", api.FetchPosts)
		r.Get("/posts/{category}", api.FetchPosts)

		// Individual posts
		r.Get("/post/{slug}", api.GetPostBySlug)
		r.Post("/post/new", api.CreatePost)
		r.Put("/post/edit", api.EditPost)
		r.Delete("/post/delete/{id}", api.DeletePost)

		// Post tags
		r.Put("/post/tag", api.AddPostTag)
		r.Delete("/post/tag", api.DeletePostTag)
		r.Get("/tags", api.GetTags)

		// Categories
		r.Get("/categories", api.GetCategories)
		r.Post("/category/new", api.CreateCategory)
		r.Delete("/category/delete/{name}", api.DeleteCategory)

		// API tokens
		r.Get("/tokens", api.GetUserTokens)
		r.Post("/token/new", api.CreateToken)
		r.Put("/token/edit", api.EditToken)
		r.Delete("/token/delete/{id}", api.DeleteToken)

		// Integrations
		r.Get("/links", api.GetUserIntegrations)
		r.Put("/links/upsert", api.UpsertIntegration)
		r.Get("/links/fetch/{source}", api.FetchIntegration)
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedHeaders:   []string{"Content-Type", middleware.AuthHeader},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: true,
	})

	return c.Handler(r)
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
