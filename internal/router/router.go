// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router wires all HTTP routes with their middleware chains.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"orthopress/internal/handlers"
	"orthopress/internal/middleware"
)

// Deps carries everything the router needs to assemble the API.
type Deps struct {
	Auth           *middleware.Auth
	AuthLimiter    *middleware.RateLimiter
	AuthHandlers   *handlers.Auth
	Users          *handlers.Users
	Blogs          *handlers.Blogs
	Books          *handlers.Books
	ExamPreps      *handlers.ExamPreps
	TopicSummaries *handlers.TopicSummaries
	Uploads        *handlers.Uploads
	Health         *handlers.Health
	AllowedOrigins []string
}

// New builds the chi router with all routes and middleware.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Range"},
		ExposedHeaders:   []string{"Content-Length", "Content-Range", "Accept-Ranges"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", d.Health.Check)

	r.Route("/api", func(r chi.Router) {
		// Credential endpoints sit behind a tight per-IP limiter. The
		// caller owns the limiter and stops it on shutdown.
		r.Group(func(r chi.Router) {
			r.Use(d.AuthLimiter.Middleware)
			r.Post("/auth/setup", d.AuthHandlers.Setup)
			r.Post("/auth/login", d.AuthHandlers.Login)
			r.Post("/users/signup", d.Users.Signup)
			r.Post("/users/signup-verified", d.Users.SignupVerified)
			r.Post("/users/google-login", d.Users.GoogleLogin)
			r.Post("/users/login", d.Users.Login)
		})

		// Public content.
		r.Get("/blogs", d.Blogs.List)
		r.With(d.Auth.OptionalUser).Get("/blogs/{slug}", d.Blogs.GetBySlug)
		r.Get("/books", d.Books.List)
		r.Get("/exam-preps", d.ExamPreps.List)
		r.Get("/topic-summaries", d.TopicSummaries.List)
		r.Get("/topic-summaries/{id}", d.TopicSummaries.Get)

		// Reader-only surface: profile, comments, document delivery.
		r.Group(func(r chi.Router) {
			r.Use(d.Auth.RequireUser)
			r.Get("/users/me", d.Users.Me)
			r.Post("/blogs/{slug}/comments", d.Blogs.AddComment)
			r.Get("/topic-summaries/{id}/signed-url", d.TopicSummaries.SignedURL)
			r.Get("/topic-summaries/{id}/stream", d.TopicSummaries.Stream)
		})

		// Admin surface.
		r.Route("/admin", func(r chi.Router) {
			r.Use(d.Auth.RequireAdmin)

			r.Get("/me", d.AuthHandlers.Me)
			r.Post("/2fa/setup", d.AuthHandlers.TwoFASetup)
			r.Post("/2fa/verify", d.AuthHandlers.TwoFAVerify)

			r.Get("/blogs", d.Blogs.ListAdmin)
			r.Post("/blogs", d.Blogs.Create)
			r.Get("/blogs/{slug}", d.Blogs.GetAdmin)
			r.Put("/blogs/{slug}", d.Blogs.Update)
			r.Delete("/blogs/{slug}", d.Blogs.Delete)

			r.Get("/books", d.Books.ListAdmin)
			r.Post("/books", d.Books.Create)
			r.Put("/books/{id}", d.Books.Update)
			r.Patch("/books/{id}/toggle", d.Books.Toggle)
			r.Delete("/books/{id}", d.Books.Delete)

			r.Post("/exam-preps", d.ExamPreps.Create)
			r.Put("/exam-preps/{id}", d.ExamPreps.Update)
			r.Delete("/exam-preps/{id}", d.ExamPreps.Delete)

			r.Post("/topic-summaries", d.TopicSummaries.Create)
			r.Delete("/topic-summaries/{id}", d.TopicSummaries.Delete)

			r.Post("/upload", d.Uploads.Upload)
		})
	})

	return r
}
