// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"orthopress/internal/models"
	"orthopress/internal/store"
	"orthopress/internal/token"
)

type contextKey string

const (
	adminKey contextKey = "admin"
	userKey  contextKey = "user"
)

// Auth guards routes with bearer tokens. Admin and reader tokens are
// separate audiences; a reader token never opens an admin route.
type Auth struct {
	tokens *token.Manager
	admins *store.AdminStore
	users  *store.UserStore
}

// NewAuth creates the auth middleware set.
func NewAuth(tokens *token.Manager, admins *store.AdminStore, users *store.UserStore) *Auth {
	return &Auth{tokens: tokens, admins: admins, users: users}
}

// bearerToken extracts the raw token from the Authorization header.
// Returns "" when the header is missing or not a Bearer scheme.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAdmin rejects requests without a valid admin token. The admin
// record is resolved fresh on every request, so tokens for deleted
// admins stop working immediately.
func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			unauthorized(w)
			return
		}

		claims, err := a.tokens.Verify(raw, token.AudienceAdmin)
		if err != nil {
			unauthorized(w)
			return
		}

		admin, err := a.admins.FindByID(claims.Subject)
		if err != nil || admin == nil {
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithAdmin(r.Context(), admin)))
	})
}

// RequireUser rejects requests without a valid reader token.
func (a *Auth) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			unauthorized(w)
			return
		}

		claims, err := a.tokens.Verify(raw, token.AudienceUser)
		if err != nil {
			unauthorized(w)
			return
		}

		user, err := a.users.FindByID(claims.Subject)
		if err != nil || user == nil {
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// OptionalUser resolves a reader token when present but never rejects
// the request. Public article reads use this to decide between the
// locked preview and the full document.
func (a *Auth) OptionalUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := a.tokens.Verify(raw, token.AudienceUser)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		user, err := a.users.FindByID(claims.Subject)
		if err != nil || user == nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// WithAdmin returns a context carrying an authenticated admin.
func WithAdmin(ctx context.Context, a *models.Admin) context.Context {
	return context.WithValue(ctx, adminKey, a)
}

// WithUser returns a context carrying an authenticated reader.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// AdminFrom returns the authenticated admin from the request context,
// or nil outside RequireAdmin.
func AdminFrom(ctx context.Context) *models.Admin {
	a, _ := ctx.Value(adminKey).(*models.Admin)
	return a
}

// UserFrom returns the authenticated reader from the request context,
// or nil when the request carried no valid reader token.
func UserFrom(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized"}`))
}
