// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL is unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"orthopress/internal/database"
	"orthopress/internal/identity"
	"orthopress/internal/middleware"
	"orthopress/internal/models"
	"orthopress/internal/store"
	"orthopress/internal/token"
)

// stubVerifier implements identity.Verifier for handler tests.
type stubVerifier struct {
	assertion *identity.Assertion
	err       error
}

func (s *stubVerifier) VerifyIDToken(_ context.Context, _ string) (*identity.Assertion, error) {
	return s.assertion, s.err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "orthopress")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "orthopress")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testEnv holds all dependencies for handler integration tests. The
// listing cache is left nil (a nil cache disables caching).
type testEnv struct {
	DB         *sql.DB
	Tokens     *token.Manager
	AdminStore *store.AdminStore
	UserStore  *store.UserStore
	BlogStore  *store.BlogStore
	Auth       *Auth
	Users      *Users
	Blogs      *Blogs
	Verifier   *stubVerifier
}

// newTestEnv creates a complete test environment with all handler
// dependencies that do not need external services.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	tokens := token.NewManager("test-secret", time.Hour)

	admins := store.NewAdminStore(db)
	users := store.NewUserStore(db)
	blogs := store.NewBlogStore(db)
	verifier := &stubVerifier{}

	return &testEnv{
		DB:         db,
		Tokens:     tokens,
		AdminStore: admins,
		UserStore:  users,
		BlogStore:  blogs,
		Auth:       NewAuth(admins, tokens, true),
		Users:      NewUsers(users, tokens, verifier),
		Blogs:      NewBlogs(blogs, nil),
		Verifier:   verifier,
	}
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withAdmin puts an authenticated admin on the request context.
func withAdmin(r *http.Request, a *models.Admin) *http.Request {
	return r.WithContext(middleware.WithAdmin(r.Context(), a))
}

// withUser puts an authenticated reader on the request context.
func withUser(r *http.Request, u *models.User) *http.Request {
	return r.WithContext(middleware.WithUser(r.Context(), u))
}

// cleanBlogs removes test blogs by slug.
func cleanBlogs(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, s := range slugs {
		db.Exec("DELETE FROM blogs WHERE slug = $1", s)
	}
}

// cleanUsers removes test users by email.
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, e := range emails {
		db.Exec("DELETE FROM users WHERE LOWER(email) = LOWER($1)", e)
	}
}

// cleanAdmins removes test admins by username.
func cleanAdmins(t *testing.T, db *sql.DB, usernames ...string) {
	t.Helper()
	for _, u := range usernames {
		db.Exec("DELETE FROM admins WHERE username = $1", u)
	}
}
