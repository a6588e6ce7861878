// Package main is the entry point for the Orthopress API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"orthopress/internal/cache"
	"orthopress/internal/config"
	"orthopress/internal/database"
	"orthopress/internal/handlers"
	"orthopress/internal/identity"
	"orthopress/internal/middleware"
	"orthopress/internal/router"
	"orthopress/internal/storage"
	"orthopress/internal/store"
	"orthopress/internal/token"
)

func main() {
	// Structured logger to stdout; container runtimes collect it.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load .env if present; real environments set variables directly.
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded environment from .env")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey for the listing cache.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	listingCache := cache.NewListingCache(valkeyClient, cache.DefaultListingTTL)

	// Initialize data stores.
	adminStore := store.NewAdminStore(db)
	userStore := store.NewUserStore(db)
	blogStore := store.NewBlogStore(db)
	bookStore := store.NewBookStore(db)
	examPrepStore := store.NewExamPrepStore(db)
	topicSummaryStore := store.NewTopicSummaryStore(db)

	// Connect to S3-compatible object storage (optional — uploads and
	// document delivery are disabled without it).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3BucketPublic, cfg.S3BucketPrivate, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("s3 storage connected",
			"endpoint", cfg.S3Endpoint,
			"public_bucket", cfg.S3BucketPublic,
			"private_bucket", cfg.S3BucketPrivate,
		)
	} else {
		slog.Warn("s3 storage not configured — uploads and document delivery disabled")
	}

	// Firebase identity verification (optional — delegated signup and
	// Google sign-in are disabled without credentials).
	verifier, err := identity.NewFirebaseVerifier(context.Background(), cfg.FirebaseCredentialsFile)
	if err != nil {
		slog.Error("failed to initialize firebase verifier", "error", err)
		os.Exit(1)
	}
	var identityVerifier identity.Verifier
	if verifier != nil {
		identityVerifier = verifier
		slog.Info("firebase identity verification enabled")
	} else {
		slog.Warn("firebase not configured — delegated signup disabled")
	}

	tokens := token.NewManager(cfg.JWTSecret, time.Duration(cfg.JWTExpiryHours)*time.Hour)
	auth := middleware.NewAuth(tokens, adminStore, userStore)

	// Per-IP limiter for the credential endpoints; stopped on shutdown.
	authLimiter := middleware.NewRateLimiter(10, time.Minute)
	defer authLimiter.Stop()

	// Create handler groups with their dependencies.
	r := router.New(router.Deps{
		Auth:           auth,
		AuthLimiter:    authLimiter,
		AuthHandlers:   handlers.NewAuth(adminStore, tokens, cfg.AdminSetupEnabled),
		Users:          handlers.NewUsers(userStore, tokens, identityVerifier),
		Blogs:          handlers.NewBlogs(blogStore, listingCache),
		Books:          handlers.NewBooks(bookStore, listingCache),
		ExamPreps:      handlers.NewExamPreps(examPrepStore),
		TopicSummaries: handlers.NewTopicSummaries(topicSummaryStore, storageClient),
		Uploads:        handlers.NewUploads(storageClient),
		Health:         handlers.NewHealth(db),
		AllowedOrigins: cfg.AllowedOrigins,
	})

	// WriteTimeout must accommodate document streaming and uploads, so
	// it is deliberately generous.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Minute,
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
