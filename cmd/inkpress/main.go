// Package main is the entry point for the inkpress blog server.
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

	"inkpress/internal/cache"
	"inkpress/internal/config"
	"inkpress/internal/database"
	"inkpress/internal/handlers"
	"inkpress/internal/middleware"
	"inkpress/internal/router"
	"inkpress/internal/store"
	"inkpress/internal/token"
	"inkpress/internal/web"
)

func main() {
	// Structured logger — text handler for readable development output.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to MongoDB and ensure the collection indexes exist.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, closeDB, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer closeDB()

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	err = database.EnsureIndexes(ctx, db)
	cancel()
	if err != nil {
		slog.Error("failed to ensure indexes", "error", err)
		os.Exit(1)
	}

	// Connect to Redis for list caching (optional — app works without it).
	var listCache *cache.ListCache
	if cfg.RedisAddr != "" {
		redisClient, err := cache.Connect(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		listCache = cache.NewListCache(redisClient, cache.DefaultListTTL)
	} else {
		slog.Warn("redis not configured — list caching disabled")
	}

	// Token service for bearer session tokens.
	tokens, err := token.NewService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		slog.Error("failed to initialize token service", "error", err)
		os.Exit(1)
	}

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	categoryStore := store.NewCategoryStore(db)
	postStore := store.NewPostStore(db)

	// Template renderer for the public site.
	renderer, err := web.NewRenderer()
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	// Rate limiter for the credential endpoints.
	authLimiter := middleware.NewRateLimiter(10, time.Minute)
	defer authLimiter.Stop()

	// Create handler groups with their dependencies.
	authHandlers := handlers.NewAuth(userStore, tokens)
	categoryHandlers := handlers.NewCategories(categoryStore, listCache)
	postHandlers := handlers.NewPosts(postStore, categoryStore, userStore, listCache)
	site := web.NewSite(renderer, postStore, categoryStore, userStore)

	// Set up the Chi router with all middleware and routes.
	r := router.New(router.Deps{
		Tokens:      tokens,
		Users:       userStore,
		Auth:        authHandlers,
		Categories:  categoryHandlers,
		Posts:       postHandlers,
		Site:        site,
		AuthLimiter: authLimiter,
		UploadDir:   cfg.UploadDir,
	})

	// Create the HTTP server with sensible timeouts. WriteTimeout must
	// accommodate multipart image uploads on slow links.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
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
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
