// Package main is the entry point for the Sarren catalog server.
// It loads configuration, connects to the selected backends, sets up
// routing, and starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"sarren/internal/auth"
	"sarren/internal/cache"
	"sarren/internal/config"
	"sarren/internal/handlers"
	"sarren/internal/kv"
	"sarren/internal/router"
	"sarren/internal/service"
	"sarren/internal/session"
	"sarren/internal/store"
)

func main() {
	config.LoadDotEnv()

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: JSON in production, text in development.
	setupLogger(cfg)

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"kv", cfg.KVBackend,
		"cache", cfg.CacheBackend,
		"blobs", cfg.BlobBackend,
	)

	// Connect to Valkey when the KV store or the cache uses it.
	var valkeyClient *redis.Client
	if cfg.NeedsValkey() {
		valkeyClient, err = cache.ConnectValkey(cfg.RedisURL, cfg.ValkeyAddr(), cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
	}

	kvStore, err := kv.Open(cfg.KVBackend, valkeyClient, cfg.DSN())
	if err != nil {
		slog.Error("failed to open kv store", "backend", cfg.KVBackend, "error", err)
		os.Exit(1)
	}
	defer kvStore.Close()

	// Seed the catalog in development (no-op if the keys already exist).
	if cfg.IsDev() {
		if err := store.Seed(context.Background(), kvStore, false); err != nil {
			slog.Error("failed to seed catalog", "error", err)
			os.Exit(1)
		}
	}

	blobs, err := openBlobs(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to initialize blob storage", "backend", cfg.BlobBackend, "error", err)
		os.Exit(1)
	}

	responseCache := openCache(cfg, valkeyClient)
	mailer := openMailer(cfg)

	// Session cookies are Secure everywhere except development.
	sessionStore := session.NewStore(cfg.SessionSecret, !cfg.IsDev())
	checker := auth.NewChecker(cfg.AdminPassword, cfg.AdminPasswordHash, cfg.AdminTOTPSecret)
	if checker.RequiresCode() {
		slog.Info("admin login requires a one-time code")
	}

	products := service.NewProducts(store.NewProductStore(kvStore), responseCache)
	documents := service.NewDocuments(store.NewDocumentStore(kvStore), blobs, responseCache)

	// Create handler groups with their dependencies.
	adminHandlers := handlers.NewAdmin(products, documents)
	authHandlers := handlers.NewAuth(sessionStore, checker)
	publicHandlers := handlers.NewPublic(products, documents, responseCache, mailer)

	// Set up the Chi router with all middleware and routes.
	r, stopRouter := router.New(sessionStore, adminHandlers, authHandlers, publicHandlers, cfg.TrustedProxies)
	defer stopRouter()

	srv := newServer(cfg.Addr(), r)

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
		return
	}

	slog.Info("server stopped gracefully")
}

const (
	readHeaderTimeout = 10 * time.Second
	// ReadTimeout bounds the whole request body, so it must let the
	// largest PDF upload arrive over a slow link.
	readTimeout = 2 * time.Minute
	// WriteTimeout runs from the end of the headers and also covers
	// relaying the upload to object storage.
	writeTimeout = 3 * time.Minute
	idleTimeout  = 120 * time.Second
)

func newServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}

func setupLogger(cfg *config.Config) {
	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))
}
