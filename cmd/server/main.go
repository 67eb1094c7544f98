package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dkurilov/postboard/internal/auth"
	"github.com/dkurilov/postboard/internal/config"
	"github.com/dkurilov/postboard/internal/handlers"
	"github.com/dkurilov/postboard/internal/middleware"
	"github.com/dkurilov/postboard/internal/storage/sqlite"
	"github.com/dkurilov/postboard/internal/token"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.MustLoad()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := setupLogger(cfg.Env)
	logger.Info("starting postboard server",
		slog.String("env", cfg.Env),
		slog.String("version", Version),
		slog.String("address", cfg.HTTPServer.Address))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Хранилище
	store, err := sqlite.New(ctx, cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", slog.Any("error", err))
		}
	}()

	// Token codec и session lifecycle
	codec := token.NewCodec(token.Config{
		AccessSecret:  []byte(cfg.JWT.AccessSecret),
		RefreshSecret: []byte(cfg.JWT.RefreshSecret),
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
	})
	authService := auth.NewService(logger, store, codec)

	// Handlers
	authHandler := handlers.NewAuthHandler(logger, authService)
	postsHandler := handlers.NewPostsHandler(logger, store)
	commentsHandler := handlers.NewCommentsHandler(logger, store, store)
	usersHandler := handlers.NewUsersHandler(logger, store)
	healthHandler := handlers.NewHealthHandler(logger, Version)

	// Middleware
	authGate := middleware.AuthMiddleware(logger, codec)

	mux := http.NewServeMux()

	// Открытые эндпоинты
	mux.HandleFunc("GET /api/v1/health", healthHandler.Health)
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/v1/auth/refresh", authHandler.Refresh)
	mux.HandleFunc("POST /api/v1/auth/logout", authHandler.Logout)

	// Защищенные эндпоинты: посты
	mux.Handle("POST /api/v1/posts", authGate(http.HandlerFunc(postsHandler.Create)))
	mux.Handle("GET /api/v1/posts", authGate(http.HandlerFunc(postsHandler.List)))
	mux.Handle("GET /api/v1/posts/{post_id}", authGate(http.HandlerFunc(postsHandler.Get)))
	mux.Handle("PUT /api/v1/posts/{post_id}", authGate(http.HandlerFunc(postsHandler.Update)))
	mux.Handle("DELETE /api/v1/posts/{post_id}", authGate(http.HandlerFunc(postsHandler.Delete)))

	// Защищенные эндпоинты: комментарии
	mux.Handle("POST /api/v1/comments", authGate(http.HandlerFunc(commentsHandler.Create)))
	mux.Handle("GET /api/v1/comments", authGate(http.HandlerFunc(commentsHandler.List)))
	mux.Handle("GET /api/v1/comments/{comment_id}", authGate(http.HandlerFunc(commentsHandler.Get)))
	mux.Handle("PUT /api/v1/comments/{comment_id}", authGate(http.HandlerFunc(commentsHandler.Update)))
	mux.Handle("DELETE /api/v1/comments/{comment_id}", authGate(http.HandlerFunc(commentsHandler.Delete)))

	// Защищенные эндпоинты: пользователи
	mux.Handle("GET /api/v1/users", authGate(http.HandlerFunc(usersHandler.List)))
	mux.Handle("GET /api/v1/users/{user_id}", authGate(http.HandlerFunc(usersHandler.Get)))
	mux.Handle("PUT /api/v1/users/{user_id}", authGate(http.HandlerFunc(usersHandler.Update)))
	mux.Handle("DELETE /api/v1/users/{user_id}", authGate(http.HandlerFunc(usersHandler.Delete)))

	// Внешние middleware: recovery -> rate limit -> logging
	rateLimits := []middleware.PathRateLimit{
		{Path: "/api/v1/auth/register", Rate: cfg.RateLimit.AuthRate, Window: cfg.RateLimit.AuthWindow},
		{Path: "/api/v1/auth/login", Rate: cfg.RateLimit.AuthRate, Window: cfg.RateLimit.AuthWindow},
		{Path: "/api/v1/auth/refresh", Rate: cfg.RateLimit.AuthRate, Window: cfg.RateLimit.AuthWindow},
	}

	var handler http.Handler = mux
	handler = middleware.LoggingWithSkip(logger, []string{"/api/v1/health"})(handler)
	handler = middleware.RateLimitMiddleware(rateLimits, cfg.RateLimit.DefaultRate, cfg.RateLimit.DefaultWindow, logger)(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)

	server := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	errC := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()

	select {
	case err := <-errC:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	return nil
}

// setupLogger настраивает slog в зависимости от окружения
func setupLogger(env string) *slog.Logger {
	var handler slog.Handler

	switch env {
	case "local":
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	default:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	return slog.New(handler)
}

func printVersion() {
	fmt.Printf("Postboard Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
