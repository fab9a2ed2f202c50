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
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/bakery/internal/app"
	"github.com/MrJamesThe3rd/bakery/internal/config"
	bakeryHttp "github.com/MrJamesThe3rd/bakery/internal/http"
	"github.com/MrJamesThe3rd/bakery/internal/http/auth"
)

// tickInterval is how often expired undo windows are swept.
const tickInterval = time.Second

func main() {
	issueToken := flag.String("issue-token", "", "print a bearer token for `subject` and exit")
	tokenTTL := flag.Duration("token-ttl", auth.DefaultTTL, "lifetime of an issued token")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(app.NewLogger(cfg))

	if *issueToken != "" {
		if cfg.Auth.JWTSecret == "" {
			slog.Error("AUTH_JWT_SECRET is not set")
			os.Exit(1)
		}

		token, err := auth.IssueToken(cfg.Auth.JWTSecret, *issueToken, *tokenTTL, time.Now())
		if err != nil {
			slog.Error("failed to issue token", "error", err)
			os.Exit(1)
		}

		fmt.Println(token)

		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, closeFn, err := app.OpenBook(ctx, cfg)
	if err != nil {
		slog.Error("failed to open book", "error", err)
		os.Exit(1)
	}
	defer closeFn()

	go func() {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				b.Tick()
			}
		}
	}()

	router := bakeryHttp.New(b, bakeryHttp.Options{
		JWTSecret:      cfg.Auth.JWTSecret,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "port", srv.Addr, "auth", cfg.Auth.JWTSecret != "")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	case err := <-errCh:
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
