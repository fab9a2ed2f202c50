// Package app assembles a loaded book from configuration. Both binaries
// start here.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/MrJamesThe3rd/bakery/internal/book"
	"github.com/MrJamesThe3rd/bakery/internal/config"
	"github.com/MrJamesThe3rd/bakery/internal/database"
	"github.com/MrJamesThe3rd/bakery/internal/storage/file"
	"github.com/MrJamesThe3rd/bakery/internal/storage/postgres"
)

// NewLogger builds the slog handler selected by LOG_FORMAT and LOG_LEVEL.
func NewLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}

	if strings.EqualFold(strings.TrimSpace(cfg.Log.Format), "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}

	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// BookOptions maps the config onto book options.
func BookOptions(cfg *config.Config) book.Options {
	return book.Options{
		UndoWindow:           cfg.Book.UndoWindow,
		SnapshotCap:          cfg.Book.SnapshotCap,
		CalcSaveCap:          cfg.Book.CalcSaveCap,
		CalcCooldown:         cfg.Book.CalcCooldown,
		ElectricityRateCents: cfg.ElectricityRateCents(),
	}
}

// OpenStorage returns the configured storage backend and a close func.
func OpenStorage(ctx context.Context, cfg *config.Config) (book.Storage, func(), error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := database.New(ctx, cfg.ConnectionString(), database.Pool{
			MaxOpenConns:    cfg.DB.MaxOpenConns,
			MaxIdleConns:    cfg.DB.MaxIdleConns,
			ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
		})
		if err != nil {
			return nil, nil, err
		}

		store := postgres.New(db)
		if err := store.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrating storage: %w", err)
		}

		return store, func() { db.Close() }, nil
	default:
		store, err := file.New(cfg.Storage.Dir)
		if err != nil {
			return nil, nil, err
		}

		return store, func() {}, nil
	}
}

// OpenBook opens storage and loads the book from it.
func OpenBook(ctx context.Context, cfg *config.Config) (*book.Book, func(), error) {
	store, closeFn, err := OpenStorage(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	b := book.New(store, BookOptions(cfg))
	if err := b.Load(ctx); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("loading book: %w", err)
	}

	slog.Info("book loaded", "storage", cfg.Storage.Driver)

	return b, closeFn, nil
}
