package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/montabano1/escape/internal/config"
	"github.com/montabano1/escape/internal/database"
	"github.com/montabano1/escape/internal/engine"
	"github.com/montabano1/escape/internal/server"
	"github.com/montabano1/escape/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	docs, err := store.NewDocStore(ctx, db)
	if err != nil {
		return fmt.Errorf("initializing document store: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	// --- Provisioning ---
	// First boot seeds the game; later boots leave the running game alone.
	provisioned, err := docs.Provisioned(ctx)
	if err != nil {
		return fmt.Errorf("checking provisioning: %w", err)
	}
	if !provisioned {
		start := time.Now()
		err := docs.Provision(ctx, store.ProvisionParams{
			Title:     cfg.GameTitle,
			StartTime: start,
			EndTime:   start.Add(cfg.GameDuration),
		})
		if err != nil {
			return fmt.Errorf("provisioning game: %w", err)
		}
		logger.Info("game provisioned", "title", cfg.GameTitle, "duration", cfg.GameDuration)
	}

	// --- Engine ---
	eng := engine.New(docs, engine.Rules{
		WrongGuessPenalty: cfg.WrongGuessPenalty,
		EnforceMinBalance: cfg.EnforceMinBalance,
	}, logger)

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, eng, docs, db, cfg.AdminPasswordHash, server.ResetDefaults{
		Title:    cfg.GameTitle,
		Duration: cfg.GameDuration,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
