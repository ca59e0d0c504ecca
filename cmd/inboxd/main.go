package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"

	"github.com/acastano/inboxtui/internal/inboxd"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "inboxd terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes everything and owns the server lifecycle, so defers
// (database close in particular) execute before the process exits.
func run() (int, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg inboxd.Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	logger := newLogger(cfg.LogLevel)

	opts := badger.DefaultOptions(cfg.BadgerPath).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("closing BadgerDB")
		_ = db.Close()
	}()

	store := inboxd.NewStore(db, logger)
	api := inboxd.NewServer(store, logger, cfg)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: api.Routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("inboxd listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return exitRuntime, fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return exitRuntime, fmt.Errorf("shutdown failed: %w", err)
	}

	return exitOK, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
