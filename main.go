package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/server"
	"github.com/Zachkp/portfolio/internal/store"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Build variables, set by ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var configPath string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is ./portfolio.yaml)")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("portfolio %s (%s)\n", version, commit)
		return
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg appConfig) error {
	logger, err := newLogger(cfg.LogLevel, cfg.Debug)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.ConfigPath != "" {
		logger.Info("loaded config", zap.String("path", cfg.ConfigPath))
	}

	site, err := content.LoadFile(cfg.ContentPath)
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("database ready", zap.String("path", db.Path()))

	relay := &contact.RecordingRelay{
		Next:   cfg.newRelay(logger),
		Saver:  db,
		Logger: logger.Named("contact"),
	}
	logger.Info("message relay configured", zap.String("relay", cfg.Relay))

	srv, err := server.New(cfg.serverConfig(), db, site, relay, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		select {
		case <-gctx.Done():
			logger.Info("shutting down")
			return nil
		case err := <-srv.ServeErr():
			return fmt.Errorf("http server: %w", err)
		}
	})
	err = g.Wait()
	if stopErr := srv.Stop(); err == nil {
		err = stopErr
	}
	return err
}
