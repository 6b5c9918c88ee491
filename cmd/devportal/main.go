// Package main runs the devportal API server: developer onboarding
// submission, slug availability checks, and app translation overlays
// backed by Supabase.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/zenhub-store/devportal/internal/api"
	"github.com/zenhub-store/devportal/internal/config"
	"github.com/zenhub-store/devportal/internal/database"
	"github.com/zenhub-store/devportal/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config/devportal.yaml", "Path to config file")
	envFile := flag.String("env-file", ".env", "Path to env file")
	flag.Parse()

	// A missing env file is fine; the environment may already be set.
	_ = godotenv.Load(*envFile)

	cfg := config.LoadOrDefault(*configPath)
	log := logger.New("devportal", cfg.Logging.Level)

	client, err := database.NewClient(database.Config{
		URL:        cfg.Supabase.URL,
		ServiceKey: cfg.Supabase.ServiceKey,
	})
	if err != nil {
		log.WithError(err).Error("supabase client init failed")
		os.Exit(1)
	}

	accounts := database.NewDevAccountRepo(client)
	translationRepo := database.NewTranslationRepo(client)
	directory := database.NewDirectoryAdapter(accounts)

	server := api.NewServer(cfg, directory, translationRepo, log)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.WithError(err).Error("server failed")
		os.Exit(1)
	case sig := <-sigCh:
		log.WithField("signal", sig.String()).Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("shutdown failed")
		os.Exit(1)
	}
	log.Info("devportal stopped")
}
