package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/romangod6/sitemap-explorer/internal/api"
	"github.com/romangod6/sitemap-explorer/internal/storage"
	"github.com/romangod6/sitemap-explorer/internal/utils"
	"github.com/spf13/cobra"
)

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	cmd.Flags().IntP("port", "p", 0, "Port to listen on (overrides server.port)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Server.Port = port
	}

	logger, err := utils.NewLogger("sitemap-explorer", cfg.Log.Dir, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logger.Close()

	store := storage.NewMemoryStore()
	defer store.Close()

	server := api.NewServer(cfg.Server, api.NewHandlerFromConfig(cfg, store, logger))

	// Drop idle sessions periodically
	ticker := time.NewTicker(cfg.Server.PruneInterval)
	defer ticker.Stop()
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	go func() {
		for {
			select {
			case <-ticker.C:
				pruneSessions(ctx, store, cfg.Server.SessionTTL, logger)
			case <-ctx.Done():
				return
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.LogInfo("Starting API server on port %d", cfg.Server.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	return waitForShutdown(cancel, server, errCh, logger)
}

func pruneSessions(ctx context.Context, store storage.Store, ttl time.Duration, logger *utils.Logger) {
	removed, err := store.Prune(ctx, time.Now().Add(-ttl))
	if err != nil {
		logger.LogError("Failed to prune sessions: %v", err)
		return
	}
	if removed > 0 {
		logger.LogInfo("Pruned %d idle sessions", removed)
	}
}

func waitForShutdown(cancel context.CancelFunc, server *api.Server, errCh <-chan error, logger *utils.Logger) error {
	// Handle system signals for shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-sigChan:
	case err := <-errCh:
		cancel()
		logger.LogError("API server failed: %v", err)
		return err
	}

	logger.LogInfo("Shutting down...")
	cancel()

	// Graceful server shutdown
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.LogError("Error shutting down server: %v", err)
		return err
	}
	logger.LogInfo("Server shut down gracefully")
	return nil
}
