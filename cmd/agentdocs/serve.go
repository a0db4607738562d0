package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agentdocs/agentdocs/internal/api"
	"github.com/agentdocs/agentdocs/pkg/config"
	"github.com/agentdocs/agentdocs/pkg/events"
	"github.com/agentdocs/agentdocs/pkg/lock"
	"github.com/agentdocs/agentdocs/pkg/log"
	"github.com/agentdocs/agentdocs/pkg/metrics"
	"github.com/agentdocs/agentdocs/pkg/store"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Agent Docs HTTP server",
	Long: `serve starts the HTTP API, the per-workspace SSE event bus, and a
background metrics collector, and blocks until interrupted.`,
	RunE: runServe,
}

func init() {
	defaults := config.FromEnv()

	serveCmd.Flags().String("database-path", defaults.DatabasePath, "Directory holding the bbolt database file")
	serveCmd.Flags().String("address", defaults.Address, "Interface to bind the HTTP server to")
	serveCmd.Flags().Int("port", defaults.Port, "HTTP listen port")
	serveCmd.Flags().String("static-dir", defaults.StaticDir, "Directory serving the bundled web client, if any")
	serveCmd.Flags().Int("workspace-rate-limit", defaults.WorkspaceRateLimit, "Max workspace creations per client IP per hour")
	serveCmd.Flags().Int("default-lock-ttl-seconds", int(defaults.DefaultLockTTL.Seconds()), "Default edit-lock lease, in seconds, when a request omits one")
	serveCmd.Flags().String("metrics-address", "127.0.0.1:9090", "Address for the metrics/health HTTP server")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.FromEnv()

	if v, _ := cmd.Flags().GetString("database-path"); cmd.Flags().Changed("database-path") {
		cfg.DatabasePath = v
	}
	if v, _ := cmd.Flags().GetString("address"); cmd.Flags().Changed("address") {
		cfg.Address = v
	}
	if v, _ := cmd.Flags().GetInt("port"); cmd.Flags().Changed("port") {
		cfg.Port = v
	}
	if v, _ := cmd.Flags().GetString("static-dir"); cmd.Flags().Changed("static-dir") {
		cfg.StaticDir = v
	}
	if v, _ := cmd.Flags().GetInt("workspace-rate-limit"); cmd.Flags().Changed("workspace-rate-limit") {
		cfg.WorkspaceRateLimit = v
	}
	if v, _ := cmd.Flags().GetInt("default-lock-ttl-seconds"); cmd.Flags().Changed("default-lock-ttl-seconds") {
		cfg.DefaultLockTTL = time.Duration(v) * time.Second
	}
	metricsAddr, _ := cmd.Flags().GetString("metrics-address")

	logger := log.WithComponent("agentdocs")

	st, err := store.NewBoltStore(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	bus := events.NewEventBus()
	locks := lock.NewManager(st, cfg.DefaultLockTTL)

	collector := metrics.NewCollector(st, bus)
	collector.Start()
	defer collector.Stop()

	metrics.SetVersion(Version)
	metrics.Bind(st, bus)

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		mux.Handle("/health", metrics.HealthHandler())
		mux.Handle("/ready", metrics.ReadyHandler())
		mux.Handle("/live", metrics.LivenessHandler())
		if err := http.ListenAndServe(metricsAddr, mux); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("metrics server error")
		}
	}()
	logger.Info().Str("addr", metricsAddr).Msg("metrics and health endpoints listening")

	server := api.NewServer(cfg, st, bus, locks)

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.ListenAddr()).Msg("agentdocs API listening")
		if err := server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	metrics.MarkAPIReady(true)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	logger.Info().Msg("shutdown complete")
	return nil
}
