package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/maskd-io/maskd/internal/config"
	"github.com/maskd-io/maskd/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the masking HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var (
	servePort        int
	serveHealthCheck bool
)

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides configuration)")
	serveCmd.Flags().BoolVar(&serveHealthCheck, "health-check", false, "Perform a health check against a running server and exit")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}

	if serveHealthCheck {
		return performHealthCheck(cfg.Server.Port)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	log.Info("Starting maskd",
		zap.String("version", version),
		zap.String("commit", commit),
		zap.String("build_date", date),
		zap.Int("port", cfg.Server.Port),
	)

	srv, err := server.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// Hot-reload masking options on config file change.
	if err := config.Watch(cfg, func(updated *config.Config) {
		if err := srv.Reload(updated.Masking); err != nil {
			log.Error("Failed to apply updated configuration", zap.Error(err))
			return
		}
		log.Info("Configuration reloaded",
			zap.String("strategy", string(updated.Masking.Strategy)),
			zap.Float64("confidence_threshold", updated.Masking.ConfidenceThreshold),
		)
	}); err != nil {
		log.Warn("Configuration watching disabled", zap.Error(err))
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		serverErrors <- srv.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Give outstanding requests 30 seconds to complete.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Stop(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server gracefully: %w", err)
		}
		log.Info("Server shutdown complete")
	}
	return nil
}

func performHealthCheck(port int) error {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://localhost:%d/health", port))
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status: %d", resp.StatusCode)
	}
	fmt.Println("Health check passed")
	return nil
}
