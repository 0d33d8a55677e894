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
	"github.com/treydbuddy/backend/internal/logger"
	"github.com/treydbuddy/backend/internal/server"
	"go.uber.org/zap"
)

var port int

// @title TreydBuddy Auth API
// @version 1.0
// @description Account store and session API behind the TreydBuddy pages

// @host localhost:8080
// @BasePath /api/v1
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server for the pages and the API",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if port != 0 {
			a.cfg.Server.Port = port
		}

		logger.Logger.Info("Starting TreydBuddy",
			zap.String("backend", a.cfg.Storage.Backend),
			zap.String("keyset", a.keys.Name),
		)

		// Seed at startup; failures leave the store as it is
		if err := a.seed(cmd.Context()); err != nil {
			logger.Logger.Warn("startup seeding skipped", zap.Error(err))
		}

		handler, err := server.NewRouter(a.cfg, a.service, a.seed, a.dialect.RegisteredMessage(), logger.Logger)
		if err != nil {
			return err
		}

		return serve(a.cfg.Server.Port, handler)
	},
}

func init() {
	serveCmd.Flags().IntVar(&port, "port", 0, "port to listen on, overrides SERVER_PORT")
	rootCmd.AddCommand(serveCmd)
}

// serve runs the server until SIGINT or SIGTERM and shuts it down gracefully
func serve(port int, handler http.Handler) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}

	logger.Logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
	return nil
}
