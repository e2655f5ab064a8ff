package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cloudogu/casgate"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "casgate",
	Short: "CAS service ticket validating gate",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Validate service tickets and forward requests to the target",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&configPath, "config", casgate.DefaultConfigurationPath, "Path to configuration YAML")
}

func runServe(cmd *cobra.Command, args []string) error {
	configuration, err := casgate.ReadConfiguration(configPath)
	if err != nil {
		return err
	}

	if err = casgate.PrepareLogger(configuration); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := casgate.NewServer(ctx, configuration)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
