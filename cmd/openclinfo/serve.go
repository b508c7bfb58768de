package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/openclinfo/internal/registry"
	"github.com/cwbudde/openclinfo/internal/server"
	"github.com/cwbudde/openclinfo/internal/store"
)

var (
	serveAddr    string
	serveDataDir string
	serveStrict  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the registry and snapshots over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", "./data", "Base directory for snapshot storage")
	serveCmd.Flags().BoolVar(&serveStrict, "strict", false, "Registry calls fail on partial enumerations")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	enumerator, err := newEnumerator()
	if err != nil {
		return err
	}
	reg := registry.New()
	if err := registry.Init(reg, enumerator, registry.Options{Strict: serveStrict}); err != nil {
		return err
	}
	snapshots, err := store.NewFSStore(serveDataDir)
	if err != nil {
		return fmt.Errorf("failed to create snapshot store: %w", err)
	}

	srv := server.NewServer(serveAddr, server.Deps{
		Registry:   reg,
		Enumerator: enumerator,
		Snapshots:  snapshots,
		HistoryDir: serveDataDir,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown failed", "error", err)
		return err
	}
	return nil
}
