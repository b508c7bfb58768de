package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/openclinfo/internal/clinfo"
)

var (
	logLevel    string
	fixturePath string
	logger      *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "openclinfo",
	Short: "Enumerate OpenCL platforms and devices",
	Long: `openclinfo queries the installed OpenCL platforms and devices and reports
their capabilities as a structured document. The document is published through
a plugin registry under /devices/opencl/info and can be stored as snapshots.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var level slog.Level
		switch logLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		// Logs go to stderr so documents on stdout stay parseable.
		opts := &slog.HandlerOptions{Level: level}
		handler := slog.NewJSONHandler(os.Stderr, opts)
		logger = slog.New(handler)
		slog.SetDefault(logger)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&fixturePath, "fixture", "", "Replay a saved document (json, jsonc, yaml, cbor) instead of querying OpenCL")
}

// newEnumerator builds an enumerator over the native layer or the --fixture replay.
func newEnumerator() (*clinfo.Enumerator, error) {
	var layer clinfo.Layer = clinfo.NativeLayer()
	if fixturePath != "" {
		mock, err := clinfo.LoadFixture(fixturePath)
		if err != nil {
			return nil, err
		}
		slog.Debug("Using fixture platform layer", "path", fixturePath)
		layer = mock
	}
	return clinfo.New(layer, clinfo.WithLogger(slog.Default())), nil
}
