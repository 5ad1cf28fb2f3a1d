package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/trapezoid"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "trapezoid",
	Short: "Draw a teal trapezoid with a WebGL2-style pipeline",
	Long: `trapezoid compiles a GLSL ES 3.00 shader pair, uploads six vertices and
draws them as two triangles. It renders offscreen to PNG or serves the
WebAssembly build for a browser canvas.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger(logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupLogger installs a stderr text logger as both the slog default and
// the library logger.
func setupLogger(level string) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
	slog.SetDefault(logger)
	trapezoid.SetLogger(logger)
}
