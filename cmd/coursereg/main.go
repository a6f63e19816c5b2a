// Package main is the entry point of the course registration service.
//
//	coursereg serve            # HTTP API
//	coursereg migrate up       # apply PostgreSQL migrations
//	coursereg seed -f data.yml # load fixtures
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alem-hub/course-registration/config"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

var (
	cfgFile string
	cfg     *config.Config
	log     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "coursereg",
	Short: "Course registration service",
	Long: `Course registration service: students register for and unregister from
courses that have not started yet. Students with two or more ongoing
courses pay 75% of the course price.

Configuration comes from an optional YAML file and COURSEREG_* environment
variables, e.g. COURSEREG_DATABASE_URL or COURSEREG_HTTP_PORT.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", version, commit)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./config.yaml or ./config/config.yaml)")
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if loaded.App.Version == "" || version != "dev" {
		loaded.App.Version = version
	}
	cfg = loaded
	log = setupLogger(cfg)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogger настраивает структурированное логирование.
func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Observability.LogLevel)}

	var handler slog.Handler
	if cfg.Observability.LogFormat == "json" || cfg.IsProduction() {
		// JSON формат для production (лучше для агрегаторов логов)
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler).With(
		"service", cfg.App.Name,
		"env", string(cfg.App.Environment),
	)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
