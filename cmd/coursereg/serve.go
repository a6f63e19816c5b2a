package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alem-hub/course-registration/internal/infrastructure/fixtures"
	"github.com/alem-hub/course-registration/internal/infrastructure/persistence/postgres"
	"github.com/alem-hub/course-registration/pkg/timeutil"
)

var serveSeed string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API until SIGINT or SIGTERM.

Without database.url the service keeps data in memory; --seed loads a
fixture file at startup, which is the usual way to try it out:

  coursereg serve --seed testdata/fixtures.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveSeed, "seed", "", "YAML fixture file to load before serving")
}

func runServe(ctx context.Context) error {
	log.Info("starting course registration service",
		"version", cfg.App.Version,
		"env", cfg.App.Environment,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 1. ИНФРАСТРУКТУРА (хранилище, кеш, метрики, трейсинг)
	// ─────────────────────────────────────────────────────────────────────────
	app, err := newApplication(ctx, cfg)
	if err != nil {
		return err
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. МИГРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	if app.store.pg != nil && cfg.Database.AutoMigrate {
		log.Info("running database migrations...")
		applied, err := postgres.NewMigrator(app.store.pg).Migrate(ctx)
		if err != nil {
			app.close(context.Background())
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("migrations complete", "applied", applied)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ФИКСТУРЫ
	// ─────────────────────────────────────────────────────────────────────────
	if serveSeed != "" {
		if err := seed(ctx, serveSeed, app.store); err != nil {
			app.close(context.Background())
			return err
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. HTTP СЕРВЕР
	// ─────────────────────────────────────────────────────────────────────────
	server := app.server()
	serverErr := server.StartAsync()
	log.Info("http server started", "addr", server.Address())

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ОЖИДАНИЕ СИГНАЛА ЗАВЕРШЕНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	var runErr error
	select {
	case <-ctx.Done():
		log.Info("received shutdown signal")
	case err := <-serverErr:
		if err != nil {
			runErr = fmt.Errorf("http server: %w", err)
			log.Error("http server failed", "error", err)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown error", "error", err)
		runErr = errors.Join(runErr, err)
	}
	app.close(shutdownCtx)

	if runErr != nil {
		log.Warn("shutdown completed with errors")
		return runErr
	}
	log.Info("shutdown completed successfully")
	return nil
}

// seed loads the fixture file at path into store.
func seed(ctx context.Context, path string, store *storage) error {
	f, err := fixtures.ParseFile(path)
	if err != nil {
		return err
	}

	sum, err := f.Apply(ctx, store.factory, timeutil.SystemClock{})
	if err != nil {
		return err
	}

	log.Info("fixtures loaded",
		"file", path,
		"students", sum.Students,
		"courses", sum.Courses,
		"registrations", sum.Registrations,
	)
	return nil
}
