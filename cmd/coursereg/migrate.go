package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/alem-hub/course-registration/internal/infrastructure/persistence/postgres"
)

var errNoDatabase = errors.New("database.url is not set; this command needs PostgreSQL")

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage PostgreSQL schema migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withMigrator(cmd.Context(), func(ctx context.Context, m *postgres.Migrator) error {
			applied, err := m.Migrate(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", applied)
			return nil
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the last applied migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withMigrator(cmd.Context(), func(ctx context.Context, m *postgres.Migrator) error {
			version, err := m.Rollback(ctx)
			if err != nil {
				return err
			}
			if version == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to roll back")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rolled back migration %d\n", version)
			return nil
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withMigrator(cmd.Context(), func(ctx context.Context, m *postgres.Migrator) error {
			status, err := m.Status(ctx)
			if err != nil {
				return err
			}
			return printMigrationStatus(cmd.OutOrStdout(), status)
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
}

func withMigrator(ctx context.Context, fn func(context.Context, *postgres.Migrator) error) error {
	if cfg.Database.UsesMemory() {
		return errNoDatabase
	}

	conn, err := connectPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(ctx, postgres.NewMigrator(conn))
}

func printMigrationStatus(out io.Writer, migrations []postgres.Migration) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tNAME\tSTATUS\tAPPLIED AT")
	for _, m := range migrations {
		state, at := "pending", "-"
		if m.IsApplied {
			state = "applied"
			at = m.AppliedAt.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", m.Version, m.Name, state, at)
	}
	return w.Flush()
}
