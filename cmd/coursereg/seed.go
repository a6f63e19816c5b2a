package main

import (
	"errors"

	"github.com/spf13/cobra"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load students, courses and registrations from a YAML file",
	Long: `Load fixtures into PostgreSQL in a single transaction. Students that
already exist are reused by email; courses are always created.

For the in-memory store use "serve --seed" instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if seedFile == "" {
			return errors.New("--file is required")
		}
		if cfg.Database.UsesMemory() {
			return errNoDatabase
		}

		ctx := cmd.Context()
		store, err := openStorage(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer store.close()

		return seed(ctx, seedFile, store)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML fixture file")
}
