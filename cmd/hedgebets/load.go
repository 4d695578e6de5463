package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/hedge-bets/internal/database"
	"github.com/yourusername/hedge-bets/internal/history"
)

var errDatabaseDisabled = errors.New("load needs database.enabled=true")

func newLoadCmd(a *app) *cobra.Command {
	var (
		file string
		opts history.LoadOptions
	)

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load players and weekly stats from a history file into PostgreSQL",
		Example: `  hedgebets load --file data/history.json --years 2024,2025
  hedgebets load --clear`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log := a.cfg, a.log
			if !cfg.Database.Enabled {
				return errDatabaseDisabled
			}
			if file == "" {
				file = cfg.History.FilePath
			}

			ds, err := history.ReadDataset(file)
			if err != nil {
				return err
			}

			db, err := database.Initialize(cmd.Context(), cfg, log)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer db.Close()

			result, err := history.NewLoader(db, log).Load(cmd.Context(), ds, opts)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", file, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.Summary())
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "History dataset to load (defaults to history.file_path)")
	cmd.Flags().IntSliceVar(&opts.Years, "years", nil, "Only load games from these seasons")
	cmd.Flags().BoolVar(&opts.SkipPlayers, "skip-players", false, "Leave the players table untouched")
	cmd.Flags().BoolVar(&opts.Clear, "clear", false, "Delete existing players and game stats first")

	return cmd
}
