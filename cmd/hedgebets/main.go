// Package main provides the hedgebets command line entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/hedge-bets/internal/config"
	"github.com/yourusername/hedge-bets/internal/logger"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// app carries what every subcommand needs once the root pre-run has loaded it.
type app struct {
	configFile string
	envFile    string
	cfg        *config.Config
	log        *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "hedgebets",
		Short:         "Price NFL player prop bets from recent game history",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&a.configFile, "config", "c", "config/config.yaml", "Path to configuration file")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "Optional dotenv file loaded before the configuration")

	root.AddCommand(newPredictCmd(a), newServeCmd(a), newLoadCmd(a), newActionsCmd())
	return root
}

// load reads .env, configuration, secrets and sets up logging.
func (a *app) load(cmd *cobra.Command) error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load %s: %w", a.envFile, err)
		}
	}

	cfg, err := config.LoadWithDefaults(a.configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.ReloadFromEnv(cfg); err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}
	if err := config.LoadSecretsFromAWS(context.Background(), cfg); err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := config.ValidateEnvironment(cfg); err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logger.NewLoggerForEnvironment(cfg.App.LogLevel, cfg.App.Environment)
	// stdout carries command output
	a.log.SetOutput(cmd.ErrOrStderr())
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
