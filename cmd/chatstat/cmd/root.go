package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/corey/chatstat/internal/app"
	"github.com/corey/chatstat/internal/config"
	"github.com/corey/chatstat/internal/logging"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "chatstat",
	Short: "chatstat: chat group engagement analytics",
	Long: "Ingests a chat group's message history and produces per-user and group-wide\n" +
		"statistics: top words, keyword categories, loudness, naughtiness, reactions\n" +
		"and daily activity.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $CHATSTAT_CONFIG or ./chatstat.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level")

	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(wordsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(wipeCmd)
}

// loadSettings loads and validates the configuration and builds the logger.
func loadSettings() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	log := logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	return cfg, log, nil
}

// openApp loads settings and wires the App. A locked cache gets an
// actionable diagnosis instead of bbolt's bare timeout.
func openApp() (*app.App, error) {
	cfg, log, err := loadSettings()
	if err != nil {
		return nil, err
	}
	a, err := app.New(app.Config{Settings: cfg, Logger: log})
	if err != nil {
		if isDBLockError(err) {
			return nil, fmt.Errorf("%s", diagnoseDBLock(app.NewPaths(cfg).DB))
		}
		return nil, err
	}
	return a, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

