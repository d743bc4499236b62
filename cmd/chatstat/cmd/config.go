package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/corey/chatstat/internal/app"
	"github.com/corey/chatstat/internal/config"
	"github.com/corey/chatstat/internal/domain/category"
)

var (
	configYAML      bool
	configInitForce bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows the resolved config file, data paths and chat id. With --yaml, prints the effective configuration.",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter chatstat.yaml and lookup file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configCmd.Flags().BoolVar(&configYAML, "yaml", false, "Print the effective configuration as YAML")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite existing files")
	configCmd.AddCommand(configInitCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadSettings()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if configYAML {
		data, err := cfg.YAML()
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}

	paths := app.NewPaths(cfg)
	file := config.ResolvePath(configPath)
	if file == "" {
		file = "(defaults)"
	}

	fmt.Fprintf(out, "%s⚡ chatstat config%s\n", colorBold, colorReset)
	fmt.Fprintf(out, "  Config:     %s\n", file)
	fmt.Fprintf(out, "  Chat:       %s\n", cfg.Chat.ID)
	fmt.Fprintf(out, "  Data:       %s\n", paths.Root)
	fmt.Fprintf(out, "  DB:         %s\n", paths.DB)
	fmt.Fprintf(out, "  Lookup:     %s %s\n", paths.Lookup, presence(paths.Lookup))
	fmt.Fprintf(out, "  Output:     %s\n", paths.OutputDir)
	if cfg.Transcript.Enabled {
		fmt.Fprintf(out, "  Transcript: %s\n", paths.Transcript)
	}
	fmt.Fprintf(out, "  Matcher:    %s\n", cfg.Analysis.Matcher)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	data, err := config.DefaultYAML()
	if err != nil {
		return fmt.Errorf("render defaults: %w", err)
	}

	cfgFile := configPath
	if cfgFile == "" {
		cfgFile = config.DefaultFile
	}
	if err := writeStarter(cfgFile, data); err != nil {
		return err
	}

	paths := app.NewPaths(config.Default())
	if err := os.MkdirAll(filepath.Dir(paths.Lookup), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := writeStarter(paths.Lookup, category.ExampleLookup); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "⚡ wrote %s and %s\n", cfgFile, paths.Lookup)
	return nil
}

// writeStarter writes data to path, refusing to clobber without --force.
func writeStarter(path string, data []byte) error {
	if _, err := os.Stat(path); err == nil && !configInitForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	return os.WriteFile(path, data, 0o644)
}

func presence(path string) string {
	if _, err := os.Stat(path); err != nil {
		return fmt.Sprintf("%s(built-in example)%s", colorGray, colorReset)
	}
	return fmt.Sprintf("%s✓%s", colorGreen, colorReset)
}
