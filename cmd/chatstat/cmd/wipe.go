package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/chatstat/internal/app"
)

var wipeForce bool

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Clear cached messages and reports for the chat",
	Long:  "Deletes the chat's cached messages, sender names and stored reports. Exported files are left alone.",
	Args:  cobra.NoArgs,
	RunE:  runWipe,
}

func init() {
	wipeCmd.Flags().BoolVar(&wipeForce, "force", false, "Skip confirmation prompt")
}

func runWipe(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadSettings()
	if err != nil {
		return err
	}

	if !wipeForce {
		fmt.Fprintf(cmd.OutOrStdout(), "⚠ This will delete all cached data for chat %q. Continue? [y/N] ", cfg.Chat.ID)
		reader := bufio.NewReader(cmd.InOrStdin())
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
			return nil
		}
	}

	if _, err := os.Stat(app.NewPaths(cfg).DB); os.IsNotExist(err) {
		fmt.Fprintln(cmd.OutOrStdout(), "⚡ no data to wipe")
		return nil
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Wipe(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "⚡ chat data wiped")
	return nil
}
