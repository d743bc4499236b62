package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <export.jsonl>...",
	Short: "Append exported messages to the local cache",
	Long: "Reads JSONL exports and appends their messages to the local cache.\n" +
		"Messages at or below the cached cursor are skipped, so importing an\n" +
		"overlapping export resumes where the last import stopped.",
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signalContext()
	defer stop()

	res, err := a.Import(ctx, args)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatImport(res))
	return nil
}
