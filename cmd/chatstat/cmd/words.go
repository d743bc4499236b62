package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	wordsInsensitive bool
	wordsAlpha       bool
	wordsLimit       int
)

var wordsCmd = &cobra.Command{
	Use:   "words [export.jsonl...]",
	Short: "Dump every word used in the chat",
	Long: "Counts every word in the given exports, or in the local cache when none\n" +
		"are given. By default words are case-sensitive and ordered by frequency.",
	RunE: runWords,
}

func init() {
	wordsCmd.Flags().BoolVarP(&wordsInsensitive, "insensitive", "i", false, "Merge words that differ only in case")
	wordsCmd.Flags().BoolVarP(&wordsAlpha, "alpha", "a", false, "Order alphabetically instead of by frequency")
	wordsCmd.Flags().IntVarP(&wordsLimit, "limit", "n", 0, "Show at most this many words (0 = all)")
}

func runWords(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signalContext()
	defer stop()

	census, err := a.Words(ctx, args)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatCensus(census, wordsInsensitive, wordsAlpha, wordsLimit))
	return nil
}
