package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the last stored report",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	rep, err := a.Show()
	if err != nil {
		return err
	}
	if rep == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "⚡ no report yet │ run `chatstat collect`")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatReport(rep))
	return nil
}
