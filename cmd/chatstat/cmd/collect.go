package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/chatstat/internal/adapters/fsnotify"
	"github.com/corey/chatstat/internal/app"
	"github.com/corey/chatstat/internal/config"
)

var (
	collectWatch       bool
	collectMetrics     bool
	collectMetricsFile string
	collectCensus      bool
)

var collectCmd = &cobra.Command{
	Use:   "collect [export.jsonl...]",
	Short: "Analyse the chat and export statistics",
	Long: "Runs the full analysis over the given JSONL exports, or over the local\n" +
		"message cache when none are given. Writes global_stats.json,\n" +
		"user_stats.json and user_stats.csv to the output directory.\n\n" +
		"With --watch, re-runs whenever an export, the config file or the\n" +
		"lookup file changes.",
	RunE: runCollect,
}

func init() {
	collectCmd.Flags().BoolVarP(&collectWatch, "watch", "w", false, "Re-run on input or config changes")
	collectCmd.Flags().BoolVar(&collectMetrics, "metrics", false, "Write Prometheus textfile metrics to the data directory")
	collectCmd.Flags().StringVar(&collectMetricsFile, "metrics-file", "", "Write Prometheus textfile metrics here (implies --metrics)")
	collectCmd.Flags().BoolVar(&collectCensus, "census", false, "Include the word census in the stored report")
}

func runCollect(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signalContext()
	defer stop()

	opts := app.CollectOptions{
		Inputs:      args,
		MetricsFile: collectMetricsFile,
		Census:      collectCensus,
	}
	if collectMetrics && opts.MetricsFile == "" {
		opts.MetricsFile = a.Paths.Metrics
	}
	out := cmd.OutOrStdout()

	if !collectWatch {
		res, err := a.Collect(ctx, opts)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, formatReport(res.Report))
		fmt.Fprintln(out, formatFiles(res.Files))
		return nil
	}

	w, err := fsnotify.NewWatcher(a.Logger(), fsnotify.DefaultDebounce)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s⚡ watching%s │ ctrl-c to stop\n", colorBold, colorReset)
	return a.Watch(ctx, w, app.WatchOptions{
		Collect:    opts,
		ConfigPath: config.ResolvePath(configPath),
		OnRun: func(res *app.CollectResult, err error) {
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%serror:%s %v\n", colorYellow, colorReset, err)
				return
			}
			fmt.Fprintln(out, formatReport(res.Report))
		},
	})
}
