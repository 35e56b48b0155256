package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smartmri/planner/runlog"
)

func newRunsCommand(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent planning runs from the run log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}

			store, err := runlog.Open(cfg.RunLogPath)
			if err != nil {
				return fmt.Errorf("open run log: %w", err)
			}
			defer store.Close()

			entries, err := store.Recent(limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-28s  %-20s  %8s  %7s  %6s  %8s  %s\n",
				"RUN", "STARTED", "DURATION", "SOURCES", "EGFR", "FALLBACK", "ERROR")
			for _, e := range entries {
				egfr := "-"
				if e.EGFR != nil {
					egfr = fmt.Sprintf("%.0f", *e.EGFR)
				}
				errMsg := e.Error
				if len(errMsg) > 40 {
					errMsg = errMsg[:40] + "..."
				}
				fmt.Fprintf(out, "%-28s  %-20s  %7dms  %3d/%-3d  %6s  %8t  %s\n",
					e.RunID,
					time.UnixMilli(e.StartedAt).Format("2006-01-02 15:04:05"),
					e.DurationMs,
					e.SourcesOK, e.SourcesTotal,
					egfr,
					e.SynthesisFallback,
					errMsg,
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show")
	return cmd
}
