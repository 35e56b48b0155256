// Command mriplan recommends MRI protocols from patient information and
// research literature.
//
//	mriplan plan --patient note.txt paper.pdf https://example.org/study
//	mriplan serve --config mriplan.yaml
//	mriplan mcp
//	mriplan runs
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

type rootOptions struct {
	configPath string
	logLevel   string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:     "mriplan",
		Short:   "MRI protocol planning from patient data and research literature",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initLogging(opts.logLevel)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file path (YAML)")
	pf.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newPlanCommand(opts),
		newServeCommand(opts),
		newMCPCommand(opts),
		newRunsCommand(opts),
	)
	return cmd
}

func initLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
}
