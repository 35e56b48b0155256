package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/smartmri/planner/recommend"
)

func newPlanCommand(opts *rootOptions) *cobra.Command {
	var patient string
	var patientFile string

	cmd := &cobra.Command{
		Use:   "plan [sources...]",
		Short: "Recommend an MRI protocol for one patient",
		Long: "Processes the given document sources (file paths, URLs, or inline text),\n" +
			"extracts findings, profiles the patient, and prints the recommendation as JSON.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}

			text := patient
			if patientFile != "" {
				data, err := os.ReadFile(patientFile)
				if err != nil {
					return fmt.Errorf("read patient file: %w", err)
				}
				text = string(data)
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("patient information required (--patient or --patient-file)")
			}

			d, err := buildDeps(cfg)
			if err != nil {
				return err
			}
			defer d.close()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			result, err := d.planner.Plan(ctx, recommend.Request{
				PatientText: text,
				Sources:     args,
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVarP(&patient, "patient", "p", "", "patient information as inline text")
	cmd.Flags().StringVarP(&patientFile, "patient-file", "f", "", "file with patient information")
	return cmd
}
