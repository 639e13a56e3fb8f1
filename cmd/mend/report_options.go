package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mend/internal/config"
	"mend/internal/report"
	"mend/internal/version"
)

// reportOptions builds renderer settings from flags and [report].
func reportOptions(cmd *cobra.Command, cfg config.Config, format string) (report.Options, error) {
	if format == "" {
		format = cfg.Report.Format
	}
	f, err := report.ParseFormat(format)
	if err != nil {
		return report.Options{}, err
	}
	color, err := useColor(cmd, cfg)
	if err != nil {
		return report.Options{}, err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return report.Options{}, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return report.Options{
		Format: f,
		Pretty: report.PrettyOpts{
			Color:   color,
			Timings: showTimings,
		},
		JSON: report.JSONOpts{
			IncludeIterations: true,
			IncludeTimings:    showTimings,
		},
		Sarif: report.SarifRunMeta{
			ToolName:       "mend",
			ToolVersion:    version.Plain(),
			InvocationArgs: os.Args[1:],
		},
	}, nil
}
