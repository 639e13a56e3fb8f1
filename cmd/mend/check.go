package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mend/internal/finding"
	"mend/internal/report"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [dir]",
	Short: "Run one verifier pass and print the findings",
	Long:  `Run the configured verifier once without fixing anything. Exits 1 when a blocking or advisory finding is present`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "", "output format (pretty|short|json|sarif)")
	checkCmd.Flags().Bool("no-informational", false, "hide informational findings")
}

func runCheck(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	targets, err := resolveTargets(args)
	if err != nil {
		return err
	}
	target := targets[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	noInfo, err := cmd.Flags().GetBool("no-informational")
	if err != nil {
		return fmt.Errorf("failed to get no-informational flag: %w", err)
	}

	cfg, err := loadConfig(cmd, target.Dir)
	if err != nil {
		return err
	}
	opts, err := reportOptions(cmd, cfg, format)
	if err != nil {
		return err
	}
	verifier, err := buildVerifier(cfg)
	if err != nil {
		return err
	}
	st, err := loadTarget(target, cfg)
	if err != nil {
		return err
	}

	found, err := verifier.Verify(cmd.Context(), st)
	if err != nil {
		return fmt.Errorf("verifier failed: %w", err)
	}
	list := finding.List(found).Clone()
	list.Sort()
	list = list.Dedup()
	if noInfo {
		kept := list[:0]
		for _, f := range list {
			if f.Severity.Actionable() {
				kept = append(kept, f)
			}
		}
		list = kept
	}

	if err := report.RenderFindings(cmd.OutOrStdout(), st.Name(), list, opts); err != nil {
		return fmt.Errorf("failed to render findings: %w", err)
	}
	exitStatus = report.FindingsExitCode(list)
	return nil
}
