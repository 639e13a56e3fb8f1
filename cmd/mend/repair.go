package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mend/internal/config"
	"mend/internal/project"
	"mend/internal/repair"
	"mend/internal/report"
	"mend/internal/trace"
)

var repairCmd = &cobra.Command{
	Use:   "repair [flags] [dir...] [-- verifier-args...]",
	Short: "Verify and repair projects until they converge",
	Long: `Run a repair session per directory: verify, apply catalogued fixes, re-verify.
Several directories are repaired in parallel. Repaired files are written back
and every change is journaled under .mend/ for rollback`,
	RunE: runRepair,
}

// init registers CLI flags for the repair command used by runRepair.
func init() {
	repairCmd.Flags().Int("max-iterations", 0, "iteration ceiling per session (0 = from config)")
	repairCmd.Flags().String("format", "", "report format (pretty|short|json|sarif)")
	repairCmd.Flags().Bool("dry-run", false, "repair in memory only; write neither files nor journal")
	repairCmd.Flags().Int("jobs", 0, "max parallel sessions (0 = from config, then CPU count)")
	repairCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	repairCmd.Flags().String("verifier", "", "external checker program; arguments after -- are passed to it")
	repairCmd.Flags().String("verifier-format", "", "external checker output (json|yaml)")
	repairCmd.Flags().StringSlice("disable", nil, "signatures whose fixers are not used")
	repairCmd.Flags().Bool("iterations", false, "list every pass in the pretty report")
}

// repairFlags are the repair-specific overrides of mend.toml.
type repairFlags struct {
	format     string
	dryRun     bool
	ui         uiMode
	iterations bool
}

func applyRepairFlags(cmd *cobra.Command, cfg *config.Config, verifierArgs []string) (repairFlags, error) {
	var rf repairFlags
	flags := cmd.Flags()

	maxIterations, err := flags.GetInt("max-iterations")
	if err != nil {
		return rf, fmt.Errorf("failed to get max-iterations flag: %w", err)
	}
	if maxIterations != 0 {
		cfg.Repair.MaxIterations = maxIterations
	}

	jobs, err := flags.GetInt("jobs")
	if err != nil {
		return rf, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if jobs != 0 {
		cfg.Repair.Jobs = jobs
	}

	verifier, err := flags.GetString("verifier")
	if err != nil {
		return rf, fmt.Errorf("failed to get verifier flag: %w", err)
	}
	if verifier != "" {
		cfg.Verify.Command = append([]string{verifier}, verifierArgs...)
	} else if len(verifierArgs) > 0 {
		return rf, errors.New("arguments after -- require --verifier")
	}

	verifierFormat, err := flags.GetString("verifier-format")
	if err != nil {
		return rf, fmt.Errorf("failed to get verifier-format flag: %w", err)
	}
	if verifierFormat != "" {
		cfg.Verify.Format = verifierFormat
	}

	disable, err := flags.GetStringSlice("disable")
	if err != nil {
		return rf, fmt.Errorf("failed to get disable flag: %w", err)
	}
	cfg.Fixers.Disable = append(cfg.Fixers.Disable, disable...)

	if rf.format, err = flags.GetString("format"); err != nil {
		return rf, fmt.Errorf("failed to get format flag: %w", err)
	}
	if rf.dryRun, err = flags.GetBool("dry-run"); err != nil {
		return rf, fmt.Errorf("failed to get dry-run flag: %w", err)
	}
	if rf.iterations, err = flags.GetBool("iterations"); err != nil {
		return rf, fmt.Errorf("failed to get iterations flag: %w", err)
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return rf, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if rf.ui, err = readUIMode(uiValue); err != nil {
		return rf, err
	}
	return rf, cfg.Validate()
}

// runRepair executes the "repair" command: load every directory, run the
// sessions, write back and journal the changes, then render the report. The
// process exits 1 unless every session converged.
func runRepair(cmd *cobra.Command, args []string) error {
	// Ensure trace is dumped on panic
	defer dumpTraceOnPanic()

	dirs, verifierArgs := args, []string(nil)
	if dash := cmd.ArgsLenAtDash(); dash >= 0 {
		dirs, verifierArgs = args[:dash], args[dash:]
	}
	targets, err := resolveTargets(dirs)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, targets[0].Dir)
	if err != nil {
		return err
	}
	rf, err := applyRepairFlags(cmd, &cfg, verifierArgs)
	if err != nil {
		return err
	}
	if rf.dryRun {
		cfg.Repair.Write = false
		cfg.Repair.Journal = false
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	cat, err := buildCatalog(cfg)
	if err != nil {
		return err
	}
	verifier, err := buildVerifier(cfg)
	if err != nil {
		return err
	}
	opts, err := reportOptions(cmd, cfg, rf.format)
	if err != nil {
		return err
	}
	opts.Pretty.Iterations = rf.iterations

	states := make([]*project.State, len(targets))
	for i, t := range targets {
		st, loadErr := loadTarget(t, cfg)
		if loadErr != nil {
			return loadErr
		}
		if cfg.Repair.Journal {
			// новые мутации продолжают нумерацию сохранённого журнала
			if loadErr = st.LoadJournal(journalPath(t.Dir)); loadErr != nil {
				return fmt.Errorf("failed to load journal: %w", loadErr)
			}
		}
		states[i] = st
	}

	ctx := cmd.Context()
	tr := trace.FromContext(ctx)
	engineOpts := repair.Options{MaxIterations: cfg.Repair.MaxIterations}

	var results []repair.Result
	var runErr error
	if !quiet && opts.Format == report.FormatPretty && shouldUseTUI(rf.ui) {
		names := make([]string, len(targets))
		for i, t := range targets {
			names[i] = t.Name
		}
		results, runErr = runRepairWithUI(ctx, "mend repair", names, cat, verifier, engineOpts, states, cfg.EffectiveJobs())
	} else {
		engine := repair.New(cat, verifier, engineOpts)
		results, runErr = repair.RunAll(ctx, engine, states, cfg.EffectiveJobs())
	}
	if runErr != nil {
		trace.Error(tr, trace.ScopeDriver, "repair", runErr.Error(), 0)
		fmt.Fprintf(os.Stderr, "mend: %v\n", runErr)
	}

	sessions := make([]*repair.Session, len(results))
	for i, res := range results {
		sessions[i] = res.Session
		if res.Session == nil {
			continue
		}
		if err := persist(targets[i], states[i], cfg, quiet); err != nil {
			return err
		}
	}

	if err := report.Render(cmd.OutOrStdout(), sessions, opts); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	exitStatus = report.ExitCode(sessions)
	return nil
}

// persist writes changed units and the journal for one project.
func persist(t projectTarget, st *project.State, cfg config.Config, quiet bool) error {
	if cfg.Repair.Write {
		changes, err := st.WriteDir(t.Dir)
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", t.Dir, err)
		}
		if !quiet && len(changes) > 0 {
			paths := make([]string, 0, len(changes))
			for _, ch := range changes {
				paths = append(paths, string(ch.Op)+" "+ch.Path)
			}
			fmt.Fprintf(os.Stderr, "%s: %s\n", t.Name, strings.Join(paths, ", "))
		}
	}
	// журнал без записанных файлов описывал бы не то, что на диске
	if cfg.Repair.Journal && cfg.Repair.Write && st.Journal().Len() > 0 {
		if err := st.SaveJournal(journalPath(t.Dir)); err != nil {
			return fmt.Errorf("failed to save journal: %w", err)
		}
	}
	return nil
}
