package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mend/internal/project"
)

var rollbackCmd = &cobra.Command{
	Use:   "rollback [flags] [dir]",
	Short: "Revert journaled repairs",
	Long: `Revert mutations recorded in .mend/journal, newest first, and write the
directory back. Select mutations by fixer, by session, or all of them`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRollback,
}

func init() {
	rollbackCmd.Flags().String("fixer", "", "revert mutations made by this fixer")
	rollbackCmd.Flags().String("session", "", "revert mutations made by this session id")
	rollbackCmd.Flags().Bool("all", false, "revert every journaled mutation")
	rollbackCmd.Flags().Bool("force", false, "revert even if files changed since the journal was written")
	rollbackCmd.Flags().Bool("dry-run", false, "list what would be reverted without writing")
}

func runRollback(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	targets, err := resolveTargets(args)
	if err != nil {
		return err
	}
	target := targets[0]

	fixer, err := cmd.Flags().GetString("fixer")
	if err != nil {
		return fmt.Errorf("failed to get fixer flag: %w", err)
	}
	session, err := cmd.Flags().GetString("session")
	if err != nil {
		return fmt.Errorf("failed to get session flag: %w", err)
	}
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return fmt.Errorf("failed to get all flag: %w", err)
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return fmt.Errorf("failed to get force flag: %w", err)
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}

	pred, err := rollbackSelector(fixer, session, all)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, target.Dir)
	if err != nil {
		return err
	}
	st, err := loadTarget(target, cfg)
	if err != nil {
		return err
	}
	path := journalPath(target.Dir)
	if err := st.LoadJournal(path); err != nil {
		return fmt.Errorf("failed to load journal: %w", err)
	}
	if st.Journal().Len() == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "nothing to roll back: journal is empty")
		return nil
	}
	if err := st.CheckJournal(); err != nil && !force {
		return fmt.Errorf("%w (use --force to revert anyway)", err)
	}

	reverted, err := st.Rollback(pred)
	if err != nil {
		if errors.Is(err, project.ErrRollbackConflict) {
			return fmt.Errorf("%w; revert the newer mutation too or use --all", err)
		}
		return err
	}
	if len(reverted) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "no journaled mutation matches")
		return nil
	}

	out := cmd.OutOrStdout()
	verb := "reverted"
	if dryRun {
		verb = "would revert"
	}
	for _, m := range reverted {
		fmt.Fprintf(out, "%s #%d %s %s (%s, %s)\n", verb, m.ID, m.Kind, m.Unit, m.Attribution.Fixer, m.Attribution.Signature)
	}
	if dryRun {
		return nil
	}
	if _, err := st.WriteDir(target.Dir); err != nil {
		return fmt.Errorf("failed to write %s: %w", target.Dir, err)
	}
	if err := st.SaveJournal(path); err != nil {
		return fmt.Errorf("failed to save journal: %w", err)
	}
	return nil
}

// rollbackSelector requires exactly one of --fixer, --session and --all.
func rollbackSelector(fixer, session string, all bool) (func(project.Mutation) bool, error) {
	n := 0
	for _, set := range []bool{fixer != "", session != "", all} {
		if set {
			n++
		}
	}
	if n != 1 {
		return nil, errors.New("exactly one of --fixer, --session or --all is required")
	}
	switch {
	case fixer != "":
		return project.ByFixer(fixer), nil
	case session != "":
		return project.BySession(session), nil
	default:
		return project.All, nil
	}
}
