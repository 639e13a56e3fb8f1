package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"mend/internal/catalog"
	"mend/internal/check"
	"mend/internal/config"
	"mend/internal/fixers"
	"mend/internal/project"
	"mend/internal/verify"
)

// journalDir holds mend's own bookkeeping inside a project; LoadDir skips it.
const journalDir = ".mend"

func journalPath(dir string) string {
	return filepath.Join(dir, journalDir, "journal")
}

// loadConfig resolves mend.toml for dir, honouring --config.
func loadConfig(cmd *cobra.Command, dir string) (config.Config, error) {
	explicit, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.Resolve(dir, explicit)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// projectTarget is one directory given on the command line.
type projectTarget struct {
	Dir  string
	Name string
}

// resolveTargets turns directory arguments into targets with unique names:
// the base name when unambiguous, the cleaned path otherwise.
func resolveTargets(dirs []string) ([]projectTarget, error) {
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	targets := make([]projectTarget, 0, len(dirs))
	count := make(map[string]int)
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
		}
		t := projectTarget{Dir: filepath.Clean(dir), Name: filepath.Base(abs)}
		count[t.Name]++
		targets = append(targets, t)
	}
	seen := make(map[string]bool)
	for i := range targets {
		if count[targets[i].Name] > 1 {
			targets[i].Name = filepath.ToSlash(targets[i].Dir)
		}
		if seen[targets[i].Name] {
			return nil, fmt.Errorf("directory %s given twice", targets[i].Dir)
		}
		seen[targets[i].Name] = true
	}
	return targets, nil
}

func loadTarget(t projectTarget, cfg config.Config) (*project.State, error) {
	st, err := project.LoadDir(t.Dir, t.Name, cfg.LoadOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return st, nil
}

// buildCatalog returns the built-in catalog minus [fixers].disable.
func buildCatalog(cfg config.Config) (*catalog.Catalog, error) {
	cat := catalog.New()
	if err := fixers.Register(cat, cfg.FixerOptions()); err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}
	for _, sig := range cfg.Fixers.Disable {
		if _, ok := cat.Lookup(sig); !ok {
			return nil, fmt.Errorf("invalid fixers.disable: unknown signature %q", sig)
		}
	}
	return cat.Without(cfg.Fixers.Disable...), nil
}

// buildVerifier returns the external command from [verify] when configured,
// the built-in checker otherwise.
func buildVerifier(cfg config.Config) (verify.Verifier, error) {
	if len(cfg.Verify.Command) == 0 {
		return check.New(cfg.CheckOptions()), nil
	}
	format, err := verify.ParseFormat(cfg.Verify.Format)
	if err != nil {
		return nil, err
	}
	return verify.NewCommand(cfg.Verify.Command, format), nil
}
