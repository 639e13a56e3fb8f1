package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"mend/internal/check"
	"mend/internal/fixers"
	"mend/internal/project"
	"mend/internal/repair"
	"mend/internal/report"
	"mend/internal/verify"
)

// FileName is the config file looked up from the project directory.
const FileName = "mend.toml"

// DefaultMaxUnitBytes is the large-artifact threshold.
const DefaultMaxUnitBytes = 1 << 20

// RepairConfig holds loop settings
type RepairConfig struct {
	MaxIterations int  `toml:"max_iterations"`
	Jobs          int  `toml:"jobs"`
	Write         bool `toml:"write"`
	Journal       bool `toml:"journal"`
}

// VerifyConfig selects the verifier
type VerifyConfig struct {
	Command []string `toml:"command"`
	Format  string   `toml:"format"`
}

// CheckConfig configures the built-in checks
type CheckConfig struct {
	MaxUnitBytes int      `toml:"max_unit_bytes"`
	Manifest     string   `toml:"manifest"`
	Exports      string   `toml:"exports"`
	License      string   `toml:"license"`
	Stdlib       []string `toml:"stdlib"`
}

// FixersConfig filters the built-in catalog
type FixersConfig struct {
	Disable []string `toml:"disable"`
}

// ReportConfig holds output settings
type ReportConfig struct {
	Format string `toml:"format"`
	Color  string `toml:"color"`
}

// Config holds the mend configuration
type Config struct {
	Repair RepairConfig `toml:"repair"`
	Verify VerifyConfig `toml:"verify"`
	Check  CheckConfig  `toml:"check"`
	Fixers FixersConfig `toml:"fixers"`
	Report ReportConfig `toml:"report"`

	// Path is the file the config was loaded from, empty for defaults.
	Path string `toml:"-"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Repair: RepairConfig{
			MaxIterations: repair.DefaultMaxIterations,
			Write:         true,
			Journal:       true,
		},
		Verify: VerifyConfig{Format: string(verify.FormatJSON)},
		Check: CheckConfig{
			MaxUnitBytes: DefaultMaxUnitBytes,
			Manifest:     "package.toml",
			Exports:      "EXPORTS",
			License:      "LICENSE",
			Stdlib:       slices.Clone(check.DefaultStdlib),
		},
		Report: ReportConfig{Format: "pretty", Color: "auto"},
	}
}

// Load reads the config file at path over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Default(), fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Default(), fmt.Errorf("%s: unknown key %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("verify", "format") && len(cfg.Verify.Command) == 0 {
		return Default(), fmt.Errorf("%s: [verify].format is set but [verify].command is empty", path)
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Find walks up from dir looking for mend.toml. It returns Default() when
// none exists.
func Find(dir string) (Config, error) {
	path, ok, err := project.FindFile(dir, FileName)
	if err != nil {
		return Default(), err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Resolve loads explicit when set, otherwise looks for mend.toml from dir.
// An explicit path that does not exist is an error.
func Resolve(dir, explicit string) (Config, error) {
	if explicit == "" {
		return Find(dir)
	}
	if _, err := os.Stat(explicit); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), fmt.Errorf("config file not found: %s", explicit)
		}
		return Default(), fmt.Errorf("failed to stat config: %w", err)
	}
	return Load(explicit)
}

// Validate checks value ranges; errors name the offending key.
func (c Config) Validate() error {
	if c.Repair.MaxIterations < 1 {
		return fmt.Errorf("invalid repair.max_iterations %d: must be at least 1", c.Repair.MaxIterations)
	}
	if c.Repair.Jobs < 0 {
		return fmt.Errorf("invalid repair.jobs %d: must not be negative", c.Repair.Jobs)
	}
	if _, err := verify.ParseFormat(c.Verify.Format); err != nil {
		return fmt.Errorf("invalid verify.format: %w", err)
	}
	if len(c.Verify.Command) > 0 && strings.TrimSpace(c.Verify.Command[0]) == "" {
		return errors.New("invalid verify.command: program name is empty")
	}
	if c.Check.MaxUnitBytes < 0 {
		return fmt.Errorf("invalid check.max_unit_bytes %d: must not be negative", c.Check.MaxUnitBytes)
	}
	for _, f := range []struct{ key, value string }{
		{"check.manifest", c.Check.Manifest},
		{"check.exports", c.Check.Exports},
		{"check.license", c.Check.License},
	} {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("invalid %s: must not be empty", f.key)
		}
	}
	if _, err := report.ParseFormat(c.Report.Format); err != nil {
		return fmt.Errorf("invalid report.format: %w", err)
	}
	switch c.Report.Color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("invalid report.color %q: must be \"auto\", \"on\" or \"off\"", c.Report.Color)
	}
	return nil
}

// EffectiveJobs resolves jobs=0 to the CPU count.
func (c Config) EffectiveJobs() int {
	if c.Repair.Jobs > 0 {
		return c.Repair.Jobs
	}
	return runtime.NumCPU()
}

// CheckOptions converts the [check] section.
func (c Config) CheckOptions() check.Options {
	return check.Options{
		Manifest:     c.Check.Manifest,
		Exports:      c.Check.Exports,
		License:      c.Check.License,
		MaxUnitBytes: c.Check.MaxUnitBytes,
		Stdlib:       slices.Clone(c.Check.Stdlib),
	}
}

// FixerOptions converts the unit names the fixers need.
func (c Config) FixerOptions() fixers.Options {
	return fixers.Options{
		Manifest: c.Check.Manifest,
		Exports:  c.Check.Exports,
	}
}

// LoadOptions tells project.LoadDir which units are the manifest and the
// generated exports file.
func (c Config) LoadOptions() project.LoadOptions {
	return project.LoadOptions{
		Manifest:  c.Check.Manifest,
		Generated: []string{c.Check.Exports},
	}
}
