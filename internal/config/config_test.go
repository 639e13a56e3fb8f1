package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mend/internal/check"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Repair.MaxIterations != 25 || !cfg.Repair.Write || !cfg.Repair.Journal {
		t.Errorf("unexpected repair defaults: %+v", cfg.Repair)
	}
	if cfg.Check.MaxUnitBytes != 1048576 {
		t.Errorf("max_unit_bytes = %d", cfg.Check.MaxUnitBytes)
	}
}

func TestLoadOverridesOnlyDefinedKeys(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[repair]
max_iterations = 5
write = false

[verify]
command = ["lint", "--json"]
format = "yaml"

[check]
stdlib = ["base"]

[fixers]
disable = ["non-ascii-source"]

[report]
format = "sarif"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	want.Path = path
	want.Repair.MaxIterations = 5
	want.Repair.Write = false
	want.Verify = VerifyConfig{Command: []string{"lint", "--json"}, Format: "yaml"}
	want.Check.Stdlib = []string{"base"}
	want.Fixers.Disable = []string{"non-ascii-source"}
	want.Report.Format = "sarif"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if len(check.DefaultStdlib) < 2 {
		t.Errorf("decoding must not clobber check.DefaultStdlib: %v", check.DefaultStdlib)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"syntax", "[repair\n", "failed to parse TOML"},
		{"unknown key", "[repair]\nmax_iteration = 3\n", "unknown key repair.max_iteration"},
		{"zero ceiling", "[repair]\nmax_iterations = 0\n", "repair.max_iterations"},
		{"negative jobs", "[repair]\njobs = -1\n", "repair.jobs"},
		{"format without command", "[verify]\nformat = \"yaml\"\n", "[verify].command is empty"},
		{"bad verify format", "[verify]\ncommand = [\"x\"]\nformat = \"xml\"\n", "verify.format"},
		{"empty program", "[verify]\ncommand = [\"\"]\n", "verify.command"},
		{"empty manifest", "[check]\nmanifest = \"\"\n", "check.manifest"},
		{"bad report format", "[report]\nformat = \"html\"\n", "report.format"},
		{"bad color", "[report]\ncolor = \"always\"\n", "report.color"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[repair]\njobs = 2\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg, err := Find(nested)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if cfg.Repair.Jobs != 2 || cfg.EffectiveJobs() != 2 {
		t.Errorf("jobs = %d", cfg.Repair.Jobs)
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	if _, err := Resolve(dir, filepath.Join(dir, "missing.toml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
	path := writeConfig(t, dir, "[report]\nformat = \"short\"\n")
	cfg, err := Resolve(t.TempDir(), path)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Report.Format != "short" || cfg.Path != path {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestConversions(t *testing.T) {
	cfg := Default()
	cfg.Check.Manifest = "DESCRIPTION.toml"
	if got := cfg.CheckOptions().Manifest; got != "DESCRIPTION.toml" {
		t.Errorf("CheckOptions().Manifest = %q", got)
	}
	if got := cfg.FixerOptions().Exports; got != "EXPORTS" {
		t.Errorf("FixerOptions().Exports = %q", got)
	}
	lo := cfg.LoadOptions()
	if lo.Manifest != "DESCRIPTION.toml" || len(lo.Generated) != 1 {
		t.Errorf("LoadOptions() = %+v", lo)
	}
}
