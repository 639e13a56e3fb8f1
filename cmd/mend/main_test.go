package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mend/internal/report"
)

func writeFixture(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "demo")
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	exitStatus = 0
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRepairThenRollback(t *testing.T) {
	original := map[string]string{
		"package.toml": "[package]\nname = \"demo\"\nversion = \"1.0.0\"\nlicense = \"MIT\"\ndescription = \"Demo.\"\n",
		"R/util.R":     "parse_it <- function(x) x  \n",
	}
	dir := writeFixture(t, original)

	out, err := execute(t, "repair", "--ui", "off", "--format", "json", "--quiet", dir)
	if err != nil {
		t.Fatalf("repair: %v\n%s", err, out)
	}
	var rep report.Output
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("invalid report: %v\n%s", err, out)
	}
	if rep.Count != 1 || rep.Sessions[0].Status != "CONVERGED" || exitStatus != 0 {
		t.Fatalf("unexpected report: %+v (exit %d)", rep, exitStatus)
	}
	got, err := os.ReadFile(filepath.Join(dir, "R", "util.R"))
	if err != nil {
		t.Fatal(err)
	}
	if want := "#' parse_it\nparse_it <- function(x) x\n"; string(got) != want {
		t.Errorf("repaired source = %q, want %q", got, want)
	}
	if _, err := os.Stat(journalPath(dir)); err != nil {
		t.Fatalf("journal not written: %v", err)
	}

	if out, err = execute(t, "rollback", "--all", dir); err != nil {
		t.Fatalf("rollback: %v\n%s", err, out)
	}
	if !strings.Contains(out, "reverted #") {
		t.Errorf("rollback output = %q", out)
	}
	got, err = os.ReadFile(filepath.Join(dir, "R", "util.R"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(original["R/util.R"], string(got)); diff != "" {
		t.Errorf("rollback did not restore source (-want +got):\n%s", diff)
	}
}

func TestCheckExitStatus(t *testing.T) {
	dir := writeFixture(t, map[string]string{
		"package.toml": "[package]\nname = \"demo\"\nversion = \"1.0.0\"\nlicense = \"MIT\"\ndescription = \"Demo.\"\n",
		"R/util.R":     "#' f\nf <- function(x) x\n",
	})
	out, err := execute(t, "check", "--format", "short", dir)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if out != "" || exitStatus != 0 {
		t.Errorf("clean project: output %q, exit %d", out, exitStatus)
	}

	if err := os.WriteFile(filepath.Join(dir, "R", "util.R"), []byte("#' f\nf <- function(x) x  \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err = execute(t, "check", "--format", "short", dir)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, "demo/R/util.R") || !strings.Contains(out, "trailing-whitespace") || exitStatus != 1 {
		t.Errorf("dirty project: output %q, exit %d", out, exitStatus)
	}
}

func TestResolveTargets(t *testing.T) {
	targets, err := resolveTargets([]string{"a/pkg", "b/pkg", "c/other"})
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, tg := range targets {
		names = append(names, tg.Name)
	}
	if diff := cmp.Diff([]string{"a/pkg", "b/pkg", "other"}, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	if _, err := resolveTargets([]string{"x", "./x"}); err == nil {
		t.Error("expected error for a directory given twice")
	}
	def, err := resolveTargets(nil)
	if err != nil || len(def) != 1 || def[0].Dir != "." {
		t.Errorf("default targets = %+v, %v", def, err)
	}
}

func TestRollbackSelector(t *testing.T) {
	if _, err := rollbackSelector("", "", false); err == nil {
		t.Error("expected error without a selector")
	}
	if _, err := rollbackSelector("doc", "s1", false); err == nil {
		t.Error("expected error for two selectors")
	}
	if _, err := rollbackSelector("doc", "", false); err != nil {
		t.Errorf("fixer selector: %v", err)
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "ON": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("maybe"); err == nil {
		t.Error("expected error for invalid mode")
	}
}
