package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/mattn/go-runewidth"

	"mend/internal/catalog"
	"mend/internal/finding"
	"mend/internal/repair"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func stalledSession() *repair.Session {
	gap := finding.Blocking("unknown-x", finding.At("R/a.R", "f"), "nobody knows")
	info := finding.Informational("large-artifact", finding.At("data.bin", ""), "2048 bytes")
	return &repair.Session{
		ID:       "s-1",
		Project:  "pkg",
		Verifier: "check",
		Status:   repair.StatusStalled,
		Reason:   "no progress: findings unchanged",
		Iterations: []repair.Iteration{
			{
				Number: 1,
				Before: finding.List{gap, info},
				Gaps:   []finding.Finding{gap},
				After:  finding.List{gap, info},
			},
			{Number: 2, Before: finding.List{gap, info}},
		},
		Unresolved: []repair.Unresolved{
			{Finding: gap, Reason: repair.ReasonCatalogGap},
			{Finding: info, Reason: repair.ReasonInformational},
		},
		Gaps:     []string{"unknown-x"},
		Started:  t0,
		Finished: t0.Add(1500 * time.Millisecond),
	}
}

func convergedSession() *repair.Session {
	miss := finding.Blocking("missing-doc", finding.At("R/b.R", "g"), "")
	return &repair.Session{
		ID:       "s-2",
		Project:  "other",
		Verifier: "check",
		Status:   repair.StatusConverged,
		Reason:   "no actionable findings",
		Iterations: []repair.Iteration{
			{
				Number: 1,
				Before: finding.List{miss},
				Fixes: []repair.FixRecord{{
					Finding: miss,
					Fixer:   "doc-stub",
					Outcome: catalog.OutcomeApplied,
					Message: "documented g",
				}},
				After: finding.List{},
			},
			{Number: 2, Before: finding.List{}},
		},
		Started:  t0,
		Finished: t0,
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", FormatPretty},
		{"pretty", FormatPretty},
		{"SHORT", FormatShort},
		{"json", FormatJSON},
		{" sarif ", FormatSARIF},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil {
			t.Fatalf("ParseFormat(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestExitCode(t *testing.T) {
	if got := ExitCode([]*repair.Session{convergedSession()}); got != 0 {
		t.Errorf("converged exit code = %d, want 0", got)
	}
	if got := ExitCode([]*repair.Session{convergedSession(), stalledSession()}); got != 1 {
		t.Errorf("stalled exit code = %d, want 1", got)
	}
	if got := ExitCode([]*repair.Session{nil}); got != 1 {
		t.Errorf("nil session exit code = %d, want 1", got)
	}
	list := finding.List{finding.Informational("large-artifact", finding.At("x", ""), "")}
	if got := FindingsExitCode(list); got != 0 {
		t.Errorf("informational-only exit code = %d, want 0", got)
	}
}

func TestBuildSession(t *testing.T) {
	got := BuildSession(stalledSession(), JSONOpts{})
	if got.Status != "STALLED" || got.Iterations != 2 || got.DurationMS != 1500 {
		t.Fatalf("unexpected header: %+v", got)
	}
	want := []UnresolvedJSON{
		{FindingJSON: FindingJSON{Signature: "unknown-x", Severity: "BLOCKING", Unit: "R/a.R", Sub: "f", Detail: "nobody knows"}, Reason: "catalog-gap"},
		{FindingJSON: FindingJSON{Signature: "large-artifact", Severity: "INFORMATIONAL", Unit: "data.bin", Detail: "2048 bytes"}, Reason: "informational"},
	}
	if diff := cmp.Diff(want, got.Unresolved); diff != "" {
		t.Errorf("unresolved mismatch (-want +got):\n%s", diff)
	}
	if got.Passes != nil {
		t.Errorf("passes should be omitted without IncludeIterations")
	}

	limited := BuildSession(stalledSession(), JSONOpts{Max: 1, IncludeIterations: true})
	if len(limited.Unresolved) != 1 {
		t.Errorf("Max not applied: %d unresolved", len(limited.Unresolved))
	}
	if len(limited.Passes) != 2 || len(limited.Passes[0].Gaps) != 1 {
		t.Errorf("passes = %+v", limited.Passes)
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	s := convergedSession()
	s.Iterations[0].Fixes = append(s.Iterations[0].Fixes, repair.FixRecord{
		Finding: s.Iterations[0].Before[0],
		Fixer:   "broken",
		Outcome: catalog.OutcomeFailed,
		Err:     errors.New("boom"),
	})
	if err := JSON(&buf, []*repair.Session{s, nil}, JSONOpts{IncludeIterations: true}); err != nil {
		t.Fatal(err)
	}
	var out Output
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, buf.String())
	}
	if out.Count != 1 || out.Converged != 1 || out.ExitCode != 1 {
		t.Errorf("count=%d converged=%d exit=%d", out.Count, out.Converged, out.ExitCode)
	}
	fixes := out.Sessions[0].Passes[0].Fixes
	if len(fixes) != 2 || fixes[1].Error != "boom" || fixes[0].Outcome != "applied" {
		t.Errorf("fixes = %+v", fixes)
	}
	if out.Sessions[0].Fixes != 1 {
		t.Errorf("fixes applied = %d, want 1", out.Sessions[0].Fixes)
	}
}

func TestSarif(t *testing.T) {
	var buf bytes.Buffer
	meta := SarifRunMeta{ToolName: "mend", ToolVersion: "0.1.0", InvocationArgs: []string{"repair", "."}}
	if err := Sarif(&buf, []*repair.Session{stalledSession()}, meta); err != nil {
		t.Fatal(err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid sarif: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("unexpected log header: %+v", log)
	}
	run := log.Runs[0]
	var ruleIDs []string
	for _, r := range run.Tool.Driver.Rules {
		ruleIDs = append(ruleIDs, r.ID)
	}
	if diff := cmp.Diff([]string{"large-artifact", "unknown-x"}, ruleIDs); diff != "" {
		t.Errorf("rules mismatch (-want +got):\n%s", diff)
	}
	if len(run.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(run.Results))
	}
	first := run.Results[0]
	if first.RuleID != "unknown-x" || first.RuleIndex != 1 || first.Level != "error" {
		t.Errorf("first result = %+v", first)
	}
	if uri := first.Locations[0].PhysicalLocation.ArtifactLocation.URI; uri != "pkg/R/a.R" {
		t.Errorf("uri = %q", uri)
	}
	if first.Locations[0].LogicalLocations[0].Name != "f" {
		t.Errorf("logical location = %+v", first.Locations[0].LogicalLocations)
	}
	if first.Properties["reason"] != "catalog-gap" {
		t.Errorf("properties = %v", first.Properties)
	}
	if run.Results[1].Level != "note" {
		t.Errorf("informational level = %q, want note", run.Results[1].Level)
	}
	if inv := run.Invocations; len(inv) != 1 || inv[0].ExecutionSuccessful {
		t.Errorf("invocations = %+v", inv)
	}
}

func TestPrettyNoColor(t *testing.T) {
	var buf bytes.Buffer
	err := Pretty(&buf, []*repair.Session{stalledSession(), convergedSession()}, PrettyOpts{Iterations: true})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"pkg  STALLED  2 passes, 0 fixes, 0 mutations  (1.5s)",
		"unresolved:",
		"error  unknown-x       R/a.R:f   catalog-gap    nobody knows",
		"note   large-artifact  data.bin  informational  2048 bytes",
		"catalog gaps: unknown-x",
		"gap  unknown-x  R/a.R:f  no fixer registered",
		"other  CONVERGED",
		"applied  missing-doc  R/b.R:g  documented g",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("unexpected ANSI escapes with Color=false")
	}
}

func TestShort(t *testing.T) {
	var buf bytes.Buffer
	if err := Short(&buf, []*repair.Session{stalledSession()}); err != nil {
		t.Fatal(err)
	}
	want := "pkg: STALLED after 2 passes, 0 fixes applied\n" +
		"pkg/R/a.R:f: error unknown-x: nobody knows [catalog-gap]\n" +
		"pkg/data.bin: note large-artifact: 2048 bytes [informational]\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("short mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderFindings(t *testing.T) {
	list := finding.List{
		finding.Blocking("missing-doc", finding.At("R/a.R", "f"), ""),
		finding.Advisory("trailing-whitespace", finding.At("R/a.R", "3"), "line 3"),
	}
	for _, format := range []Format{FormatPretty, FormatShort, FormatJSON, FormatSARIF} {
		var buf bytes.Buffer
		if err := RenderFindings(&buf, "pkg", list, Options{Format: format}); err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if !strings.Contains(buf.String(), "trailing-whitespace") {
			t.Errorf("%s output missing finding:\n%s", format, buf.String())
		}
	}
	if err := RenderFindings(&bytes.Buffer{}, "pkg", list, Options{Format: Format(42)}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefgh", 6); got != "abc..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("日本語テキスト", 5); runewidth.StringWidth(got) > 5 {
		t.Errorf("truncate wide = %q", got)
	}
	if got := truncate("short", 0); got != "short" {
		t.Errorf("unlimited truncate = %q", got)
	}
}
