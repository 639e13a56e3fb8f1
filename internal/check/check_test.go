package check

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mend/internal/finding"
	"mend/internal/project"
)

const goodManifest = `[package]
name = "demo"
version = "0.1.0"
description = "Tools for demos."
license = "MIT"

[dependencies]
jsonlite = "*"
`

func sigsAt(fs []finding.Finding) []string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Signature+"@"+f.Location.String())
	}
	return out
}

func TestCleanProjectHasNoFindings(t *testing.T) {
	st := project.NewState("demo")
	st.Add("package.toml", project.KindManifest, []byte(goodManifest))
	st.Add("R/a.R", project.KindSource, []byte("library(jsonlite)\nlibrary(stats)\n\n#' Add\nadd <- function(a, b) a + b\n"))

	got, err := New(Options{}).Verify(context.Background(), st)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no findings, got %v", got)
	}
}

func TestDetectsEachSignature(t *testing.T) {
	st := project.NewState("demo")
	st.Add("package.toml", project.KindManifest, []byte("[package]\nname = \"demo\"\ndescription = \"  tools   for demos\"\nlicense = \"MIT + file LICENSE\"\n"))
	st.Add("R/a.R", project.KindSource, []byte("library(httr)\nf <- function(x) x  \n\n#' G\n#' @export\ng <- function() \"café\""))
	st.Add("EXPORTS", project.KindGenerated, []byte("export(old)\n"))
	st.Add("data.bin", project.KindOther, make([]byte, 512))

	got, err := New(Options{MaxUnitBytes: 256}).Verify(context.Background(), st)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	want := []string{
		"stale-generated@EXPORTS",
		"missing-license-file@LICENSE",
		"missing-final-newline@R/a.R",
		"non-ascii-source@R/a.R",
		"trailing-whitespace@R/a.R",
		"missing-doc@R/a.R:f",
		"missing-return-doc@R/a.R:g",
		"undeclared-import@R/a.R:httr",
		"large-artifact@data.bin",
		"description-format@package.toml:description",
		"manifest-missing-field@package.toml:version",
	}
	if diff := cmp.Diff(want, sigsAt(got)); diff != "" {
		t.Fatalf("findings (-want +got):\n%s", diff)
	}
}

func TestMissingManifest(t *testing.T) {
	st := project.NewState("demo")
	st.Add("R/a.R", project.KindSource, []byte("library(httr)\n"))

	got, err := New(Options{}).Verify(context.Background(), st)
	if err != nil {
		t.Fatal(err)
	}
	list := finding.List(got)
	if n := list.Signatures()[SigManifestMissingField]; n != len(project.RequiredFields) {
		t.Fatalf("expected %d missing-field findings, got %d (%v)", len(project.RequiredFields), n, got)
	}
	if list.Signatures()[SigUndeclaredImport] != 0 {
		t.Fatal("imports checked without a manifest")
	}
}

func TestManifestSyntax(t *testing.T) {
	st := project.NewState("demo")
	st.Add("package.toml", project.KindManifest, []byte("[package\nname="))
	got, err := New(Options{}).Verify(context.Background(), st)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Signature != SigManifestSyntax || got[0].Severity != finding.SevBlocking {
		t.Fatalf("unexpected findings %v", got)
	}
}

func TestNormalizeDescription(t *testing.T) {
	cases := map[string]string{
		"  tools   for demos": "Tools for demos.",
		"Already fine.":       "Already fine.",
		"question?":           "Question?",
		"":                    "",
	}
	for in, want := range cases {
		if got := NormalizeDescription(in); got != want {
			t.Errorf("NormalizeDescription(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestVerifyHonoursCancellation(t *testing.T) {
	st := project.NewState("demo")
	st.Add("package.toml", project.KindManifest, []byte(goodManifest))
	st.Add("a.R", project.KindSource, []byte("x <- 1\n"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(Options{}).Verify(ctx, st); err == nil {
		t.Fatal("expected context error")
	}
}
