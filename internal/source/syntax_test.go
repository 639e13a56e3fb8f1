package source

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSyntaxFor(t *testing.T) {
	cases := map[string]string{
		"R/a.R":     "#'",
		"x.r":       "#'",
		"main.go":   "//",
		"lib.rs":    "//",
		"script.py": "#",
		"tool.sh":   "#",
	}
	for name, want := range cases {
		if got := SyntaxFor(name).Comment; got != want {
			t.Errorf("SyntaxFor(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestFunctions(t *testing.T) {
	text := "#' Add numbers\n#' @return sum\nadd <- function(a, b) a + b\n\nsub <- function(a, b) a - b\n"
	fns := Functions(text, SyntaxFor("a.R"))
	if len(fns) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(fns))
	}
	if !fns[0].Documented() || !fns[0].HasTag("@return") || fns[0].Name != "add" {
		t.Fatalf("unexpected first func %+v", fns[0])
	}
	if diff := cmp.Diff([]string{"Add numbers", "@return sum"}, fns[0].Doc); diff != "" {
		t.Fatalf("doc (-want +got):\n%s", diff)
	}
	if fns[1].Documented() || fns[1].Line != 4 {
		t.Fatalf("unexpected second func %+v", fns[1])
	}
}

func TestDeclName(t *testing.T) {
	cases := []struct {
		line string
		name string
		ok   bool
	}{
		{"func Run(ctx context.Context) error {", "Run", true},
		{"func (s *Server) Close() error {", "Close", true},
		{"fn parse(input: &str) {", "parse", true},
		{"def handler(event):", "handler", true},
		{"my.fun <- function(x) {", "my.fun", true},
		{"  inner <- function() 1", "", false},
		{"x <- 1", "", false},
	}
	for _, tc := range cases {
		name, ok := DeclName(tc.line)
		if ok != tc.ok || name != tc.name {
			t.Errorf("DeclName(%q) = %q,%v want %q,%v", tc.line, name, ok, tc.name, tc.ok)
		}
	}
}

func TestImports(t *testing.T) {
	text := "library(jsonlite)\nrequire(\"httr\")\nimport \"strings\"\nuse serde::Deserialize;\nlibrary(jsonlite)\n"
	var got []string
	for _, imp := range Imports(text) {
		got = append(got, imp.Package)
	}
	if diff := cmp.Diff([]string{"jsonlite", "httr", "strings", "serde"}, got); diff != "" {
		t.Fatalf("imports (-want +got):\n%s", diff)
	}
}

func TestNormalize(t *testing.T) {
	out, flags := Normalize([]byte("\xEF\xBB\xBFa\r\nb\rc"))
	if string(out) != "a\nb\rc" {
		t.Fatalf("normalized = %q", out)
	}
	if flags&HadBOM == 0 || flags&NormalizedCRLF == 0 {
		t.Fatalf("flags = %b", flags)
	}
	if _, flags := Normalize([]byte("plain")); flags != 0 {
		t.Fatalf("plain content flagged %b", flags)
	}
}

func TestFunctionKeysAreUnique(t *testing.T) {
	text := "// String renders A.\nfunc (a A) String() string { return \"a\" }\n" +
		"func (b *B) String() string { return \"b\" }\n" +
		"func (a A) String() string { return \"again\" }\n" +
		"func helper() {}\nfunc helper() {}\n"
	var keys []string
	for _, fn := range Functions(text, SyntaxFor("a.go")) {
		keys = append(keys, fn.Key)
	}
	want := []string{"A.String", "B.String", "A.String#2", "helper", "helper#2"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Fatalf("keys (-want +got):\n%s", diff)
	}

	fn, ok := FindFunc(text, SyntaxFor("a.go"), "B.String")
	if !ok || fn.Line != 2 || fn.Name != "String" || fn.Documented() {
		t.Fatalf("FindFunc(B.String) = %+v, %v", fn, ok)
	}
	if _, ok := FindFunc(text, SyntaxFor("a.go"), "String"); ok {
		t.Fatal("a bare method name must not match a qualified key")
	}
}

func TestShebangIsNotDoc(t *testing.T) {
	fns := Functions("#!/usr/bin/env python3\ndef main():\n    pass\n", SyntaxFor("tool.py"))
	if len(fns) != 1 || fns[0].Documented() {
		t.Fatalf("shebang counted as documentation: %+v", fns)
	}
	fns = Functions("#!/bin/sh\n# Run the tool.\ndef main():\n", SyntaxFor("tool.py"))
	if len(fns) != 1 || fns[0].DocStart != 1 {
		t.Fatalf("doc block should start below the shebang: %+v", fns)
	}
}

func TestDenormalizeInvertsNormalize(t *testing.T) {
	for _, in := range []string{
		"\xEF\xBB\xBFa\r\nb\r\n",
		"a\r\n\r\nb",
		"\xEF\xBB\xBFplain",
		"no changes\n",
	} {
		out, flags := Normalize([]byte(in))
		if got := string(Denormalize(out, flags)); got != in {
			t.Errorf("Denormalize(Normalize(%q)) = %q", in, got)
		}
	}
}
