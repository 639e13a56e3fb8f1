package verify

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mend/internal/finding"
	"mend/internal/project"
)

type fakeRunner struct {
	out  []byte
	err  error
	seen map[string]string
}

func (r *fakeRunner) Run(_ context.Context, dir, _ string, _ ...string) ([]byte, error) {
	r.seen = make(map[string]string)
	_ = filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		data, _ := os.ReadFile(p)
		rel, _ := filepath.Rel(dir, p)
		r.seen[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	return r.out, r.err
}

func TestDecodeJSON(t *testing.T) {
	data := []byte(`{"findings":[
		{"signature":"missing-doc","severity":"error","unit":"a.R","sub":"f","detail":"no docs"},
		{"signature":"note","severity":"info","unit":"b.R"}
	]}`)
	got, err := Decode(data, FormatJSON)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []finding.Finding{
		finding.Blocking("missing-doc", finding.At("a.R", "f"), "no docs"),
		finding.Informational("note", finding.At("b.R", ""), ""),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("findings (-want +got):\n%s", diff)
	}
}

func TestDecodeYAMLRoundTrip(t *testing.T) {
	in := []finding.Finding{finding.Advisory("trailing-whitespace", finding.At("a.R", ""), "2 lines")}
	data, err := Encode(in, FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(data, FormatYAML)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(in, got); diff != "" {
		t.Fatalf("findings (-want +got):\n%s", diff)
	}
}

func TestDecodeRejectsBadSeverity(t *testing.T) {
	if _, err := Decode([]byte(`{"findings":[{"signature":"x","severity":"fatal","unit":"a"}]}`), FormatJSON); err == nil {
		t.Fatal("expected error for unknown severity")
	}
	if _, err := Decode([]byte(`{"findings":[{"severity":"error","unit":"a"}]}`), FormatJSON); err == nil {
		t.Fatal("expected error for empty signature")
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestCommandExportsStateAndDecodes(t *testing.T) {
	st := project.NewState("demo")
	st.Add("R/a.R", project.KindSource, []byte("f <- function() 1\n"))
	runner := &fakeRunner{
		out: []byte(`{"findings":[{"signature":"missing-doc","severity":"blocking","unit":"R/a.R","sub":"f"}]}`),
		err: errors.New("exit status 1"),
	}
	cmd := &Command{Argv: []string{"lint"}, Format: FormatJSON, Runner: runner, TempDir: t.TempDir()}

	got, err := cmd.Verify(context.Background(), st)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if len(got) != 1 || got[0].Signature != "missing-doc" {
		t.Fatalf("unexpected findings %v", got)
	}
	if runner.seen["R/a.R"] != "f <- function() 1\n" {
		t.Fatalf("state not exported: %v", runner.seen)
	}
}

func TestCommandFailureWithoutOutput(t *testing.T) {
	runner := &fakeRunner{err: errors.New("not found")}
	cmd := &Command{Argv: []string{"missing"}, Runner: runner, TempDir: t.TempDir()}
	if _, err := cmd.Verify(context.Background(), project.NewState("x")); err == nil {
		t.Fatal("expected runner error")
	}
	if _, err := (&Command{}).Verify(context.Background(), project.NewState("x")); err == nil {
		t.Fatal("expected error for empty argv")
	}
}

func TestSequenceRepeatsLastPass(t *testing.T) {
	a := finding.Blocking("a", finding.At("u", ""), "")
	seq := &Sequence{Passes: [][]finding.Finding{{a}, nil}}
	for i, want := range []int{1, 0, 0} {
		got, _ := seq.Verify(context.Background(), nil)
		if len(got) != want {
			t.Fatalf("pass %d: %d findings, want %d", i, len(got), want)
		}
	}
	if seq.Calls() != 3 {
		t.Fatalf("calls = %d", seq.Calls())
	}
}
