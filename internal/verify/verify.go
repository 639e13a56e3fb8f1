// Package verify defines the boundary to the tool that inspects a project and
// reports findings.
package verify

import (
	"context"

	"mend/internal/finding"
	"mend/internal/project"
)

// Verifier inspects a project state and reports findings. Implementations
// must be deterministic for a given state and must not mutate it.
type Verifier interface {
	Verify(ctx context.Context, st *project.State) ([]finding.Finding, error)
}

// Named is implemented by verifiers that identify themselves in reports.
type Named interface {
	Name() string
}

// NameOf returns v's name, or "verifier".
func NameOf(v Verifier) string {
	if n, ok := v.(Named); ok {
		return n.Name()
	}
	return "verifier"
}

// Func adapts a function to Verifier.
type Func func(ctx context.Context, st *project.State) ([]finding.Finding, error)

func (f Func) Verify(ctx context.Context, st *project.State) ([]finding.Finding, error) {
	return f(ctx, st)
}

// Static returns the same findings on every pass.
type Static []finding.Finding

func (s Static) Verify(context.Context, *project.State) ([]finding.Finding, error) {
	return finding.List(s).Clone(), nil
}

func (Static) Name() string { return "static" }

// Sequence returns its passes in order and then repeats the last one.
type Sequence struct {
	Passes [][]finding.Finding
	calls  int
}

func (s *Sequence) Verify(context.Context, *project.State) ([]finding.Finding, error) {
	if len(s.Passes) == 0 {
		return nil, nil
	}
	i := s.calls
	if i >= len(s.Passes) {
		i = len(s.Passes) - 1
	}
	s.calls++
	return finding.List(s.Passes[i]).Clone(), nil
}

// Calls reports how many passes were served.
func (s *Sequence) Calls() int { return s.calls }
