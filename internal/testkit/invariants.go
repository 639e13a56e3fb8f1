// Package testkit holds consistency checks shared by tests and fuzz
// harnesses that drive whole repair sessions.
package testkit

import (
	"fmt"
	"sort"

	"fortio.org/safecast"

	"mend/internal/repair"
)

// CheckSessionInvariants verifies the bookkeeping of a finished session:
// 1) the status is terminal and the iteration count respects maxIterations
// 2) iterations are numbered 1..n and each After equals the next Before
// 3) only a cancelled session may end with fixes after its last pass
// 4) CONVERGED implies no actionable findings in the final pass
// 5) every final finding is listed as unresolved; catalog gaps appear in Gaps
// 6) mutations carry the session id, their iteration, and contiguous ids
func CheckSessionInvariants(s *repair.Session, maxIterations int) error {
	if s == nil {
		return fmt.Errorf("nil session")
	}
	if !s.Status.IsTerminal() {
		return fmt.Errorf("session %s ended in non-terminal status %s", s.ID, s.Status)
	}
	n := len(s.Iterations)
	if n == 0 && s.Status != repair.StatusAborted {
		return fmt.Errorf("%s session without iterations", s.Status)
	}
	if maxIterations > 0 && n > maxIterations {
		return fmt.Errorf("%d iterations exceed ceiling %d", n, maxIterations)
	}

	for i, it := range s.Iterations {
		if it.Number != i+1 {
			return fmt.Errorf("iteration %d numbered %d", i+1, it.Number)
		}
		if i == n-1 {
			break
		}
		next := s.Iterations[i+1].Before
		if len(it.After) != len(next) {
			return fmt.Errorf("iteration %d: after has %d findings, next pass saw %d", it.Number, len(it.After), len(next))
		}
		for j := range next {
			if it.After[j].Key() != next[j].Key() {
				return fmt.Errorf("iteration %d: after[%d] = %s, next pass has %s", it.Number, j, it.After[j].Key(), next[j].Key())
			}
		}
	}
	if n > 0 && s.Status != repair.StatusAborted {
		if last := s.Iterations[n-1]; len(last.Fixes) != 0 {
			return fmt.Errorf("terminal pass %d recorded %d fixes", last.Number, len(last.Fixes))
		}
	}

	final := s.Final()
	if s.Status == repair.StatusConverged && final.Actionable() != 0 {
		return fmt.Errorf("converged with %d actionable findings", final.Actionable())
	}
	if len(s.Unresolved) != len(final) {
		return fmt.Errorf("%d unresolved entries for %d final findings", len(s.Unresolved), len(final))
	}
	if !sort.StringsAreSorted(s.Gaps) {
		return fmt.Errorf("gaps not sorted: %v", s.Gaps)
	}
	for _, u := range s.Unresolved {
		if u.Reason != repair.ReasonCatalogGap {
			continue
		}
		i := sort.SearchStrings(s.Gaps, u.Finding.Signature)
		if i == len(s.Gaps) || s.Gaps[i] != u.Finding.Signature {
			return fmt.Errorf("catalog gap %s missing from gaps %v", u.Finding.Signature, s.Gaps)
		}
	}

	var first, last uint64
	count := 0
	for _, it := range s.Iterations {
		for _, rec := range it.Fixes {
			for _, m := range rec.Mutations {
				if m.Attribution.Session != s.ID {
					return fmt.Errorf("mutation %d attributed to session %q", m.ID, m.Attribution.Session)
				}
				if m.Attribution.Iteration != it.Number {
					return fmt.Errorf("mutation %d attributed to iteration %d, recorded in %d", m.ID, m.Attribution.Iteration, it.Number)
				}
				if m.Attribution.Fixer != rec.Fixer {
					return fmt.Errorf("mutation %d attributed to fixer %q, recorded under %q", m.ID, m.Attribution.Fixer, rec.Fixer)
				}
				if count == 0 {
					first = m.ID
				} else if m.ID != last+1 {
					return fmt.Errorf("mutation ids not contiguous: %d after %d", m.ID, last)
				}
				last = m.ID
				count++
			}
		}
	}
	if count > 0 {
		total, err := safecast.Conv[uint64](count)
		if err != nil {
			return fmt.Errorf("mutation count overflow: %w", err)
		}
		if last-first+1 != total {
			return fmt.Errorf("mutation ids %d..%d for %d mutations", first, last, total)
		}
	}
	return nil
}
