package repair

import (
	"sort"
	"time"

	"mend/internal/catalog"
	"mend/internal/finding"
	"mend/internal/observ"
	"mend/internal/project"
)

// FixRecord is one fixer invocation.
type FixRecord struct {
	Finding   finding.Finding    `json:"finding"`
	Fixer     string             `json:"fixer"`
	Outcome   catalog.Outcome    `json:"outcome"`
	Message   string             `json:"message,omitempty"`
	Err       error              `json:"-"`
	Mutations []project.Mutation `json:"-"`
}

// Iteration is one verifier pass and the fixes applied after it. The
// terminal pass is recorded with no fixes and no After.
type Iteration struct {
	Number int               `json:"number"`
	Before finding.List      `json:"before"`
	Fixes  []FixRecord       `json:"fixes,omitempty"`
	Gaps   []finding.Finding `json:"gaps,omitempty"`
	After  finding.List      `json:"after,omitempty"`
}

// Applied counts fixes that committed changes.
func (it Iteration) Applied() int {
	n := 0
	for _, f := range it.Fixes {
		if f.Outcome == catalog.OutcomeApplied {
			n++
		}
	}
	return n
}

// Unresolved is a finding still present when the session ended.
type Unresolved struct {
	Finding finding.Finding `json:"finding"`
	Reason  Reason          `json:"reason"`
	Message string          `json:"message,omitempty"`
}

// Session is the full record of one repair run over one project.
type Session struct {
	ID         string        `json:"id"`
	Project    string        `json:"project"`
	Verifier   string        `json:"verifier"`
	Status     Status        `json:"status"`
	Reason     string        `json:"reason"`
	Iterations []Iteration   `json:"iterations"`
	Unresolved []Unresolved  `json:"unresolved,omitempty"`
	Gaps       []string      `json:"gaps,omitempty"`
	Started    time.Time     `json:"started"`
	Finished   time.Time     `json:"finished"`
	Timings    observ.Report `json:"timings"`
}

// Final returns the findings of the last verifier pass.
func (s *Session) Final() finding.List {
	if s == nil || len(s.Iterations) == 0 {
		return nil
	}
	return s.Iterations[len(s.Iterations)-1].Before
}

// Mutations returns every committed mutation in order.
func (s *Session) Mutations() []project.Mutation {
	var out []project.Mutation
	for _, it := range s.Iterations {
		for _, f := range it.Fixes {
			out = append(out, f.Mutations...)
		}
	}
	return out
}

// Fixes returns every fix record in order.
func (s *Session) Fixes() []FixRecord {
	var out []FixRecord
	for _, it := range s.Iterations {
		out = append(out, it.Fixes...)
	}
	return out
}

func (s *Session) addGap(sig string) {
	i := sort.SearchStrings(s.Gaps, sig)
	if i < len(s.Gaps) && s.Gaps[i] == sig {
		return
	}
	s.Gaps = append(s.Gaps, "")
	copy(s.Gaps[i+1:], s.Gaps[i:])
	s.Gaps[i] = sig
}
