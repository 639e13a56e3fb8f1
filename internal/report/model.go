package report

import (
	"time"

	"mend/internal/finding"
	"mend/internal/observ"
	"mend/internal/repair"
)

// FindingJSON представляет находку в JSON формате
type FindingJSON struct {
	Signature string `json:"signature"`
	Severity  string `json:"severity"`
	Unit      string `json:"unit"`
	Sub       string `json:"sub,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

// FixJSON представляет один вызов фиксера
type FixJSON struct {
	Fixer     string      `json:"fixer"`
	Finding   FindingJSON `json:"finding"`
	Outcome   string      `json:"outcome"`
	Message   string      `json:"message,omitempty"`
	Error     string      `json:"error,omitempty"`
	Mutations int         `json:"mutations"`
}

// IterationJSON представляет один проход верификатора
type IterationJSON struct {
	Number int           `json:"number"`
	Before []FindingJSON `json:"before"`
	Fixes  []FixJSON     `json:"fixes,omitempty"`
	Gaps   []FindingJSON `json:"gaps,omitempty"`
	After  []FindingJSON `json:"after,omitempty"`
}

// UnresolvedJSON представляет находку, оставшуюся после сессии
type UnresolvedJSON struct {
	FindingJSON
	Reason  string `json:"reason"`
	Message string `json:"message,omitempty"`
}

// SessionJSON is one repair session.
type SessionJSON struct {
	ID         string           `json:"id"`
	Project    string           `json:"project"`
	Verifier   string           `json:"verifier"`
	Status     string           `json:"status"`
	Reason     string           `json:"reason"`
	Iterations int              `json:"iterations"`
	Fixes      int              `json:"fixes_applied"`
	Mutations  int              `json:"mutations"`
	Gaps       []string         `json:"catalog_gaps,omitempty"`
	Unresolved []UnresolvedJSON `json:"unresolved"`
	Passes     []IterationJSON  `json:"passes,omitempty"`
	Started    time.Time        `json:"started"`
	Finished   time.Time        `json:"finished"`
	DurationMS int64            `json:"duration_ms"`
	Timings    *observ.Report   `json:"timings,omitempty"`
}

// Output представляет корневую структуру JSON вывода
type Output struct {
	Sessions  []SessionJSON `json:"sessions"`
	Count     int           `json:"count"`
	Converged int           `json:"converged"`
	ExitCode  int           `json:"exit_code"`
}

// FindingsOutput is the JSON form of a single check pass.
type FindingsOutput struct {
	Project    string        `json:"project"`
	Findings   []FindingJSON `json:"findings"`
	Count      int           `json:"count"`
	Actionable int           `json:"actionable"`
}

func makeFinding(f finding.Finding) FindingJSON {
	return FindingJSON{
		Signature: f.Signature,
		Severity:  f.Severity.String(),
		Unit:      f.Location.Unit,
		Sub:       f.Location.Sub,
		Detail:    f.Detail,
	}
}

func makeFindings(list []finding.Finding) []FindingJSON {
	out := make([]FindingJSON, 0, len(list))
	for _, f := range list {
		out = append(out, makeFinding(f))
	}
	return out
}

func makeIteration(it repair.Iteration) IterationJSON {
	out := IterationJSON{
		Number: it.Number,
		Before: makeFindings(it.Before),
	}
	if len(it.Gaps) > 0 {
		out.Gaps = makeFindings(it.Gaps)
	}
	if it.After != nil {
		out.After = makeFindings(it.After)
	}
	for _, fx := range it.Fixes {
		fj := FixJSON{
			Fixer:     fx.Fixer,
			Finding:   makeFinding(fx.Finding),
			Outcome:   fx.Outcome.String(),
			Message:   fx.Message,
			Mutations: len(fx.Mutations),
		}
		if fx.Err != nil {
			fj.Error = fx.Err.Error()
		}
		out.Fixes = append(out.Fixes, fj)
	}
	return out
}

// BuildSession формирует структуру JSON-вывода одной сессии без сериализации.
func BuildSession(s *repair.Session, opts JSONOpts) SessionJSON {
	out := SessionJSON{
		ID:         s.ID,
		Project:    s.Project,
		Verifier:   s.Verifier,
		Status:     s.Status.String(),
		Reason:     s.Reason,
		Iterations: len(s.Iterations),
		Mutations:  len(s.Mutations()),
		Gaps:       append([]string(nil), s.Gaps...),
		Unresolved: make([]UnresolvedJSON, 0, len(s.Unresolved)),
		Started:    s.Started,
		Finished:   s.Finished,
		DurationMS: s.Finished.Sub(s.Started).Milliseconds(),
	}
	for _, it := range s.Iterations {
		out.Fixes += it.Applied()
	}

	limit := len(s.Unresolved)
	if opts.Max > 0 && opts.Max < limit {
		limit = opts.Max
	}
	for _, u := range s.Unresolved[:limit] {
		out.Unresolved = append(out.Unresolved, UnresolvedJSON{
			FindingJSON: makeFinding(u.Finding),
			Reason:      u.Reason.String(),
			Message:     u.Message,
		})
	}

	if opts.IncludeIterations {
		out.Passes = make([]IterationJSON, 0, len(s.Iterations))
		for _, it := range s.Iterations {
			out.Passes = append(out.Passes, makeIteration(it))
		}
	}
	if opts.IncludeTimings {
		timings := s.Timings
		out.Timings = &timings
	}
	return out
}

// Build формирует структуру JSON-вывода для набора сессий. Nil sessions
// (projects that failed before the engine ran) are skipped.
func Build(sessions []*repair.Session, opts JSONOpts) Output {
	out := Output{Sessions: make([]SessionJSON, 0, len(sessions))}
	for _, s := range sessions {
		if s == nil {
			continue
		}
		out.Sessions = append(out.Sessions, BuildSession(s, opts))
		if s.Status == repair.StatusConverged {
			out.Converged++
		}
	}
	out.Count = len(out.Sessions)
	out.ExitCode = ExitCode(sessions)
	return out
}

// BuildFindings формирует JSON-вывод одного прохода проверки.
func BuildFindings(project string, list finding.List) FindingsOutput {
	return FindingsOutput{
		Project:    project,
		Findings:   makeFindings(list),
		Count:      len(list),
		Actionable: list.Actionable(),
	}
}
