package repair

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"mend/internal/catalog"
	"mend/internal/finding"
	"mend/internal/observ"
	"mend/internal/project"
	"mend/internal/trace"
	"mend/internal/verify"
)

// DefaultMaxIterations bounds a session when Options leave it unset.
const DefaultMaxIterations = 25

var (
	// ErrNilState is returned by Run for a nil project state.
	ErrNilState = errors.New("repair: nil project state")
	// ErrNilVerifier is returned by Run when the engine has no verifier.
	ErrNilVerifier = errors.New("repair: nil verifier")
)

// Options tunes the engine.
type Options struct {
	MaxIterations int              // ceiling on verifier passes; DefaultMaxIterations when <= 0
	Clock         func() time.Time // session timestamps and phase timings
	Progress      Sink
	NewID         func() string // session ids; uuid v4 by default
}

// Engine drives repair sessions. The catalog and verifier are shared
// read-only between sessions; all mutable state lives in the session and the
// project state it runs on.
type Engine struct {
	catalog  *catalog.Catalog
	verifier verify.Verifier
	opts     Options
}

// New creates an engine.
func New(cat *catalog.Catalog, v verify.Verifier, opts Options) *Engine {
	if cat == nil {
		cat = catalog.New()
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Engine{catalog: cat, verifier: v, opts: opts}
}

// Catalog returns the engine's rule catalog.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// MaxIterations returns the effective iteration ceiling.
func (e *Engine) MaxIterations() int { return e.opts.MaxIterations }

// attempt remembers how the last fix of a finding went.
type attempt struct {
	outcome catalog.Outcome
	message string
}

// run holds the mutable bookkeeping of one session.
type run struct {
	e     *Engine
	st    *project.State
	sess  *Session
	timer *observ.Timer
	span  *trace.Span
	last  map[string]attempt // by finding key
}

// Run repairs st until it converges, stalls or hits the ceiling. The session
// is always returned. The error is non-nil only for invalid input or when the
// verifier fails; cancellation is reported as an ABORTED session.
func (e *Engine) Run(ctx context.Context, st *project.State) (*Session, error) {
	if st == nil {
		return nil, ErrNilState
	}
	if e.verifier == nil {
		return nil, ErrNilVerifier
	}
	tr := trace.FromContext(ctx)
	r := &run{
		e:  e,
		st: st,
		sess: &Session{
			ID:       e.opts.NewID(),
			Project:  st.Name(),
			Verifier: verify.NameOf(e.verifier),
			Started:  e.opts.Clock(),
		},
		timer: observ.NewTimerWithClock(e.opts.Clock),
		last:  make(map[string]attempt),
	}
	r.span = trace.BeginSession(tr, "session:"+st.Name(), r.sess.ID, trace.CurrentSpan(ctx).SpanID).
		WithExtra("verifier", r.sess.Verifier)
	e.opts.Progress.emit(Event{Kind: EventStarted, Session: r.sess.ID, Project: st.Name(), Max: e.opts.MaxIterations})

	err := r.loop(ctx)
	r.finish()
	return r.sess, err
}

func (r *run) loop(ctx context.Context) error {
	var prev finding.Multiset
	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			r.stop(StatusAborted, "cancelled: "+err.Error(), n == 1)
			return nil
		}

		r.progress(Event{Kind: EventVerifying, Iteration: n, Phase: PhaseVerifying})
		itSpan := r.span.BeginIteration(n)
		idx := r.timer.Begin("verify")
		found, err := r.e.verifier.Verify(trace.ContextWithSpan(ctx, itSpan), r.st)
		r.timer.End(idx, "")
		if err != nil {
			itSpan.End("verifier failed")
			if ctx.Err() != nil {
				r.stop(StatusAborted, "cancelled: "+ctx.Err().Error(), n == 1)
				return nil
			}
			r.stop(StatusAborted, "verifier failed: "+err.Error(), n == 1)
			itSpan.Error("verify", err.Error())
			return fmt.Errorf("verify %s (iteration %d): %w", r.st.Name(), n, err)
		}

		list := finding.List(found).Clone()
		list.Sort()
		if n > 1 {
			r.sess.Iterations[n-2].After = list
		}
		r.sess.Iterations = append(r.sess.Iterations, Iteration{Number: n, Before: list})
		it := &r.sess.Iterations[len(r.sess.Iterations)-1]
		remaining := list.Actionable()
		r.progress(Event{Kind: EventVerified, Iteration: n, Phase: PhaseClassifying, Findings: len(list), Remaining: remaining})

		sigs := list.Signatures()
		switch {
		case remaining == 0:
			itSpan.End("converged")
			r.stop(StatusConverged, "no blocking or advisory findings", true)
			return nil
		case n > 1 && sigs.Equal(prev):
			itSpan.End("stalled")
			r.stop(StatusStalled, fmt.Sprintf("findings %s unchanged since iteration %d", sigs, n-1), true)
			return nil
		case n >= r.e.opts.MaxIterations:
			itSpan.End("ceiling")
			r.stop(StatusAborted, fmt.Sprintf("iteration ceiling %d reached", r.e.opts.MaxIterations), true)
			return nil
		}
		prev = sigs

		work := r.classify(it, list, itSpan)

		idx = r.timer.Begin("fix")
		for _, cand := range work {
			rec := r.fix(n, cand, itSpan)
			it.Fixes = append(it.Fixes, rec)
			r.progress(Event{Kind: EventFixed, Iteration: n, Phase: PhaseFixing, Fix: &rec, Findings: len(list), Remaining: remaining})
		}
		r.timer.End(idx, "")
		itSpan.WithExtra("fixes", fmt.Sprint(len(it.Fixes))).End(fmt.Sprintf("%d findings, %d applied", len(list), it.Applied()))
	}
}

// classify resolves findings against the catalog in priority order. Unmatched
// findings become gaps; informational ones are never handed to a fixer.
func (r *run) classify(it *Iteration, list finding.List, span *trace.Span) []catalog.Candidate {
	var work []catalog.Candidate
	for _, cand := range r.e.catalog.Order(list) {
		f := cand.Finding
		if !f.Severity.Actionable() {
			continue
		}
		if !cand.Matched {
			it.Gaps = append(it.Gaps, f)
			r.sess.addGap(f.Signature)
			span.Point("catalog-gap", f.Signature, "location", f.Location.String())
			continue
		}
		work = append(work, cand)
	}
	return work
}

// fix runs one fixer under its own attribution. Staged edits are committed
// only on a real Applied result.
func (r *run) fix(n int, cand catalog.Candidate, parent *trace.Span) FixRecord {
	f := cand.Finding
	fixer := cand.Entry.Fixer
	ed := r.st.Edit(project.Attribution{
		Session:   r.sess.ID,
		Iteration: n,
		Fixer:     fixer.Name(),
		Signature: f.Signature,
		Location:  f.Location.String(),
	})
	span := parent.Child(trace.ScopeFixer, "fixer:"+fixer.Name())

	res := r.invoke(fixer, f, ed, span)
	rec := FixRecord{Finding: f, Fixer: fixer.Name(), Outcome: res.Outcome, Message: res.Message, Err: res.Err}
	switch {
	case res.Outcome == catalog.OutcomeApplied && ed.Changed():
		rec.Mutations = ed.Commit()
	case res.Outcome == catalog.OutcomeApplied:
		ed.Discard()
		rec.Outcome = catalog.OutcomeSkipped
		rec.Message = "fix produced no changes"
	case res.Outcome == catalog.OutcomeSkipped, res.Outcome == catalog.OutcomeFailed:
		ed.Discard()
	default:
		ed.Discard()
		rec.Outcome = catalog.OutcomeFailed
		rec.Err = fmt.Errorf("fixer %s returned no outcome", fixer.Name())
		rec.Message = rec.Err.Error()
	}
	r.last[f.Key()] = attempt{outcome: rec.Outcome, message: rec.Message}
	span.WithExtra("outcome", rec.Outcome.String()).End(rec.Message)
	return rec
}

// invoke calls the fixer and turns a panic into a contract violation.
func (r *run) invoke(fixer catalog.Fixer, f finding.Finding, ed *project.Editor, span *trace.Span) (res catalog.Result) {
	defer func() {
		if v := recover(); v != nil {
			cv := &catalog.ContractViolation{Fixer: fixer.Name(), Finding: f, Value: v, Stack: debug.Stack()}
			span.Error("contract-violation", fmt.Sprint(v),
				"fixer", fixer.Name(),
				"signature", f.Signature,
				"severity", f.Severity.String(),
				"unit", f.Location.Unit,
				"sub", f.Location.Sub,
				"detail", f.Detail,
			)
			res = catalog.Failed(cv)
		}
	}()
	return fixer.Apply(f, ed)
}

// stop records the terminal status and the unresolved findings. verified
// is false when fixes were applied after the last verifier pass, so that
// pass no longer describes the state.
func (r *run) stop(status Status, reason string, verified bool) {
	r.sess.Status = status
	r.sess.Reason = reason
	for _, f := range r.sess.Final() {
		u := Unresolved{Finding: f}
		a, tried := r.last[f.Key()]
		_, registered := r.e.catalog.Lookup(f.Signature)
		switch {
		case !f.Severity.Actionable():
			u.Reason = ReasonInformational
		case !registered:
			u.Reason = ReasonCatalogGap
			r.sess.addGap(f.Signature)
		case tried && a.outcome == catalog.OutcomeSkipped:
			u.Reason, u.Message = ReasonSkipped, a.message
		case tried && a.outcome == catalog.OutcomeFailed:
			u.Reason, u.Message = ReasonFailed, a.message
		case tried && !verified:
			u.Reason, u.Message = ReasonNotAttempted, "fix applied but not re-verified"
		case tried:
			u.Reason, u.Message = ReasonFailed, "fix applied but the finding persists"
		default:
			u.Reason = ReasonNotAttempted
		}
		r.sess.Unresolved = append(r.sess.Unresolved, u)
	}
}

func (r *run) finish() {
	r.sess.Finished = r.e.opts.Clock()
	r.sess.Timings = r.timer.Report()
	r.span.WithExtra("status", r.sess.Status.String()).End(r.sess.Reason)
	r.progress(Event{Kind: EventFinished, Iteration: len(r.sess.Iterations), Phase: PhaseDone, Status: r.sess.Status,
		Findings: len(r.sess.Final()), Remaining: r.sess.Final().Actionable()})
}

func (r *run) progress(ev Event) {
	ev.Session = r.sess.ID
	ev.Project = r.sess.Project
	ev.Max = r.e.opts.MaxIterations
	r.e.opts.Progress.emit(ev)
}
