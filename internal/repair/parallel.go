package repair

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"

	"mend/internal/project"
	"mend/internal/trace"
)

// Result pairs a session with the error Run returned for it.
type Result struct {
	Session *Session
	Err     error
}

// RunAll repairs independent project states concurrently, at most jobs at a
// time (GOMAXPROCS when jobs <= 0). Results keep the order of states. One
// failing session does not cancel the others; the returned error joins every
// per-session error.
func RunAll(ctx context.Context, e *Engine, states []*project.State, jobs int) ([]Result, error) {
	results := make([]Result, len(states))
	if len(states) == 0 {
		return results, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "repair-all", trace.CurrentSpan(ctx).SpanID)
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID()})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(states)))

	for i, st := range states {
		i, st := i, st
		g.Go(func() error {
			// состояния независимы: у каждой горутины свой слот
			sess, err := e.Run(gctx, st)
			results[i] = Result{Session: sess, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	span.End("")
	return results, errors.Join(errs...)
}
