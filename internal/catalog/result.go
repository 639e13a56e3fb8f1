package catalog

import "fmt"

// Outcome is the kind of Result a fixer produced.
type Outcome uint8

const (
	OutcomeApplied Outcome = iota + 1
	OutcomeSkipped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Result is the outcome of one fixer invocation.
type Result struct {
	Outcome Outcome
	Message string // description for Applied, reason for Skipped
	Err     error  // cause for Failed
}

// Applied reports a remediation that staged changes.
func Applied(format string, args ...any) Result {
	return Result{Outcome: OutcomeApplied, Message: fmt.Sprintf(format, args...)}
}

// Skipped reports that the fixer chose not to act.
func Skipped(format string, args ...any) Result {
	return Result{Outcome: OutcomeSkipped, Message: fmt.Sprintf(format, args...)}
}

// Failed reports a fixer that tried and could not complete.
func Failed(err error) Result {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return Result{Outcome: OutcomeFailed, Message: msg, Err: err}
}

func (r Result) String() string {
	if r.Message == "" {
		return r.Outcome.String()
	}
	return r.Outcome.String() + ": " + r.Message
}
