package repair

import "fmt"

// Status is the terminal state of a session.
type Status uint8

const (
	StatusRunning Status = iota
	StatusConverged
	StatusStalled
	StatusAborted
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "RUNNING"
	case StatusConverged:
		return "CONVERGED"
	case StatusStalled:
		return "STALLED"
	case StatusAborted:
		return "ABORTED"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// IsTerminal reports whether the session has finished.
func (s Status) IsTerminal() bool {
	return s == StatusConverged || s == StatusStalled || s == StatusAborted
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Phase is the step the loop is in within one iteration.
type Phase uint8

const (
	PhaseVerifying Phase = iota + 1
	PhaseClassifying
	PhaseFixing
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseVerifying:
		return "VERIFYING"
	case PhaseClassifying:
		return "CLASSIFYING"
	case PhaseFixing:
		return "FIXING"
	case PhaseDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// Reason explains why a finding was left unresolved.
type Reason uint8

const (
	ReasonCatalogGap Reason = iota + 1
	ReasonSkipped
	ReasonFailed
	ReasonInformational
	ReasonNotAttempted
)

func (r Reason) String() string {
	switch r {
	case ReasonCatalogGap:
		return "catalog-gap"
	case ReasonSkipped:
		return "skipped"
	case ReasonFailed:
		return "failed"
	case ReasonInformational:
		return "informational"
	case ReasonNotAttempted:
		return "not-attempted"
	default:
		return "unknown"
	}
}

func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}
