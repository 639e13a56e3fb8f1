package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks the start of a logical operation.
	KindSpanBegin Kind = iota + 1
	// KindSpanEnd marks the end of a logical operation.
	KindSpanEnd
	// KindPoint represents an instant event.
	KindPoint
	KindHeartbeat // periodic liveness signal
	// KindError is emitted at every level except off.
	KindError
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindHeartbeat:
		return "heartbeat"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity level of the event.
// Lower numeric values represent coarser events.
type Scope uint8

const (
	// ScopeDriver covers CLI commands and whole runs over many projects.
	ScopeDriver Scope = iota + 1
	// ScopeSession covers one repair session over one project.
	ScopeSession
	// ScopeIteration covers one verify/classify/fix round.
	ScopeIteration
	ScopeFixer // single fixer invocations (most detailed)
)

// String returns the string representation of Scope.
func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopeSession:
		return "session"
	case ScopeIteration:
		return "iteration"
	case ScopeFixer:
		return "fixer"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time         // wall-clock timestamp
	Seq      uint64            // global sequence number (monotonic)
	Kind     Kind              // event kind
	Scope    Scope             // granularity level
	SpanID   uint64            // unique span identifier
	ParentID uint64            // parent span (0 if root)
	GID      uint64            // goroutine ID (for concurrent sessions)
	Name     string            // e.g. "session", "verify", "fixer:doc-stub"
	Detail   string            // optional detail message
	Extra    map[string]string // extensible key-value pairs

	Session   string // repair session id, empty for driver events
	Iteration int    // 1-based iteration, 0 outside one
}
