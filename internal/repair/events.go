package repair

// EventKind tells progress consumers what happened.
type EventKind uint8

const (
	EventStarted EventKind = iota + 1
	EventVerifying
	EventVerified
	EventFixed
	EventFinished
)

// Event is a progress notification.
type Event struct {
	Kind      EventKind
	Session   string
	Project   string
	Iteration int
	Max       int
	Phase     Phase
	Findings  int // all findings of the current pass
	Remaining int // blocking + advisory
	Fix       *FixRecord
	Status    Status
}

// Sink receives progress events. With RunAll it is called from several
// goroutines and must be safe for concurrent use.
type Sink func(Event)

func (s Sink) emit(ev Event) {
	if s != nil {
		s(ev)
	}
}
