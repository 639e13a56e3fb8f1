package project

import "time"

// MutationKind describes what a committed edit did to a unit.
type MutationKind uint8

const (
	MutationUpdate MutationKind = iota + 1
	MutationCreate
	MutationDelete
)

func (k MutationKind) String() string {
	switch k {
	case MutationUpdate:
		return "update"
	case MutationCreate:
		return "create"
	case MutationDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Attribution ties an edit to exactly one fixer invocation.
type Attribution struct {
	Session   string
	Iteration int
	Fixer     string
	Signature string
	Location  string
}

// Mutation is one committed change to one unit, with enough content to revert it.
type Mutation struct {
	ID          uint64
	Attribution Attribution
	Unit        string
	UnitKind    Kind
	Kind        MutationKind
	Before      []byte
	After       []byte
	At          time.Time
}
