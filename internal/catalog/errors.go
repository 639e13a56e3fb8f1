package catalog

import (
	"fmt"

	"mend/internal/finding"
)

// ContractViolation wraps a fixer panic. The finding is kept so the violation
// can be logged with full context.
type ContractViolation struct {
	Fixer   string
	Finding finding.Finding
	Value   any
	Stack   []byte
}

func (e *ContractViolation) Error() string {
	return fmt.Sprintf("fixer %s violated its contract on %s: %v", e.Fixer, e.Finding, e.Value)
}

// Unwrap exposes a panicked error value.
func (e *ContractViolation) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
