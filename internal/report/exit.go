package report

import (
	"mend/internal/finding"
	"mend/internal/repair"
)

// ExitCode is 0 when every session converged and 1 otherwise. A nil session
// stands for a project that could not be repaired at all.
func ExitCode(sessions []*repair.Session) int {
	for _, s := range sessions {
		if s == nil || s.Status != repair.StatusConverged {
			return 1
		}
	}
	return 0
}

// FindingsExitCode is 1 when any blocking or advisory finding remains.
func FindingsExitCode(list finding.List) int {
	if list.Actionable() > 0 {
		return 1
	}
	return 0
}
