package finding

import (
	"fmt"
	"strings"
)

// Severity defines the importance of a finding.
// Ordering matters: higher values win priority ties.
type Severity uint8

const (
	// SevInformational is surfaced for human review only and never blocks convergence.
	SevInformational Severity = iota
	// SevAdvisory must reach zero before a session converges.
	SevAdvisory
	SevBlocking
)

func (s Severity) String() string {
	switch s {
	case SevInformational:
		return "INFORMATIONAL"
	case SevAdvisory:
		return "ADVISORY"
	case SevBlocking:
		return "BLOCKING"
	}
	return "UNKNOWN"
}

// Level maps severity to the error/warning/note vocabulary of check tools and SARIF.
func (s Severity) Level() string {
	switch s {
	case SevBlocking:
		return "error"
	case SevAdvisory:
		return "warning"
	default:
		return "note"
	}
}

// Actionable reports whether findings of this severity block convergence.
func (s Severity) Actionable() bool {
	return s >= SevAdvisory
}

// ParseSeverity converts checker vocabulary into a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "blocking", "error":
		return SevBlocking, nil
	case "advisory", "warning", "warn":
		return SevAdvisory, nil
	case "informational", "info", "note":
		return SevInformational, nil
	default:
		return SevInformational, fmt.Errorf("invalid severity: %q (expected: blocking|advisory|informational)", s)
	}
}

// MarshalText keeps documents and reports readable.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts both the enum names and error/warning/note.
func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
