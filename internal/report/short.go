package report

import (
	"fmt"
	"io"
	"path"
	"strings"

	"mend/internal/finding"
	"mend/internal/repair"
)

// Short prints one line per session and one per unresolved finding, in a
// form editors and grep can consume.
func Short(w io.Writer, sessions []*repair.Session) error {
	var b strings.Builder
	for _, s := range sessions {
		if s == nil {
			continue
		}
		fixes := 0
		for _, it := range s.Iterations {
			fixes += it.Applied()
		}
		fmt.Fprintf(&b, "%s: %s after %d passes, %d fixes applied\n", s.Project, s.Status, len(s.Iterations), fixes)
		for _, u := range s.Unresolved {
			b.WriteString(shortLine(s.Project, u.Finding))
			fmt.Fprintf(&b, " [%s]\n", u.Reason)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// ShortFindings prints one line per finding.
func ShortFindings(w io.Writer, project string, list finding.List) error {
	var b strings.Builder
	for _, f := range list {
		b.WriteString(shortLine(project, f))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func shortLine(project string, f finding.Finding) string {
	loc := path.Join(project, f.Location.Unit)
	if f.Location.Sub != "" {
		loc += ":" + f.Location.Sub
	}
	line := fmt.Sprintf("%s: %s %s", loc, f.Severity.Level(), f.Signature)
	if f.Detail != "" {
		line += ": " + f.Detail
	}
	return line
}
