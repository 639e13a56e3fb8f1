package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"mend/internal/catalog"
	"mend/internal/finding"
	"mend/internal/repair"
)

// palette holds per-call colour instances so concurrent renders with
// different settings do not touch color.NoColor.
type palette struct {
	ok, warn, bad, dim, bold *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		ok:   color.New(color.FgGreen, color.Bold),
		warn: color.New(color.FgYellow, color.Bold),
		bad:  color.New(color.FgRed, color.Bold),
		dim:  color.New(color.Faint),
		bold: color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.ok, p.warn, p.bad, p.dim, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) status(s repair.Status) string {
	switch s {
	case repair.StatusConverged:
		return p.ok.Sprint(s.String())
	case repair.StatusStalled:
		return p.warn.Sprint(s.String())
	default:
		return p.bad.Sprint(s.String())
	}
}

func (p palette) severity(sev finding.Severity) string {
	switch sev {
	case finding.SevBlocking:
		return p.bad.Sprint(sev.Level())
	case finding.SevAdvisory:
		return p.warn.Sprint(sev.Level())
	default:
		return p.dim.Sprint(sev.Level())
	}
}

func (p palette) outcome(o catalog.Outcome) string {
	switch o {
	case catalog.OutcomeApplied:
		return p.ok.Sprint(o.String())
	case catalog.OutcomeSkipped:
		return p.warn.Sprint(o.String())
	default:
		return p.bad.Sprint(o.String())
	}
}

// Pretty выводит человекочитаемый отчёт по сессиям.
func Pretty(w io.Writer, sessions []*repair.Session, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	var b strings.Builder
	for _, s := range sessions {
		if s == nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		prettySession(&b, p, s, opts)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func prettySession(b *strings.Builder, p palette, s *repair.Session, opts PrettyOpts) {
	fixes := 0
	for _, it := range s.Iterations {
		fixes += it.Applied()
	}
	fmt.Fprintf(b, "%s  %s  %d %s, %d %s, %d %s  %s\n",
		p.bold.Sprint(s.Project),
		p.status(s.Status),
		len(s.Iterations), plural(len(s.Iterations), "pass", "passes"),
		fixes, plural(fixes, "fix", "fixes"),
		len(s.Mutations()), plural(len(s.Mutations()), "mutation", "mutations"),
		p.dim.Sprintf("(%s)", s.Finished.Sub(s.Started).Round(time.Millisecond)),
	)
	if s.Reason != "" {
		fmt.Fprintf(b, "  %s\n", p.dim.Sprint(s.Reason))
	}

	if opts.Iterations {
		for _, it := range s.Iterations {
			prettyIteration(b, p, it, opts.Width)
		}
	}

	if len(s.Unresolved) > 0 {
		b.WriteString("  unresolved:\n")
		rows := make([][]string, 0, len(s.Unresolved))
		for _, u := range s.Unresolved {
			detail := u.Finding.Detail
			if u.Message != "" {
				detail = u.Message
			}
			rows = append(rows, []string{
				u.Finding.Severity.Level(),
				u.Finding.Signature,
				u.Finding.Location.String(),
				u.Reason.String(),
				truncate(detail, opts.Width),
			})
		}
		writeTable(b, "    ", rows, func(row int, col int, cell string) string {
			if col == 0 {
				return p.severity(s.Unresolved[row].Finding.Severity)
			}
			return cell
		})
	}
	if len(s.Gaps) > 0 {
		fmt.Fprintf(b, "  catalog gaps: %s\n", strings.Join(s.Gaps, ", "))
	}
	if opts.Timings && len(s.Timings.Phases) > 0 {
		b.WriteString("  timings:\n")
		for _, ph := range s.Timings.Phases {
			fmt.Fprintf(b, "    %s %8.2f ms  x%d\n", runewidth.FillRight(ph.Name, 12), ph.DurationMS, ph.Count)
		}
	}
}

func prettyIteration(b *strings.Builder, p palette, it repair.Iteration, width int) {
	before := finding.List(it.Before)
	fmt.Fprintf(b, "  pass %d: %d %s (%d blocking, %d advisory, %d informational)\n",
		it.Number, len(before), plural(len(before), "finding", "findings"),
		before.Count(finding.SevBlocking), before.Count(finding.SevAdvisory), before.Count(finding.SevInformational))
	if len(it.Fixes) == 0 && len(it.Gaps) == 0 {
		return
	}
	rows := make([][]string, 0, len(it.Fixes)+len(it.Gaps))
	for _, fx := range it.Fixes {
		msg := fx.Message
		if fx.Err != nil {
			msg = fx.Err.Error()
		}
		rows = append(rows, []string{fx.Outcome.String(), fx.Finding.Signature, fx.Finding.Location.String(), truncate(msg, width)})
	}
	for _, g := range it.Gaps {
		rows = append(rows, []string{"gap", g.Signature, g.Location.String(), "no fixer registered"})
	}
	writeTable(b, "    ", rows, func(row int, col int, cell string) string {
		if col != 0 {
			return cell
		}
		if row < len(it.Fixes) {
			return p.outcome(it.Fixes[row].Outcome)
		}
		return p.warn.Sprint(cell)
	})
}

// writeTable aligns columns by display width. decorate may colour a cell
// after padding has been computed from its plain text.
func writeTable(b *strings.Builder, indent string, rows [][]string, decorate func(row, col int, cell string) string) {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	for r, row := range rows {
		b.WriteString(indent)
		for c, cell := range row {
			last := c == len(row)-1
			pad := ""
			if !last {
				pad = strings.Repeat(" ", widths[c]-runewidth.StringWidth(cell)+2)
			}
			b.WriteString(decorate(r, c, cell))
			b.WriteString(pad)
		}
		b.WriteByte('\n')
	}
}

func truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// PrettyFindings выводит один проход проверки.
func PrettyFindings(w io.Writer, project string, list finding.List, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %d %s, %d actionable\n",
		p.bold.Sprint(project), len(list), plural(len(list), "finding", "findings"), list.Actionable())
	rows := make([][]string, 0, len(list))
	for _, f := range list {
		rows = append(rows, []string{f.Severity.Level(), f.Signature, f.Location.String(), truncate(f.Detail, opts.Width)})
	}
	writeTable(&b, "  ", rows, func(row, col int, cell string) string {
		if col == 0 {
			return p.severity(list[row].Severity)
		}
		return cell
	})
	_, err := io.WriteString(w, b.String())
	return err
}
