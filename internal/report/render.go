package report

import (
	"fmt"
	"io"

	"mend/internal/finding"
	"mend/internal/repair"
)

// Render writes the session report in the selected format.
func Render(w io.Writer, sessions []*repair.Session, opts Options) error {
	switch opts.Format {
	case FormatPretty:
		return Pretty(w, sessions, opts.Pretty)
	case FormatShort:
		return Short(w, sessions)
	case FormatJSON:
		return JSON(w, sessions, opts.JSON)
	case FormatSARIF:
		return Sarif(w, sessions, opts.Sarif)
	default:
		return fmt.Errorf("unknown format: %s", opts.Format)
	}
}

// RenderFindings writes a single check pass in the selected format.
func RenderFindings(w io.Writer, project string, list finding.List, opts Options) error {
	switch opts.Format {
	case FormatPretty:
		return PrettyFindings(w, project, list, opts.Pretty)
	case FormatShort:
		return ShortFindings(w, project, list)
	case FormatJSON:
		return FindingsJSON(w, project, list)
	case FormatSARIF:
		return FindingsSarif(w, project, list, opts.Sarif)
	default:
		return fmt.Errorf("unknown format: %s", opts.Format)
	}
}
