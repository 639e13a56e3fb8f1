package report

import (
	"fmt"
	"strings"
)

// Format selects a renderer.
type Format uint8

const (
	FormatPretty Format = iota
	FormatShort
	FormatJSON
	FormatSARIF
)

func (f Format) String() string {
	switch f {
	case FormatPretty:
		return "pretty"
	case FormatShort:
		return "short"
	case FormatJSON:
		return "json"
	case FormatSARIF:
		return "sarif"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// ParseFormat converts a --format value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pretty":
		return FormatPretty, nil
	case "short":
		return FormatShort, nil
	case "json":
		return FormatJSON, nil
	case "sarif":
		return FormatSARIF, nil
	default:
		return FormatPretty, fmt.Errorf("unknown format: %q (expected: pretty|short|json|sarif)", s)
	}
}

// PrettyOpts configures the human-readable report.
type PrettyOpts struct {
	Color      bool
	Width      int // максимальная ширина колонки detail, 0 - не ограничено
	Iterations bool
	Timings    bool
}

// JSONOpts configures JSON output.
type JSONOpts struct {
	IncludeIterations bool
	IncludeTimings    bool
	Max               int // обрезка unresolved, не сессий
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InformationURI string
	InvocationArgs []string
}

// Options bundles per-format settings; only the selected one is used.
type Options struct {
	Format Format
	Pretty PrettyOpts
	JSON   JSONOpts
	Sarif  SarifRunMeta
}
