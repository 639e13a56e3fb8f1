package verify

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"mend/internal/finding"
)

// Format is the encoding of a findings document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml and yml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown findings format %q (want json or yaml)", s)
	}
}

// Document is the findings document an external checker prints.
type Document struct {
	Findings []Entry `json:"findings" yaml:"findings"`
}

// Entry is one finding in a Document.
type Entry struct {
	Signature string `json:"signature" yaml:"signature"`
	Severity  string `json:"severity" yaml:"severity"`
	Unit      string `json:"unit" yaml:"unit"`
	Sub       string `json:"sub,omitempty" yaml:"sub,omitempty"`
	Detail    string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Decode parses data as a findings document.
func Decode(data []byte, format Format) ([]finding.Finding, error) {
	var doc Document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode yaml findings: %w", err)
		}
	case FormatJSON, "":
		if len(strings.TrimSpace(string(data))) == 0 {
			return nil, nil
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode json findings: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown findings format %q", format)
	}
	out := make([]finding.Finding, 0, len(doc.Findings))
	for i, e := range doc.Findings {
		if e.Signature == "" {
			return nil, fmt.Errorf("finding %d: empty signature", i)
		}
		sev, err := finding.ParseSeverity(e.Severity)
		if err != nil {
			return nil, fmt.Errorf("finding %d (%s): %w", i, e.Signature, err)
		}
		out = append(out, finding.New(sev, e.Signature, finding.At(e.Unit, e.Sub), e.Detail))
	}
	return out, nil
}

// Encode renders findings as a document, the inverse of Decode.
func Encode(findings []finding.Finding, format Format) ([]byte, error) {
	doc := Document{Findings: make([]Entry, 0, len(findings))}
	for _, f := range findings {
		doc.Findings = append(doc.Findings, Entry{
			Signature: f.Signature,
			Severity:  strings.ToLower(f.Severity.String()),
			Unit:      f.Location.Unit,
			Sub:       f.Location.Sub,
			Detail:    f.Detail,
		})
	}
	if format == FormatYAML {
		return yaml.Marshal(&doc)
	}
	return json.MarshalIndent(&doc, "", "  ")
}
