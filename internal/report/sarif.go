package report

import (
	"io"
	"path"
	"sort"

	"mend/internal/finding"
	"mend/internal/repair"
)

const sarifSchema = "https://json.schemastore.org/sarif-2.1.0.json"

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name            string      `json:"name"`
	SemanticVersion string      `json:"semanticVersion,omitempty"`
	InformationURI  string      `json:"informationUri,omitempty"`
	Rules           []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID                   string       `json:"id"`
	Name                 string       `json:"name"`
	ShortDescription     sarifMessage `json:"shortDescription"`
	DefaultConfiguration struct {
		Level string `json:"level"`
	} `json:"defaultConfiguration"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID     string            `json:"ruleId"`
	RuleIndex  int               `json:"ruleIndex"`
	Level      string            `json:"level"`
	Message    sarifMessage      `json:"message"`
	Locations  []sarifLocation   `json:"locations,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation struct {
		ArtifactLocation struct {
			URI string `json:"uri"`
		} `json:"artifactLocation"`
	} `json:"physicalLocation"`
	LogicalLocations []sarifLogical `json:"logicalLocations,omitempty"`
}

type sarifLogical struct {
	Name string `json:"name"`
}

// sarifItem is one finding plus the context it was reported in.
type sarifItem struct {
	project string
	f       finding.Finding
	reason  string
	message string
}

// Sarif выводит нерешённые находки сессий в формате SARIF 2.1.0.
func Sarif(w io.Writer, sessions []*repair.Session, meta SarifRunMeta) error {
	var items []sarifItem
	for _, s := range sessions {
		if s == nil {
			continue
		}
		for _, u := range s.Unresolved {
			items = append(items, sarifItem{
				project: s.Project,
				f:       u.Finding,
				reason:  u.Reason.String(),
				message: u.Message,
			})
		}
	}
	return writeJSON(w, buildSarif(items, meta, ExitCode(sessions) == 0))
}

// FindingsSarif выводит один проход проверки в формате SARIF 2.1.0.
func FindingsSarif(w io.Writer, project string, list finding.List, meta SarifRunMeta) error {
	items := make([]sarifItem, 0, len(list))
	for _, f := range list {
		items = append(items, sarifItem{project: project, f: f})
	}
	return writeJSON(w, buildSarif(items, meta, true))
}

func buildSarif(items []sarifItem, meta SarifRunMeta, ok bool) sarifLog {
	name := meta.ToolName
	if name == "" {
		name = "mend"
	}

	// Правила: по одному на сигнатуру, максимальная встреченная серьёзность.
	worst := make(map[string]finding.Severity)
	for _, it := range items {
		if sev, seen := worst[it.f.Signature]; !seen || it.f.Severity > sev {
			worst[it.f.Signature] = it.f.Severity
		}
	}
	ids := make([]string, 0, len(worst))
	for id := range worst {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	index := make(map[string]int, len(ids))
	rules := make([]sarifRule, 0, len(ids))
	for i, id := range ids {
		index[id] = i
		r := sarifRule{ID: id, Name: id, ShortDescription: sarifMessage{Text: id}}
		r.DefaultConfiguration.Level = worst[id].Level()
		rules = append(rules, r)
	}

	results := make([]sarifResult, 0, len(items))
	for _, it := range items {
		res := sarifResult{
			RuleID:    it.f.Signature,
			RuleIndex: index[it.f.Signature],
			Level:     it.f.Severity.Level(),
			Message:   sarifMessage{Text: sarifText(it.f)},
		}
		if it.f.Location.Unit != "" {
			var loc sarifLocation
			loc.PhysicalLocation.ArtifactLocation.URI = path.Join(it.project, it.f.Location.Unit)
			if it.f.Location.Sub != "" {
				loc.LogicalLocations = []sarifLogical{{Name: it.f.Location.Sub}}
			}
			res.Locations = []sarifLocation{loc}
		}
		props := map[string]string{"severity": it.f.Severity.String()}
		if it.reason != "" {
			props["reason"] = it.reason
		}
		if it.message != "" {
			props["message"] = it.message
		}
		res.Properties = props
		results = append(results, res)
	}

	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:            name,
			SemanticVersion: meta.ToolVersion,
			InformationURI:  meta.InformationURI,
			Rules:           rules,
		}},
		Results: results,
	}
	if len(meta.InvocationArgs) > 0 {
		run.Invocations = []sarifInvocation{{
			Arguments:           append([]string(nil), meta.InvocationArgs...),
			ExecutionSuccessful: ok,
		}}
	}
	return sarifLog{Schema: sarifSchema, Version: "2.1.0", Runs: []sarifRun{run}}
}

func sarifText(f finding.Finding) string {
	if f.Detail != "" {
		return f.Detail
	}
	return f.Signature + " at " + f.Location.String()
}
