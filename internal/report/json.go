package report

import (
	"encoding/json"
	"io"

	"mend/internal/finding"
	"mend/internal/repair"
)

// JSON форматирует сессии в JSON формат.
func JSON(w io.Writer, sessions []*repair.Session, opts JSONOpts) error {
	return writeJSON(w, Build(sessions, opts))
}

// FindingsJSON форматирует результат одного прохода проверки.
func FindingsJSON(w io.Writer, project string, list finding.List) error {
	return writeJSON(w, BuildFindings(project, list))
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
