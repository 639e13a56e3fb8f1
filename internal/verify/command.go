package verify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"mend/internal/finding"
	"mend/internal/project"
)

// Command runs an external checker. Each pass exports the state into a fresh
// scratch directory, runs Argv there and decodes stdout as a findings document.
type Command struct {
	Argv    []string
	Format  Format
	Runner  Runner
	TempDir string // parent for scratch directories; os.TempDir when empty
}

// NewCommand builds a command verifier running on the host.
func NewCommand(argv []string, format Format) *Command {
	return &Command{Argv: argv, Format: format, Runner: OSRunner{}}
}

func (c *Command) Name() string {
	if len(c.Argv) == 0 {
		return "command"
	}
	return strings.Join(c.Argv, " ")
}

func (c *Command) Verify(ctx context.Context, st *project.State) ([]finding.Finding, error) {
	if len(c.Argv) == 0 {
		return nil, errors.New("verify: empty command")
	}
	if st == nil {
		return nil, errors.New("verify: nil state")
	}
	dir, err := os.MkdirTemp(c.TempDir, "mend-verify-*")
	if err != nil {
		return nil, fmt.Errorf("verify: scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	if err := st.Export(dir); err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	runner := c.Runner
	if runner == nil {
		runner = OSRunner{}
	}
	out, runErr := runner.Run(ctx, dir, c.Argv[0], c.Argv[1:]...)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	findings, decodeErr := Decode(out, c.Format)
	if decodeErr != nil {
		if runErr != nil {
			return nil, runErr
		}
		return nil, decodeErr
	}
	// ненулевой код выхода при валидном выводе - это просто найденные проблемы
	if runErr != nil && len(findings) == 0 {
		return nil, runErr
	}
	return findings, nil
}
