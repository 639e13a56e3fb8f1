package verify

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Runner executes an external program in a directory.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (stdout []byte, err error)
}

// OSRunner runs real processes.
type OSRunner struct{}

// Run returns the captured stdout even when the process exits non-zero:
// checkers commonly signal findings through their exit code.
func (OSRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return stdout.Bytes(), fmt.Errorf("%s %v failed: %w: %s", name, args, err, bytes.TrimSpace(stderr.Bytes()))
		}
		return stdout.Bytes(), fmt.Errorf("%s %v failed: %w", name, args, err)
	}
	return stdout.Bytes(), nil
}
