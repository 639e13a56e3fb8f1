package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FindFile walks up from startDir to locate a file called name.
func FindFile(startDir, name string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// FindRoot returns the nearest directory at or above startDir that holds the
// manifest. When none exists, startDir itself is the root.
func FindRoot(startDir, manifest string) (string, error) {
	path, ok, err := FindFile(startDir, manifest)
	if err != nil {
		return "", err
	}
	if !ok {
		return filepath.Abs(startDir)
	}
	return filepath.Dir(path), nil
}
