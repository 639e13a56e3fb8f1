package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"mend/internal/source"
)

// LoadOptions controls how a directory is turned into a State.
type LoadOptions struct {
	Manifest   string   // manifest unit name, e.g. "package.toml"
	Generated  []string // unit names produced by tooling, e.g. "EXPORTS"
	SourceExts []string // extensions (with dot) treated as source
}

// DefaultSourceExts lists extensions classified as KindSource.
var DefaultSourceExts = []string{".go", ".rs", ".js", ".ts", ".sg", ".c", ".h", ".py", ".r", ".R", ".sh", ".rb"}

// skipDir reports directories that never belong to the project state.
func skipDir(name string) bool {
	switch name {
	case ".git", ".mend", "node_modules":
		return true
	}
	return strings.HasPrefix(name, ".") && name != "."
}

// Classify returns the kind a unit name maps to under opts.
func (opts LoadOptions) Classify(name string) Kind {
	if opts.Manifest != "" && name == opts.Manifest {
		return KindManifest
	}
	for _, g := range opts.Generated {
		if name == g {
			return KindGenerated
		}
	}
	exts := opts.SourceExts
	if exts == nil {
		exts = DefaultSourceExts
	}
	ext := path.Ext(name)
	for _, e := range exts {
		if ext == e {
			return KindSource
		}
	}
	return KindOther
}

// LoadDir reads every regular file under dir into a new State named name.
// Content is normalized with source.Normalize; WriteDir and Export put the
// BOM and \r\n line endings back.
func LoadDir(dir, name string, opts LoadOptions, stOpts ...Option) (*State, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	if name == "" {
		abs, absErr := filepath.Abs(dir)
		if absErr != nil {
			return nil, absErr
		}
		name = filepath.Base(abs)
	}

	st := NewState(name, append([]Option{WithRoot(dir)}, stOpts...)...)
	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if p != dir && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, relErr := filepath.Rel(dir, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		fi, infoErr := d.Info()
		if infoErr != nil {
			return infoErr
		}
		content, readErr := os.ReadFile(p)
		if readErr != nil {
			return readErr
		}
		raw := content
		content, flags := source.Normalize(raw)
		if flags != 0 {
			st.encoded[rel] = diskForm{flags: flags, raw: raw, hash: hashContent(content)}
		}
		st.Add(rel, opts.Classify(rel), content)
		u := st.units[rel]
		u.ModTime = fi.ModTime()
		u.Mode = fi.Mode().Perm()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", dir, err)
	}
	st.markBaseline()
	return st, nil
}

// diskForm remembers the bytes of a unit as read, before Normalize.
type diskForm struct {
	flags source.Flags
	raw   []byte
	hash  Digest // hash of the normalized content
}

// diskBytes returns the bytes to write for u. A unit back at its loaded
// content is written exactly as it was read; an edited one gets its BOM and
// line endings re-applied.
func (s *State) diskBytes(u *Unit) []byte {
	df, ok := s.encoded[u.Name]
	if !ok {
		return u.Content
	}
	if u.Hash == df.hash {
		return df.raw
	}
	return source.Denormalize(u.Content, df.flags)
}

// FileOp is the disk operation behind a FileChange.
type FileOp string

const (
	FileWrite  FileOp = "write"
	FileCreate FileOp = "create"
	FileRemove FileOp = "remove"
)

// FileChange describes one file WriteDir touches.
type FileChange struct {
	Path string
	Op   FileOp
}

// Changes lists units that differ from the loaded baseline, sorted by path.
func (s *State) Changes() []FileChange {
	var out []FileChange
	for name, u := range s.units {
		base, ok := s.baseline[name]
		switch {
		case !ok:
			out = append(out, FileChange{Path: name, Op: FileCreate})
		case base != u.Hash:
			out = append(out, FileChange{Path: name, Op: FileWrite})
		}
	}
	for name := range s.baseline {
		if _, ok := s.units[name]; !ok {
			out = append(out, FileChange{Path: name, Op: FileRemove})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// WriteDir writes units changed since load back under dir (the state root when
// dir is empty) and removes deleted ones. Afterwards the written state becomes
// the new baseline.
func (s *State) WriteDir(dir string) ([]FileChange, error) {
	if dir == "" {
		dir = s.root
	}
	if dir == "" {
		return nil, errors.New("write state: no target directory")
	}
	changes := s.Changes()
	for _, ch := range changes {
		target := filepath.Join(dir, filepath.FromSlash(ch.Path))
		if ch.Op == FileRemove {
			if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("remove %s: %w", ch.Path, err)
			}
			continue
		}
		u := s.units[ch.Path]
		mode := u.Mode
		if mode == 0 {
			mode = 0o644
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, err
		}
		data := s.diskBytes(u)
		if err := os.WriteFile(target, data, mode); err != nil {
			return nil, fmt.Errorf("write %s: %w", ch.Path, err)
		}
		if df, ok := s.encoded[ch.Path]; ok {
			s.encoded[ch.Path] = diskForm{flags: df.flags, raw: data, hash: u.Hash}
		}
		// WriteFile не меняет права у существующего файла
		if err := os.Chmod(target, mode); err != nil {
			return nil, err
		}
	}
	s.markBaseline()
	return changes, nil
}

// Export writes every unit under dir regardless of the baseline. The state's
// own baseline is left untouched.
func (s *State) Export(dir string) error {
	for _, name := range s.Names() {
		u := s.units[name]
		target := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		mode := u.Mode
		if mode == 0 {
			mode = 0o644
		}
		if err := os.WriteFile(target, s.diskBytes(u), mode); err != nil {
			return fmt.Errorf("export %s: %w", name, err)
		}
	}
	return nil
}
