package project

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrPackageSectionMissing indicates that [package] is missing in a manifest.
var ErrPackageSectionMissing = errors.New("missing [package]")

// RequiredFields lists [package] keys every manifest must carry.
var RequiredFields = []string{"name", "version", "license", "description"}

// Manifest is the decoded manifest unit.
type Manifest struct {
	Package      PackageInfo       `toml:"package"`
	Dependencies map[string]string `toml:"dependencies,omitempty"`
}

// PackageInfo is the [package] table.
type PackageInfo struct {
	Name        string   `toml:"name,omitempty"`
	Version     string   `toml:"version,omitempty"`
	Title       string   `toml:"title,omitempty"`
	Description string   `toml:"description,omitempty"`
	License     string   `toml:"license,omitempty"`
	Authors     []string `toml:"authors,omitempty"`
}

// ParseManifest decodes manifest content. A document without [package] is
// still returned, together with ErrPackageSectionMissing.
func ParseManifest(content []byte) (*Manifest, error) {
	var m Manifest
	meta, err := toml.NewDecoder(bytes.NewReader(content)).Decode(&m)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if m.Dependencies == nil {
		m.Dependencies = make(map[string]string)
	}
	if !meta.IsDefined("package") {
		return &m, ErrPackageSectionMissing
	}
	return &m, nil
}

// Encode renders the manifest as TOML.
func (m *Manifest) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("failed to encode TOML: %w", err)
	}
	return buf.Bytes(), nil
}

// Field returns a [package] value by key.
func (m *Manifest) Field(key string) string {
	switch key {
	case "name":
		return m.Package.Name
	case "version":
		return m.Package.Version
	case "title":
		return m.Package.Title
	case "description":
		return m.Package.Description
	case "license":
		return m.Package.License
	case "authors":
		return strings.Join(m.Package.Authors, ", ")
	}
	return ""
}

// SetField assigns a [package] value by key. Unknown keys report false.
func (m *Manifest) SetField(key, value string) bool {
	switch key {
	case "name":
		m.Package.Name = value
	case "version":
		m.Package.Version = value
	case "title":
		m.Package.Title = value
	case "description":
		m.Package.Description = value
	case "license":
		m.Package.License = value
	default:
		return false
	}
	return true
}

// MissingFields lists required keys that are absent or blank, in RequiredFields order.
func (m *Manifest) MissingFields() []string {
	var out []string
	for _, key := range RequiredFields {
		if strings.TrimSpace(m.Field(key)) == "" {
			out = append(out, key)
		}
	}
	return out
}

// DependencyNames returns declared dependencies, sorted.
func (m *Manifest) DependencyNames() []string {
	names := make([]string, 0, len(m.Dependencies))
	for name := range m.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Manifest decodes the state's manifest unit.
func (s *State) Manifest(name string) (*Manifest, error) {
	u, ok := s.units[name]
	if !ok {
		return nil, fmt.Errorf("manifest %s: %w", name, ErrUnitNotFound)
	}
	return ParseManifest(u.Content)
}

// WriteManifest re-encodes m into the named unit through the editor.
func (e *Editor) WriteManifest(name string, m *Manifest) error {
	data, err := m.Encode()
	if err != nil {
		return err
	}
	return e.Write(name, data)
}
