package fixers

import (
	"fmt"

	"mend/internal/catalog"
	"mend/internal/finding"
	"mend/internal/project"
)

// errNoLocation is the panic value for findings without a unit.
var errNoLocation = fmt.Errorf("finding has no unit")

// mustUnit panics on a malformed finding; the repair loop turns the panic
// into a contract violation.
func mustUnit(f finding.Finding) string {
	if f.Location.Unit == "" {
		panic(fmt.Errorf("%s: %w", f.Signature, errNoLocation))
	}
	return f.Location.Unit
}

// rewriteFixer applies a pure text transformation to the finding's unit.
type rewriteFixer struct {
	name      string
	transform func(string) (string, error)
	kinds     []project.Kind
	applied   string
}

// Option mutates a rewrite fixer during construction.
type Option func(*rewriteFixer)

// WithKinds restricts the fixer to units of the given kinds.
func WithKinds(kinds ...project.Kind) Option {
	return func(r *rewriteFixer) {
		r.kinds = kinds
	}
}

// WithDescription sets the message reported on Applied.
func WithDescription(desc string) Option {
	return func(r *rewriteFixer) {
		r.applied = desc
	}
}

// Rewrite builds a fixer that replaces the unit content with transform(content).
func Rewrite(name string, transform func(string) (string, error), opts ...Option) catalog.Fixer {
	r := &rewriteFixer{name: name, transform: transform, applied: name}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *rewriteFixer) Name() string { return r.name }

func (r *rewriteFixer) Apply(f finding.Finding, ed *project.Editor) catalog.Result {
	unit := mustUnit(f)
	u, ok := ed.Get(unit)
	if !ok {
		return catalog.Skipped("location no longer present")
	}
	if len(r.kinds) > 0 && !kindIn(u.Kind, r.kinds) {
		return catalog.Skipped("%s units are not handled", u.Kind)
	}
	out, err := r.transform(u.Text())
	if err != nil {
		return catalog.Failed(err)
	}
	if out == u.Text() {
		return catalog.Skipped("nothing to change")
	}
	if err := ed.Write(unit, []byte(out)); err != nil {
		return catalog.Failed(err)
	}
	return catalog.Applied("%s in %s", r.applied, unit)
}

func kindIn(k project.Kind, kinds []project.Kind) bool {
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

// manifestFixer edits the decoded manifest.
type manifestFixer struct {
	name     string
	manifest string
	edit     func(f finding.Finding, m *project.Manifest, ed *project.Editor) catalog.Result
}

func (m *manifestFixer) Name() string { return m.name }

func (m *manifestFixer) Apply(f finding.Finding, ed *project.Editor) catalog.Result {
	mustUnit(f)
	u, ok := ed.Get(m.manifest)
	if !ok {
		return catalog.Skipped("no manifest %s", m.manifest)
	}
	man, err := project.ParseManifest(u.Content)
	if err != nil {
		return catalog.Failed(fmt.Errorf("%s: %w", m.manifest, err))
	}
	res := m.edit(f, man, ed)
	if res.Outcome != catalog.OutcomeApplied {
		return res
	}
	if err := ed.WriteManifest(m.manifest, man); err != nil {
		return catalog.Failed(err)
	}
	return res
}
