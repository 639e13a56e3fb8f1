package catalog

import (
	"fmt"

	"mend/internal/finding"
	"mend/internal/project"
)

// Fixer remediates one class of finding. Apply stages its edits on ed; the
// caller decides whether they are committed.
//
// Expected domain failures are reported as Skipped or Failed. A fixer may
// panic only when the finding it received is malformed.
type Fixer interface {
	Name() string
	Apply(f finding.Finding, ed *project.Editor) Result
}

// FixerFunc adapts a function to Fixer.
type FixerFunc struct {
	ID string
	Fn func(f finding.Finding, ed *project.Editor) Result
}

func (ff FixerFunc) Name() string { return ff.ID }

func (ff FixerFunc) Apply(f finding.Finding, ed *project.Editor) Result {
	return ff.Fn(f, ed)
}

// Func builds a FixerFunc.
func Func(name string, fn func(f finding.Finding, ed *project.Editor) Result) Fixer {
	return FixerFunc{ID: name, Fn: fn}
}

// Entry binds a signature to its fixer.
type Entry struct {
	Signature  string
	Fixer      Fixer
	Idempotent bool
	Order      int // registration position
}

// DuplicateSignatureError is returned when a signature is registered twice.
type DuplicateSignatureError struct {
	Signature string
	Existing  string
}

func (e *DuplicateSignatureError) Error() string {
	return fmt.Sprintf("signature %q already registered to fixer %q", e.Signature, e.Existing)
}

// Catalog maps finding signatures to fixers. It is populated once at startup
// and read-only afterwards, so concurrent sessions may share it.
type Catalog struct {
	entries []Entry
	index   map[string]int
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{index: make(map[string]int)}
}

// Register binds signature to fixer.
func (c *Catalog) Register(signature string, fixer Fixer, idempotent bool) error {
	if signature == "" {
		return fmt.Errorf("catalog: empty signature")
	}
	if fixer == nil {
		return fmt.Errorf("catalog: nil fixer for %q", signature)
	}
	if i, ok := c.index[signature]; ok {
		return &DuplicateSignatureError{Signature: signature, Existing: c.entries[i].Fixer.Name()}
	}
	c.index[signature] = len(c.entries)
	c.entries = append(c.entries, Entry{
		Signature:  signature,
		Fixer:      fixer,
		Idempotent: idempotent,
		Order:      len(c.entries),
	})
	return nil
}

// MustRegister is Register that panics; duplicates are a programming error.
func (c *Catalog) MustRegister(signature string, fixer Fixer, idempotent bool) {
	if err := c.Register(signature, fixer, idempotent); err != nil {
		panic(err)
	}
}

// Lookup returns the entry for signature.
func (c *Catalog) Lookup(signature string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	i, ok := c.index[signature]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Entries returns entries in registration order.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	return append([]Entry(nil), c.entries...)
}

// Signatures returns registered signatures in registration order.
func (c *Catalog) Signatures() []string {
	out := make([]string, 0, c.Len())
	for _, e := range c.Entries() {
		out = append(out, e.Signature)
	}
	return out
}

// Without returns a copy of the catalog minus the given signatures. Remaining
// entries keep their relative order.
func (c *Catalog) Without(signatures ...string) *Catalog {
	drop := make(map[string]struct{}, len(signatures))
	for _, s := range signatures {
		drop[s] = struct{}{}
	}
	out := New()
	for _, e := range c.Entries() {
		if _, ok := drop[e.Signature]; ok {
			continue
		}
		out.MustRegister(e.Signature, e.Fixer, e.Idempotent)
	}
	return out
}
