package project

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"fortio.org/safecast"
)

var (
	// ErrUnitNotFound is returned when an edit targets a unit that does not exist.
	ErrUnitNotFound = errors.New("unit not found")
	// ErrUnitExists is returned by Create for a name already in use.
	ErrUnitExists = errors.New("unit already exists")
	// ErrEditorClosed is returned after Commit or Discard.
	ErrEditorClosed = errors.New("editor already closed")
)

// State is the mutable artifact tree a repair session works on.
// A State is owned by a single session at a time; it is not safe for
// concurrent use and holds no package-level caches.
type State struct {
	name    string
	root    string
	units   map[string]*Unit
	added   int
	journal *Journal
	now     func() time.Time

	// hashes recorded at load time, used by WriteDir to find dirty units
	baseline map[string]Digest
	// on-disk form of units whose bytes Normalize changed at load
	encoded map[string]diskForm
}

// Option configures a State.
type Option func(*State)

// WithClock overrides the time source used for mutation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *State) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRoot sets the on-disk directory the state mirrors.
func WithRoot(dir string) Option {
	return func(s *State) {
		s.root = dir
	}
}

// NewState creates an empty state.
func NewState(name string, opts ...Option) *State {
	s := &State{
		name:     name,
		units:    make(map[string]*Unit),
		journal:  &Journal{},
		now:      time.Now,
		baseline: make(map[string]Digest),
		encoded:  make(map[string]diskForm),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *State) Name() string { return s.name }
func (s *State) Root() string { return s.root }

// Journal returns the audit journal of committed mutations.
func (s *State) Journal() *Journal { return s.journal }

// Add populates the state with a unit. It is meant for loaders and tests and
// is not recorded as a mutation.
func (s *State) Add(name string, kind Kind, content []byte) UnitID {
	raw, err := safecast.Conv[uint32](s.added)
	if err != nil {
		panic(fmt.Errorf("unit id overflow: %w", err))
	}
	s.added++
	id := UnitID(raw)
	u := &Unit{
		ID:      id,
		Name:    name,
		Kind:    kind,
		Content: append([]byte(nil), content...),
		ModTime: s.now(),
		Hash:    hashContent(content),
		Mode:    0o644,
	}
	s.units[name] = u
	return id
}

// Get returns a copy of the named unit.
func (s *State) Get(name string) (Unit, bool) {
	u, ok := s.units[name]
	if !ok {
		return Unit{}, false
	}
	return u.clone(), true
}

// Has reports whether the unit exists.
func (s *State) Has(name string) bool {
	_, ok := s.units[name]
	return ok
}

// Len returns the number of units.
func (s *State) Len() int { return len(s.units) }

// Names returns unit names in sorted order.
func (s *State) Names() []string {
	names := make([]string, 0, len(s.units))
	for name := range s.units {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Units returns copies of all units sorted by name.
func (s *State) Units() []Unit {
	out := make([]Unit, 0, len(s.units))
	for _, name := range s.Names() {
		out = append(out, s.units[name].clone())
	}
	return out
}

// OfKind returns copies of units with the given kind, sorted by name.
func (s *State) OfKind(kind Kind) []Unit {
	out := make([]Unit, 0)
	for _, name := range s.Names() {
		if u := s.units[name]; u.Kind == kind {
			out = append(out, u.clone())
		}
	}
	return out
}

// Fingerprint summarises unit names and hashes; equal fingerprints mean equal content.
func (s *State) Fingerprint() map[string]Digest {
	fp := make(map[string]Digest, len(s.units))
	for name, u := range s.units {
		fp[name] = u.Hash
	}
	return fp
}

// Edit opens an attributed editor. Every change made through it is recorded
// against attr when committed.
func (s *State) Edit(attr Attribution) *Editor {
	return &Editor{
		st:     s,
		attr:   attr,
		staged: make(map[string]*stagedUnit),
	}
}

// markBaseline records current hashes as the on-disk baseline.
func (s *State) markBaseline() {
	s.baseline = make(map[string]Digest, len(s.units))
	for name, u := range s.units {
		s.baseline[name] = u.Hash
	}
}

// apply performs one mutation directly. Callers own journal bookkeeping.
func (s *State) apply(name string, kind Kind, content []byte, deleted bool) {
	if deleted {
		delete(s.units, name)
		return
	}
	if u, ok := s.units[name]; ok {
		u.Content = append([]byte(nil), content...)
		u.Hash = hashContent(content)
		u.ModTime = s.now()
		return
	}
	s.Add(name, kind, content)
}
