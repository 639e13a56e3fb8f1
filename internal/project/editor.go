package project

import (
	"bytes"
	"fmt"
	"sort"
)

type stagedUnit struct {
	kind    Kind
	content []byte
	deleted bool
}

// Editor is a staged, attributed view over a State handed to a single fixer
// invocation. Reads see staged edits; nothing reaches the State until Commit.
type Editor struct {
	st     *State
	attr   Attribution
	staged map[string]*stagedUnit
	order  []string
	closed bool
}

// Attribution returns the fixer invocation this editor records against.
func (e *Editor) Attribution() Attribution { return e.attr }

// ProjectName returns the name of the underlying state.
func (e *Editor) ProjectName() string { return e.st.name }

// Get returns the unit as seen through staged edits.
func (e *Editor) Get(name string) (Unit, bool) {
	if su, ok := e.staged[name]; ok {
		if su.deleted {
			return Unit{}, false
		}
		base, existed := e.st.units[name]
		u := Unit{Name: name, Kind: su.kind, Content: append([]byte(nil), su.content...), Hash: hashContent(su.content)}
		if existed {
			u.ID = base.ID
			u.ModTime = base.ModTime
			u.Mode = base.Mode
		}
		return u, true
	}
	return e.st.Get(name)
}

// Has reports whether the unit exists in the staged view.
func (e *Editor) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// Names lists units in the staged view, sorted.
func (e *Editor) Names() []string {
	set := make(map[string]struct{}, len(e.st.units)+len(e.staged))
	for name := range e.st.units {
		set[name] = struct{}{}
	}
	for name, su := range e.staged {
		if su.deleted {
			delete(set, name)
		} else {
			set[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OfKind lists units of the given kind in the staged view.
func (e *Editor) OfKind(kind Kind) []Unit {
	var out []Unit
	for _, name := range e.Names() {
		if u, ok := e.Get(name); ok && u.Kind == kind {
			out = append(out, u)
		}
	}
	return out
}

func (e *Editor) stage(name string, su *stagedUnit) {
	if _, ok := e.staged[name]; !ok {
		e.order = append(e.order, name)
	}
	e.staged[name] = su
}

// Write replaces the content of an existing unit.
func (e *Editor) Write(name string, content []byte) error {
	if e.closed {
		return ErrEditorClosed
	}
	u, ok := e.Get(name)
	if !ok {
		return fmt.Errorf("write %s: %w", name, ErrUnitNotFound)
	}
	e.stage(name, &stagedUnit{kind: u.Kind, content: append([]byte(nil), content...)})
	return nil
}

// Create adds a new unit.
func (e *Editor) Create(name string, kind Kind, content []byte) error {
	if e.closed {
		return ErrEditorClosed
	}
	if e.Has(name) {
		return fmt.Errorf("create %s: %w", name, ErrUnitExists)
	}
	e.stage(name, &stagedUnit{kind: kind, content: append([]byte(nil), content...)})
	return nil
}

// Delete removes a unit.
func (e *Editor) Delete(name string) error {
	if e.closed {
		return ErrEditorClosed
	}
	u, ok := e.Get(name)
	if !ok {
		return fmt.Errorf("delete %s: %w", name, ErrUnitNotFound)
	}
	e.stage(name, &stagedUnit{kind: u.Kind, deleted: true})
	return nil
}

// Changed reports whether committing would produce at least one mutation.
func (e *Editor) Changed() bool {
	for _, name := range e.order {
		if _, ok := e.diff(name); ok {
			return true
		}
	}
	return false
}

// diff computes the mutation staged for name, if any.
func (e *Editor) diff(name string) (Mutation, bool) {
	su := e.staged[name]
	base, existed := e.st.units[name]
	m := Mutation{Attribution: e.attr, Unit: name, UnitKind: su.kind}
	switch {
	case su.deleted && existed:
		m.Kind = MutationDelete
		m.Before = append([]byte(nil), base.Content...)
	case su.deleted:
		return Mutation{}, false
	case !existed:
		m.Kind = MutationCreate
		m.After = append([]byte(nil), su.content...)
	case bytes.Equal(base.Content, su.content):
		// одинаковое содержимое - не мутация
		return Mutation{}, false
	default:
		m.Kind = MutationUpdate
		m.Before = append([]byte(nil), base.Content...)
		m.After = append([]byte(nil), su.content...)
	}
	return m, true
}

// Commit applies staged edits to the state in staging order, appends them to
// the journal and returns the recorded mutations. Writing identical content
// records nothing.
func (e *Editor) Commit() []Mutation {
	if e.closed {
		return nil
	}
	e.closed = true
	var out []Mutation
	for _, name := range e.order {
		m, ok := e.diff(name)
		if !ok {
			continue
		}
		su := e.staged[name]
		e.st.apply(name, su.kind, su.content, su.deleted)
		m.At = e.st.now()
		m = e.st.journal.append(m)
		out = append(out, m)
	}
	e.staged = nil
	e.order = nil
	return out
}

// Discard drops all staged edits.
func (e *Editor) Discard() {
	e.closed = true
	e.staged = nil
	e.order = nil
}
