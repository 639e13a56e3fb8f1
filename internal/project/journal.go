package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when journalPayload format changes
const journalSchemaVersion uint16 = 1

// ErrRollbackConflict is returned when a unit changed after the mutation being reverted.
var ErrRollbackConflict = errors.New("unit changed after mutation")

// Journal is the append-only record of committed mutations of one State.
type Journal struct {
	entries []Mutation
	nextID  uint64
}

func (j *Journal) append(m Mutation) Mutation {
	j.nextID++
	m.ID = j.nextID
	j.entries = append(j.entries, m)
	return m
}

// Len returns the number of recorded mutations.
func (j *Journal) Len() int { return len(j.entries) }

// Entries returns a copy of recorded mutations in commit order.
func (j *Journal) Entries() []Mutation {
	return append([]Mutation(nil), j.entries...)
}

// Select returns mutations matching pred in commit order.
func (j *Journal) Select(pred func(Mutation) bool) []Mutation {
	var out []Mutation
	for _, m := range j.entries {
		if pred == nil || pred(m) {
			out = append(out, m)
		}
	}
	return out
}

// BySession matches mutations of one repair session.
func BySession(id string) func(Mutation) bool {
	return func(m Mutation) bool { return m.Attribution.Session == id }
}

// ByFixer matches mutations of one fixer.
func ByFixer(name string) func(Mutation) bool {
	return func(m Mutation) bool { return m.Attribution.Fixer == name }
}

// ByIDs matches mutations with the given ids.
func ByIDs(ids ...uint64) func(Mutation) bool {
	set := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return func(m Mutation) bool {
		_, ok := set[m.ID]
		return ok
	}
}

// All matches every mutation.
func All(Mutation) bool { return true }

// Rollback reverts the selected mutations newest-first and removes them from
// the journal. A unit that changed after a selected mutation (by a mutation
// that is not being reverted) yields ErrRollbackConflict and nothing is reverted.
func (s *State) Rollback(pred func(Mutation) bool) ([]Mutation, error) {
	selected := make(map[uint64]bool)
	for _, m := range s.journal.entries {
		if pred(m) {
			selected[m.ID] = true
		}
	}
	if len(selected) == 0 {
		return nil, nil
	}
	// конфликт: после выбранной мутации юнит менял кто-то ещё
	newer := make(map[string]uint64)
	for i := len(s.journal.entries) - 1; i >= 0; i-- {
		m := s.journal.entries[i]
		if !selected[m.ID] {
			if _, ok := newer[m.Unit]; !ok {
				newer[m.Unit] = m.ID
			}
			continue
		}
		if later, ok := newer[m.Unit]; ok {
			return nil, fmt.Errorf("rollback mutation %d on %s: %w (mutation %d)", m.ID, m.Unit, ErrRollbackConflict, later)
		}
	}

	var reverted []Mutation
	kept := make([]Mutation, 0, len(s.journal.entries)-len(selected))
	for i := len(s.journal.entries) - 1; i >= 0; i-- {
		m := s.journal.entries[i]
		if !selected[m.ID] {
			continue
		}
		switch m.Kind {
		case MutationCreate:
			s.apply(m.Unit, m.UnitKind, nil, true)
		case MutationDelete, MutationUpdate:
			s.apply(m.Unit, m.UnitKind, m.Before, false)
		}
		reverted = append(reverted, m)
	}
	for _, m := range s.journal.entries {
		if !selected[m.ID] {
			kept = append(kept, m)
		}
	}
	s.journal.entries = kept
	return reverted, nil
}

// journalPayload is the on-disk form of a journal.
type journalPayload struct {
	Schema    uint16
	Project   string
	NextID    uint64
	Mutations []Mutation
}

// SaveJournal writes the journal to path atomically.
func (s *State) SaveJournal(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "journal-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		// после успешного Rename файла уже нет
		_ = os.Remove(tmp)
	}()

	payload := journalPayload{
		Schema:    journalSchemaVersion,
		Project:   s.name,
		NextID:    s.journal.nextID,
		Mutations: s.journal.entries,
	}
	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode journal: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadJournal replaces the state's journal with the one stored at path.
// A missing file leaves an empty journal and is not an error.
func (s *State) LoadJournal(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()

	var payload journalPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return fmt.Errorf("decode journal %s: %w", path, err)
	}
	if payload.Schema != journalSchemaVersion {
		return fmt.Errorf("journal %s: unsupported schema %d", path, payload.Schema)
	}
	s.journal = &Journal{entries: payload.Mutations, nextID: payload.NextID}
	return nil
}

// ErrJournalStale is returned by CheckJournal when units were edited outside
// the journal since it was written.
var ErrJournalStale = errors.New("journal does not match project content")

// CheckJournal verifies that every journaled unit still holds the content its
// newest mutation left behind.
func (s *State) CheckJournal() error {
	seen := make(map[string]bool)
	for i := len(s.journal.entries) - 1; i >= 0; i-- {
		m := s.journal.entries[i]
		if seen[m.Unit] {
			continue
		}
		seen[m.Unit] = true
		u, ok := s.units[m.Unit]
		switch {
		case m.Kind == MutationDelete && ok:
			return fmt.Errorf("%s was recreated: %w", m.Unit, ErrJournalStale)
		case m.Kind != MutationDelete && !ok:
			return fmt.Errorf("%s was removed: %w", m.Unit, ErrJournalStale)
		case ok && u.Hash != hashContent(m.After):
			return fmt.Errorf("%s was modified: %w", m.Unit, ErrJournalStale)
		}
	}
	return nil
}
