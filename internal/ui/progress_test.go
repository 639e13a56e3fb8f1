package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"mend/internal/catalog"
	"mend/internal/repair"
)

func TestApplyEventTracksProjects(t *testing.T) {
	events := make(chan repair.Event)
	m := NewProgressModel("mend repair", []string{"alpha", "beta"}, events).(*progressModel)

	m.applyEvent(repair.Event{Kind: repair.EventStarted, Project: "alpha", Max: 25})
	m.applyEvent(repair.Event{Kind: repair.EventVerified, Project: "alpha", Iteration: 1, Max: 25, Remaining: 3})
	m.applyEvent(repair.Event{
		Kind:    repair.EventFixed,
		Project: "alpha",
		Fix:     &repair.FixRecord{Outcome: catalog.OutcomeApplied},
	})
	m.applyEvent(repair.Event{Kind: repair.EventFinished, Project: "beta", Status: repair.StatusStalled})
	m.applyEvent(repair.Event{Kind: repair.EventStarted, Project: "unknown"})

	if got := m.items[0]; got.status != "fixing" || got.iteration != 1 || got.remaining != 3 {
		t.Errorf("alpha = %+v", got)
	}
	if got := m.items[1]; got.status != "stalled" || !got.finished {
		t.Errorf("beta = %+v", got)
	}
	if m.applied != 1 {
		t.Errorf("applied = %d, want 1", m.applied)
	}

	view := m.View()
	for _, want := range []string{"1 fixes applied", "pass 1/25", "alpha (3 left)", "beta"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestProgressFromItem(t *testing.T) {
	tests := []struct {
		item projectItem
		want float64
	}{
		{projectItem{}, 0},
		{projectItem{iteration: 1, max: 30}, 0.1},
		{projectItem{iteration: 20, max: 25}, 0.9},
		{projectItem{finished: true}, 1},
	}
	for _, tt := range tests {
		if got := progressFromItem(tt.item); got < tt.want-1e-9 || got > tt.want+1e-9 {
			t.Errorf("progressFromItem(%+v) = %v, want %v", tt.item, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefghij", 8); got != "abcde..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abc", 0); got != "abc" {
		t.Errorf("truncate unlimited = %q", got)
	}
}

func TestQuitKeyInterrupts(t *testing.T) {
	m := NewProgressModel("mend repair", []string{"alpha"}, make(chan repair.Event))
	if Interrupted(m) {
		t.Fatal("fresh model reported interrupted")
	}
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil || !Interrupted(next) {
		t.Fatal("ctrl+c should quit and mark the model interrupted")
	}
}
