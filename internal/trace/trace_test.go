package trace

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFilter(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelPhase, ScopeSession, true},
		{LevelPhase, ScopeIteration, false},
		{LevelDetail, ScopeIteration, true},
		{LevelDetail, ScopeFixer, false},
		{LevelDebug, ScopeFixer, true},
		{LevelError, ScopeDriver, false},
	}
	for _, tc := range cases {
		if got := tc.level.ShouldEmit(tc.scope); got != tc.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tc.level, tc.scope, got, tc.want)
		}
	}
	if !LevelError.Accepts(&Event{Kind: KindError, Scope: ScopeFixer}) {
		t.Error("error events must pass at error level")
	}
	if LevelOff.Accepts(&Event{Kind: KindError}) {
		t.Error("nothing passes at off")
	}
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatNDJSON)
	span := Begin(tr, ScopeSession, "session", 0)
	Point(tr, ScopeIteration, "iteration", "3 findings", span.ID(), "iteration", "1")
	Point(tr, ScopeFixer, "fixer", "", span.ID()) // filtered at detail
	span.WithExtra("status", "CONVERGED").End("done")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 events, got %d:\n%s", len(lines), buf.String())
	}
	var ev struct {
		Kind  string            `json:"kind"`
		Scope string            `json:"scope"`
		Extra map[string]string `json:"extra"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Kind != "point" || ev.Scope != "iteration" || ev.Extra["iteration"] != "1" {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestRingKeepsLastEvents(t *testing.T) {
	r := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(r, ScopeFixer, name, "", 0)
	}
	snap := r.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\u2022 c") {
		t.Fatalf("dump missing event: %q", buf.String())
	}
}

func TestMultiFansOut(t *testing.T) {
	var buf bytes.Buffer
	ring := NewRingTracer(8, LevelError)
	m := NewMultiTracer(LevelError, NewStreamTracer(&buf, LevelError, FormatText), ring)
	Error(m, ScopeFixer, "contract-violation", "boom", 0, "signature", "missing-doc")
	if m.Ring() != ring || len(ring.Snapshot()) != 1 {
		t.Fatal("ring did not receive the error")
	}
	if !strings.Contains(buf.String(), "{signature=missing-doc}") {
		t.Fatalf("stream output %q", buf.String())
	}
}

func TestSpanAttribution(t *testing.T) {
	open := OpenSpans()
	ring := NewRingTracer(32, LevelDebug)
	sess := BeginSession(ring, "session:demo", "abc-123", 0)
	it := sess.BeginIteration(2)
	fx := it.Child(ScopeFixer, "fixer:doc-stub")
	if OpenSpans() != open+3 {
		t.Fatalf("open spans = %d, want %d", OpenSpans(), open+3)
	}
	fx.Error("contract-violation", "boom", "signature", "missing-doc")
	fx.End("")
	it.End("")
	sess.End("")
	if OpenSpans() != open {
		t.Fatalf("open spans after end = %d, want %d", OpenSpans(), open)
	}

	events := ring.Snapshot()
	if len(events) != 7 {
		t.Fatalf("expected 7 events, got %d", len(events))
	}
	for _, ev := range events {
		if ev.Session != "abc-123" {
			t.Errorf("%s %s: session = %q", ev.Kind, ev.Name, ev.Session)
		}
	}
	fixBegin, errEv := events[2], events[3]
	if fixBegin.Iteration != 2 || fixBegin.ParentID != it.ID() {
		t.Fatalf("fixer span = %+v, want iteration 2 under %d", fixBegin, it.ID())
	}
	if errEv.Kind != KindError || errEv.ParentID != fx.ID() || errEv.Iteration != 2 {
		t.Fatalf("error event = %+v", errEv)
	}
	if got := string(FormatEvent(&errEv, FormatText)); !strings.Contains(got, "contract-violation [abc#2] (boom)") {
		t.Fatalf("text format = %q", got)
	}
}

func TestFilteredSpanKeepsAttribution(t *testing.T) {
	ring := NewRingTracer(8, LevelError)
	sess := BeginSession(ring, "session:demo", "s1", 0)
	fx := sess.BeginIteration(3).Child(ScopeFixer, "fixer:x")
	fx.Error("verify", "exit status 2")
	fx.End("")
	sess.End("")

	events := ring.Snapshot()
	if len(events) != 1 {
		t.Fatalf("expected only the error event, got %d", len(events))
	}
	if ev := events[0]; ev.Session != "s1" || ev.Iteration != 3 || ev.ParentID != 0 {
		t.Fatalf("error event = %+v", ev)
	}
}
