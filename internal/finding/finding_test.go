package finding

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want Severity
	}{
		{"error", SevBlocking},
		{"BLOCKING", SevBlocking},
		{"warning", SevAdvisory},
		{" advisory ", SevAdvisory},
		{"note", SevInformational},
		{"info", SevInformational},
	}
	for _, tt := range tests {
		got, err := ParseSeverity(tt.in)
		if err != nil {
			t.Fatalf("ParseSeverity(%q): unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseSeverity(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseSeverity("fatal"); err == nil {
		t.Error("expected error for unknown severity")
	}
}

func TestSeverityOrderingAndLevel(t *testing.T) {
	if !(SevBlocking > SevAdvisory && SevAdvisory > SevInformational) {
		t.Fatal("severity ordering broken")
	}
	if SevInformational.Actionable() {
		t.Error("informational must not be actionable")
	}
	if SevBlocking.Level() != "error" || SevAdvisory.Level() != "warning" || SevInformational.Level() != "note" {
		t.Error("unexpected level mapping")
	}
}

func TestListCountsAndMultiset(t *testing.T) {
	l := List{
		Blocking("a", At("u1", ""), ""),
		Advisory("b", At("u1", ""), ""),
		Advisory("b", At("u2", ""), ""),
		Informational("c", At("u3", ""), ""),
	}
	if got := l.Actionable(); got != 3 {
		t.Fatalf("Actionable() = %d, want 3", got)
	}
	if got := l.Count(SevInformational); got != 1 {
		t.Fatalf("Count(info) = %d, want 1", got)
	}
	ms := l.Signatures()
	if diff := cmp.Diff(Multiset{"a": 1, "b": 2, "c": 1}, ms); diff != "" {
		t.Fatalf("Signatures() mismatch (-want +got):\n%s", diff)
	}
	if ms.Equal(Multiset{"a": 1, "b": 1, "c": 1}) {
		t.Error("multisets with different counts compared equal")
	}
	if !ms.Equal(l.Clone().Signatures()) {
		t.Error("clone produced a different multiset")
	}
	if got := ms.String(); got != "{a, bx2, c}" {
		t.Errorf("String() = %q", got)
	}
}

func TestListSortIsDeterministic(t *testing.T) {
	l := List{
		Informational("c", At("fn", ""), ""),
		Advisory("b", At("fn", ""), ""),
		Blocking("z", At("alpha", ""), ""),
		Blocking("a", At("fn", ""), ""),
	}
	l.Sort()
	var got []string
	for _, f := range l {
		got = append(got, f.Signature)
	}
	want := []string{"z", "a", "b", "c"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("sort order mismatch (-want +got):\n%s", diff)
	}
}

func TestDedup(t *testing.T) {
	f := Blocking("a", At("u", "x"), "d")
	l := List{f, f, Advisory("a", At("u", "x"), "d")}
	if got := len(l.Dedup()); got != 2 {
		t.Fatalf("Dedup() len = %d, want 2", got)
	}
}
