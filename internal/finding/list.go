package finding

import (
	"sort"
	"strconv"
	"strings"
)

// List is one verifier pass worth of findings.
// Treat it as read-only once produced; use Clone before reordering.
type List []Finding

// Clone returns an independent copy.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	return append(List(nil), l...)
}

// Count returns the number of findings with the given severity.
func (l List) Count(sev Severity) int {
	n := 0
	for i := range l {
		if l[i].Severity == sev {
			n++
		}
	}
	return n
}

// Actionable returns BLOCKING+ADVISORY count, the convergence measure.
func (l List) Actionable() int {
	n := 0
	for i := range l {
		if l[i].Severity.Actionable() {
			n++
		}
	}
	return n
}

// Signatures returns the multiset of signatures in the pass.
func (l List) Signatures() Multiset {
	ms := make(Multiset, len(l))
	for i := range l {
		ms[l[i].Signature]++
	}
	return ms
}

// Sort orders by location, then severity (desc), then signature, then detail.
// Stable and deterministic regardless of verifier output order.
func (l List) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		fi, fj := l[i], l[j]
		if fi.Location != fj.Location {
			return fi.Location.Less(fj.Location)
		}
		if fi.Severity != fj.Severity {
			return fi.Severity > fj.Severity
		}
		if fi.Signature != fj.Signature {
			return fi.Signature < fj.Signature
		}
		return fi.Detail < fj.Detail
	})
}

// Dedup drops exact duplicates, keeping first occurrence.
func (l List) Dedup() List {
	seen := make(map[Finding]struct{}, len(l))
	out := make(List, 0, len(l))
	for _, f := range l {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// Multiset counts signature occurrences; used for stall detection.
type Multiset map[string]int

// Equal reports whether both multisets hold the same signatures with the same counts.
func (m Multiset) Equal(other Multiset) bool {
	if len(m) != len(other) {
		return false
	}
	for sig, n := range m {
		if other[sig] != n {
			return false
		}
	}
	return true
}

func (m Multiset) String() string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k)
		if m[k] > 1 {
			sb.WriteByte('x')
			sb.WriteString(strconv.Itoa(m[k]))
		}
	}
	sb.WriteByte('}')
	return sb.String()
}
