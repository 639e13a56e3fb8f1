package catalog

import (
	"sort"

	"mend/internal/finding"
)

// Candidate is a finding paired with its catalog entry, if any.
type Candidate struct {
	Finding finding.Finding
	Entry   Entry
	Matched bool
	order   int
}

// Order resolves findings against the catalog and sorts them into the order
// fixers are applied in: by location (unit, then sub-location), then severity
// descending, then registration order with unregistered signatures last, then
// input order.
func (c *Catalog) Order(findings []finding.Finding) []Candidate {
	cands := make([]Candidate, 0, len(findings))
	for i, f := range findings {
		e, ok := c.Lookup(f.Signature)
		cands = append(cands, Candidate{Finding: f, Entry: e, Matched: ok, order: i})
	}
	sort.SliceStable(cands, func(i, j int) bool {
		fi, fj := cands[i].Finding, cands[j].Finding
		if fi.Location.Unit != fj.Location.Unit {
			return fi.Location.Unit < fj.Location.Unit
		}
		if fi.Location.Sub != fj.Location.Sub {
			return fi.Location.Sub < fj.Location.Sub
		}
		if fi.Severity != fj.Severity {
			return fi.Severity > fj.Severity
		}
		if cands[i].Matched != cands[j].Matched {
			return cands[i].Matched
		}
		if cands[i].Matched && cands[i].Entry.Order != cands[j].Entry.Order {
			return cands[i].Entry.Order < cands[j].Entry.Order
		}
		return cands[i].order < cands[j].order
	})
	return cands
}
