package finding

import "fmt"

// Location points into the project state: a unit name plus an optional
// sub-location (function name, manifest field, line marker).
type Location struct {
	Unit string
	Sub  string
}

func (l Location) String() string {
	if l.Sub == "" {
		return l.Unit
	}
	return l.Unit + ":" + l.Sub
}

// Less orders locations by unit, then sub-location.
func (l Location) Less(other Location) bool {
	if l.Unit != other.Unit {
		return l.Unit < other.Unit
	}
	return l.Sub < other.Sub
}

// Finding is an immutable record of one detected problem.
// It is a comparable value; never share a pointer to it across passes.
type Finding struct {
	Signature string
	Severity  Severity
	Location  Location
	Detail    string
}

// New builds a finding.
func New(sev Severity, signature string, loc Location, detail string) Finding {
	return Finding{
		Signature: signature,
		Severity:  sev,
		Location:  loc,
		Detail:    detail,
	}
}

func Blocking(signature string, loc Location, detail string) Finding {
	return New(SevBlocking, signature, loc, detail)
}

func Advisory(signature string, loc Location, detail string) Finding {
	return New(SevAdvisory, signature, loc, detail)
}

func Informational(signature string, loc Location, detail string) Finding {
	return New(SevInformational, signature, loc, detail)
}

// At is a shortcut for Location{Unit: unit, Sub: sub}.
func At(unit, sub string) Location {
	return Location{Unit: unit, Sub: sub}
}

// Key identifies the finding within one pass (signature + location).
func (f Finding) Key() string {
	return f.Signature + "@" + f.Location.String()
}

func (f Finding) String() string {
	if f.Detail == "" {
		return fmt.Sprintf("%s %s [%s]", f.Severity, f.Location, f.Signature)
	}
	return fmt.Sprintf("%s %s [%s]: %s", f.Severity, f.Location, f.Signature, f.Detail)
}
