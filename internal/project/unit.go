package project

import (
	"os"
	"time"
)

// UnitID is a stable per-state identifier assigned on Add.
type UnitID uint32

// Kind classifies units for checks and reporting.
type Kind uint8

const (
	KindOther Kind = iota
	KindSource
	KindManifest
	KindGenerated
)

func (k Kind) String() string {
	switch k {
	case KindSource:
		return "source"
	case KindManifest:
		return "manifest"
	case KindGenerated:
		return "generated"
	default:
		return "other"
	}
}

// Unit is one named artifact of the project: a source file, the manifest or
// generated metadata.
type Unit struct {
	ID      UnitID
	Name    string // slash-separated, relative to State.Root
	Kind    Kind
	Content []byte
	ModTime time.Time
	Hash    Digest
	Mode    os.FileMode
}

// Text returns the unit content as a string.
func (u Unit) Text() string {
	return string(u.Content)
}

func (u Unit) clone() Unit {
	u.Content = append([]byte(nil), u.Content...)
	return u
}
