package project

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest is a fixed 256-bit content hash.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Short returns the first 12 hex digits.
func (d Digest) Short() string { return d.String()[:12] }

func hashContent(content []byte) Digest {
	return sha256.Sum256(content)
}

// Combine hashes content followed by deps. Callers must pass deps in a
// deterministic order.
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Digest summarises the whole state: unit names and contents in name order.
func (s *State) Digest() Digest {
	var acc Digest
	for _, name := range s.Names() {
		acc = Combine(acc, hashContent([]byte(name)), s.units[name].Hash)
	}
	return acc
}
