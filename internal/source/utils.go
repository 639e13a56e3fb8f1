package source

import (
	"bytes"
	"slices"
)

// Flags records what Normalize changed.
type Flags uint8

const (
	HadBOM Flags = 1 << iota
	NormalizedCRLF
)

// Normalize strips a UTF-8 BOM and turns \r\n into \n. Lone \r is kept.
func Normalize(content []byte) ([]byte, Flags) {
	var flags Flags
	content, bom := removeBOM(content)
	if bom {
		flags |= HadBOM
	}
	content, crlf := normalizeCRLF(content)
	if crlf {
		flags |= NormalizedCRLF
	}
	return content, flags
}

// Denormalize puts back what Normalize removed: every \n becomes \r\n under
// NormalizedCRLF and the BOM returns under HadBOM. For content that used \r\n
// throughout, Denormalize(Normalize(x)) == x.
func Denormalize(content []byte, flags Flags) []byte {
	out := content
	if flags&NormalizedCRLF != 0 {
		out = bytes.ReplaceAll(out, []byte{'\n'}, []byte{'\r', '\n'})
	}
	if flags&HadBOM != 0 {
		out = append([]byte{0xEF, 0xBB, 0xBF}, out...)
	}
	return out
}

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}
	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}
