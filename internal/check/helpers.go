package check

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"mend/internal/project"
	"mend/internal/source"
)

// ExportsHeader starts every generated exports unit.
const ExportsHeader = "# Generated by mend: do not edit by hand"

// ExpectedExports renders the exports unit for the given source units: one
// export(name) line per documented function tagged @export, sorted.
func ExpectedExports(units []project.Unit) string {
	var names []string
	seen := make(map[string]struct{})
	for _, u := range units {
		if u.Kind != project.KindSource {
			continue
		}
		for _, fn := range source.Functions(u.Text(), source.SyntaxFor(u.Name)) {
			if !fn.Documented() || !fn.HasTag("@export") {
				continue
			}
			if _, ok := seen[fn.Name]; ok {
				continue
			}
			seen[fn.Name] = struct{}{}
			names = append(names, fn.Name)
		}
	}
	sort.Strings(names)
	var b strings.Builder
	b.WriteString(ExportsHeader)
	b.WriteByte('\n')
	b.WriteByte('\n')
	for _, name := range names {
		b.WriteString("export(")
		b.WriteString(name)
		b.WriteString(")\n")
	}
	return b.String()
}

// NormalizeDescription trims and collapses whitespace, capitalises the first
// letter and makes sure the text ends with sentence punctuation.
func NormalizeDescription(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	s = string(unicode.ToUpper(r)) + s[size:]
	switch s[len(s)-1] {
	case '.', '!', '?':
	default:
		s += "."
	}
	return s
}

// NeedsLicenseFile reports whether a licence string points at a LICENSE file,
// as in "MIT + file LICENSE".
func NeedsLicenseFile(license string) bool {
	return strings.Contains(license, "file LICENSE")
}

// FirstNonASCII returns the 0-based line of the first non-ASCII byte.
func FirstNonASCII(text string) (int, bool) {
	for i, line := range source.Lines(text) {
		for j := 0; j < len(line); j++ {
			if line[j] >= utf8.RuneSelf {
				return i, true
			}
		}
	}
	return 0, false
}

// TrailingWhitespaceLines counts lines ending in spaces or tabs.
func TrailingWhitespaceLines(text string) int {
	n := 0
	for _, line := range source.Lines(text) {
		if strings.TrimRight(line, " \t") != line {
			n++
		}
	}
	return n
}
