package fixers

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"mend/internal/source"
)

func stripTrailingWhitespace(text string) (string, error) {
	lines := source.Lines(text)
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n"), nil
}

func ensureFinalNewline(text string) (string, error) {
	if text == "" || strings.HasSuffix(text, "\n") {
		return text, nil
	}
	return text + "\n", nil
}

var asciiPunct = strings.NewReplacer(
	"\u2018", "'", "\u2019", "'", "\u201A", "'",
	"\u201C", `"`, "\u201D", `"`, "\u201E", `"`,
	"\u2013", "-", "\u2014", "-", "\u2212", "-",
	"\u2026", "...", "\u00A0", " ",
	"\u00AB", "<<", "\u00BB", ">>",
)

// toASCII folds text to ASCII: typographic punctuation becomes its ASCII
// form, accents are removed after NFKD decomposition, and whatever remains
// is written as a \u escape.
func toASCII(text string) (string, error) {
	text = asciiPunct.Replace(text)
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		return "", fmt.Errorf("fold to ascii: %w", err)
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r < unicode.MaxASCII+1:
			b.WriteRune(r)
		case r <= 0xFFFF:
			fmt.Fprintf(&b, `\u%04X`, r)
		default:
			fmt.Fprintf(&b, `\U%08X`, r)
		}
	}
	return b.String(), nil
}
