package source

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// Syntax holds the per-language conventions the checks rely on.
type Syntax struct {
	Comment string // doc comment prefix
}

// SyntaxFor picks conventions from the unit's extension.
func SyntaxFor(name string) Syntax {
	switch strings.ToLower(path.Ext(name)) {
	case ".go", ".rs", ".js", ".ts", ".sg", ".c", ".h":
		return Syntax{Comment: "//"}
	case ".r":
		return Syntax{Comment: "#'"}
	default:
		return Syntax{Comment: "#"}
	}
}

// IsDoc reports whether line is a doc comment line. A "#!" interpreter line
// is never documentation.
func (s Syntax) IsDoc(line string) bool {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "#!") {
		return false
	}
	return strings.HasPrefix(line, s.Comment)
}

// DocLine renders text as a doc comment line.
func (s Syntax) DocLine(text string) string {
	if text == "" {
		return s.Comment
	}
	return s.Comment + " " + text
}

var (
	declKeyword = regexp.MustCompile(`^(?:func|fn|def)\s+(?:\([^)]*\)\s*)?([A-Za-z_][A-Za-z0-9_]*)`)
	declAssign  = regexp.MustCompile(`^([A-Za-z_.][A-Za-z0-9_.]*)\s*<-\s*function\s*\(`)
	declRecv    = regexp.MustCompile(`^func\s+\(\s*(?:[A-Za-z_][A-Za-z0-9_]*\s+)?\*?\s*([A-Za-z_][A-Za-z0-9_]*)`)
)

// Func is one top-level function declaration.
type Func struct {
	Name     string
	Key      string   // unique within the unit, see Functions
	Line     int      // 0-based line of the declaration
	DocStart int      // first doc line; equals Line when undocumented
	Doc      []string // doc lines with the comment prefix removed
}

// Documented reports whether a doc block precedes the declaration.
func (f Func) Documented() bool { return f.DocStart < f.Line }

// HasTag reports whether a doc line starts with tag (e.g. "@return").
func (f Func) HasTag(tag string) bool {
	for _, line := range f.Doc {
		if strings.HasPrefix(strings.TrimSpace(line), tag) {
			return true
		}
	}
	return false
}

// Lines splits text on \n. Joining the result with \n gives text back.
func Lines(text string) []string {
	return strings.Split(text, "\n")
}

// DeclName returns the function declared on line, if any.
func DeclName(line string) (string, bool) {
	if m := declKeyword.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	if m := declAssign.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	return "", false
}

// Functions lists declarations in text in source order. Key is the name,
// qualified by the receiver type for methods ("Buffer.String"); a repeated
// key gets a "#n" suffix for its n-th occurrence ("String#2").
func Functions(text string, syn Syntax) []Func {
	lines := Lines(text)
	var out []Func
	seen := make(map[string]int)
	for i, line := range lines {
		name, ok := DeclName(line)
		if !ok {
			continue
		}
		key := name
		if m := declRecv.FindStringSubmatch(line); m != nil {
			key = m[1] + "." + name
		}
		seen[key]++
		if n := seen[key]; n > 1 {
			key = fmt.Sprintf("%s#%d", key, n)
		}
		start := i
		for start > 0 && syn.IsDoc(lines[start-1]) {
			start--
		}
		doc := make([]string, 0, i-start)
		for _, l := range lines[start:i] {
			l = strings.TrimPrefix(strings.TrimSpace(l), syn.Comment)
			doc = append(doc, strings.TrimPrefix(l, " "))
		}
		out = append(out, Func{Name: name, Key: key, Line: i, DocStart: start, Doc: doc})
	}
	return out
}

// FindFunc returns the declaration with the given Key.
func FindFunc(text string, syn Syntax, key string) (Func, bool) {
	for _, fn := range Functions(text, syn) {
		if fn.Key == key {
			return fn, true
		}
	}
	return Func{}, false
}

var importPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\s*import\s+"([^"]+)"`),
	regexp.MustCompile(`^\s*(?:library|require|requireNamespace)\(\s*["']?([A-Za-z0-9_.]+)["']?`),
	regexp.MustCompile(`^\s*use\s+([A-Za-z0-9_]+)(?:::[^;]*)?;`),
}

// Import is one package reference.
type Import struct {
	Package string
	Line    int
}

// Imports lists package references in source order, first occurrence only.
func Imports(text string) []Import {
	seen := make(map[string]struct{})
	var out []Import
	for i, line := range Lines(text) {
		for _, re := range importPatterns {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			pkg := m[1]
			if _, dup := seen[pkg]; !dup {
				seen[pkg] = struct{}{}
				out = append(out, Import{Package: pkg, Line: i})
			}
			break
		}
	}
	return out
}
