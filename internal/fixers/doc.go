package fixers

import (
	"fmt"
	"strings"

	"mend/internal/catalog"
	"mend/internal/check"
	"mend/internal/finding"
	"mend/internal/project"
	"mend/internal/source"
)

// docStub inserts a one-line title comment above an undocumented function.
// It does not write documentation prose; the title is the function name.
func docStub() catalog.Fixer {
	return catalog.Func("doc-stub", func(f finding.Finding, ed *project.Editor) catalog.Result {
		return editFunc(f, ed, func(syn source.Syntax, fn source.Func, lines []string) ([]string, catalog.Result) {
			if fn.Documented() {
				return nil, catalog.Skipped("%s is already documented", fn.Key)
			}
			stub := syn.DocLine(fn.Name)
			out := make([]string, 0, len(lines)+1)
			out = append(out, lines[:fn.Line]...)
			out = append(out, stub)
			out = append(out, lines[fn.Line:]...)
			return out, catalog.Applied("added doc stub for %s", fn.Key)
		})
	})
}

// returnDoc appends an @return line to an existing doc block.
func returnDoc() catalog.Fixer {
	return catalog.Func("return-doc", func(f finding.Finding, ed *project.Editor) catalog.Result {
		return editFunc(f, ed, func(syn source.Syntax, fn source.Func, lines []string) ([]string, catalog.Result) {
			if !fn.Documented() {
				return nil, catalog.Skipped("%s has no doc block", fn.Key)
			}
			if fn.HasTag("@return") {
				return nil, catalog.Skipped("%s already documents its return value", fn.Key)
			}
			out := make([]string, 0, len(lines)+1)
			out = append(out, lines[:fn.Line]...)
			out = append(out, syn.DocLine("@return Undocumented."))
			out = append(out, lines[fn.Line:]...)
			return out, catalog.Applied("added @return to %s", fn.Key)
		})
	})
}

// editFunc locates the function named by the finding and rewrites the unit
// with the lines edit returns.
func editFunc(f finding.Finding, ed *project.Editor,
	edit func(syn source.Syntax, fn source.Func, lines []string) ([]string, catalog.Result),
) catalog.Result {
	unit := mustUnit(f)
	if f.Location.Sub == "" {
		panic(fmt.Errorf("%s on %s: missing function name", f.Signature, unit))
	}
	u, ok := ed.Get(unit)
	if !ok {
		return catalog.Skipped("location no longer present")
	}
	syn := source.SyntaxFor(u.Name)
	fn, ok := source.FindFunc(u.Text(), syn, f.Location.Sub)
	if !ok {
		return catalog.Skipped("location no longer present")
	}
	lines, res := edit(syn, fn, source.Lines(u.Text()))
	if res.Outcome != catalog.OutcomeApplied {
		return res
	}
	if err := ed.Write(unit, []byte(strings.Join(lines, "\n"))); err != nil {
		return catalog.Failed(err)
	}
	return res
}

// regenerateExports rewrites the generated exports unit from the current sources.
func regenerateExports(opts Options) catalog.Fixer {
	return catalog.Func("regenerate-exports", func(f finding.Finding, ed *project.Editor) catalog.Result {
		unit := mustUnit(f)
		u, ok := ed.Get(unit)
		if !ok {
			return catalog.Skipped("location no longer present")
		}
		if unit != opts.Exports {
			return catalog.Skipped("%s is not the exports unit", unit)
		}
		want := check.ExpectedExports(ed.OfKind(project.KindSource))
		if u.Text() == want {
			return catalog.Skipped("exports already current")
		}
		if err := ed.Write(unit, []byte(want)); err != nil {
			return catalog.Failed(err)
		}
		return catalog.Applied("regenerated %s", unit)
	})
}
