// Package check is the built-in verifier. It reports exactly the problems the
// built-in fixers know how to repair, plus informational findings that need a
// human.
package check

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mend/internal/finding"
	"mend/internal/project"
	"mend/internal/source"
)

// DefaultStdlib lists packages that never need a manifest dependency.
var DefaultStdlib = []string{
	"base", "stats", "utils", "methods", "graphics", "grDevices", "tools", "parallel",
	"std", "core", "alloc",
	"fmt", "os", "io", "strings", "errors", "context", "time", "sort",
	"sys", "re", "json", "math",
}

// Options configures the checker.
type Options struct {
	Manifest     string
	Exports      string
	License      string
	MaxUnitBytes int
	Stdlib       []string
}

func (o Options) withDefaults() Options {
	if o.Manifest == "" {
		o.Manifest = "package.toml"
	}
	if o.Exports == "" {
		o.Exports = "EXPORTS"
	}
	if o.License == "" {
		o.License = "LICENSE"
	}
	if o.Stdlib == nil {
		o.Stdlib = DefaultStdlib
	}
	return o
}

// Checker inspects a project state. It never mutates it.
type Checker struct {
	opts   Options
	stdlib map[string]struct{}
}

// New creates a checker.
func New(opts Options) *Checker {
	opts = opts.withDefaults()
	std := make(map[string]struct{}, len(opts.Stdlib))
	for _, p := range opts.Stdlib {
		std[p] = struct{}{}
	}
	return &Checker{opts: opts, stdlib: std}
}

// Name identifies the verifier in reports.
func (c *Checker) Name() string { return "builtin" }

// Verify runs every check over st and returns the sorted findings.
func (c *Checker) Verify(ctx context.Context, st *project.State) ([]finding.Finding, error) {
	if st == nil {
		return nil, errors.New("check: nil state")
	}
	var out finding.List

	man := c.checkManifest(st, &out)
	for _, u := range st.OfKind(project.KindSource) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c.checkSource(u, man, &out)
	}
	c.checkGenerated(st, &out)
	if c.opts.MaxUnitBytes > 0 {
		for _, u := range st.Units() {
			if len(u.Content) > c.opts.MaxUnitBytes {
				out = append(out, finding.Informational(SigLargeArtifact, finding.At(u.Name, ""),
					fmt.Sprintf("%d bytes exceeds %d", len(u.Content), c.opts.MaxUnitBytes)))
			}
		}
	}
	out.Sort()
	return out.Dedup(), nil
}

// checkManifest returns the decoded manifest, or nil when there is none or it
// does not parse.
func (c *Checker) checkManifest(st *project.State, out *finding.List) *project.Manifest {
	name := c.opts.Manifest
	u, ok := st.Get(name)
	if !ok {
		for _, field := range project.RequiredFields {
			*out = append(*out, finding.Blocking(SigManifestMissingField, finding.At(name, field), "manifest not found"))
		}
		return nil
	}
	m, err := project.ParseManifest(u.Content)
	if m == nil {
		*out = append(*out, finding.Blocking(SigManifestSyntax, finding.At(name, ""), err.Error()))
		return nil
	}
	for _, field := range m.MissingFields() {
		*out = append(*out, finding.Blocking(SigManifestMissingField, finding.At(name, field),
			fmt.Sprintf("[package] %s is required", field)))
	}
	if d := m.Package.Description; strings.TrimSpace(d) != "" && NormalizeDescription(d) != d {
		*out = append(*out, finding.Advisory(SigDescriptionFormat, finding.At(name, "description"),
			"description should be one capitalised sentence ending with a period"))
	}
	if NeedsLicenseFile(m.Package.License) && !st.Has(c.opts.License) {
		*out = append(*out, finding.Blocking(SigMissingLicenseFile, finding.At(c.opts.License, ""),
			fmt.Sprintf("licence %q references a missing file", m.Package.License)))
	}
	return m
}

func (c *Checker) checkSource(u project.Unit, man *project.Manifest, out *finding.List) {
	text := u.Text()
	syn := source.SyntaxFor(u.Name)

	if man != nil {
		for _, imp := range source.Imports(text) {
			if c.declared(imp.Package, man) {
				continue
			}
			*out = append(*out, finding.Blocking(SigUndeclaredImport, finding.At(u.Name, imp.Package),
				fmt.Sprintf("line %d uses %s, which is not in [dependencies]", imp.Line+1, imp.Package)))
		}
	}
	for _, fn := range source.Functions(text, syn) {
		switch {
		case !fn.Documented():
			*out = append(*out, finding.Blocking(SigMissingDoc, finding.At(u.Name, fn.Key),
				fmt.Sprintf("line %d: %s has no doc comment", fn.Line+1, fn.Key)))
		case fn.HasTag("@export") && !fn.HasTag("@return"):
			*out = append(*out, finding.Advisory(SigMissingReturnDoc, finding.At(u.Name, fn.Key),
				fmt.Sprintf("exported %s does not document its return value", fn.Key)))
		}
	}
	if line, ok := FirstNonASCII(text); ok {
		*out = append(*out, finding.Advisory(SigNonASCIISource, finding.At(u.Name, ""),
			fmt.Sprintf("first non-ASCII character on line %d", line+1)))
	}
	if n := TrailingWhitespaceLines(text); n > 0 {
		*out = append(*out, finding.Advisory(SigTrailingWhitespace, finding.At(u.Name, ""),
			fmt.Sprintf("%d lines end in whitespace", n)))
	}
	if text != "" && !strings.HasSuffix(text, "\n") {
		*out = append(*out, finding.Advisory(SigMissingFinalNewline, finding.At(u.Name, ""), ""))
	}
}

func (c *Checker) declared(pkg string, man *project.Manifest) bool {
	if _, ok := c.stdlib[pkg]; ok {
		return true
	}
	if pkg == man.Package.Name {
		return true
	}
	_, ok := man.Dependencies[pkg]
	return ok
}

func (c *Checker) checkGenerated(st *project.State, out *finding.List) {
	u, ok := st.Get(c.opts.Exports)
	if !ok {
		return
	}
	if u.Text() != ExpectedExports(st.OfKind(project.KindSource)) {
		*out = append(*out, finding.Advisory(SigStaleGenerated, finding.At(u.Name, ""),
			"generated exports do not match documented functions"))
	}
}
