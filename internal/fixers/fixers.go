// Package fixers holds the built-in remediations for the checks in package check.
package fixers

import (
	"time"

	"mend/internal/catalog"
	"mend/internal/check"
	"mend/internal/project"
)

// Options configures the built-in fixers.
type Options struct {
	Manifest string // manifest unit name
	Exports  string // generated exports unit name
	Now      func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Manifest == "" {
		o.Manifest = "package.toml"
	}
	if o.Exports == "" {
		o.Exports = "EXPORTS"
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Register adds every built-in fixer to cat in the fixed registration order.
// large-artifact findings are informational and get no fixer.
func Register(cat *catalog.Catalog, opts Options) error {
	opts = opts.withDefaults()
	entries := []struct {
		sig        string
		fixer      catalog.Fixer
		idempotent bool
	}{
		{check.SigManifestMissingField, manifestField(opts), true},
		{check.SigUndeclaredImport, declareImport(opts), true},
		{check.SigMissingLicenseFile, licenseStub(opts), true},
		{check.SigMissingDoc, docStub(), true},
		{check.SigMissingReturnDoc, returnDoc(), true},
		{check.SigDescriptionFormat, descriptionFormat(opts), true},
		{check.SigNonASCIISource, Rewrite("ascii-fold", toASCII,
			WithKinds(project.KindSource), WithDescription("folded non-ASCII characters")), true},
		{check.SigStaleGenerated, regenerateExports(opts), true},
		{check.SigTrailingWhitespace, Rewrite("strip-trailing-whitespace", stripTrailingWhitespace,
			WithDescription("stripped trailing whitespace")), true},
		{check.SigMissingFinalNewline, Rewrite("final-newline", ensureFinalNewline,
			WithDescription("appended final newline")), true},
	}
	for _, e := range entries {
		if err := cat.Register(e.sig, e.fixer, e.idempotent); err != nil {
			return err
		}
	}
	return nil
}

// Builtin returns a catalog holding only the built-in fixers.
func Builtin(opts Options) *catalog.Catalog {
	cat := catalog.New()
	if err := Register(cat, opts); err != nil {
		panic(err)
	}
	return cat
}
