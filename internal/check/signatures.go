package check

// Signatures emitted by the built-in checker, in catalog registration order.
const (
	SigManifestMissingField = "manifest-missing-field"
	SigUndeclaredImport     = "undeclared-import"
	SigMissingLicenseFile   = "missing-license-file"
	SigMissingDoc           = "missing-doc"
	SigMissingReturnDoc     = "missing-return-doc"
	SigDescriptionFormat    = "description-format"
	SigNonASCIISource       = "non-ascii-source"
	SigStaleGenerated       = "stale-generated"
	SigTrailingWhitespace   = "trailing-whitespace"
	SigMissingFinalNewline  = "missing-final-newline"
	SigLargeArtifact        = "large-artifact"

	// SigManifestSyntax has no fixer: a manifest that does not parse needs a human.
	SigManifestSyntax = "manifest-syntax"
)
