// Package config handles loading and validation of mend configuration.
//
// Configuration is read from mend.toml, found by walking up from the project
// directory, or from an explicit --config path. Command-line flags override
// file values; missing keys keep their defaults.
//
// # Sections
//
//	[repair]
//	max_iterations = 25   # ceiling on verifier passes per session
//	jobs = 0              # parallel sessions, 0 = one per CPU
//	write = true          # write repaired units back to disk
//	journal = true        # persist mutations to .mend/journal
//
//	[verify]
//	command = []          # external checker argv; empty = built-in checks
//	format = "json"       # json | yaml
//
//	[check]
//	max_unit_bytes = 1048576
//	manifest = "package.toml"
//	exports = "EXPORTS"
//	license = "LICENSE"
//	stdlib = [...]        # imports that never need a dependency entry
//
//	[fixers]
//	disable = []          # signatures whose fixers are not registered
//
//	[report]
//	format = "pretty"     # pretty | short | json | sarif
//	color = "auto"        # auto | on | off
//
// Unknown keys are rejected so typos do not silently fall back to defaults.
package config
