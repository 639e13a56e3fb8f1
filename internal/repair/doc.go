// Package repair runs the verify, classify and fix loop over a project state.
//
// Each iteration asks the verifier for findings, stops when nothing blocking
// or advisory is left (CONVERGED), when the signature multiset repeats the
// previous pass (STALLED) or when the iteration ceiling is reached (ABORTED),
// and otherwise applies the catalog's fixers in priority order. Every pass,
// including the terminal one, is recorded in the session history.
package repair
