// Package finding defines the structured problem records consumed by the
// repair engine.
//
// # Data model
//
// Finding is the central record. It contains:
//
//   - Signature – stable identifier of the problem class ("missing-doc",
//     "undeclared-import", ...). Fixers are dispatched on it.
//   - Severity – BLOCKING, ADVISORY or INFORMATIONAL (error/warning/note).
//   - Location – unit name plus optional sub-location.
//   - Detail – opaque payload; only the matched fixer interprets it.
//
// Findings are values. A verifier pass produces a fresh List and never
// mutates an earlier one, so snapshots kept in session history stay valid.
//
// Package finding does no IO and no formatting. Rendering lives in
// internal/report, dispatch in internal/catalog.
package finding
