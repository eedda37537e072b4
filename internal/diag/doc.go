// Package diag defines the diagnostic model shared by every stage of a
// vipyrdocs run.
//
// # Purpose
//
//   - Provide deterministic, serialisable records for findings produced by the
//     rule evaluator, the Python front end and the driver.
//   - Hold the immutable code table: every rule code, its name and its message
//     template live in codes.go and messages.go and are never mutated after init.
//   - Offer a bounded Bag so the driver can aggregate per-file results
//     without coupling to storage or formatting.
//
// # Scope
//
// Package diag does not perform formatting of whole reports, IO or CLI work.
// Rendering lives in internal/diagfmt, orchestration in internal/driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error). Rule diagnostics are
//     always errors; warnings are reserved for front-end trouble such as
//     syntax errors that did not stop the check.
//   - Code – compact numeric identifier with a stable string form ("DCO030").
//   - Message – fully rendered text including the more-info URL suffix.
//   - Primary – byte span when the producer knows it.
//   - Loc – 1-based line/column, always filled for rule diagnostics.
//   - Notes – optional secondary locations.
//
// Diagnostics are values. They carry no reference to the definition that
// produced them, so they can be cached (internal/driver stores them with
// msgpack) and compared byte for byte in tests.
//
// # Emitting diagnostics
//
// Rule diagnostics are built with NewAt (line/column known, span unknown),
// run-level ones with New or NewError and, where useful, WithNote. Producers
// return slices; the driver rebinds them to a FileSet file with WithFile and
// appends them to a Bag in file order. The Bag never reorders.
package diag
