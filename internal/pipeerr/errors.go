// Package pipeerr defines the pipeline's error taxonomy (spec.md §7). Every
// error the pipeline returns to a caller wraps one of these sentinels so
// callers can branch on failure class with errors.Is/errors.As.
package pipeerr

import "errors"

// ErrUnsupportedExternalRef is returned by the schema converter (C4) when a
// $ref does not begin with "#". Fatal to generate.
var ErrUnsupportedExternalRef = errors.New("unsupported external $ref")

// ErrInvalidSchema is returned by the schema converter (C4) when a schema
// fragment fails JSON Schema compilation. Fatal to generate.
var ErrInvalidSchema = errors.New("invalid json schema")

// ErrUnresolvedSchemaRef signals an internal invariant violation in the IR
// adapter (C5): an operation's schemaRefs[slot] names a schema that does not
// exist in the Codegen IR. Should be unreachable for a well-formed App IR;
// surfaces a producer bug.
var ErrUnresolvedSchemaRef = errors.New("unresolved schema reference")

// ErrFormatterFailure names the non-fatal formatter (C10) failure class: the
// formatter's output is discarded and the original files proceed
// downstream. No pipeline code returns it: format.Run reports a failure
// only as applied=false, Generate discards that flag, and GenerateResult
// carries no diagnostics.
var ErrFormatterFailure = errors.New("formatter failed, passing through unformatted files")

// ErrConfig wraps configuration validation failures (C12). Generate returns
// it, and stops, when Validate reports any message; Validate itself returns
// plain messages, and a caller that calls it directly decides whether to
// proceed.
var ErrConfig = errors.New("invalid configuration")

// ErrIO wraps any filesystem failure surfaced by the incremental writer
// (C11). Fatal; no rollback of prior writes.
var ErrIO = errors.New("io error")
