// Package genfile defines the file-shaped value every emitter produces and
// the orchestrator, formatter, and writer stages pass along unchanged.
package genfile

// File is one generated artifact: a POSIX-style relative path and its
// UTF-8 text content. Order within a returned slice is fixed by the
// producing emitter, never reordered downstream.
type File struct {
	Path    string
	Content string
}

// Header is the fixed auto-generated banner every emitted TypeScript file
// opens with; cli/bin.ts carries it on the line after its shebang, and the
// JSON package manifests carry none.
const Header = "// Generated by @vertz/codegen. Do not edit by hand."
