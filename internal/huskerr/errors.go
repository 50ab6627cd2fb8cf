// Package huskerr defines the typed error kinds raised across husk's
// pipeline (spec §7). Most kinds wrap an underlying cause and a path for
// context; FixApplicationFailure carries the manifest path, the key and
// the tables searched instead of a cause, and ArgumentError carries only
// a cause. Callers compare with errors.As, never string matching.
package huskerr

import "fmt"

// ManifestParseFailure wraps an unreadable or malformed manifest.
// The offending package is logged and skipped by the coordinator.
type ManifestParseFailure struct {
	Path string
	Err  error
}

func (e *ManifestParseFailure) Error() string {
	return fmt.Sprintf("parse manifest %s: %v", e.Path, e.Err)
}

func (e *ManifestParseFailure) Unwrap() error { return e.Err }

// MetadataInvocationFailure wraps a failed metadata-tool subprocess call
// or an unparsable response, in metadata-assisted mode.
type MetadataInvocationFailure struct {
	ManifestPath string
	Err          error
}

func (e *MetadataInvocationFailure) Error() string {
	return fmt.Sprintf("invoke metadata tool for %s: %v", e.ManifestPath, e.Err)
}

func (e *MetadataInvocationFailure) Unwrap() error { return e.Err }

// FileWalkFailure wraps a directory-walk error. Logged per-entry; the
// walk continues past it.
type FileWalkFailure struct {
	Path string
	Err  error
}

func (e *FileWalkFailure) Error() string {
	return fmt.Sprintf("walk %s: %v", e.Path, e.Err)
}

func (e *FileWalkFailure) Unwrap() error { return e.Err }

// SearchFailure wraps a matcher I/O or decoding error on one file. Logged
// per-file; the file is treated as "not found" for that dependency.
type SearchFailure struct {
	Path string
	Err  error
}

func (e *SearchFailure) Error() string {
	return fmt.Sprintf("search %s: %v", e.Path, e.Err)
}

func (e *SearchFailure) Unwrap() error { return e.Err }

// FixApplicationFailure is returned when a requested removal target was
// not present in any expected dependency table.
type FixApplicationFailure struct {
	ManifestPath   string
	Name           string
	TablesSearched []string
}

func (e *FixApplicationFailure) Error() string {
	return fmt.Sprintf(
		"%s: dependency %q not found in any of the searched tables %v",
		e.ManifestPath, e.Name, e.TablesSearched,
	)
}

// ArgumentError wraps a CLI argument-parsing failure (exit code 2).
type ArgumentError struct {
	Err error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("argument error: %v", e.Err)
}

func (e *ArgumentError) Unwrap() error { return e.Err }
