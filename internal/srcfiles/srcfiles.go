// Package srcfiles computes the source-file roots of a package (spec
// §4.2) and enumerates every source file under them. It deliberately does
// not honor ignore rules — only the manifest-discovery walk does (spec
// §5) — so a vendored or generated directory under a declared root is
// still scanned for usage, erring toward the spec's stated bias against
// false positives (a declared dependency used only from a vendored copy
// must still count as used).
package srcfiles

import (
	"io/fs"
	"path/filepath"

	"husk/internal/huskerr"
	"husk/internal/husklog"
	"husk/internal/manifest"
)

// sourceExt is the source language's standard extension. husk targets
// the same Cargo-shaped ecosystem the spec describes throughout (crate
// identifiers, `extern crate`, `use` imports), so this is ".rs" — the one
// constant in the whole pipeline that encodes "which language", kept in
// one place so retargeting the tool to a sibling ecosystem is a one-line
// change.
const sourceExt = ".rs"

const defaultRoot = "src"

// Roots returns the set of source-root directories for m, per §4.2:
// the union of the library root, and the parent directory of every
// declared bin/bench/test/example path; falling back to the single
// default root "src/" when nothing is declared.
func Roots(m *manifest.Manifest) []string {
	seen := make(map[string]bool)
	var roots []string
	add := func(declaredPath string) {
		if declaredPath == "" {
			return
		}
		dir := filepath.Dir(filepath.Join(m.Dir, filepath.FromSlash(declaredPath)))
		if !seen[dir] {
			seen[dir] = true
			roots = append(roots, dir)
		}
	}

	add(m.Layout.LibPath)
	for _, p := range m.Layout.BinPaths {
		add(p)
	}
	for _, p := range m.Layout.BenchPaths {
		add(p)
	}
	for _, p := range m.Layout.TestPaths {
		add(p)
	}
	for _, p := range m.Layout.ExamplePaths {
		add(p)
	}

	if len(roots) == 0 {
		roots = []string{filepath.Join(m.Dir, defaultRoot)}
	}
	return roots
}

// Enumerate walks every root and returns every regular file with the
// source extension. Directory-walk errors are logged and the offending
// entry skipped (spec §4.2/§7); a root that doesn't exist at all yields
// no files (a declared bench/test root is allowed to not exist yet), and
// its walk error is logged like any other.
func Enumerate(roots []string) []string {
	var files []string
	for _, root := range roots {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				wrapped := &huskerr.FileWalkFailure{Path: path, Err: err}
				husklog.L().Warnw("source enumeration walk error", "error", wrapped)
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if filepath.Ext(path) == sourceExt {
				files = append(files, path)
			}
			return nil
		})
	}
	return files
}
