// Package resolve turns a parsed manifest's declared dependency tables
// into the set of identifiers the Pattern Engine should search source
// files for (spec §4.3). Two modes are supported: a manifest-only mode
// that derives the identifier purely from the declared key and an
// optional rename, and a metadata-assisted mode that shells out to an
// external metadata tool for the fully resolved, rename-aware extern
// name.
package resolve

import (
	"sort"
	"strings"

	"husk/internal/husklog"
	"husk/internal/manifest"
)

// Edge is one declared dependency, resolved to the identifier it would
// be referenced by from source.
type Edge struct {
	DeclaredKey string
	ExternName  string
	Table       string
}

// Mode selects how Resolve derives each Edge's ExternName.
type Mode int

const (
	// ManifestOnly derives ExternName from the manifest alone: an
	// explicit rename wins, then an explicit package-rename, then the
	// declared key itself, with hyphens folded to underscores.
	ManifestOnly Mode = iota
	// MetadataAssisted additionally consults an external metadata tool
	// for the resolved package graph, picking up renames the manifest
	// itself does not redeclare.
	MetadataAssisted
)

func normalize(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

func manifestIdentifier(key string, spec manifest.DependencySpec) string {
	switch {
	case spec.Rename != "":
		return normalize(spec.Rename)
	case spec.Package != "":
		return normalize(spec.Package)
	default:
		return normalize(key)
	}
}

// Resolve derives the edges for every declared dependency table in m. In
// MetadataAssisted mode, a failed metadata-tool invocation is surfaced to
// the caller as a package-level error (spec §4.3, §7:
// MetadataInvocationFailure) rather than silently degrading to
// manifest-only derivation.
func Resolve(m *manifest.Manifest, mode Mode, metadataCmd string) ([]Edge, error) {
	var metaByPackage map[string]string
	if mode == MetadataAssisted {
		out, err := runMetadata(metadataCmd, m.Path)
		if err != nil {
			return nil, err
		}
		metaByPackage = out.externNamesByPackage(m.Path)
	}

	var edges []Edge
	for _, table := range sortedTables(m.AllDependencyTables()) {
		for _, key := range sortedKeys(table.deps) {
			spec := table.deps[key]
			packageName := spec.Package
			if packageName == "" {
				packageName = key
			}
			extern := manifestIdentifier(key, spec)
			if metaByPackage != nil {
				if resolved, ok := metaByPackage[packageName]; ok {
					extern = resolved
				}
			}
			assertNoHyphen(extern)
			edges = append(edges, Edge{DeclaredKey: key, ExternName: extern, Table: table.name})
		}
	}
	return edges, nil
}

type namedTable struct {
	name string
	deps manifest.DependencyTable
}

func sortedTables(tables map[string]manifest.DependencyTable) []namedTable {
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]namedTable, 0, len(names))
	for _, name := range names {
		out = append(out, namedTable{name: name, deps: tables[name]})
	}
	return out
}

func sortedKeys(table manifest.DependencyTable) []string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// assertNoHyphen is the resolver's debug safety net: every extern name it
// hands back to the Pattern Engine must already be underscore-normalized.
// A hyphen surviving to this point means a code path forgot to normalize
// and is logged loudly rather than silently mismatching every search.
func assertNoHyphen(name string) {
	if strings.Contains(name, "-") {
		husklog.L().Debugw("resolver invariant violated: hyphenated extern name", "name", name)
	}
}
