// Package manifest models a package manifest in the style of Cargo.toml:
// an optional package name, up to three dependency tables (runtime, dev,
// build), any number of per-target dependency tables, optional explicit
// source-layout overrides, and metadata-carried ignore lists (spec §3).
package manifest

// ManifestFileName is the well-known manifest filename the discovery walk
// looks for under every input root.
const ManifestFileName = "husk.toml"

// DependencySpec is one declared dependency line. Package carries an
// explicit rename target (`pkg = { package = "other" }`); when empty the
// declared key itself names the package.
type DependencySpec struct {
	Package string `toml:"package"`
	Version string `toml:"version"`
	Path    string `toml:"path"`
	Rename  string `toml:"rename"`
}

// DependencyTable maps declared-key to spec. It keeps no source order,
// and Go map iteration order is not stable, so callers that need
// determinism (the resolver does) sort the keys themselves.
type DependencyTable map[string]DependencySpec

// TargetTable is one `[target.<predicate>.dependencies]`-shaped table.
type TargetTable struct {
	Predicate    string
	Dependencies DependencyTable
}

// PackageMetadata is the `package.metadata.husk` subtree: currently only
// the ignore list (spec §3, §4.4).
type PackageMetadata struct {
	Ignored []string `toml:"ignored"`
}

// Package is the `[package]` table. Its absence (Manifest.HasPackage ==
// false) marks a pure workspace root.
type Package struct {
	Name string `toml:"name"`
}

// SourceLayout carries explicit target paths, when the manifest overrides
// the default root-selection rules of §4.2.
type SourceLayout struct {
	LibPath      string   `toml:"lib_path"`
	BinPaths     []string `toml:"bin_paths"`
	BenchPaths   []string `toml:"bench_paths"`
	TestPaths    []string `toml:"test_paths"`
	ExamplePaths []string `toml:"example_paths"`
}

// WorkspaceMetadata is the `workspace.metadata.husk` subtree.
type WorkspaceMetadata struct {
	Ignored []string `toml:"ignored"`
}

// Manifest is the abstract view of one parsed manifest file, described in
// spec §3.
type Manifest struct {
	Path string // path to the manifest file, as passed to ParseFile
	Dir  string // directory containing the manifest

	HasPackage bool
	Package    Package

	Dependencies      DependencyTable
	DevDependencies   DependencyTable
	BuildDependencies DependencyTable
	TargetTables      []TargetTable

	Layout SourceLayout

	PackageMetadata PackageMetadata

	IsWorkspaceRoot   bool
	WorkspaceMetadata WorkspaceMetadata

	// WorkspaceIgnored is populated post-parse by Inherit, from the
	// nearest ancestor workspace manifest's WorkspaceMetadata.Ignored.
	WorkspaceIgnored []string
}

// AllDependencyTables returns every dependency table this manifest
// declares, labeled by name, for the fixer's cross-table removal (spec
// §6: fix operates across all four table classes).
func (m *Manifest) AllDependencyTables() map[string]DependencyTable {
	tables := make(map[string]DependencyTable)
	if len(m.Dependencies) > 0 {
		tables["dependencies"] = m.Dependencies
	}
	if len(m.DevDependencies) > 0 {
		tables["dev-dependencies"] = m.DevDependencies
	}
	if len(m.BuildDependencies) > 0 {
		tables["build-dependencies"] = m.BuildDependencies
	}
	for _, tt := range m.TargetTables {
		if len(tt.Dependencies) > 0 {
			tables["target."+tt.Predicate+".dependencies"] = tt.Dependencies
		}
	}
	return tables
}
