package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestParseFileBareAndTableDependencies(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[package]
name = "demo"

[dependencies]
serde = "1.0"
other-crate = { package = "real-crate", version = "2.0" }

[dev-dependencies]
proptest = "1"

[target.'cfg(unix)'.dependencies]
libc = "0.2"
`)

	m, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if !m.HasPackage || m.Package.Name != "demo" {
		t.Fatalf("expected package demo, got %+v", m.Package)
	}
	if m.Dependencies["serde"].Version != "1.0" {
		t.Errorf("expected serde version 1.0, got %q", m.Dependencies["serde"].Version)
	}
	if m.Dependencies["other-crate"].Package != "real-crate" {
		t.Errorf("expected other-crate.package=real-crate, got %q", m.Dependencies["other-crate"].Package)
	}
	if m.DevDependencies["proptest"].Version != "1" {
		t.Errorf("expected dev-dependency proptest")
	}
	if len(m.TargetTables) != 1 || m.TargetTables[0].Dependencies["libc"].Version != "0.2" {
		t.Errorf("expected one target table with libc, got %+v", m.TargetTables)
	}
}

func TestParseFileNoPackageIsWorkspaceOnly(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[workspace]

[workspace.metadata.husk]
ignored = ["build-only-tool"]
`)
	m, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if m.HasPackage {
		t.Error("expected HasPackage=false for a pure workspace manifest")
	}
	if !m.IsWorkspaceRoot {
		t.Error("expected IsWorkspaceRoot=true")
	}
	if len(m.WorkspaceMetadata.Ignored) != 1 || m.WorkspaceMetadata.Ignored[0] != "build-only-tool" {
		t.Errorf("expected workspace ignore list, got %+v", m.WorkspaceMetadata.Ignored)
	}
}

func TestParseFileMalformedTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "this is not valid = = toml [[[")
	if _, err := ParseFile(path); err == nil {
		t.Error("expected a parse error for malformed TOML")
	}
}

func TestAllDependencyTables(t *testing.T) {
	m := &Manifest{
		Dependencies:    DependencyTable{"a": {Version: "1"}},
		DevDependencies: DependencyTable{"b": {Version: "1"}},
		TargetTables: []TargetTable{
			{Predicate: "cfg(windows)", Dependencies: DependencyTable{"c": {Version: "1"}}},
		},
	}
	tables := m.AllDependencyTables()
	if _, ok := tables["dependencies"]; !ok {
		t.Error("expected dependencies table")
	}
	if _, ok := tables["dev-dependencies"]; !ok {
		t.Error("expected dev-dependencies table")
	}
	if _, ok := tables["target.cfg(windows).dependencies"]; !ok {
		t.Errorf("expected target table, got keys %v", keysOf(tables))
	}
}

func keysOf(m map[string]DependencyTable) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
