package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInheritFindsAncestorWorkspaceIgnores(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[workspace]

[workspace.metadata.husk]
ignored = ["shared-build-tool"]
`)

	pkgDir := filepath.Join(root, "crates", "leaf")
	if err := os.MkdirAll(pkgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	pkgPath := writeManifest(t, pkgDir, `
[package]
name = "leaf"

[dependencies]
shared-build-tool = "1.0"
`)

	m, err := ParseFile(pkgPath)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if err := m.Inherit(); err != nil {
		t.Fatalf("Inherit: %v", err)
	}
	if len(m.WorkspaceIgnored) != 1 || m.WorkspaceIgnored[0] != "shared-build-tool" {
		t.Errorf("expected inherited workspace ignore, got %+v", m.WorkspaceIgnored)
	}
}

func TestInheritWithNoWorkspaceIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[package]
name = "standalone"
`)
	m, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if err := m.Inherit(); err != nil {
		t.Fatalf("Inherit should not fail when no workspace exists: %v", err)
	}
	if len(m.WorkspaceIgnored) != 0 {
		t.Errorf("expected no inherited ignores, got %+v", m.WorkspaceIgnored)
	}
}
