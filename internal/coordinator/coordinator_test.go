package coordinator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/goleak"

	"husk/internal/analyzer"
	"husk/internal/manifest"
	"husk/internal/resolve"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestRunAggregatesAcrossMultiplePackages(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", manifest.ManifestFileName), `[package]
name = "a"

[dependencies]
used-one = "1"
unused-one = "1"
`)
	writeFile(t, filepath.Join(root, "a", "src", "lib.rs"), "use used_one;\n")

	writeFile(t, filepath.Join(root, "b", manifest.ManifestFileName), `[package]
name = "b"

[dependencies]
used-two = "1"
`)
	writeFile(t, filepath.Join(root, "b", "src", "lib.rs"), "use used_two;\n")

	result := Run(context.Background(), []string{root}, Options{
		Analyze: analyzer.Options{Mode: resolve.ManifestOnly},
	})

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Packages) != 2 {
		t.Fatalf("expected 2 packages analyzed, got %d", len(result.Packages))
	}
	if !result.AnyUnused {
		t.Error("expected AnyUnused=true because package a has an unused dependency")
	}
}

func TestRunSkipsUnparseableManifestWithoutAbortingOthers(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "broken", manifest.ManifestFileName), "not valid toml [[[")
	writeFile(t, filepath.Join(root, "good", manifest.ManifestFileName), `[package]
name = "good"

[dependencies]
used = "1"
`)
	writeFile(t, filepath.Join(root, "good", "src", "lib.rs"), "use used;\n")

	result := Run(context.Background(), []string{root}, Options{
		Analyze: analyzer.Options{Mode: resolve.ManifestOnly},
	})

	if len(result.Errors) == 0 {
		t.Error("expected the broken manifest to be recorded as an error")
	}
	if len(result.Packages) != 1 {
		t.Fatalf("expected the good package to still be analyzed, got %d", len(result.Packages))
	}
	if result.AnyUnused {
		t.Error("the good package has no unused dependencies")
	}
}

func TestRunSkipsPureWorkspaceRoots(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, manifest.ManifestFileName), "[workspace]\n")

	result := Run(context.Background(), []string{root}, Options{
		Analyze: analyzer.Options{Mode: resolve.ManifestOnly},
	})
	if len(result.Packages) != 0 {
		t.Errorf("a pure workspace root declares no dependencies of its own, expected 0 packages, got %d", len(result.Packages))
	}
}
