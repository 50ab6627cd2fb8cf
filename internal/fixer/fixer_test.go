package fixer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"husk/internal/manifest"
)

const sampleManifest = `[package]
name = "demo"

[dependencies]
serde = "1.0"
unused-one = "2.0"

[dev-dependencies]
unused-dev = "1"

[target.'cfg(unix)'.dependencies]
libc = "0.2"
`

func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "husk.toml")
	if err := os.WriteFile(path, []byte(sampleManifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestApplyRemovesRequestedLines(t *testing.T) {
	path := writeSample(t)
	res, err := Apply(path, []Removal{
		{Table: "dependencies", Key: "unused-one"},
		{Table: "dev-dependencies", Key: "unused-dev"},
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 2 {
		t.Fatalf("expected 2 applied, got %+v", res)
	}
	if !res.Changed {
		t.Error("expected Changed=true")
	}

	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	content := string(out)
	if containsLine(content, "unused-one") {
		t.Error("unused-one should have been removed")
	}
	if containsLine(content, "unused-dev") {
		t.Error("unused-dev should have been removed")
	}
	if !containsLine(content, "serde") {
		t.Error("serde should have survived")
	}
	if !containsLine(content, "libc") {
		t.Error("libc in the target table should have survived")
	}
}

func TestApplyFailsOnMissingKey(t *testing.T) {
	path := writeSample(t)
	_, err := Apply(path, []Removal{
		{Table: "dependencies", Key: "does-not-exist"},
	})
	if err == nil {
		t.Fatal("expected FixApplicationFailure for a key not present in any table")
	}
}

func TestApplyFailsOnMissingTable(t *testing.T) {
	path := writeSample(t)
	_, err := Apply(path, []Removal{
		{Table: "build-dependencies", Key: "serde"},
	})
	if err == nil {
		t.Fatal("expected FixApplicationFailure when the requested table does not exist")
	}
}

func TestApplyAbortsEntirelyWhenOneRemovalFails(t *testing.T) {
	path := writeSample(t)
	_, err := Apply(path, []Removal{
		{Table: "dependencies", Key: "unused-one"},
		{Table: "dependencies", Key: "does-not-exist"},
	})
	if err == nil {
		t.Fatal("expected Apply to abort (and write nothing) when any removal fails")
	}
	out, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("read back: %v", readErr)
	}
	if !containsLine(string(out), "unused-one") {
		t.Error("partial edits must not be written when the package-level fix aborts")
	}
}

func TestRemovalsForLooksUpTablesByKey(t *testing.T) {
	m := &manifest.Manifest{
		Dependencies:    manifest.DependencyTable{"a": {}},
		DevDependencies: manifest.DependencyTable{"b": {}},
	}
	removals := RemovalsFor(m, []string{"a", "b", "missing"})
	if len(removals) != 2 {
		t.Fatalf("expected 2 removals for the keys that exist, got %+v", removals)
	}
}

func containsLine(content, substr string) bool {
	for _, line := range strings.Split(content, "\n") {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
