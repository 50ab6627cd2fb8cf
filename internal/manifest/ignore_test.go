package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIgnoreMatcherHonorsNegation(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("target/\n*.log\n!important.log\n"), 0o644)
	require.NoError(t, err)

	im := newIgnoreMatcher(true)
	im.loadIgnoreFile(dir)
	require.Len(t, im.patterns, 3)

	require.True(t, im.matchDir(filepath.Join(dir, "target")))
	require.True(t, im.matchDir(filepath.Join(dir, "build.log")))
	require.False(t, im.matchDir(filepath.Join(dir, "important.log")))
}

func TestIgnoreMatcherDisabledNeverIgnores(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("target/\n"), 0o644)
	require.NoError(t, err)

	im := newIgnoreMatcher(false)
	im.loadIgnoreFile(dir)
	require.Empty(t, im.patterns)
	require.False(t, im.matchDir(filepath.Join(dir, "target")))
	// --no-ignore (enabled=false) bundles the VCS-directory skip with
	// gitignore filtering: disabling one disables both.
	require.False(t, im.matchDir(filepath.Join(dir, ".git")))
}

func TestIgnoreMatcherPrunesVCSDirsWhenEnabled(t *testing.T) {
	im := newIgnoreMatcher(true)
	require.True(t, im.matchDir("/anywhere/.git"))
	require.True(t, im.matchDir("/anywhere/.svn"))
	require.False(t, im.matchDir("/anywhere/src"))
}
