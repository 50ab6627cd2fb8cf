package manifest

import (
	"errors"
	"os"
	"path/filepath"
)

// FindWorkspaceManifest walks up from startDir looking for the nearest
// ancestor manifest that declares a `[workspace]` table, stopping at the
// first one found. A missing parent is "no workspace", not an error —
// the same contract as internal/project/root.go's FindSurgeToml, just
// generalized from "nearest manifest" to "nearest workspace manifest".
//
// It does not cross symlink boundaries: each candidate directory is
// walked via filepath.Dir on the already-resolved absolute path, so a
// symlinked ancestor never causes the walk to leave the tree it started
// in (spec §9).
func FindWorkspaceManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, err
	}
	for {
		candidate := filepath.Join(dir, ManifestFileName)
		if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
			m, parseErr := ParseFile(candidate)
			if parseErr == nil && m.IsWorkspaceRoot {
				return candidate, true, nil
			}
		} else if statErr != nil && !errors.Is(statErr, os.ErrNotExist) {
			return "", false, statErr
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Inherit completes m with fields taken from the nearest ancestor
// workspace manifest, found by walking m's parent directories. Per spec
// §4.4/§9, only the workspace ignore list is inherited; a missing
// workspace is not an error.
func (m *Manifest) Inherit() error {
	wsPath, ok, err := FindWorkspaceManifest(m.Dir)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	ws, err := ParseFile(wsPath)
	if err != nil {
		return err
	}
	m.WorkspaceIgnored = ws.WorkspaceMetadata.Ignored
	return nil
}
