package manifest

import (
	"io/fs"
	"path/filepath"

	"husk/internal/huskerr"
	"husk/internal/husklog"
)

// DiscoverOptions configures the manifest-discovery walk (spec §6).
type DiscoverOptions struct {
	// SkipTargetDir prunes any directory literally named "target".
	SkipTargetDir bool
	// NoIgnore disables VCS/ignore-file filtering.
	NoIgnore bool
}

// Discover walks root looking for every ManifestFileName file, honoring
// DiscoverOptions. Walk errors are logged to the global sink and recorded
// as FileWalkFailure; the walk continues past them (spec §7).
func Discover(root string, opts DiscoverOptions) (paths []string, walkErrs []error) {
	im := newIgnoreMatcher(!opts.NoIgnore)
	if !opts.NoIgnore {
		im.loadIgnoreFile(root)
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			wrapped := &huskerr.FileWalkFailure{Path: path, Err: walkErr}
			husklog.L().Warnw("manifest discovery walk error", "error", wrapped)
			walkErrs = append(walkErrs, wrapped)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root {
				if opts.SkipTargetDir && d.Name() == "target" {
					return fs.SkipDir
				}
				if im.matchDir(path) {
					return fs.SkipDir
				}
				if !opts.NoIgnore {
					im.loadIgnoreFile(path)
				}
			}
			return nil
		}

		if d.Name() == ManifestFileName {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		wrapped := &huskerr.FileWalkFailure{Path: root, Err: err}
		husklog.L().Warnw("manifest discovery walk aborted", "error", wrapped)
		walkErrs = append(walkErrs, wrapped)
	}
	return paths, walkErrs
}
