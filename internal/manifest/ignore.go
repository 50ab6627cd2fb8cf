package manifest

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// hiddenAndVCSDirs are always skipped during manifest discovery, unless
// the walker is configured otherwise; this mirrors every filesystem
// walker in the pack (e.g. standardbeagle-lci's build-artifact
// detection) treating `.git`/dotdirs as noise rather than content.
var hiddenAndVCSDirs = map[string]bool{
	".git": true, ".hg": true, ".svn": true,
}

// ignoreMatcher applies .gitignore-style glob patterns collected from
// `.gitignore`/`.ignore` files found while walking. Patterns are
// doublestar globs (standardbeagle-lci and kailayerhq-kai/ivcs both
// already depend on bmatcuk/doublestar/v4 for this exact kind of
// recursive-glob matching), anchored relative to the directory the
// pattern file was read from.
type ignoreMatcher struct {
	enabled  bool
	patterns []ignorePattern
}

type ignorePattern struct {
	base    string
	pattern string
	negate  bool
}

func newIgnoreMatcher(enabled bool) *ignoreMatcher {
	return &ignoreMatcher{enabled: enabled}
}

// loadIgnoreFile reads a `.gitignore`-shaped file (if present) in dir and
// appends its patterns, anchored to dir.
func (im *ignoreMatcher) loadIgnoreFile(dir string) {
	if !im.enabled {
		return
	}
	for _, name := range []string{".gitignore", ".ignore"} {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			negate := strings.HasPrefix(line, "!")
			if negate {
				line = line[1:]
			}
			anchored := strings.HasPrefix(line, "/")
			line = strings.TrimPrefix(line, "/")
			if !anchored && !strings.Contains(strings.TrimSuffix(line, "/"), "/") {
				// Patterns with no slash (other than a trailing one) match
				// anywhere below the anchor, same as git's own default.
				line = "**/" + line
			}
			im.patterns = append(im.patterns, ignorePattern{
				base:    dir,
				pattern: strings.TrimSuffix(line, "/") + "{,/**}",
				negate:  negate,
			})
		}
		f.Close()
	}
}

// matchDir reports whether dir should be pruned from the walk. Both the
// hidden/VCS-directory skip and the loaded gitignore-style patterns fall under
// the same `--no-ignore` switch (spec.md:146: "--no-ignore ... disables
// VCS/ignore-file filtering" as one bundled concern), so neither applies
// once the matcher is disabled.
func (im *ignoreMatcher) matchDir(dir string) bool {
	if !im.enabled {
		return false
	}
	base := filepath.Base(dir)
	if hiddenAndVCSDirs[base] || strings.HasPrefix(base, ".") {
		return true
	}
	ignored := false
	for _, p := range im.patterns {
		rel, err := filepath.Rel(p.base, dir)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		rel = filepath.ToSlash(rel)
		ok, err := doublestar.Match(p.pattern, rel)
		if err != nil {
			continue
		}
		if ok {
			ignored = !p.negate
		}
	}
	return ignored
}
