// Package ignorepolicy classifies each resolved dependency edge against
// a package's and workspace's ignore lists, producing the disposition
// the report and fixer both key off of (spec §4.4).
package ignorepolicy

// Disposition is the outcome of classifying one dependency against the
// found/ignored table.
type Disposition int

const (
	// Used means the dependency's identifier was found in source and it
	// is not suppressed — no finding is reported.
	Used Disposition = iota
	// Unused means the dependency's identifier was not found and it is
	// not ignored — reported, and a fix candidate.
	Unused
	// IgnoredUsed means the dependency was found in source despite being
	// listed in the package's own ignore list — reported as a
	// stale-ignore warning, per spec §4.4.
	IgnoredUsed
	// Suppressed means the dependency was not found but is ignored, so
	// nothing is reported at all.
	Suppressed
)

// Classify applies the 2x2 table from spec §4.4: found crossed with
// ignored, where "ignored" is package-level OR workspace-level — except
// that a workspace-level ignore can never produce IgnoredUsed, only
// Suppressed or Used. This is the Open Question resolution recorded in
// DESIGN.md: workspace ignores exist to silence noisy shared
// dependencies across many packages, so a workspace-ignored dependency
// being used is never surprising enough to warn about, while a
// package's own explicit ignore of something it then goes on to use
// is.
func Classify(found, packageIgnored, workspaceIgnored bool) Disposition {
	switch {
	case found && packageIgnored:
		return IgnoredUsed
	case found && workspaceIgnored:
		return Used
	case found:
		return Used
	case packageIgnored || workspaceIgnored:
		return Suppressed
	default:
		return Unused
	}
}

// ContainsFold reports whether name appears in list, case-sensitively —
// ignore lists name dependencies by their declared manifest key, which
// is already exact, so no folding is applied here (unlike the Pattern
// Engine's identifier matching).
func ContainsFold(list []string, name string) bool {
	for _, item := range list {
		if item == name {
			return true
		}
	}
	return false
}
