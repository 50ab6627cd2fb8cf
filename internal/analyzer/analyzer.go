// Package analyzer implements the Per-Package Analyzer (spec §4.5): for
// one manifest, it resolves every declared dependency to a search
// identifier, enumerates that package's source files once, searches
// each dependency in parallel, and classifies the result through the
// ignore policy.
package analyzer

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"husk/internal/huskerr"
	"husk/internal/husklog"
	"husk/internal/ignorepolicy"
	"husk/internal/manifest"
	"husk/internal/pattern"
	"husk/internal/resolve"
	"husk/internal/srcfiles"
)

// Options configures one analysis run (spec §6: --with-metadata and
// --jobs flow through here).
type Options struct {
	Mode        resolve.Mode
	MetadataCmd string
	// Jobs bounds the inner fan-out across one package's dependencies.
	// Zero or a negative value selects defaultJobs (see Analyze).
	Jobs int
}

// PackageAnalysis is the per-package result (spec §4.5 output shape).
type PackageAnalysis struct {
	PackageName string
	Manifest    *manifest.Manifest
	Unused      []string
	IgnoredUsed []string
}

const defaultJobs = 8

// Analyze runs the full per-package pipeline against an already-parsed
// manifest. It never returns an error for a single missing or unfindable
// source file — only for failures that make the whole package
// unanalyzable: a resolve.Resolve error (such as a failed metadata-tool
// invocation in metadata-assisted mode) or context cancellation.
func Analyze(ctx context.Context, m *manifest.Manifest, opts Options) (*PackageAnalysis, error) {
	if err := m.Inherit(); err != nil {
		husklog.L().Warnw("workspace inheritance failed", "manifest", m.Path, "error", err)
	}

	allEdges, err := resolve.Resolve(m, opts.Mode, opts.MetadataCmd)
	if err != nil {
		return nil, err
	}
	// Detection is runtime-dependency-only (spec §4.3, §9): dev-, build-,
	// and per-target dependencies are accepted false-negatives here and
	// only participate in the fixer's cross-table removal path (§6).
	edges := make([]resolve.Edge, 0, len(allEdges))
	for _, e := range allEdges {
		if e.Table == "dependencies" {
			edges = append(edges, e)
		}
	}

	roots := srcfiles.Roots(m)
	files := srcfiles.Enumerate(roots)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = defaultJobs
	}

	found := make([]bool, len(edges))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, edge := range edges {
		i, edge := i, edge
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			matcher, err := pattern.Compile(edge.ExternName)
			if err != nil {
				wrapped := &huskerr.SearchFailure{Path: m.Path, Err: err}
				husklog.L().Warnw("pattern compile failed", "identifier", edge.ExternName, "error", wrapped)
				found[i] = true // fail closed: treat as used rather than risk a false "unused"
				return nil
			}
			for _, f := range files {
				if matcher.Search(f) {
					found[i] = true
					break
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	packageIgnored := m.PackageMetadata.Ignored
	workspaceIgnored := m.WorkspaceIgnored

	var unused, ignoredUsed []string
	for i, edge := range edges {
		disp := ignorepolicy.Classify(
			found[i],
			ignorepolicy.ContainsFold(packageIgnored, edge.DeclaredKey),
			ignorepolicy.ContainsFold(workspaceIgnored, edge.DeclaredKey),
		)
		switch disp {
		case ignorepolicy.Unused:
			unused = append(unused, edge.DeclaredKey)
		case ignorepolicy.IgnoredUsed:
			ignoredUsed = append(ignoredUsed, edge.DeclaredKey)
		}
	}
	unused = dedupeSorted(unused)
	ignoredUsed = dedupeSorted(ignoredUsed)

	packageName := m.Package.Name
	if !m.HasPackage {
		packageName = m.Dir
	}

	return &PackageAnalysis{
		PackageName: packageName,
		Manifest:    m,
		Unused:      unused,
		IgnoredUsed: ignoredUsed,
	}, nil
}

func dedupeSorted(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
