// Package coordinator implements the Top-Level Coordinator (spec §4.6):
// it discovers every manifest under the input roots and fans analysis
// out across them in parallel, never letting one package's failure
// abort the run.
package coordinator

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"husk/internal/analyzer"
	"husk/internal/husklog"
	"husk/internal/manifest"
)

// Options configures one coordinator run.
type Options struct {
	Discover  manifest.DiscoverOptions
	Analyze   analyzer.Options
	OuterJobs int
}

const defaultOuterJobs = 4

// Result is the aggregate outcome of a run across every discovered
// manifest.
type Result struct {
	Packages []*analyzer.PackageAnalysis
	// AnyUnused is true if at least one package has an unused
	// dependency — this drives the CLI's exit code (spec §6/§7).
	// IgnoredUsed findings are reported but never factor into this: the
	// spec names only "unused" as an exit-status input.
	AnyUnused bool
	// Errors collects every walk, parse, or analysis failure encountered;
	// the run still completes and reports whatever packages it could
	// analyze.
	Errors []error
}

// Run discovers every manifest under roots and analyzes each one.
func Run(ctx context.Context, roots []string, opts Options) *Result {
	result := &Result{}

	var manifestPaths []string
	for _, root := range roots {
		paths, walkErrs := manifest.Discover(root, opts.Discover)
		manifestPaths = append(manifestPaths, paths...)
		result.Errors = append(result.Errors, walkErrs...)
	}
	sort.Strings(manifestPaths)

	outerJobs := opts.OuterJobs
	if outerJobs <= 0 {
		outerJobs = defaultOuterJobs
	}

	analyses := make([]*analyzer.PackageAnalysis, len(manifestPaths))
	parseErrs := make([]error, len(manifestPaths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(outerJobs)
	for i, path := range manifestPaths {
		i, path := i, path
		g.Go(func() error {
			m, err := manifest.ParseFile(path)
			if err != nil {
				husklog.L().Warnw("skipping unparseable manifest", "path", path, "error", err)
				parseErrs[i] = err
				return nil
			}
			if !m.HasPackage {
				// A pure workspace root declares no dependencies of its
				// own to analyze.
				return nil
			}
			analysis, err := analyzer.Analyze(gctx, m, opts.Analyze)
			if err != nil {
				husklog.L().Warnw("skipping package after analysis error", "path", path, "error", err)
				parseErrs[i] = err
				return nil
			}
			analyses[i] = analysis
			return nil
		})
	}
	// Every task returns nil — per-package failures, including context
	// cancellation surfaced by the analyzer, are kept in parseErrs — so
	// an error from Wait is recorded but doesn't short-circuit the
	// aggregation of whatever packages did complete.
	if err := g.Wait(); err != nil {
		result.Errors = append(result.Errors, err)
	}

	for i, a := range analyses {
		if parseErrs[i] != nil {
			result.Errors = append(result.Errors, parseErrs[i])
			continue
		}
		if a == nil {
			continue
		}
		result.Packages = append(result.Packages, a)
		if len(a.Unused) > 0 {
			result.AnyUnused = true
		}
	}
	return result
}
