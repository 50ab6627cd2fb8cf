package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"husk/internal/coordinator"
	"husk/internal/fixer"
	"husk/internal/husklog"
)

var (
	unusedColor      = color.New(color.FgRed, color.Bold)
	ignoredUsedColor = color.New(color.FgYellow, color.Bold)
	headingColor     = color.New(color.FgWhite, color.Bold)
	okColor          = color.New(color.FgGreen, color.Bold)
)

// printReport renders every package's findings (spec §6/§7): a bullet
// per unused dependency and per stale ignore, grouped by package, widest
// package name padded with go-runewidth so columns line up even with
// non-ASCII package names. Whether anything is printed at all is keyed
// on the findings themselves (Unused or IgnoredUsed), not on
// result.AnyUnused — that field drives only the process exit code (spec
// §7) and, unlike the report, deliberately ignores stale-ignore-only
// packages.
func printReport(out io.Writer, result *coordinator.Result, useColor bool) {
	anyUnused := false
	anyFindings := false
	for _, pkg := range result.Packages {
		if len(pkg.Unused) > 0 {
			anyUnused = true
		}
		if len(pkg.Unused) > 0 || len(pkg.IgnoredUsed) > 0 {
			anyFindings = true
		}
	}

	if !anyFindings {
		if useColor {
			fmt.Fprintln(out, okColor.Sprint("no unused dependencies found"))
		} else {
			fmt.Fprintln(out, "no unused dependencies found")
		}
		return
	}

	width := 0
	for _, pkg := range result.Packages {
		if len(pkg.Unused) == 0 && len(pkg.IgnoredUsed) == 0 {
			continue
		}
		if w := runewidth.StringWidth(pkg.PackageName); w > width {
			width = w
		}
	}

	for _, pkg := range result.Packages {
		if len(pkg.Unused) == 0 && len(pkg.IgnoredUsed) == 0 {
			continue
		}
		label := pkg.PackageName
		pad := width - runewidth.StringWidth(label)
		if pad > 0 {
			label += spaces(pad)
		}
		if useColor {
			label = headingColor.Sprint(label)
		}
		fmt.Fprintf(out, "%s  %s\n", label, pkg.Manifest.Path)

		for _, key := range pkg.Unused {
			bullet := fmt.Sprintf("  unused: %s", key)
			if useColor {
				bullet = fmt.Sprintf("  %s %s", unusedColor.Sprint("unused:"), key)
			}
			fmt.Fprintln(out, bullet)
		}
		for _, key := range pkg.IgnoredUsed {
			bullet := fmt.Sprintf("  ignored but used: %s", key)
			if useColor {
				bullet = fmt.Sprintf("  %s %s", ignoredUsedColor.Sprint("ignored but used:"), key)
			}
			fmt.Fprintln(out, bullet)
		}
	}

	// Trailing help block, printed only when at least one dependency is
	// actually unused (spec.md:160) — a stale-ignore-only report has
	// nothing for --fix to act on, so the pointer would be noise.
	if anyUnused {
		fmt.Fprintln(out)
		helpLine := "run with --fix to remove the unused dependencies listed above"
		if useColor {
			helpLine = headingColor.Sprint(helpLine)
		}
		fmt.Fprintln(out, helpLine)
	}
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

// applyFixes removes every reported unused dependency from its manifest
// (spec §4.7/§6 `--fix`). Stale-ignore findings (IgnoredUsed) are never
// auto-removed — they name a dependency that IS used, just one the
// manifest marks as ignored, so the fix is to edit the ignore list by
// hand, not to delete the dependency.
func applyFixes(out io.Writer, result *coordinator.Result) {
	anyApplied := false
	for _, pkg := range result.Packages {
		if len(pkg.Unused) == 0 {
			continue
		}
		removals := fixer.RemovalsFor(pkg.Manifest, pkg.Unused)
		res, err := fixer.Apply(pkg.Manifest.Path, removals)
		if err != nil {
			husklog.L().Warnw("failed to apply fixes", "manifest", pkg.Manifest.Path, "error", err)
			continue
		}
		if len(res.Applied) > 0 {
			anyApplied = true
			fmt.Fprintf(out, "fixed %s:\n", pkg.Manifest.Path)
			for _, a := range res.Applied {
				fmt.Fprintf(out, "  removed %s from [%s]\n", a.Key, a.Table)
			}
		}
	}
	if !anyApplied {
		fmt.Fprintln(out, "no fixes applied")
	}
}
