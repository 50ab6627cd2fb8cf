// Package fixer applies the `--fix` rewrite (spec §4.7 / §6): removing
// declared-but-unused dependency lines from a manifest file in place,
// byte-for-byte, without disturbing anything else in the file.
//
// It does not build a structured TOML editor; instead it locates each
// target table's byte span textually, finds the requested key's whole
// line within that span, and splices it out — applying every removal in
// reverse offset order with a guard-text check immediately before each
// splice, the same algorithm internal/fix/engine.go uses for its
// arbitrary-span diagnostic fixes, adapted here to line-grained TOML
// edits instead of diagnostic spans.
package fixer

import (
	"os"
	"regexp"
	"sort"
	"strings"

	"husk/internal/huskerr"
	"husk/internal/manifest"
)

// Removal requests that a declared dependency be deleted from a specific
// table of one manifest.
type Removal struct {
	Table string
	Key   string
}

// Applied records one successfully removed line.
type Applied struct {
	Table string
	Key   string
}

// Result is the outcome of one Apply call.
type Result struct {
	Applied []Applied
	Changed bool
}

var headerPattern = regexp.MustCompile(`(?m)^\[([^\]]+)\]\s*$`)

type span struct {
	start, end int // end exclusive, includes trailing newline when present
	guard      string
	removal    Removal
}

// Apply removes every requested dependency line from the manifest at
// path and rewrites the file in place. Per spec §6, a requested name not
// found in any of the tables it was expected in fails the whole call
// with a FixApplicationFailure naming the attempted key and the tables
// searched — the fix is aborted for the package and no edits are
// written (spec §7).
func Apply(path string, removals []Removal) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content := string(data)
	result := &Result{}

	sections := findSections(content)

	// Group requested tables by key so a key located in none of them can
	// be reported against every table it was expected in. A key located
	// in at least one of its requested tables is not a failure; requested
	// tables where it is not located are skipped.
	tablesByKey := make(map[string][]string)
	for _, r := range removals {
		tablesByKey[r.Key] = append(tablesByKey[r.Key], r.Table)
	}

	var spans []span
	found := make(map[string]bool)
	for _, r := range removals {
		sec, ok := sections[normalizeTableName(r.Table)]
		if !ok {
			continue
		}
		sp, ok := findKeyLine(content, sec, r.Key)
		if !ok {
			continue
		}
		sp.removal = r
		spans = append(spans, sp)
		found[r.Key] = true
	}

	for key, tables := range tablesByKey {
		if !found[key] {
			return nil, &huskerr.FixApplicationFailure{ManifestPath: path, Name: key, TablesSearched: tables}
		}
	}

	if len(spans) == 0 {
		return result, nil
	}

	// Reverse offset order so earlier splices don't shift the offsets of
	// spans still pending.
	sort.Slice(spans, func(i, j int) bool { return spans[i].start > spans[j].start })

	working := []byte(content)
	for _, sp := range spans {
		if sp.end > len(working) || sp.start < 0 || sp.start > sp.end {
			return nil, &huskerr.FixApplicationFailure{ManifestPath: path, Name: sp.removal.Key, TablesSearched: tablesByKey[sp.removal.Key]}
		}
		if string(working[sp.start:sp.end]) != sp.guard {
			return nil, &huskerr.FixApplicationFailure{ManifestPath: path, Name: sp.removal.Key, TablesSearched: tablesByKey[sp.removal.Key]}
		}
		working = append(working[:sp.start], working[sp.end:]...)
		result.Applied = append(result.Applied, Applied{Table: sp.removal.Table, Key: sp.removal.Key})
		result.Changed = true
	}

	if result.Changed {
		info, statErr := os.Stat(path)
		mode := os.FileMode(0o644)
		if statErr == nil {
			mode = info.Mode()
		}
		if err := os.WriteFile(path, working, mode); err != nil {
			return result, err
		}
	}
	return result, nil
}

// tableSection is the byte range [start,end) of one table's body, not
// including its own `[header]` line.
type tableSection struct {
	start, end int
}

// findSections maps every normalized table name to its body span.
func findSections(content string) map[string]tableSection {
	sections := make(map[string]tableSection)
	matches := headerPattern.FindAllStringSubmatchIndex(content, -1)
	for i, m := range matches {
		headerEnd := m[1]
		name := normalizeTableName(content[m[2]:m[3]])
		bodyStart := headerEnd
		if bodyStart < len(content) && content[bodyStart] == '\n' {
			bodyStart++
		}
		bodyEnd := len(content)
		if i+1 < len(matches) {
			bodyEnd = matches[i+1][0]
		}
		sections[name] = tableSection{start: bodyStart, end: bodyEnd}
	}
	return sections
}

// normalizeTableName strips TOML quoting from a header or declared table
// name so `target.'cfg(unix)'.dependencies` compares equal to
// `target.cfg(unix).dependencies`.
func normalizeTableName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, `"`, "")
	name = strings.ReplaceAll(name, `'`, "")
	return name
}

// findKeyLine locates the whole line (including its trailing newline, if
// any) declaring key inside section, as a top-level `key = …` or bare
// `key` assignment.
func findKeyLine(content string, section tableSection, key string) (span, bool) {
	keyPattern := regexp.MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(key) + `[ \t]*=.*$`)
	loc := keyPattern.FindStringIndex(content[section.start:section.end])
	if loc == nil {
		return span{}, false
	}
	start := section.start + loc[0]
	end := section.start + loc[1]
	if end < len(content) && content[end] == '\n' {
		end++
	}
	return span{start: start, end: end, guard: content[start:end]}, true
}

// RemovalsFor builds the Removal set for every declared key in
// unusedKeys. A name may appear in more than one table class (e.g. both
// `dependencies` and `dev-dependencies`); spec §6 requires deleting it
// from every table it is found in, not just the first, so every match is
// emitted.
func RemovalsFor(m *manifest.Manifest, unusedKeys []string) []Removal {
	tables := m.AllDependencyTables()
	tableNames := make([]string, 0, len(tables))
	for name := range tables {
		tableNames = append(tableNames, name)
	}
	sort.Strings(tableNames)

	var removals []Removal
	for _, key := range unusedKeys {
		for _, tableName := range tableNames {
			if _, ok := tables[tableName][key]; ok {
				removals = append(removals, Removal{Table: tableName, Key: key})
			}
		}
	}
	return removals
}
