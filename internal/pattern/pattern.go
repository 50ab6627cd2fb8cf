// Package pattern implements the two-phase textual usage matcher
// described in spec §4.1: a fast single-line regex phase for simple
// imports, fully-qualified paths, and extern-crate declarations, and a
// slower brace-depth-aware multi-line phase for group imports. Matching
// the crate identifier itself is Unicode-case-insensitive; the
// surrounding keywords (`use`, `as`, `extern crate`) are case-sensitive,
// per spec.
package pattern

import (
	"bytes"
	"os"
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"husk/internal/huskerr"
	"husk/internal/husklog"
)

// maxGroupDepth bounds how deeply nested {…} groups are followed when
// looking for a sibling identifier inside a compound import. Spec §9
// calls this a pragmatic bound, not a tunable one: deeper nesting is an
// accepted false-negative.
const maxGroupDepth = 4

var fold = cases.Fold()

func foldEqual(a, b string) bool {
	return fold.String(a) == fold.String(b)
}

// Matcher decides whether source text references one crate identifier.
type Matcher struct {
	identifier string
	singleLine *regexp.Regexp
	groupOpen  *regexp.Regexp
}

// Compile builds a Matcher for identifier. identifier must already be
// normalized (no hyphens) by the Dependency Resolver — Compile does not
// re-normalize it.
func Compile(identifier string) (*Matcher, error) {
	escaped := regexp.QuoteMeta(identifier)
	ci := "(?i:" + escaped + ")"

	// use N; / use N::…; / use N as X; / use ::N;
	useForm := `\buse\s+(?:::)?` + ci + `(?:::|;|\s+as\b)`
	// N::Item at start of line, or preceded by any non-path character
	// that isn't itself a colon (so "XN::foo()" does not match, and
	// neither does "other::N::foo()" — a single ':' right before N means
	// N is a sub-path of something else, not a crate-root reference).
	// The only way to reach N through a colon is the absolute-path form
	// below, "::N::", which requires a non-word character ahead of the
	// leading "::".
	bareForm := `(?:^|[^A-Za-z0-9_:])` + ci + `::`
	absForm := `(?:^|[^A-Za-z0-9_])::` + ci + `::`
	pathForm := bareForm + `|` + absForm
	// extern crate N; / extern crate N as X
	externForm := `\bextern crate\s+` + ci + `(?:\s|;)`

	single, err := regexp.Compile(useForm + `|` + pathForm + `|` + externForm)
	if err != nil {
		return nil, err
	}

	// Opener for a (possibly multi-line) group import: `use`, then any
	// run of identifier/`::`/whitespace characters (an optional module
	// path prefix), then the `{` that starts the group.
	groupOpen, err := regexp.Compile(`\buse\b[\w:\s]*\{`)
	if err != nil {
		return nil, err
	}

	return &Matcher{identifier: identifier, singleLine: single, groupOpen: groupOpen}, nil
}

// Search reports whether the file at path textually references the
// matcher's identifier. I/O and decoding failures are wrapped as
// SearchFailure, logged, and treated as "not found" — never propagated
// as a package-level failure (spec §4.1).
func (m *Matcher) Search(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		wrapped := &huskerr.SearchFailure{Path: path, Err: err}
		husklog.L().Debugw("search failed", "error", wrapped)
		return false
	}
	return m.SearchBytes(data)
}

// SearchBytes is the same decision over an in-memory buffer, exposed for
// testing (spec §4.1).
func (m *Matcher) SearchBytes(data []byte) bool {
	if bytes.IndexByte(data, 0) != -1 {
		// Binary-file policy: a NUL byte aborts scanning without error.
		return false
	}
	content := string(data)
	if m.searchSingleLine(content) {
		return true
	}
	return m.searchGroups(content)
}

func (m *Matcher) searchSingleLine(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if isCommentLine(trimmed) {
			continue
		}
		if m.singleLine.MatchString(line) {
			return true
		}
	}
	return false
}

func isCommentLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "//")
}

// searchGroups looks for the identifier as a top-level sibling inside a
// `use { … }` compound import, tolerating nested sub-groups up to
// maxGroupDepth.
func (m *Matcher) searchGroups(content string) bool {
	for _, loc := range m.groupOpen.FindAllStringIndex(content, -1) {
		openerStart, braceEnd := loc[0], loc[1]
		if isCommentLine(strings.TrimSpace(lineContaining(content, openerStart))) {
			continue
		}
		// braceEnd points just past the opening '{'.
		inner, ok := extractBraceBody(content, braceEnd-1)
		if !ok {
			continue
		}
		if containsSibling(inner, m.identifier, 1) {
			return true
		}
	}
	return false
}

func lineContaining(content string, pos int) string {
	start := strings.LastIndexByte(content[:pos], '\n') + 1
	end := strings.IndexByte(content[pos:], '\n')
	if end == -1 {
		return content[start:]
	}
	return content[start : pos+end]
}

// extractBraceBody returns the text strictly between the '{' at
// content[openBrace] and its matching '}'.
func extractBraceBody(content string, openBrace int) (string, bool) {
	depth := 0
	for i := openBrace; i < len(content); i++ {
		switch content[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return content[openBrace+1 : i], true
			}
		}
	}
	return "", false
}

// containsSibling reports whether identifier appears as a top-level item
// of the comma-separated list in body — a bare identifier, `as`-renamed,
// or leading-`::`-qualified — or as a sibling inside a nested `{…}`
// group, up to maxGroupDepth.
func containsSibling(body, identifier string, depth int) bool {
	if depth > maxGroupDepth {
		return false
	}
	for _, item := range splitTopLevel(body) {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if open := strings.IndexByte(item, '{'); open != -1 {
			inner, ok := extractBraceBody(item, open)
			if !ok {
				continue
			}
			if containsSibling(inner, identifier, depth+1) {
				return true
			}
			continue
		}
		seg := strings.TrimPrefix(item, "::")
		if i := strings.Index(seg, "::"); i != -1 {
			seg = seg[:i]
		}
		if i := strings.Index(seg, " as "); i != -1 {
			seg = seg[:i]
		}
		seg = strings.TrimSpace(seg)
		if foldEqual(seg, identifier) {
			return true
		}
	}
	return false
}

// splitTopLevel splits s on commas that are not inside a nested `{…}`.
func splitTopLevel(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out
}
