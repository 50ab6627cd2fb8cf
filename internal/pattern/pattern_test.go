package pattern

import "testing"

func search(t *testing.T, identifier, source string) bool {
	t.Helper()
	m, err := Compile(identifier)
	if err != nil {
		t.Fatalf("Compile(%q): %v", identifier, err)
	}
	return m.SearchBytes([]byte(source))
}

func TestSimpleImportForms(t *testing.T) {
	cases := []struct {
		name       string
		identifier string
		source     string
		want       bool
	}{
		{"bare use", "N", "use N;", true},
		{"leading double colon", "N", "use ::N;", true},
		{"wildcard path", "N", "use N::*;", true},
		{"renamed use", "N", "use N as X;", true},
		{"extern crate", "N", "extern crate N;", true},
		{"extern crate renamed", "N", "extern crate N as X;", true},
		{"qualified path at start of line", "N", "N::foo()", true},
		{"qualified path preceded by punctuation", "N", "(N::foo())", true},
		{"leading colon qualified path", "N", "::N::foo()", true},
		{"identifier is a suffix of another", "N", "XN::foo()", false},
		{"nested foreign path", "N", "other::N::foo()", false},
		{"identifier is a prefix with extra suffix", "log", "use log_once;", false},
		{"unrelated identifier", "log", "use flog;", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := search(t, tc.identifier, tc.source); got != tc.want {
				t.Errorf("search(%q, %q) = %v, want %v", tc.identifier, tc.source, got, tc.want)
			}
		})
	}
}

func TestCaseInsensitivity(t *testing.T) {
	if !search(t, "log", "Log::info!();") {
		t.Error("expected case-insensitive match of identifier in path form")
	}
	if !search(t, "Log", "use log;") {
		t.Error("expected case-insensitive match of identifier in use form")
	}
}

func TestCommentedOutLineDoesNotMatch(t *testing.T) {
	if search(t, "N", "// use N;") {
		t.Error("a commented-out use statement must not count as a match")
	}
	if search(t, "N", "  //! use N;") {
		t.Error("a commented-out doc-style line must not count as a match")
	}
}

func TestCompoundGroupImport(t *testing.T) {
	if !search(t, "futures", "pub use {async_trait, futures, reqwest};") {
		t.Error("expected bare identifier at group top level to match")
	}
	if search(t, "futures", "pub use {async_trait, not_futures::futures, reqwest};") {
		t.Error("a foreign path segment ending in the identifier must not match")
	}
	if !search(t, "futures", "use {\n    async_trait,\n    futures as f,\n    reqwest,\n};") {
		t.Error("expected renamed group item to match across multiple lines")
	}
	if !search(t, "N", "use {\n    mod_a::{ other, N },\n    mod_b,\n};") {
		t.Error("expected identifier nested inside a sub-group to match")
	}
}

func TestBinaryFileAborts(t *testing.T) {
	data := []byte("use N;\x00garbage")
	m, err := Compile("N")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if m.SearchBytes(data) {
		t.Error("a NUL byte must abort scanning, not produce a match")
	}
}
