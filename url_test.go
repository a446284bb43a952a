package amd_test

import (
	"testing"

	"github.com/kard/amdloader"
)

// TestResolveCanonicalizesSyntacticVariants exercises the same
// dedup-relevant variants spec.md §4.1/§8 names: "./y.js", "y.js",
// "../y/y.js" and "z/../y.js", asserting they all canonicalize to the
// same URL when resolved against a common referrer, independent of the
// Loader and Registry that build on top of Resolve.
func TestResolveCanonicalizesSyntacticVariants(t *testing.T) {
	const referrer = "mem://dedup/sub/y/x.js"
	variants := []string{"./y.js", "y.js", "../y/y.js", "z/../y.js"}

	want, err := amd.Resolve(variants[0], referrer)
	if err != nil {
		t.Fatalf("unexpected error resolving %q: %v", variants[0], err)
	}

	for _, v := range variants[1:] {
		got, err := amd.Resolve(v, referrer)
		if err != nil {
			t.Fatalf("unexpected error resolving %q: %v", v, err)
		}
		if got != want {
			t.Fatalf("Resolve(%q, %q) = %q, want %q (same as Resolve(%q, ...))", v, referrer, got, want, variants[0])
		}
	}
}

// TestResolveDistinguishesDifferentPaths is the converse check: Resolve
// must not collapse specifiers that are genuinely different modules.
func TestResolveDistinguishesDifferentPaths(t *testing.T) {
	const referrer = "mem://dedup/sub/y/x.js"

	a, err := amd.Resolve("y.js", referrer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := amd.Resolve("z.js", referrer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Fatalf("expected different specifiers to resolve to different URLs, both got %q", a)
	}
}

// TestResolvePreservesFragmentAndQuery documents this package's Open
// Question decision (see DESIGN.md): neither the fragment nor the query
// string is stripped during resolution, since Define's own top-level URL
// synthesis depends on the fragment surviving intact to tell sibling
// top-level modules apart.
func TestResolvePreservesFragmentAndQuery(t *testing.T) {
	const referrer = "mem://dedup/sub/y/x.js"
	got, err := amd.Resolve("y.js?v=2#frag", referrer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "mem://dedup/sub/y/y.js?v=2#frag" {
		t.Fatalf("got %q, want fragment and query string preserved", got)
	}
}
