package amd

import "net/url"

// Resolve canonicalizes specifier against referrer, the way a browser
// resolves a relative <script> or import reference. Fragments and query
// strings are preserved verbatim. Two specifiers that resolve to the same
// canonical URL produce the same string, which is what lets the Registry
// dedupe syntactic variants like "./y.js", "y.js" and "z/../y.js".
func Resolve(specifier, referrer string) (string, error) {
	ref, err := url.Parse(referrer)
	if err != nil {
		return "", err
	}
	spec, err := url.Parse(specifier)
	if err != nil {
		return "", err
	}
	return ref.ResolveReference(spec).String(), nil
}

// isPseudoSpecifier reports whether specifier is one of the three
// literal pseudo-dependency names recognized by the loader without going
// through URL resolution. Per spec.md §4.5 these are matched on the exact
// specifier string a dependent lists, not on any resolved URL.
func isPseudoSpecifier(specifier string) bool {
	switch specifier {
	case "require", "exports", "meta":
		return true
	default:
		return false
	}
}
