package transform_test

import (
	"bytes"
	"testing"

	"github.com/kard/amdloader/transform"
)

func TestJSMin(t *testing.T) {
	t.Parallel()
	in := []byte("function foo() {\n  // comment\n  return 1;\n}\n")
	out, err := transform.JSMin.Transform(in)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(out, []byte("comment")) {
		t.Fatalf("expected comment to be stripped, got: %s", out)
	}
}

func TestPipeline(t *testing.T) {
	t.Parallel()
	upper := transformFunc(func(b []byte) ([]byte, error) {
		return bytes.ToUpper(b), nil
	})
	p := transform.Pipeline{transform.JSMin, upper}
	out, err := p.Transform([]byte("var x = 1; // trim me\n"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, bytes.ToUpper(out)) {
		t.Fatalf("expected uppercased output, got: %s", out)
	}
}

func TestJSMinPreservesLicenseBanner(t *testing.T) {
	t.Parallel()
	in := []byte("/*! my-lib v1.0 */\nfunction foo() {\n  // comment\n  return 1;\n}\n")
	j := transform.NewJSMin(transform.PreserveLicenseBanners())
	out, err := j.Transform(in)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(out, []byte("/*! my-lib v1.0 */")) {
		t.Fatalf("expected license banner to survive, got: %s", out)
	}
	if bytes.Contains(out, []byte("comment")) {
		t.Fatalf("expected ordinary comment to still be stripped, got: %s", out)
	}
}

func TestJSMinWithoutOptionDropsLicenseBanner(t *testing.T) {
	t.Parallel()
	in := []byte("/*! my-lib v1.0 */\nfunction foo() { return 1; }\n")
	out, err := transform.JSMin.Transform(in)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(out, []byte("my-lib")) {
		t.Fatalf("expected default JSMin to drop the banner like any other comment, got: %s", out)
	}
}

type transformFunc func([]byte) ([]byte, error)

func (f transformFunc) Transform(b []byte) ([]byte, error) { return f(b) }
