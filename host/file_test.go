package host_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kard/amdloader/host"
)

func TestFileHostFetchReadsFileUnderRoot(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "main.js"), []byte("define([], function(){});"), 0o644); err != nil {
		t.Fatal(err)
	}

	h := host.NewFileHost(dir)
	content, err := h.Fetch(context.Background(), "http://localhost/main.js")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(content) != "define([], function(){});" {
		t.Fatalf("got %q", content)
	}
}

type upperTransform struct{}

func (upperTransform) Transform(b []byte) ([]byte, error) {
	out := make([]byte, len(b))
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return out, nil
}

func TestFileHostAppliesTransform(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.js"), []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}

	h := host.NewFileHost(dir)
	h.Transform = upperTransform{}

	content, err := h.Fetch(context.Background(), "http://localhost/a.js")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(content) != "ABC" {
		t.Fatalf("got %q, want ABC", content)
	}
}

func TestFileHostFetchMissingFileErrors(t *testing.T) {
	h := host.NewFileHost(t.TempDir())
	if _, err := h.Fetch(context.Background(), "http://localhost/missing.js"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestFileHostWatchEmitsChangedPath(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "watched.js")
	if err := os.WriteFile(target, []byte("initial"), 0o644); err != nil {
		t.Fatal(err)
	}

	h := host.NewFileHost(dir)
	changed, err := h.Watch()
	if err != nil {
		t.Fatalf("unexpected error starting watcher: %v", err)
	}
	defer h.Close()

	if err := os.WriteFile(target, []byte("updated"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case path := <-changed:
		if path != "/watched.js" {
			t.Fatalf("got changed path %q, want /watched.js", path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a change notification")
	}
}
