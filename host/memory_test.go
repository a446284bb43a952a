package host_test

import (
	"context"
	"errors"
	"testing"

	"github.com/kard/amdloader"
	"github.com/kard/amdloader/host"
)

func TestMemoryHostFetchReturnsRegisteredContent(t *testing.T) {
	h := host.NewMemoryHost()
	h.NoDefineModule("mem://a", []byte("hello"))

	got, err := h.Fetch(context.Background(), "mem://a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
}

func TestMemoryHostFetchUnregisteredURLErrors(t *testing.T) {
	h := host.NewMemoryHost()
	if _, err := h.Fetch(context.Background(), "mem://missing"); err == nil {
		t.Fatal("expected an error for an unregistered URL")
	}
}

func TestMemoryHostFailModulePropagatesErrorFromFetch(t *testing.T) {
	h := host.NewMemoryHost()
	want := errors.New("boom")
	h.FailModule("mem://broken", want)

	_, err := h.Fetch(context.Background(), "mem://broken")
	if err != want {
		t.Fatalf("got %v, want %v", err, want)
	}
}

func TestMemoryHostEvaluateDispatchesToRegisteredFactory(t *testing.T) {
	h := host.NewMemoryHost()
	var gotArgs []interface{}
	h.DefineModule("mem://a", []string{"mem://b"}, func(args []interface{}) (interface{}, error) {
		gotArgs = args
		return "a-exports", nil
	})

	var boundDeps []string
	var boundFactory amd.Factory
	bind := func(deps []string, factory amd.Factory) error {
		boundDeps = deps
		boundFactory = factory
		return nil
	}

	if err := h.Evaluate(context.Background(), "mem://a", nil, bind); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(boundDeps) != 1 || boundDeps[0] != "mem://b" {
		t.Fatalf("got deps %v, want [mem://b]", boundDeps)
	}

	exports, err := boundFactory([]interface{}{"b-exports"})
	if err != nil {
		t.Fatalf("unexpected factory error: %v", err)
	}
	if exports != "a-exports" {
		t.Fatalf("got exports %v, want a-exports", exports)
	}
	if len(gotArgs) != 1 || gotArgs[0] != "b-exports" {
		t.Fatalf("factory did not receive its arguments: %v", gotArgs)
	}
}

func TestMemoryHostEvaluateIgnoresURLWithNoRegisteredFactory(t *testing.T) {
	h := host.NewMemoryHost()
	h.NoDefineModule("mem://plain", []byte("ignored"))

	called := false
	bind := func([]string, amd.Factory) error {
		called = true
		return nil
	}
	if err := h.Evaluate(context.Background(), "mem://plain", []byte("ignored"), bind); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Fatal("bind should not be called for a URL with no registered factory")
	}
}
