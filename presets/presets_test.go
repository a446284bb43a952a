package presets_test

import (
	"testing"

	"github.com/kard/amdloader"
	"github.com/kard/amdloader/host"
	"github.com/kard/amdloader/presets"
)

func TestRegisterResolvesWithoutFetching(t *testing.T) {
	mh := host.NewMemoryHost()
	presets.Register(mh, presets.Default()...)

	l := amd.New(mh, amd.WithConfig(amd.Config{DocumentURL: "about:blank"}))

	done := make(chan *amd.Exports, 1)
	l.Require([]string{presets.JQuery182}, func(args []interface{}) {
		done <- args[0].(*amd.Exports)
	}, func(err error) {
		t.Errorf("unexpected failure: %v", err)
		done <- nil
	})

	exports := <-done
	if exports == nil {
		t.Fatal("expected jquery shim to resolve")
	}
	if exports.Get("$") != "jQuery" {
		t.Fatalf("unexpected exports: %+v", exports.Keys())
	}
}
