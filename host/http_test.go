package host_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kard/amdloader/host"
)

func TestHTTPHostFetchReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("define([], function(){ return 1; });"))
	}))
	defer srv.Close()

	h := host.NewHTTPHost()
	content, err := h.Fetch(context.Background(), srv.URL+"/main.js")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(content) != "define([], function(){ return 1; });" {
		t.Fatalf("got %q", content)
	}
}

func TestHTTPHostFetchNonOKStatusErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	h := host.NewHTTPHost()
	if _, err := h.Fetch(context.Background(), srv.URL+"/missing.js"); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}
