// Package presets holds canned MemoryHost fixtures for well-known
// third-party scripts, the AMD equivalent of the shim entries a
// RequireJS config lists for libraries that predate AMD and never call
// define themselves.
package presets

import (
	"github.com/kard/amdloader"
	"github.com/kard/amdloader/host"
)

// Well-known CDN URLs for libraries commonly shimmed into an AMD
// config because they load without ever calling define.
const (
	JQuery182    = "https://code.jquery.com/jquery-1.8.2.min.js"
	Bootstrap222 = "https://cdnjs.cloudflare.com/ajax/libs/twitter-bootstrap/2.2.2/bootstrap.min.js"
)

// Shim is a no-define legacy script's migration path: a dependency list
// plus a factory that reaches into the legacy globals the script left
// behind, the same role a RequireJS shim config entry plays.
type Shim struct {
	URL     string
	Deps    []string
	Factory amd.Factory
}

// JQueryShim exposes a "$" export (the placeholder string "jQuery") as
// the module's exports. The factory supplies it itself; the real jQuery
// script is never fetched once Register has installed the shim.
func JQueryShim() Shim {
	return Shim{
		URL:  JQuery182,
		Deps: nil,
		Factory: func([]interface{}) (interface{}, error) {
			return map[string]interface{}{"$": "jQuery"}, nil
		},
	}
}

// BootstrapShim depends on jquery, mirroring Bootstrap 2.x's runtime
// requirement that jQuery already be on the page.
func BootstrapShim() Shim {
	return Shim{
		URL:  Bootstrap222,
		Deps: []string{JQuery182},
		Factory: func([]interface{}) (interface{}, error) {
			return map[string]interface{}{"bootstrap": true}, nil
		},
	}
}

// Register installs every preset Shim into host, so a Loader backed by
// it resolves the shims' CDN URLs without fetching the real scripts.
func Register(h *host.MemoryHost, shims ...Shim) {
	for _, s := range shims {
		h.DefineModule(s.URL, s.Deps, s.Factory)
	}
}

// Default returns the standard preset set: jQuery and Bootstrap.
func Default() []Shim {
	return []Shim{JQueryShim(), BootstrapShim()}
}
