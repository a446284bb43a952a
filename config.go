package amd

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config tunes the embedding, not the wire protocol: spec.md §6 is
// explicit that the loader itself has no configuration file. These knobs
// exist for whoever wires a Loader into a devserver or test harness, the
// same way danmuck/edgectl's GhostConfig/SeedConfig tune a server process
// without the edge protocol itself growing a config surface.
type Config struct {
	// MaxConcurrentFetches caps how many Host.Fetch calls can be
	// in-flight at once. Zero means unbounded.
	MaxConcurrentFetches int `toml:"max_concurrent_fetches"`
	// FetchTimeoutSeconds bounds a single Host.Fetch call. Zero means no
	// timeout is applied beyond whatever the Host itself enforces.
	FetchTimeoutSeconds int `toml:"fetch_timeout_seconds"`
	// DocumentURL is the base URL top-level define calls resolve their
	// dependencies against, honoring a <base> element the way spec.md
	// §4.1 describes — this package doesn't parse HTML, so callers
	// supply the effective base URL directly.
	DocumentURL string `toml:"document_url"`
	// StrictNoDefine, when true, treats a script that finishes loading
	// without calling define as a FetchError instead of a module with
	// empty exports. Off by default, matching spec.md §3's lifecycle
	// rule for case (b). It applies only to Hosts that implement
	// Evaluator; content from a Fetch-only Host always gets the
	// no-define fallback.
	StrictNoDefine bool `toml:"strict_no_define"`
}

// DefaultConfig returns the Config a Loader uses when none is supplied.
func DefaultConfig() Config {
	return Config{
		MaxConcurrentFetches: 8,
		FetchTimeoutSeconds:  30,
		DocumentURL:          "about:blank",
	}
}

// LoadConfig reads a TOML config file at path, starting from
// DefaultConfig and overlaying whatever fields the file sets — the same
// load-then-default pattern as danmuck/edgectl/internal/config.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("amd: reading config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("amd: parsing config %s: %w", path, err)
	}
	return cfg, nil
}
