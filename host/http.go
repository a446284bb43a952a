package host

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// HTTPHost fetches module content over HTTP, the network-transport
// analog of a browser resolving a <script src>. It implements amd.Host
// but not amd.Evaluator — content it returns is handed to the Loader's
// own no-define fallback unless paired with LuaHost or another
// Evaluator.
type HTTPHost struct {
	Client *http.Client
}

// NewHTTPHost returns an HTTPHost using http.DefaultClient.
func NewHTTPHost() *HTTPHost {
	return &HTTPHost{Client: http.DefaultClient}
}

func (h *HTTPHost) Fetch(ctx context.Context, url string) ([]byte, error) {
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("host: %s: unexpected status %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
