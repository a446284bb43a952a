package host

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Transformer rewrites fetched content before the Loader sees it —
// implemented by the transform package's Pipeline.
type Transformer interface {
	Transform([]byte) ([]byte, error)
}

// FileHost serves module content from a directory tree on disk, the
// static-file analog of a browser resolving a relative script path
// against the document root. A URL's path component, stripped of its
// leading slash, is joined onto Root.
type FileHost struct {
	Root      string
	Transform Transformer

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	changed chan string
}

// NewFileHost returns a FileHost rooted at root.
func NewFileHost(root string) *FileHost {
	return &FileHost{Root: root, changed: make(chan string, 16)}
}

func (h *FileHost) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	path, err := h.pathFor(rawURL)
	if err != nil {
		return nil, fmt.Errorf("host: resolving %s: %w", rawURL, err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("host: reading %s: %w", path, err)
	}
	if h.Transform != nil {
		return h.Transform.Transform(content)
	}
	return content, nil
}

func (h *FileHost) pathFor(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	rel := filepath.FromSlash(strings.TrimPrefix(u.Path, "/"))
	return filepath.Join(h.Root, rel), nil
}

// Watch starts an fsnotify watcher over every directory under Root and
// returns a channel that emits a "/"-rooted URL path each time a file
// underneath is written or created. amdserve's serve command logs each
// path it receives.
func (h *FileHost) Watch() (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	err = filepath.Walk(h.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return nil, err
	}

	h.mu.Lock()
	h.watcher = watcher
	h.mu.Unlock()

	go h.pump(watcher)
	return h.changed, nil
}

func (h *FileHost) pump(watcher *fsnotify.Watcher) {
	for event := range watcher.Events {
		if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			continue
		}
		rel, err := filepath.Rel(h.Root, event.Name)
		if err != nil {
			continue
		}
		h.changed <- "/" + filepath.ToSlash(rel)
	}
}

// Close stops the fsnotify watcher, if one was started.
func (h *FileHost) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.watcher == nil {
		return nil
	}
	return h.watcher.Close()
}
