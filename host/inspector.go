package host

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/kard/amdloader"
)

// Inspector broadcasts module state transitions over a websocket to
// every connected client, so a devserver can drive a live dependency
// graph view. Wire it in via amd.WithTransitionObserver(inspector.Notify).
type Inspector struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]string // conn -> session id, for per-client log correlation
}

// NewInspector returns an Inspector with no connected clients.
func NewInspector() *Inspector {
	return &Inspector{clients: make(map[*websocket.Conn]string)}
}

// Clients returns the session ids of currently connected inspector clients.
func (ins *Inspector) Clients() []string {
	ins.mu.Lock()
	defer ins.mu.Unlock()
	ids := make([]string, 0, len(ins.clients))
	for _, id := range ins.clients {
		ids = append(ids, id)
	}
	return ids
}

type transitionEvent struct {
	URL   string `json:"url"`
	State string `json:"state"`
	Err   string `json:"err,omitempty"`
}

// ServeHTTP upgrades the request to a websocket and registers the
// connection to receive future Notify broadcasts.
func (ins *Inspector) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := ins.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	id := uuid.NewString()
	ins.mu.Lock()
	ins.clients[conn] = id
	ins.mu.Unlock()

	go func() {
		defer ins.removeClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (ins *Inspector) removeClient(conn *websocket.Conn) {
	ins.mu.Lock()
	delete(ins.clients, conn)
	ins.mu.Unlock()
	conn.Close()
}

// Notify broadcasts m's current state to every connected client. It
// matches the amd.WithTransitionObserver signature.
func (ins *Inspector) Notify(m *amd.Module) {
	event := transitionEvent{URL: m.URL(), State: m.State().String()}
	if m.Err() != nil {
		event.Err = m.Err().Error()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	ins.mu.Lock()
	defer ins.mu.Unlock()
	for conn := range ins.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(ins.clients, conn)
		}
	}
}
