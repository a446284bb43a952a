package host_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kard/amdloader"
	"github.com/kard/amdloader/host"
)

func TestInspectorNotifyBroadcastsToConnectedClients(t *testing.T) {
	ins := host.NewInspector()
	srv := httptest.NewServer(ins)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("unexpected error dialing: %v", err)
	}
	defer conn.Close()

	// give the server a moment to register the connection
	deadline := time.Now().Add(2 * time.Second)
	for len(ins.Clients()) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if len(ins.Clients()) == 0 {
		t.Fatal("expected a connected client to be registered")
	}

	mh := host.NewMemoryHost()
	loader := amd.New(mh)
	m := loader.Define([]string{}, func([]interface{}) (interface{}, error) { return nil, nil })
	ins.Notify(m)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("unexpected error reading broadcast: %v", err)
	}
	if !strings.Contains(string(data), `"url"`) {
		t.Fatalf("got %s, want a JSON transition event", data)
	}
}
