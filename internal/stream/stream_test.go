package stream

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + server.URL[len("http"):]
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestBroadcastDeliversCollapseEvent(t *testing.T) {
	hub := NewHub()
	server := httptest.NewServer(http.HandlerFunc(hub.ServeHTTP))
	defer server.Close()

	conn := dial(t, server)
	// Give ServeHTTP's registration goroutine a moment to run before
	// broadcasting, since the upgrade happens asynchronously relative
	// to the client's successful Dial.
	time.Sleep(20 * time.Millisecond)

	hub.OnCollapse(2, 3, 7)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var evt Event
	if err := conn.ReadJSON(&evt); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if evt.Type != "collapse" || evt.Row != 2 || evt.Col != 3 || evt.TileID != 7 {
		t.Errorf("got %+v, want collapse event at (2,3) tile 7", evt)
	}
}

func TestDoneBroadcastsAndCloses(t *testing.T) {
	hub := NewHub()
	server := httptest.NewServer(http.HandlerFunc(hub.ServeHTTP))
	defer server.Close()

	conn := dial(t, server)
	time.Sleep(20 * time.Millisecond)

	hub.Done(true)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var evt Event
	if err := conn.ReadJSON(&evt); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if evt.Type != "done" || !evt.Solved {
		t.Errorf("got %+v, want a solved done event", evt)
	}
}
