package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// echoServer upgrades and echoes every frame back.
func echoServer(t *testing.T) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			mt, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if err := conn.WriteMessage(mt, data); err != nil {
				return
			}
		}
	}))
}

func wsURL(s *httptest.Server) string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

// waitEvents polls until at least n events arrived or the deadline passes.
func waitEvents(t *testing.T, a *WSAdapter, n int) []Event {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	var events []Event
	for time.Now().Before(deadline) {
		events = append(events, a.PollEvents()...)
		if len(events) >= n {
			return events
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("got %d events, want %d", len(events), n)
	return nil
}

func TestWSAdapterRoundTrip(t *testing.T) {
	server := echoServer(t)
	defer server.Close()

	a := NewWSAdapter()
	if err := a.Connect(context.Background(), wsURL(server)); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer a.Close()

	events := waitEvents(t, a, 1)
	if events[0].Type != EventConnected {
		t.Fatalf("first event = %v, want connected", events[0].Type)
	}

	payload := []byte("hello")
	if err := a.SendReliable(payload); err != nil {
		t.Fatalf("SendReliable() error = %v", err)
	}

	events = waitEvents(t, a, 1)
	if events[0].Type != EventDataReceived || string(events[0].Data) != "hello" {
		t.Errorf("echo event = %+v", events[0])
	}
}

func TestWSAdapterOrdering(t *testing.T) {
	server := echoServer(t)
	defer server.Close()

	a := NewWSAdapter()
	if err := a.Connect(context.Background(), wsURL(server)); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer a.Close()
	waitEvents(t, a, 1) // connected

	frames := []string{"one", "two", "three", "four"}
	for _, f := range frames {
		if err := a.SendReliable([]byte(f)); err != nil {
			t.Fatalf("SendReliable(%q) error = %v", f, err)
		}
	}

	events := waitEvents(t, a, len(frames))
	for i, f := range frames {
		if events[i].Type != EventDataReceived || string(events[i].Data) != f {
			t.Errorf("event %d = %+v, want %q", i, events[i], f)
		}
	}
}

func TestWSAdapterDisconnectEvent(t *testing.T) {
	// httptest stops tracking a connection once it is hijacked, so
	// CloseClientConnections cannot reach an upgraded websocket; capture
	// the server-side conn and close it directly to force a disconnect.
	serverConns := make(chan *websocket.Conn, 1)
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverConns <- conn
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	a := NewWSAdapter()
	if err := a.Connect(context.Background(), wsURL(server)); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer a.Close()
	waitEvents(t, a, 1) // connected

	(<-serverConns).Close()
	events := waitEvents(t, a, 1)
	if events[len(events)-1].Type != EventDisconnected {
		t.Errorf("events after server close = %+v, want a disconnected event", events)
	}
}

func TestWSAdapterPollIsNonBlocking(t *testing.T) {
	a := NewWSAdapter()
	done := make(chan struct{})
	go func() {
		a.PollEvents()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("PollEvents blocked")
	}
}

// TestWSAdapterConcurrentSendUnreliableAndClose hammers the best-effort
// path from another goroutine while Close runs. Closing the lossy queue
// must never race a pending enqueue into a send-on-closed-channel panic;
// after Close every send reports not-connected.
func TestWSAdapterConcurrentSendUnreliableAndClose(t *testing.T) {
	server := echoServer(t)
	defer server.Close()

	a := NewWSAdapter()
	if err := a.Connect(context.Background(), wsURL(server)); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	waitEvents(t, a, 1) // connected

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			a.SendUnreliable([]byte("tick"))
		}
	}()

	time.Sleep(time.Millisecond)
	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	<-done

	if err := a.SendUnreliable([]byte("late")); err != ErrNotConnected {
		t.Errorf("SendUnreliable after close = %v, want ErrNotConnected", err)
	}
}

func TestWSAdapterSendBeforeConnect(t *testing.T) {
	a := NewWSAdapter()
	if err := a.SendReliable([]byte("x")); err == nil {
		t.Error("SendReliable before connect did not fail")
	}
	if err := a.SendUnreliable([]byte("x")); err == nil {
		t.Error("SendUnreliable before connect did not fail")
	}
}
