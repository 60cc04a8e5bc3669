package transport

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

const (
	// inboundQueueSize bounds buffered inbound events; the reader
	// goroutine blocks when the session falls this far behind, which
	// preserves ordering on the reliable stream.
	inboundQueueSize = 256

	// lossyQueueSize bounds the best-effort outbound queue. Frames are
	// dropped, not queued without limit, when the peer is slow.
	lossyQueueSize = 64
)

var ErrNotConnected = errors.New("transport: not connected")

// WSAdapter implements Adapter over a websocket connection. The websocket
// stream provides the reliable+ordered delivery class; the unreliable
// class is a bounded queue flushed by a background writer that sheds load
// instead of blocking the caller.
type WSAdapter struct {
	mu      sync.Mutex
	conn    *websocket.Conn
	events  chan Event
	lossy   chan []byte
	closed  bool
	dropped int
}

// NewWSAdapter creates an unconnected adapter.
func NewWSAdapter() *WSAdapter {
	return &WSAdapter{
		events: make(chan Event, inboundQueueSize),
		lossy:  make(chan []byte, lossyQueueSize),
	}
}

// Connect dials the endpoint and starts the reader and lossy-writer
// goroutines. A Connected event is queued on success.
func (a *WSAdapter) Connect(ctx context.Context, endpoint string) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.conn = conn
	a.mu.Unlock()

	a.events <- Event{Type: EventConnected}
	go a.readPump()
	go a.lossyPump()
	return nil
}

// SendReliable writes one frame on the ordered websocket stream.
func (a *WSAdapter) SendReliable(data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.conn == nil || a.closed {
		return ErrNotConnected
	}
	return a.conn.WriteMessage(websocket.BinaryMessage, data)
}

// SendUnreliable enqueues one frame for best-effort delivery. The frame is
// silently dropped when the queue is full.
func (a *WSAdapter) SendUnreliable(data []byte) error {
	// The lock is held across the enqueue so a concurrent Close cannot
	// close the queue between the closed check and the send. The enqueue
	// never blocks, so holding the lock here is cheap.
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.conn == nil || a.closed {
		return ErrNotConnected
	}

	select {
	case a.lossy <- data:
	default:
		a.dropped++
		slog.Debug("dropped best-effort frame", "total_dropped", a.dropped)
	}
	return nil
}

// PollEvents drains all pending events without blocking.
func (a *WSAdapter) PollEvents() []Event {
	var out []Event
	for {
		select {
		case ev := <-a.events:
			out = append(out, ev)
		default:
			return out
		}
	}
}

// Close tears the connection down. The reader goroutine queues the
// Disconnected event when the read loop fails.
func (a *WSAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	close(a.lossy)
	if a.conn != nil {
		return a.conn.Close()
	}
	return nil
}

// DroppedFrames reports how many best-effort frames were shed.
func (a *WSAdapter) DroppedFrames() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dropped
}

func (a *WSAdapter) readPump() {
	for {
		_, data, err := a.conn.ReadMessage()
		if err != nil {
			a.mu.Lock()
			alreadyClosed := a.closed
			a.mu.Unlock()
			if !alreadyClosed {
				slog.Warn("websocket read failed", "error", err)
			}
			a.events <- Event{Type: EventDisconnected}
			return
		}
		a.events <- Event{Type: EventDataReceived, Data: data}
	}
}

func (a *WSAdapter) lossyPump() {
	for data := range a.lossy {
		a.mu.Lock()
		conn, closed := a.conn, a.closed
		a.mu.Unlock()
		if conn == nil || closed {
			return
		}
		a.mu.Lock()
		err := conn.WriteMessage(websocket.BinaryMessage, data)
		a.mu.Unlock()
		if err != nil {
			slog.Debug("best-effort write failed", "error", err)
			return
		}
	}
}
