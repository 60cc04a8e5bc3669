package transport

import "context"

// EventType identifies a transport event surfaced to the session layer.
type EventType int

const (
	EventConnected EventType = iota
	EventDataReceived
	EventDisconnected
)

func (t EventType) String() string {
	switch t {
	case EventConnected:
		return "connected"
	case EventDataReceived:
		return "data"
	case EventDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Event is a single transport occurrence. Data is set only for
// EventDataReceived and carries one complete frame.
type Event struct {
	Type EventType
	Data []byte
}

// Adapter wraps the underlying transport. It owns no protocol knowledge;
// frames go in and out as opaque bytes. Sends are fire-and-forget from the
// caller's perspective: no delivery acknowledgment is surfaced upward.
//
// All session-state traffic must use SendReliable. SendUnreliable exists
// only for best-effort side traffic such as chat and may drop frames under
// backpressure.
type Adapter interface {
	Connect(ctx context.Context, endpoint string) error
	SendReliable(data []byte) error
	SendUnreliable(data []byte) error
	// PollEvents returns all pending events without blocking, in the
	// order the transport delivered them.
	PollEvents() []Event
	Close() error
}
