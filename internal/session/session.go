package session

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"tictactoe-client/internal/game"
	"tictactoe-client/internal/transport"
	"tictactoe-client/pkg/proto"
)

var tracer = otel.Tracer("session")

// State identifies the single active session state.
type State string

const (
	StateLogin           State = "login"
	StateAccountCreation State = "account_creation"
	StateRoomBrowsing    State = "room_browsing"
	StateWaiting         State = "waiting"
	StatePlaying         State = "playing"
	StateSpectating      State = "spectating"
	StateFeedback        State = "feedback"
)

// Role is a participant's capacity in a room. It is set once per room
// assignment and cleared when the room is left or the game ends.
type Role string

const (
	RoleNone      Role = ""
	RolePlayer1   Role = "player1"
	RolePlayer2   Role = "player2"
	RoleSpectator Role = "spectator"
)

// DefaultFeedbackDelay is how long feedback text stays on screen before
// the machine returns to the prior functional state.
const DefaultFeedbackDelay = 2 * time.Second

// GameRecord describes one finished game, handed to the Recorder.
type GameRecord struct {
	Room       string
	Role       Role
	Result     string
	FinishedAt time.Time
}

// Recorder persists finished games. Implementations must be fast; they run
// on the session loop.
type Recorder interface {
	Record(ctx context.Context, rec GameRecord) error
}

// Machine is the session state machine. It holds the current state, role,
// turn ownership and the embedded game engine, consumes decoded messages
// and user intents, and emits notifications and outbound frames.
//
// Machine is not safe for concurrent use. All calls must happen on one
// goroutine; Runner provides that serialization.
type Machine struct {
	adapter  transport.Adapter
	engine   *game.Engine
	notifier Notifier
	recorder Recorder
	timer    *scheduler
	now      func() time.Time

	state         State
	prevState     State // last functional state, for feedback returns
	role          Role
	localTurn     bool
	username      string
	pendingUser   string
	room          string
	pendingRoom   string
	feedbackDelay time.Duration
}

// New creates a machine in the Login state. The adapter is required; sinks
// and the recorder are attached separately.
func New(adapter transport.Adapter) *Machine {
	m := &Machine{
		adapter:       adapter,
		engine:        game.NewEngine(),
		notifier:      nopNotifier{},
		now:           time.Now,
		state:         StateLogin,
		prevState:     StateLogin,
		feedbackDelay: DefaultFeedbackDelay,
	}
	m.timer = &scheduler{now: func() time.Time { return m.now() }}
	return m
}

// AddNotifier attaches a UI sink. Multiple sinks fan out in order.
func (m *Machine) AddNotifier(n Notifier) {
	if _, ok := m.notifier.(nopNotifier); ok {
		m.notifier = n
		return
	}
	if fan, ok := m.notifier.(*fanoutNotifier); ok {
		fan.sinks = append(fan.sinks, n)
		return
	}
	m.notifier = &fanoutNotifier{sinks: []Notifier{m.notifier, n}}
}

// SetRecorder attaches a sink for finished games.
func (m *Machine) SetRecorder(r Recorder) {
	m.recorder = r
}

// SetFeedbackDelay overrides how long feedback stays visible.
func (m *Machine) SetFeedbackDelay(d time.Duration) {
	m.feedbackDelay = d
}

// SetClock overrides the time source; tests use a manual clock.
func (m *Machine) SetClock(now func() time.Time) {
	m.now = now
}

// State returns the active state.
func (m *Machine) State() State { return m.state }

// Role returns the current room role.
func (m *Machine) Role() Role { return m.role }

// IsLocalTurn reports server-declared turn ownership. It is never inferred
// from local moves.
func (m *Machine) IsLocalTurn() bool { return m.localTurn }

// Board returns the local mirror of the board.
func (m *Machine) Board() game.Board { return m.engine.Board() }

// Room returns the joined room name, empty when not roomed.
func (m *Machine) Room() string { return m.room }

// Username returns the authenticated username, empty before login.
func (m *Machine) Username() string { return m.username }

// Snapshot is an immutable view of session state for status reporting.
type Snapshot struct {
	State     State      `json:"state"`
	Role      Role       `json:"role"`
	LocalTurn bool       `json:"local_turn"`
	Username  string     `json:"username,omitempty"`
	Room      string     `json:"room,omitempty"`
	Board     game.Board `json:"board"`
}

// Snapshot captures the current session state.
func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		State:     m.state,
		Role:      m.role,
		LocalTurn: m.localTurn,
		Username:  m.username,
		Room:      m.room,
		Board:     m.engine.Board(),
	}
}

// Tick drains pending transport events in delivery order, then fires the
// deferred-feedback timer if due. Called once per loop iteration.
func (m *Machine) Tick() {
	for _, ev := range m.adapter.PollEvents() {
		m.handleTransportEvent(ev)
	}
	m.timer.fire()
}

func (m *Machine) handleTransportEvent(ev transport.Event) {
	switch ev.Type {
	case transport.EventConnected:
		slog.Info("connected to server")
	case transport.EventDataReceived:
		msg, err := proto.Decode(ev.Data)
		if err != nil {
			// Framing corruption is not recoverable; drop the frame.
			slog.Warn("dropping malformed frame", "error", err)
			return
		}
		m.Apply(msg)
	case transport.EventDisconnected:
		m.handleDisconnected()
	}
}

// handleDisconnected is fatal to the session: every session-scoped value
// is cleared and the machine returns to Login unconditionally.
func (m *Machine) handleDisconnected() {
	slog.Warn("connection lost, returning to login")
	m.timer.cancel()
	m.engine.Reset()
	m.role = RoleNone
	m.localTurn = false
	m.room = ""
	m.pendingRoom = ""
	m.username = ""
	m.pendingUser = ""
	m.setState(StateLogin)
	m.notifier.Feedback("Connection to server lost.")
}

// Apply dispatches one decoded server message. Unrecognized tags and tags
// arriving in a state that does not expect them are logged anomalies, not
// failures: the user sees generic feedback and the session carries on.
func (m *Machine) Apply(msg proto.Message) {
	_, span := tracer.Start(context.Background(), "session.Apply", trace.WithAttributes(
		attribute.String("message.tag", msg.Tag),
		attribute.String("session.state", string(m.state)),
	))
	defer span.End()

	entry, known := handlers[msg.Tag]
	if !known {
		m.anomaly(msg, "unrecognized tag")
		return
	}
	if entry.states != nil && !entry.states[m.functionalState()] {
		m.anomaly(msg, "tag not expected in state")
		return
	}
	entry.fn(m, msg)
}

// functionalState is the state dispatch guards run against: while feedback
// is showing, inbound messages are judged by the state we will return to.
func (m *Machine) functionalState() State {
	if m.state == StateFeedback {
		return m.prevState
	}
	return m.state
}

func (m *Machine) anomaly(msg proto.Message, reason string) {
	slog.Warn("protocol anomaly",
		"tag", msg.Tag,
		"state", m.state,
		"reason", reason,
	)
	m.showFeedback("Unexpected response from server.", m.functionalState())
}

func (m *Machine) setState(s State) {
	if m.state == s {
		return
	}
	if m.state != StateFeedback {
		m.prevState = m.state
	}
	// Any transition to a functional state supersedes a pending feedback
	// return: a stale timer must never yank the machine out of a state a
	// handler just entered.
	if s != StateFeedback {
		m.timer.cancel()
	}
	m.state = s
	slog.Debug("session state changed", "state", s)
	m.notifier.StateChanged(s)
}

// showFeedback enters the Feedback state and schedules the return to the
// given state. A later feedback supersedes any pending return timer.
func (m *Machine) showFeedback(text string, returnTo State) {
	m.notifier.Feedback(text)
	m.setState(StateFeedback)
	m.timer.schedule(m.feedbackDelay, func() {
		m.setState(returnTo)
	})
}

// send encodes and ships one message on the reliable channel. Send errors
// are logged, not surfaced: the transport will follow up with a
// Disconnected event if the connection is actually gone.
func (m *Machine) send(tag string, fields ...string) {
	if err := m.adapter.SendReliable(proto.Encode(tag, fields...)); err != nil {
		slog.Error("failed to send message", "tag", tag, "error", err)
	}
}

func (m *Machine) sendBestEffort(tag string, fields ...string) {
	if err := m.adapter.SendUnreliable(proto.Encode(tag, fields...)); err != nil {
		slog.Debug("failed to send best-effort message", "tag", tag, "error", err)
	}
}
