package session

import (
	"log/slog"
	"strconv"

	"tictactoe-client/internal/game"
	"tictactoe-client/internal/validator"
	"tictactoe-client/pkg/proto"
)

// Intent payloads are validated locally before any network send; a missing
// required field never costs a round trip.
type credentials struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type roomRequest struct {
	Name string `validate:"required"`
}

type moveRequest struct {
	Cell int `validate:"gte=0,lte=8"`
}

// SubmitLogin sends the user's credentials. The state stays Login until
// the server replies.
func (m *Machine) SubmitLogin(username, password string) {
	if m.functionalState() != StateLogin {
		slog.Warn("login intent outside login state", "state", m.state)
		return
	}
	if err := validator.Check(credentials{Username: username, Password: password}); err != nil {
		m.showFeedback("Please enter both a username and password.", StateLogin)
		return
	}
	m.pendingUser = username
	m.send(proto.TagLogin, username, password)
}

// SubmitCreateAccount requests a new account.
func (m *Machine) SubmitCreateAccount(username, password string) {
	if m.functionalState() != StateAccountCreation {
		slog.Warn("account creation intent outside account creation state", "state", m.state)
		return
	}
	if err := validator.Check(credentials{Username: username, Password: password}); err != nil {
		m.showFeedback("Please enter both a username and password to create an account.", StateAccountCreation)
		return
	}
	m.pendingUser = username
	m.send(proto.TagCreateAccount, username, password)
}

// OpenAccountCreation switches the login screen to account creation.
func (m *Machine) OpenAccountCreation() {
	if m.functionalState() != StateLogin {
		return
	}
	m.setState(StateAccountCreation)
}

// BackToLogin returns from account creation to the login screen.
func (m *Machine) BackToLogin() {
	if m.functionalState() != StateAccountCreation {
		return
	}
	m.setState(StateLogin)
}

// SubmitRoom starts the check/join/create negotiation for a room name.
func (m *Machine) SubmitRoom(name string) {
	if m.functionalState() != StateRoomBrowsing {
		slog.Warn("room intent outside room browsing state", "state", m.state)
		return
	}
	if err := validator.Check(roomRequest{Name: name}); err != nil {
		m.showFeedback("Please enter a room name.", StateRoomBrowsing)
		return
	}
	m.pendingRoom = name
	m.send(proto.TagCheckRoom, name)
}

// ClickCell sends a move for the given cell. The move goes out only when
// it is the local turn and the cell is locally empty; that is a round-trip
// optimization, not a correctness guarantee, and the server may still
// reject. Turn ownership is never toggled here: the move may be rejected
// or lost, and only the server's reply decides whose turn it is.
func (m *Machine) ClickCell(cell int) {
	if m.state != StatePlaying {
		return
	}
	if !m.localTurn {
		return
	}
	if err := validator.Check(moveRequest{Cell: cell}); err != nil {
		return
	}
	if m.engine.Cell(cell) != game.Empty {
		return
	}

	m.send(proto.TagPlayerMove, m.room, strconv.Itoa(cell))

	// Optimistic local display only; the next BoardState overwrites it.
	if _, err := m.engine.ApplyLocalMove(cell); err == nil {
		m.notifier.BoardUpdated(m.engine.Board())
	}
}

// SendChat ships a chat line on the best-effort channel. Chat never
// changes protocol state, so loss is acceptable.
func (m *Machine) SendChat(text string) {
	switch m.functionalState() {
	case StateWaiting, StatePlaying, StateSpectating:
	default:
		return
	}
	if text == "" {
		return
	}
	m.sendBestEffort(proto.TagPlayerMessage, text)
}

// LeaveRoom abandons the current room and returns to room browsing.
func (m *Machine) LeaveRoom() {
	switch m.functionalState() {
	case StateWaiting, StatePlaying, StateSpectating:
	default:
		return
	}
	if m.room != "" {
		m.send(proto.TagLeaveRoom, m.room)
	}
	m.clearGameState()
	m.engine.Reset()
	m.room = ""
	m.setState(StateRoomBrowsing)
}

// Logout tears the session down. The protocol has no explicit logout tag;
// the client leaves its room if it has one and closes the transport, which
// is assumed sufficient for server-side cleanup.
func (m *Machine) Logout() {
	if m.room != "" {
		m.send(proto.TagLeaveRoom, m.room)
	}
	if err := m.adapter.Close(); err != nil {
		slog.Warn("error closing transport", "error", err)
	}
}
