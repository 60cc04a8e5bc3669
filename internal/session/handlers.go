package session

import (
	"context"
	"log/slog"
	"strconv"

	"tictactoe-client/pkg/proto"
)

// stateSet marks the functional states a tag is expected in; nil means any.
type stateSet map[State]bool

type handlerEntry struct {
	states stateSet
	fn     func(m *Machine, msg proto.Message)
}

// handlers is the transition table as data: one entry per server tag.
// Adding a state or a tag means extending this table, not threading a new
// branch through an if/else chain.
var handlers = map[string]handlerEntry{
	proto.TagLoginSuccess: {
		states: stateSet{StateLogin: true},
		fn:     (*Machine).onLoginSuccess,
	},
	proto.TagLoginFailed: {
		states: stateSet{StateLogin: true},
		fn:     (*Machine).onLoginFailed,
	},
	proto.TagAccountCreated: {
		states: stateSet{StateAccountCreation: true},
		fn:     (*Machine).onAccountCreated,
	},
	proto.TagAccountCreationFailed: {
		states: stateSet{StateAccountCreation: true},
		fn:     (*Machine).onAccountCreationFailed,
	},
	proto.TagRoomExists: {
		states: stateSet{StateRoomBrowsing: true},
		fn:     (*Machine).onRoomExists,
	},
	proto.TagRoomDoesNotExist: {
		states: stateSet{StateRoomBrowsing: true},
		fn:     (*Machine).onRoomDoesNotExist,
	},
	proto.TagRoomCreated: {
		states: stateSet{StateRoomBrowsing: true},
		fn:     (*Machine).onRoomEntered,
	},
	proto.TagJoinedRoom: {
		states: stateSet{StateRoomBrowsing: true},
		fn:     (*Machine).onRoomEntered,
	},
	proto.TagWaitingForPlayers: {
		states: stateSet{StateWaiting: true},
		fn:     (*Machine).onWaitingForPlayers,
	},
	proto.TagPlayerJoined: {
		states: stateSet{StateWaiting: true, StatePlaying: true, StateSpectating: true},
		fn:     (*Machine).onPlayerJoined,
	},
	proto.TagPlayerLeft: {
		states: stateSet{StateWaiting: true, StatePlaying: true, StateSpectating: true},
		fn:     (*Machine).onPlayerLeft,
	},
	proto.TagSpectatorAssigned: {
		states: stateSet{StateWaiting: true},
		fn:     (*Machine).onSpectatorAssigned,
	},
	proto.TagGameStarted: {
		states: stateSet{StateWaiting: true},
		fn:     (*Machine).onGameStarted,
	},
	proto.TagYourTurn: {
		states: stateSet{StatePlaying: true},
		fn:     (*Machine).onYourTurn,
	},
	proto.TagOpponentTurn: {
		states: stateSet{StatePlaying: true},
		fn:     (*Machine).onOpponentTurn,
	},
	proto.TagBoardState: {
		states: stateSet{StatePlaying: true, StateSpectating: true},
		fn:     (*Machine).onBoardState,
	},
	proto.TagGameOver: {
		states: stateSet{StatePlaying: true, StateSpectating: true},
		fn:     (*Machine).onGameOver,
	},
	proto.TagOpponentMessage: {
		states: stateSet{StateWaiting: true, StatePlaying: true, StateSpectating: true},
		fn:     (*Machine).onOpponentMessage,
	},
}

func (m *Machine) onLoginSuccess(msg proto.Message) {
	m.username = m.pendingUser
	m.pendingUser = ""
	slog.Info("login successful", "username", m.username)
	m.notifier.Feedback("Login successful!")
	m.setState(StateRoomBrowsing)
}

func (m *Machine) onLoginFailed(msg proto.Message) {
	m.pendingUser = ""
	m.showFeedback("Login failed: "+msg.Field(0), StateLogin)
}

func (m *Machine) onAccountCreated(msg proto.Message) {
	m.pendingUser = ""
	m.showFeedback("Account created successfully!", StateLogin)
}

func (m *Machine) onAccountCreationFailed(msg proto.Message) {
	m.pendingUser = ""
	m.showFeedback("Account creation failed: "+msg.Field(0), StateLogin)
}

// onRoomExists joins the room the user asked about. The check/join/create
// negotiation is driven entirely by server replies.
func (m *Machine) onRoomExists(msg proto.Message) {
	name := msg.Field(0)
	if name != m.pendingRoom {
		slog.Warn("room reply for a room we did not ask about", "room", name, "pending", m.pendingRoom)
	}
	m.send(proto.TagJoinRoom, name)
}

func (m *Machine) onRoomDoesNotExist(msg proto.Message) {
	name := msg.Field(0)
	if name != m.pendingRoom {
		slog.Warn("room reply for a room we did not ask about", "room", name, "pending", m.pendingRoom)
	}
	m.send(proto.TagCreateRoom, name)
}

// onRoomEntered handles both RoomCreated and JoinedRoom.
func (m *Machine) onRoomEntered(msg proto.Message) {
	m.room = msg.Field(0)
	m.pendingRoom = ""
	slog.Info("entered room", "room", m.room)
	m.notifier.Feedback("Entered room " + m.room + ". Waiting for players...")
	m.setState(StateWaiting)
}

func (m *Machine) onWaitingForPlayers(msg proto.Message) {
	m.notifier.Feedback("Waiting for players...")
}

func (m *Machine) onPlayerJoined(msg proto.Message) {
	m.notifier.Feedback("Player joined: " + msg.Field(0))
}

// onPlayerLeft abandons the game in progress and returns to room browsing.
func (m *Machine) onPlayerLeft(msg proto.Message) {
	slog.Info("player left room", "player", msg.Field(0), "room", m.room)
	m.clearGameState()
	m.room = ""
	m.notifier.Feedback("Player left: " + msg.Field(0))
	m.setState(StateRoomBrowsing)
}

func (m *Machine) onSpectatorAssigned(msg proto.Message) {
	m.role = RoleSpectator
	m.localTurn = false
	m.notifier.RoleAssigned(RoleSpectator)
}

// onGameStarted resets the engine and derives role and turn ownership from
// the server's turn flag. A spectator assignment received earlier wins:
// spectators never own the turn.
func (m *Machine) onGameStarted(msg proto.Message) {
	turnFlag, err := strconv.ParseBool(msg.Field(0))
	if err != nil {
		m.anomaly(msg, "unparseable turn flag")
		return
	}

	m.engine.Reset()

	if m.role == RoleSpectator {
		m.localTurn = false
		m.setState(StateSpectating)
	} else {
		if turnFlag {
			m.role = RolePlayer1
		} else {
			m.role = RolePlayer2
		}
		m.localTurn = turnFlag
		m.notifier.RoleAssigned(m.role)
		m.setState(StatePlaying)
	}

	slog.Info("game started", "role", m.role, "local_turn", m.localTurn)
	m.notifier.BoardUpdated(m.engine.Board())
	m.notifier.TurnChanged(m.localTurn)
}

func (m *Machine) onYourTurn(msg proto.Message) {
	if m.role == RoleSpectator {
		m.anomaly(msg, "turn grant sent to spectator")
		return
	}
	m.localTurn = true
	m.notifier.TurnChanged(true)
}

func (m *Machine) onOpponentTurn(msg proto.Message) {
	m.localTurn = false
	m.notifier.TurnChanged(false)
}

// onBoardState overwrites the local mirror wholesale. Duplicates are
// harmless: applying the same snapshot twice is a no-op after the first.
func (m *Machine) onBoardState(msg proto.Message) {
	board, err := proto.ParseBoard(msg.Field(0))
	if err != nil {
		m.anomaly(msg, "unparseable board payload")
		return
	}
	m.engine.OverwriteFromAuthoritative(board)
	m.notifier.BoardUpdated(board)
}

func (m *Machine) onGameOver(msg proto.Message) {
	result := msg.Field(0)
	slog.Info("game over", "result", result, "room", m.room)

	if m.recorder != nil {
		rec := GameRecord{
			Room:       m.room,
			Role:       m.role,
			Result:     result,
			FinishedAt: m.now(),
		}
		if err := m.recorder.Record(context.Background(), rec); err != nil {
			slog.Error("failed to record game result", "error", err)
		}
	}

	m.notifier.GameEnded(result)
	m.clearGameState()
	m.showFeedback("Game over: "+result, StateRoomBrowsing)
}

func (m *Machine) onOpponentMessage(msg proto.Message) {
	m.notifier.ChatReceived(msg.Field(0))
}

// clearGameState drops role and turn ownership; the room assignment is the
// caller's concern.
func (m *Machine) clearGameState() {
	m.role = RoleNone
	m.localTurn = false
}
