package session

import (
	"log/slog"

	"tictactoe-client/internal/game"
)

// Notifier is the UI sink: it receives state-change notifications from the
// machine. Implementations must not block; they run on the session loop.
// An implementation that needs to mutate the session in response must go
// back through the Runner's intent queue.
type Notifier interface {
	StateChanged(s State)
	Feedback(text string)
	BoardUpdated(b game.Board)
	TurnChanged(localTurn bool)
	RoleAssigned(r Role)
	GameEnded(result string)
	ChatReceived(text string)
}

// BaseNotifier is a no-op implementation for sinks that only care about a
// subset of notifications.
type BaseNotifier struct{}

func (BaseNotifier) StateChanged(State)     {}
func (BaseNotifier) Feedback(string)        {}
func (BaseNotifier) BoardUpdated(game.Board) {}
func (BaseNotifier) TurnChanged(bool)       {}
func (BaseNotifier) RoleAssigned(Role)      {}
func (BaseNotifier) GameEnded(string)       {}
func (BaseNotifier) ChatReceived(string)    {}

type nopNotifier struct{ BaseNotifier }

type fanoutNotifier struct {
	sinks []Notifier
}

func (f *fanoutNotifier) StateChanged(s State) {
	for _, n := range f.sinks {
		n.StateChanged(s)
	}
}

func (f *fanoutNotifier) Feedback(text string) {
	for _, n := range f.sinks {
		n.Feedback(text)
	}
}

func (f *fanoutNotifier) BoardUpdated(b game.Board) {
	for _, n := range f.sinks {
		n.BoardUpdated(b)
	}
}

func (f *fanoutNotifier) TurnChanged(localTurn bool) {
	for _, n := range f.sinks {
		n.TurnChanged(localTurn)
	}
}

func (f *fanoutNotifier) RoleAssigned(r Role) {
	for _, n := range f.sinks {
		n.RoleAssigned(r)
	}
}

func (f *fanoutNotifier) GameEnded(result string) {
	for _, n := range f.sinks {
		n.GameEnded(result)
	}
}

func (f *fanoutNotifier) ChatReceived(text string) {
	for _, n := range f.sinks {
		n.ChatReceived(text)
	}
}

// LogNotifier writes every notification to the structured log. It is the
// default sink for headless runs.
type LogNotifier struct{}

func (LogNotifier) StateChanged(s State)      { slog.Info("ui: state", "state", s) }
func (LogNotifier) Feedback(text string)      { slog.Info("ui: feedback", "text", text) }
func (LogNotifier) BoardUpdated(b game.Board) { slog.Debug("ui: board", "board", b) }
func (LogNotifier) TurnChanged(local bool)    { slog.Info("ui: turn", "local_turn", local) }
func (LogNotifier) RoleAssigned(r Role)       { slog.Info("ui: role", "role", r) }
func (LogNotifier) GameEnded(result string)   { slog.Info("ui: game over", "result", result) }
func (LogNotifier) ChatReceived(text string)  { slog.Info("ui: chat", "text", text) }
