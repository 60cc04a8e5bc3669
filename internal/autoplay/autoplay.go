// Package autoplay drives a session without a human: it logs in with a
// generated identity, heads for a room, and plays moves whenever the
// server grants the turn. Useful for soak-testing a server and for
// exercising the client headless.
package autoplay

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"tictactoe-client/internal/game"
	"tictactoe-client/internal/session"
)

// thinkDelay spaces automated moves out so logs stay readable and the
// server never sees a zero-latency client.
const thinkDelay = 500 * time.Millisecond

// Config controls the automated player.
type Config struct {
	Username   string // generated when empty
	Password   string
	Room       string
	Difficulty string // easy, medium, hard
}

// Autoplayer is a session notifier that feeds intents back through the
// runner. All notification callbacks run on the session loop; anything the
// autoplayer wants to do goes back in through Runner.Do.
type Autoplayer struct {
	session.BaseNotifier

	runner *session.Runner
	cfg    Config

	mu   sync.Mutex
	mark game.Mark
}

// New creates an autoplayer. Attach it with Machine.AddNotifier.
func New(runner *session.Runner, cfg Config) *Autoplayer {
	if cfg.Username == "" {
		cfg.Username = "auto-" + uuid.New().String()[:8]
	}
	if cfg.Password == "" {
		cfg.Password = uuid.New().String()
	}
	if cfg.Room == "" {
		cfg.Room = "auto-room"
	}
	if cfg.Difficulty == "" {
		cfg.Difficulty = "hard"
	}
	return &Autoplayer{runner: runner, cfg: cfg}
}

// StateChanged walks the session forward: log in from the login screen,
// ask for the room once browsing.
func (a *Autoplayer) StateChanged(s session.State) {
	switch s {
	case session.StateLogin:
		user, pass := a.cfg.Username, a.cfg.Password
		a.later(func(m *session.Machine) {
			m.SubmitLogin(user, pass)
		})
	case session.StateRoomBrowsing:
		room := a.cfg.Room
		a.later(func(m *session.Machine) {
			m.SubmitRoom(room)
		})
	}
}

func (a *Autoplayer) RoleAssigned(r session.Role) {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch r {
	case session.RolePlayer1:
		a.mark = game.PlayerX
	case session.RolePlayer2:
		a.mark = game.PlayerO
	default:
		a.mark = game.Empty
	}
}

// TurnChanged schedules a move when the turn arrives. The board snapshot
// is taken when the move fires, not when the turn was granted, so a
// BoardState arriving in between is honored.
func (a *Autoplayer) TurnChanged(localTurn bool) {
	if !localTurn {
		return
	}
	a.mu.Lock()
	mark := a.mark
	a.mu.Unlock()
	if mark == game.Empty {
		return
	}

	difficulty := a.cfg.Difficulty
	a.later(func(m *session.Machine) {
		if !m.IsLocalTurn() {
			return // turn revoked while we were thinking
		}
		cell := NextMove(m.Board(), mark, difficulty)
		if cell == -1 {
			slog.Debug("autoplay: no move available")
			return
		}
		slog.Info("autoplay: moving", "cell", cell, "mark", mark)
		m.ClickCell(cell)
	})
}

// later hands an intent to the runner after the think delay, off the
// session loop.
func (a *Autoplayer) later(fn func(*session.Machine)) {
	time.AfterFunc(thinkDelay, func() {
		a.runner.Do(fn)
	})
}
