package statusapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tictactoe-client/internal/game"
	"tictactoe-client/internal/history"
	"tictactoe-client/internal/session"
)

type fakeSessions struct {
	snap session.Snapshot
	err  error
}

func (f *fakeSessions) Snapshot(context.Context) (session.Snapshot, error) {
	return f.snap, f.err
}

type fakeGames struct {
	games []history.Game
	err   error
}

func (f *fakeGames) Recent(_ context.Context, limit int) ([]history.Game, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.games) {
		return f.games[:limit], nil
	}
	return f.games, nil
}

func doRequest(t *testing.T, s *Server, path string) (*httptest.ResponseRecorder, response) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.Engine().ServeHTTP(w, req)

	var body response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestHealth(t *testing.T) {
	s := NewServer(&fakeSessions{}, nil)
	w, body := doRequest(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)
}

func TestStatus(t *testing.T) {
	snap := session.Snapshot{
		State:     session.StatePlaying,
		Role:      session.RolePlayer1,
		LocalTurn: true,
		Username:  "alice",
		Room:      "alpha",
		Board:     game.Board{game.PlayerX},
	}
	s := NewServer(&fakeSessions{snap: snap}, nil)

	w, body := doRequest(t, s, "/api/status")
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, body.Success)

	extras, err := json.Marshal(body.Extras)
	require.NoError(t, err)
	var got session.Snapshot
	require.NoError(t, json.Unmarshal(extras, &got))
	assert.Equal(t, snap, got)
}

func TestStatusUnavailable(t *testing.T) {
	s := NewServer(&fakeSessions{err: errors.New("loop stopped")}, nil)
	w, body := doRequest(t, s, "/api/status")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.False(t, body.Success)
}

func TestRecentGames(t *testing.T) {
	games := &fakeGames{games: []history.Game{
		{ID: 1, Room: "alpha", Role: "player1", Result: "Draw", FinishedAt: time.Now()},
		{ID: 2, Room: "beta", Role: "player2", Result: "You win!", FinishedAt: time.Now()},
	}}
	s := NewServer(&fakeSessions{}, games)

	w, body := doRequest(t, s, "/api/games")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)

	t.Run("limit respected", func(t *testing.T) {
		w, _ := doRequest(t, s, "/api/games?limit=1")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("bad limit rejected", func(t *testing.T) {
		w, body := doRequest(t, s, "/api/games?limit=0")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, body.Success)
	})
}

func TestRecentGamesDisabled(t *testing.T) {
	s := NewServer(&fakeSessions{}, nil)
	w, body := doRequest(t, s, "/api/games")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, body.Success)
}
