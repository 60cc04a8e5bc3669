// Package statusapi exposes a small read-only HTTP surface for inspecting
// a running client: current session snapshot and local match history.
// Meant for localhost binding only; it carries no auth.
package statusapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"tictactoe-client/internal/history"
	"tictactoe-client/internal/session"
)

const (
	snapshotTimeout  = time.Second
	defaultGameLimit = 20
	maxGameLimit     = 200
)

// SnapshotProvider serves a consistent view of session state; the session
// Runner implements it.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (session.Snapshot, error)
}

// HistoryProvider lists recent finished games; history.Store implements it.
type HistoryProvider interface {
	Recent(ctx context.Context, limit int) ([]history.Game, error)
}

// Server is the gin engine wrapper.
type Server struct {
	engine   *gin.Engine
	sessions SnapshotProvider
	games    HistoryProvider
}

// NewServer builds the routes. The history provider may be nil when the
// local store is disabled.
func NewServer(sessions SnapshotProvider, games HistoryProvider) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		engine:   gin.New(),
		sessions: sessions,
		games:    games,
	}
	s.engine.Use(gin.Recovery())

	s.engine.GET("/healthz", s.health)
	api := s.engine.Group("/api")
	api.GET("/status", s.status)
	api.GET("/games", s.recentGames)
	return s
}

// Engine exposes the underlying handler for http.Server.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) health(c *gin.Context) {
	successResponse(c, map[string]any{"status": "ok"})
}

func (s *Server) status(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), snapshotTimeout)
	defer cancel()

	snap, err := s.sessions.Snapshot(ctx)
	if err != nil {
		errorResponse(c, http.StatusServiceUnavailable, "session loop unavailable: "+err.Error())
		return
	}
	successResponse(c, snap)
}

func (s *Server) recentGames(c *gin.Context) {
	if s.games == nil {
		errorResponse(c, http.StatusNotFound, "match history disabled")
		return
	}

	limit := defaultGameLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxGameLimit {
			errorResponse(c, http.StatusBadRequest, "limit must be between 1 and "+strconv.Itoa(maxGameLimit))
			return
		}
		limit = parsed
	}

	games, err := s.games.Recent(c.Request.Context(), limit)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to list games: "+err.Error())
		return
	}
	successResponse(c, map[string]any{"games": games})
}
