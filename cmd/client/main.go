package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tictactoe-client/internal/autoplay"
	"tictactoe-client/internal/config"
	"tictactoe-client/internal/history"
	"tictactoe-client/internal/logger"
	"tictactoe-client/internal/session"
	"tictactoe-client/internal/statusapi"
	"tictactoe-client/internal/telemetry"
	"tictactoe-client/internal/transport"
)

// historyRecorder adapts the history store to the session Recorder.
type historyRecorder struct {
	store *history.Store
}

func (r historyRecorder) Record(ctx context.Context, rec session.GameRecord) error {
	return r.store.Record(ctx, history.Game{
		Room:       rec.Room,
		Role:       string(rec.Role),
		Result:     rec.Result,
		FinishedAt: rec.FinishedAt,
	})
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.TelemetryEnabled {
		shutdown, err := telemetry.InitOtel(cfg.OTLPEndpoint)
		if err != nil {
			log.Fatalf("failed to initialize telemetry: %v", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Printf("Error shutting down telemetry: %v", err)
			}
		}()
	}
	logger.Init(cfg.TelemetryEnabled)

	// Local match history
	var store *history.Store
	if cfg.HistoryPath != "" {
		store, err = history.Open(cfg.HistoryPath)
		if err != nil {
			log.Fatalf("failed to open history store: %v", err)
		}
		defer store.Close()
	}

	// Session core
	adapter := transport.NewWSAdapter()
	machine := session.New(adapter)
	machine.SetFeedbackDelay(cfg.FeedbackDelay)
	machine.AddNotifier(session.LogNotifier{})
	if store != nil {
		machine.SetRecorder(historyRecorder{store: store})
	}

	runner := session.NewRunner(machine)
	runner.SetTickInterval(cfg.TickInterval)

	if cfg.Autoplay {
		machine.AddNotifier(autoplay.New(runner, autoplay.Config{
			Username:   cfg.AutoplayUser,
			Password:   cfg.AutoplayPass,
			Room:       cfg.AutoplayRoom,
			Difficulty: cfg.AutoplayDifficulty,
		}))
	}

	if err := adapter.Connect(ctx, cfg.ServerURL); err != nil {
		log.Fatalf("failed to connect to %s: %v", cfg.ServerURL, err)
	}

	go func() {
		if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("session loop exited", "error", err)
		}
	}()

	// Local status API
	var httpServer *http.Server
	if cfg.StatusAddr != "" {
		var games statusapi.HistoryProvider
		if store != nil {
			games = store
		}
		srv := statusapi.NewServer(runner, games)
		httpServer = &http.Server{
			Addr:    cfg.StatusAddr,
			Handler: srv.Engine(),
		}
		go func() {
			slog.Info("status api listening", "addr", cfg.StatusAddr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("status api: %v", err)
			}
		}()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")

	// Leave the room and close the transport before stopping the loop, so
	// the intent still runs.
	done := make(chan struct{})
	runner.Do(func(m *session.Machine) {
		m.Logout()
		close(done)
	})
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
	cancel()

	if httpServer != nil {
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("status api forced to shutdown: %v", err)
		}
	}

	slog.Info("client exiting")
}
