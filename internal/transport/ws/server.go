// Package ws serves sokoban play over WebSocket. Each connection plays one
// level at a time; clients send JSON requests and receive the board state
// after every request.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-sokoban/internal/game"
	"github.com/vovakirdan/tui-sokoban/internal/progress"
	"github.com/vovakirdan/tui-sokoban/internal/registry"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Outgoing messages buffered per connection.
	sendBuffer = 16
)

// Server serves the /play WebSocket endpoint and the /levels listing.
type Server struct {
	levels   *registry.Registry
	records  *progress.Records
	profiles *progress.Profiles
	recorder *game.Recorder
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewServer creates a WebSocket server. A nil logger logs to stderr.
// Completions are saved through recorder, which should share records.
func NewServer(levels *registry.Registry, records *progress.Records, profiles *progress.Profiles, recorder *game.Recorder, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "sokoban-ws",
		})
	}
	return &Server{
		levels:   levels,
		records:  records,
		profiles: profiles,
		recorder: recorder,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients may be served from anywhere.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /levels", s.handleLevels)
	mux.HandleFunc("GET /play", s.handlePlay)
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("starting WebSocket server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.logger.Error("server error", "error", err)
			return fmt.Errorf("ws: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// LevelSummary is one entry of the /levels listing.
type LevelSummary struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Record *RecordSummary `json:"record,omitempty"`
}

// RecordSummary is the best known completion of a level.
type RecordSummary struct {
	Player    string `json:"player"`
	Steps     int    `json:"steps"`
	ElapsedMS int64  `json:"elapsed_ms"`
}

func (s *Server) handleLevels(w http.ResponseWriter, r *http.Request) {
	infos := s.levels.List()
	out := make([]LevelSummary, 0, len(infos))
	for _, info := range infos {
		entry := LevelSummary{ID: info.ID, Name: info.Name}
		if rec, ok := s.records.Best(info.ID); ok {
			entry.Record = &RecordSummary{
				Player:    rec.PlayerName,
				Steps:     rec.Steps,
				ElapsedMS: rec.Elapsed.Milliseconds(),
			}
		}
		out = append(out, entry)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		s.logger.Warn("could not write level list", "error", err)
	}
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	levelID := r.URL.Query().Get("level")
	if levelID == "" {
		levels := s.levels.List()
		if len(levels) == 0 {
			http.Error(w, "no levels available", http.StatusServiceUnavailable)
			return
		}
		levelID = levels[0].ID
	}

	session, err := game.Load(s.levels, levelID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, registry.ErrUnknownLevel) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	player := r.URL.Query().Get("player")
	if player == "" {
		player = progress.DefaultPlayerName
	}
	profile := s.profiles.For(player)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already replied to the client.
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		server:  s,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		done:    make(chan struct{}),
		session: session,
		profile: profile,
		logger:  s.logger.With("player", profile.PlayerName(), "remote", r.RemoteAddr),
	}
	c.logger.Info("client connected", "level", levelID)

	go c.writePump()
	c.reply(c.stateResponse(""))
	go c.readPump()
}
