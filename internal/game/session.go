// Package game drives one play-through of a level and records finished
// runs. It is shared by the terminal UI and the WebSocket server.
package game

import (
	"time"

	"github.com/vovakirdan/tui-sokoban/internal/registry"
	"github.com/vovakirdan/tui-sokoban/internal/sokoban"
)

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// Session holds one level and the engine playing it.
//
// The clock starts on the first accepted move and stops when the level is
// completed. Once completed, further moves are ignored until Restart.
// A Session is not safe for concurrent use.
type Session struct {
	info     registry.LevelInfo
	pristine *sokoban.Level
	engine   *sokoban.Engine
	now      func() time.Time
	started  time.Time
	finished time.Time
}

// NewSession starts playing level. The level is kept as the restart
// template and never mutated.
func NewSession(info registry.LevelInfo, level *sokoban.Level, opts ...Option) *Session {
	s := &Session{
		info:     info,
		pristine: level,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Restart()
	return s
}

// Load starts a session for a registered level.
func Load(reg *registry.Registry, levelID string, opts ...Option) (*Session, error) {
	info, err := reg.Lookup(levelID)
	if err != nil {
		return nil, err
	}
	level, err := reg.Load(levelID)
	if err != nil {
		return nil, err
	}
	return NewSession(info, level, opts...), nil
}

// Restart puts the level back in its initial state and resets steps and time.
func (s *Session) Restart() {
	s.engine = sokoban.New(s.pristine.Clone())
	s.started = time.Time{}
	s.finished = time.Time{}
}

// Move applies one move. It returns MoveBlocked without touching the board
// when the level is already completed.
func (s *Session) Move(d sokoban.Direction) sokoban.MoveResult {
	if s.Completed() {
		return sokoban.MoveBlocked
	}

	res := s.engine.Move(d)
	if !res.Accepted() {
		return res
	}

	now := s.now()
	if s.started.IsZero() {
		s.started = now
	}
	if s.engine.IsCompleted() {
		s.finished = now
	}
	return res
}

// Completed returns true if every goal holds a box.
func (s *Session) Completed() bool {
	return s.engine.IsCompleted()
}

// Steps returns the number of accepted moves since the last restart.
func (s *Session) Steps() int {
	return s.engine.Steps()
}

// Elapsed returns the play time since the first accepted move.
func (s *Session) Elapsed() time.Duration {
	switch {
	case s.started.IsZero():
		return 0
	case !s.finished.IsZero():
		return s.finished.Sub(s.started)
	default:
		return s.now().Sub(s.started)
	}
}

// Level returns the live board.
func (s *Session) Level() *sokoban.Level {
	return s.engine.Level()
}

// Info returns the level being played.
func (s *Session) Info() registry.LevelInfo {
	return s.info
}

// State is a serializable view of a session.
type State struct {
	LevelID   string           `json:"level"`
	Name      string           `json:"name"`
	Rows      []string         `json:"rows"`
	Player    sokoban.Position `json:"player"`
	Steps     int              `json:"steps"`
	ElapsedMS int64            `json:"elapsed_ms"`
	Goals     int              `json:"goals"`
	OnGoal    int              `json:"boxes_on_goals"`
	Completed bool             `json:"completed"`
}

// Snapshot captures the current state.
func (s *Session) Snapshot() State {
	lvl := s.Level()
	return State{
		LevelID:   s.info.ID,
		Name:      s.info.Name,
		Rows:      lvl.Rows(),
		Player:    lvl.PlayerPosition(),
		Steps:     s.Steps(),
		ElapsedMS: s.Elapsed().Milliseconds(),
		Goals:     lvl.GoalCount(),
		OnGoal:    lvl.BoxesOnGoals(),
		Completed: s.Completed(),
	}
}
