package game

import (
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/tui-sokoban/internal/registry"
	"github.com/vovakirdan/tui-sokoban/internal/sokoban"
)

// fakeClock advances by step on every call.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func newTestSession(t *testing.T, text string, clock *fakeClock) *Session {
	t.Helper()
	lvl, err := sokoban.ParseString(text)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}
	info := registry.LevelInfo{ID: "test", Name: "Test"}
	if clock == nil {
		return NewSession(info, lvl)
	}
	return NewSession(info, lvl, WithClock(clock.Now))
}

func TestSessionCompletesAndFreezes(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0), step: time.Second}
	s := newTestSession(t, "######\n#@ $.#\n######", clock)

	if s.Elapsed() != 0 {
		t.Errorf("Elapsed() = %v before the first move", s.Elapsed())
	}

	s.Move(sokoban.DirUp) // blocked, clock must not start
	if s.Elapsed() != 0 {
		t.Errorf("blocked move started the clock")
	}

	s.Move(sokoban.DirRight)
	if res := s.Move(sokoban.DirRight); res != sokoban.MovePushed {
		t.Fatalf("push = %v", res)
	}
	if !s.Completed() {
		t.Fatalf("level should be completed:\n%s", s.Level())
	}
	if s.Steps() != 2 {
		t.Errorf("Steps() = %d, want 2", s.Steps())
	}

	elapsed := s.Elapsed()
	if elapsed <= 0 {
		t.Fatalf("Elapsed() = %v, want positive", elapsed)
	}
	if s.Elapsed() != elapsed {
		t.Error("clock kept running after completion")
	}

	if res := s.Move(sokoban.DirLeft); res != sokoban.MoveBlocked {
		t.Errorf("move after completion = %v, want Blocked", res)
	}
	if s.Steps() != 2 {
		t.Error("moves after completion must not count")
	}
}

func TestSessionRestart(t *testing.T) {
	s := newTestSession(t, "#####\n#@$.#\n#####", nil)
	before := s.Level().String()

	s.Move(sokoban.DirRight)
	if !s.Completed() {
		t.Fatal("expected completion")
	}

	s.Restart()
	if s.Completed() || s.Steps() != 0 || s.Elapsed() != 0 {
		t.Errorf("restart left state behind: completed=%v steps=%d elapsed=%v",
			s.Completed(), s.Steps(), s.Elapsed())
	}
	if got := s.Level().String(); got != before {
		t.Errorf("board after restart:\n%s\nwant:\n%s", got, before)
	}

	// The pristine level survives repeated play.
	s.Move(sokoban.DirRight)
	s.Restart()
	if got := s.Level().String(); got != before {
		t.Errorf("board after second restart:\n%s", got)
	}
}

func TestSessionSnapshot(t *testing.T) {
	s := newTestSession(t, "######\n#@$ .#\n######", nil)
	s.Move(sokoban.DirRight)

	st := s.Snapshot()
	if st.LevelID != "test" || st.Name != "Test" {
		t.Errorf("snapshot level = %q/%q", st.LevelID, st.Name)
	}
	if st.Steps != 1 || st.Completed {
		t.Errorf("snapshot steps=%d completed=%v", st.Steps, st.Completed)
	}
	if st.Player != (sokoban.Position{X: 2, Y: 1}) {
		t.Errorf("snapshot player = %v", st.Player)
	}
	if len(st.Rows) != 3 || st.Rows[1] != "# @$.#" {
		t.Errorf("snapshot rows = %q", st.Rows)
	}
	if st.Goals != 1 || st.OnGoal != 0 {
		t.Errorf("snapshot goals=%d on=%d", st.Goals, st.OnGoal)
	}
}

func TestLoad(t *testing.T) {
	reg, err := registry.Builtin()
	if err != nil {
		t.Fatalf("Builtin failed: %v", err)
	}

	s, err := Load(reg, "easy")
	if err != nil {
		t.Fatalf("Load(easy) failed: %v", err)
	}
	if s.Info().Name != "Easy" {
		t.Errorf("Info().Name = %q", s.Info().Name)
	}

	if _, err := Load(reg, "nope"); !errors.Is(err, registry.ErrUnknownLevel) {
		t.Errorf("Load(nope) = %v, want ErrUnknownLevel", err)
	}
}
