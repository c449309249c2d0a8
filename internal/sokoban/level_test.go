package sokoban

import "testing"

func TestCloneIsIndependent(t *testing.T) {
	orig := mustParse(t, "#####|#@$.#|#####")
	clone := orig.Clone()

	e := New(clone)
	e.Move(DirRight)

	if orig.Tile(2, 1) != TileBox || orig.PlayerPosition() != (Position{X: 1, Y: 1}) {
		t.Errorf("original changed after moving the clone:\n%s", orig)
	}
	if clone.Tile(3, 1) != TileBox {
		t.Errorf("clone did not move:\n%s", clone)
	}
	if clone.GoalCount() != orig.GoalCount() {
		t.Errorf("goal mask not copied: %d vs %d", clone.GoalCount(), orig.GoalCount())
	}
}

func TestTileOutOfBounds(t *testing.T) {
	lvl := mustParse(t, "@ ")

	for _, p := range []Position{{-1, 0}, {2, 0}, {0, -1}, {0, 1}} {
		if got := lvl.Tile(p.X, p.Y); got != TileWall {
			t.Errorf("Tile%v = %v, want Wall", p, got)
		}
		if lvl.IsGoal(p.X, p.Y) {
			t.Errorf("IsGoal%v = true outside the grid", p)
		}
		if lvl.InBounds(p) {
			t.Errorf("InBounds%v = true", p)
		}
	}
}

func TestNewLevel(t *testing.T) {
	lvl, err := NewLevel([][]TileType{
		{TileWall, TileWall, TileWall},
		{TileGoal, TilePlayer, TileBox},
	})
	if err != nil {
		t.Fatalf("NewLevel failed: %v", err)
	}
	if lvl.PlayerPosition() != (Position{X: 1, Y: 1}) {
		t.Errorf("player = %v, want (1,1)", lvl.PlayerPosition())
	}
	if !lvl.IsGoal(0, 1) {
		t.Error("goal not recorded")
	}

	if _, err := NewLevel(nil); err == nil {
		t.Error("expected error for empty grid")
	}
	if _, err := NewLevel([][]TileType{{TileWall}, {TileWall, TileWall}}); err == nil {
		t.Error("expected error for ragged grid")
	}
}

func TestNewLevelCopiesInput(t *testing.T) {
	src := [][]TileType{{TilePlayer, TileEmpty}}
	lvl, err := NewLevel(src)
	if err != nil {
		t.Fatalf("NewLevel failed: %v", err)
	}
	src[0][1] = TileWall
	if lvl.Tile(1, 0) != TileEmpty {
		t.Error("level shares memory with the input grid")
	}
}

func TestBoxesOnGoals(t *testing.T) {
	lvl := mustParse(t, "#@$.$.#")
	if got := lvl.BoxesOnGoals(); got != 0 {
		t.Errorf("BoxesOnGoals() = %d, want 0", got)
	}
	if got := lvl.GoalCount(); got != 2 {
		t.Errorf("GoalCount() = %d, want 2", got)
	}
}

func TestPositionStep(t *testing.T) {
	p := Position{X: 2, Y: 2}
	want := map[Direction]Position{
		DirUp:    {2, 1},
		DirDown:  {2, 3},
		DirLeft:  {1, 2},
		DirRight: {3, 2},
	}
	for d, w := range want {
		if got := p.Step(d); got != w {
			t.Errorf("Step(%v) = %v, want %v", d, got, w)
		}
	}
}
