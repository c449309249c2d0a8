package sokoban

// MoveResult tells what a call to Move did.
type MoveResult uint8

const (
	MoveBlocked MoveResult = iota // rule violation, nothing changed
	MoveWalked                    // player stepped into an empty or goal cell
	MovePushed                    // player pushed a box one cell
)

// String returns the string representation of a move result.
func (r MoveResult) String() string {
	switch r {
	case MoveBlocked:
		return "Blocked"
	case MoveWalked:
		return "Walked"
	case MovePushed:
		return "Pushed"
	default:
		return "Unknown"
	}
}

// Accepted reports whether the move changed the grid.
func (r MoveResult) Accepted() bool {
	return r == MoveWalked || r == MovePushed
}

// Engine applies moves to one level and counts accepted steps.
// An Engine is not safe for concurrent use; callers serialize access.
type Engine struct {
	level *Level
	steps int
}

// New creates an engine that owns level.
func New(level *Level) *Engine {
	return &Engine{level: level}
}

// Level returns the level being played.
func (e *Engine) Level() *Level {
	return e.level
}

// Steps returns the number of accepted moves so far.
func (e *Engine) Steps() int {
	return e.steps
}

// Move moves the player one cell in direction d, pushing a box if one is in
// the way. Moves that break a rule leave the level untouched.
func (e *Engine) Move(d Direction) MoveResult {
	lvl := e.level
	next := lvl.player.Step(d)
	if !lvl.InBounds(next) {
		return MoveBlocked
	}

	switch target := lvl.at(next); {
	case target == TileWall:
		return MoveBlocked

	case target == TileBox:
		beyond := next.Step(d)
		if !lvl.InBounds(beyond) || !lvl.at(beyond).Walkable() {
			// No box stacking and no chain pushes.
			return MoveBlocked
		}
		lvl.set(beyond, TileBox)
		lvl.set(next, lvl.vacated(next))
		e.movePlayer(next)
		e.steps++
		return MovePushed

	case target.Walkable():
		e.movePlayer(next)
		e.steps++
		return MoveWalked
	}

	// TilePlayer: only one player cell exists, so this is unreachable in a
	// well-formed level.
	return MoveBlocked
}

// movePlayer puts the player on to, restoring the cell it leaves.
func (e *Engine) movePlayer(to Position) {
	lvl := e.level
	lvl.set(to, TilePlayer)
	lvl.set(lvl.player, lvl.vacated(lvl.player))
	lvl.player = to
}

// IsCompleted returns true if every goal cell holds a box.
// It scans the whole grid on each call and never mutates state.
func (e *Engine) IsCompleted() bool {
	lvl := e.level
	for y := 0; y < lvl.height; y++ {
		for x := 0; x < lvl.width; x++ {
			if lvl.goals[y][x] && lvl.tiles[y][x] != TileBox {
				return false
			}
		}
	}
	return true
}
