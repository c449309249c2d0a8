package sokoban

import "strings"

// Level is the board of one puzzle: the live tile map, the permanent goal
// mask and the player coordinate.
//
// The goal mask is computed once by NewLevel and never changes afterwards.
// Only the Engine mutates the tile map.
type Level struct {
	width  int
	height int
	tiles  [][]TileType // [y][x]
	goals  [][]bool     // [y][x], true where the source had a goal
	player Position
}

// NewLevel builds a level from a rectangular tile grid.
// The grid is copied. Cells holding TileGoal become permanent goals.
// The player position is the last TilePlayer cell found, or (0,0) if the
// grid has none.
func NewLevel(tiles [][]TileType) (*Level, error) {
	if len(tiles) == 0 || len(tiles[0]) == 0 {
		return nil, &MalformedLevelError{Row: 0, Reason: "level is empty"}
	}

	width := len(tiles[0])
	l := &Level{
		width:  width,
		height: len(tiles),
		tiles:  make([][]TileType, len(tiles)),
		goals:  make([][]bool, len(tiles)),
	}

	for y, row := range tiles {
		if len(row) != width {
			return nil, &MalformedLevelError{
				Row:    y,
				Reason: "row width differs from first row",
			}
		}
		l.tiles[y] = make([]TileType, width)
		l.goals[y] = make([]bool, width)
		for x, t := range row {
			l.tiles[y][x] = t
			l.goals[y][x] = t == TileGoal
			if t == TilePlayer {
				l.player = Position{X: x, Y: y}
			}
		}
	}

	return l, nil
}

// Width returns the number of columns.
func (l *Level) Width() int {
	return l.width
}

// Height returns the number of rows.
func (l *Level) Height() int {
	return l.height
}

// InBounds returns true if the position is inside the grid.
func (l *Level) InBounds(p Position) bool {
	return p.X >= 0 && p.X < l.width && p.Y >= 0 && p.Y < l.height
}

// Tile returns the current occupant of (x, y).
// Out-of-bounds coordinates read as walls.
func (l *Level) Tile(x, y int) TileType {
	if !l.InBounds(Position{X: x, Y: y}) {
		return TileWall
	}
	return l.tiles[y][x]
}

// IsGoal returns true if (x, y) was a goal in the source level.
func (l *Level) IsGoal(x, y int) bool {
	if !l.InBounds(Position{X: x, Y: y}) {
		return false
	}
	return l.goals[y][x]
}

// PlayerPosition returns the player's coordinate.
func (l *Level) PlayerPosition() Position {
	return l.player
}

// GoalCount returns the number of goal cells.
func (l *Level) GoalCount() int {
	count := 0
	for _, row := range l.goals {
		for _, g := range row {
			if g {
				count++
			}
		}
	}
	return count
}

// BoxesOnGoals returns the number of goal cells currently holding a box.
func (l *Level) BoxesOnGoals() int {
	count := 0
	for y, row := range l.goals {
		for x, g := range row {
			if g && l.tiles[y][x] == TileBox {
				count++
			}
		}
	}
	return count
}

// Clone returns a deep copy of the level.
func (l *Level) Clone() *Level {
	clone := &Level{
		width:  l.width,
		height: l.height,
		tiles:  make([][]TileType, l.height),
		goals:  make([][]bool, l.height),
		player: l.player,
	}
	for y := range l.tiles {
		clone.tiles[y] = append([]TileType(nil), l.tiles[y]...)
		clone.goals[y] = append([]bool(nil), l.goals[y]...)
	}
	return clone
}

// Rows re-derives the level's text form from the live map.
// Boxes and the player are written as '$' and '@' even when they stand on a
// goal, so the goal mask must be consulted separately for those cells.
func (l *Level) Rows() []string {
	rows := make([]string, l.height)
	var sb strings.Builder
	for y := range l.tiles {
		sb.Reset()
		for x, t := range l.tiles[y] {
			sb.WriteByte(tileChar(t, l.goals[y][x]))
		}
		rows[y] = sb.String()
	}
	return rows
}

// String returns the level in text form, one row per line.
func (l *Level) String() string {
	return strings.Join(l.Rows(), "\n")
}

// set writes a tile; callers check bounds first.
func (l *Level) set(p Position, t TileType) {
	l.tiles[p.Y][p.X] = t
}

// at reads a tile; callers check bounds first.
func (l *Level) at(p Position) TileType {
	return l.tiles[p.Y][p.X]
}

// vacated returns what a cell reverts to once its occupant leaves.
func (l *Level) vacated(p Position) TileType {
	if l.goals[p.Y][p.X] {
		return TileGoal
	}
	return TileEmpty
}
