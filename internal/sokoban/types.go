// Package sokoban provides the box-pushing puzzle engine: the level grid,
// the text level parser and the move rules.
// This package is UI-agnostic and deterministic.
package sokoban

import (
	"fmt"
	"strings"
)

// TileType is the dynamic occupant of one grid cell.
// A box resting on a goal is stored as TileBox; the goal itself lives in the
// level's goal mask.
type TileType uint8

const (
	TileEmpty TileType = iota
	TileWall
	TileBox
	TileGoal
	TilePlayer
)

// String returns the string representation of a tile.
func (t TileType) String() string {
	switch t {
	case TileEmpty:
		return "Empty"
	case TileWall:
		return "Wall"
	case TileBox:
		return "Box"
	case TileGoal:
		return "Goal"
	case TilePlayer:
		return "Player"
	default:
		return "Unknown"
	}
}

// Walkable reports whether the player or a box may enter a cell holding t.
func (t TileType) Walkable() bool {
	return t == TileEmpty || t == TileGoal
}

// Direction is one of the four orthogonal moves.
type Direction uint8

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Directions lists every direction in declaration order.
var Directions = []Direction{DirUp, DirDown, DirLeft, DirRight}

// String returns the string representation of a direction.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "Up"
	case DirDown:
		return "Down"
	case DirLeft:
		return "Left"
	case DirRight:
		return "Right"
	default:
		return "Unknown"
	}
}

// Delta returns the (dx, dy) offset for one step in this direction.
// Up decreases Y, Down increases Y (screen coordinates).
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// ParseDirection parses a direction name, case-insensitively.
// Single-letter forms (u, d, l, r) are accepted.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return DirUp, nil
	case "down", "d":
		return DirDown, nil
	case "left", "l":
		return DirLeft, nil
	case "right", "r":
		return DirRight, nil
	}
	return 0, fmt.Errorf("sokoban: unknown direction %q", s)
}

// Position is a 0-based grid coordinate. X is the column, Y is the row.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Step returns the position one cell away in the given direction.
func (p Position) Step(d Direction) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// String returns a string representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}
