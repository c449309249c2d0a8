package sokoban

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// ErrMalformedLevel is matched by every parse failure.
var ErrMalformedLevel = errors.New("sokoban: malformed level")

// MalformedLevelError describes why a level text was rejected.
type MalformedLevelError struct {
	Row    int // 0-based row where the problem was found
	Reason string
}

func (e *MalformedLevelError) Error() string {
	return fmt.Sprintf("sokoban: malformed level at row %d: %s", e.Row, e.Reason)
}

// Is makes errors.Is(err, ErrMalformedLevel) succeed.
func (e *MalformedLevelError) Is(target error) bool {
	return target == ErrMalformedLevel
}

// charTiles maps level characters to tiles; anything else is empty floor.
var charTiles = map[rune]TileType{
	'#': TileWall,
	'$': TileBox,
	'.': TileGoal,
	'@': TilePlayer,
}

// tileChar is the inverse of charTiles. An empty cell on the goal mask
// prints as a goal.
func tileChar(t TileType, goal bool) byte {
	switch t {
	case TileWall:
		return '#'
	case TileBox:
		return '$'
	case TilePlayer:
		return '@'
	case TileGoal:
		return '.'
	}
	if goal {
		return '.'
	}
	return ' '
}

// Parse builds a level from its rows.
// Widths are counted in characters, not bytes, and every row must have the
// width of the first row.
func Parse(lines []string) (*Level, error) {
	if len(lines) == 0 || len(lines[0]) == 0 {
		return nil, &MalformedLevelError{Row: 0, Reason: "level is empty"}
	}

	width := utf8.RuneCountInString(lines[0])
	tiles := make([][]TileType, len(lines))
	for y, line := range lines {
		chars := []rune(line)
		if len(chars) != width {
			return nil, &MalformedLevelError{
				Row:    y,
				Reason: fmt.Sprintf("row has width %d, expected %d", len(chars), width),
			}
		}
		row := make([]TileType, width)
		for x, c := range chars {
			if t, ok := charTiles[c]; ok {
				row[x] = t
			}
		}
		tiles[y] = row
	}

	return NewLevel(tiles)
}

// ParseString parses a level from a text blob.
// A trailing line terminator is ignored and CRLF endings are accepted.
func ParseString(text string) (*Level, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil, &MalformedLevelError{Row: 0, Reason: "level is empty"}
	}
	return Parse(strings.Split(text, "\n"))
}

// Read parses a level from r, one row per line.
func Read(r io.Reader) (*Level, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("sokoban: reading level: %w", err)
	}
	return Parse(lines)
}

// ParseFile parses the level stored at path.
func ParseFile(path string) (*Level, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sokoban: opening level %s: %w", path, err)
	}
	defer f.Close()

	level, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return level, nil
}
