package tui

import (
	"strings"

	"github.com/vovakirdan/tui-sokoban/internal/core"
	"github.com/vovakirdan/tui-sokoban/internal/sokoban"
)

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen, theme Theme) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			// Collect consecutive cells with same color
			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			if startColor == core.ColorDefault {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(theme.style(startColor).Render(run.String()))
		}
	}
	return sb.String()
}

// tileGlyph returns how one board cell is drawn.
// Boxes and the player standing on a goal use the usual '*' and '+' marks.
func tileGlyph(lvl *sokoban.Level, x, y int) (rune, core.Color) {
	goal := lvl.IsGoal(x, y)
	switch lvl.Tile(x, y) {
	case sokoban.TileWall:
		return '#', core.ColorWall
	case sokoban.TileBox:
		if goal {
			return '*', core.ColorBoxOnGoal
		}
		return '$', core.ColorBox
	case sokoban.TilePlayer:
		if goal {
			return '+', core.ColorPlayer
		}
		return '@', core.ColorPlayer
	case sokoban.TileGoal:
		return '.', core.ColorGoal
	}
	if goal {
		return '.', core.ColorGoal
	}
	return ' ', core.ColorFloor
}

// DrawLevel draws the board with its top-left corner at (x, y).
func DrawLevel(s *core.Screen, lvl *sokoban.Level, x, y int) {
	for row := 0; row < lvl.Height(); row++ {
		for col := 0; col < lvl.Width(); col++ {
			r, c := tileGlyph(lvl, col, row)
			s.SetColored(x+col, y+row, r, c)
		}
	}
}

// RenderLevel renders a board on its own, as used by level previews.
func RenderLevel(lvl *sokoban.Level, theme Theme) string {
	s := core.NewScreen(lvl.Width(), lvl.Height())
	DrawLevel(s, lvl, 0, 0)
	return RenderScreen(s, theme)
}
