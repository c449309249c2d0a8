package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-sokoban/internal/core"
	"github.com/vovakirdan/tui-sokoban/internal/sokoban"
)

func TestDrawLevelGlyphs(t *testing.T) {
	tests := []struct {
		name  string
		level string
		moves []sokoban.Direction
		want  string
	}{
		{"fresh", "#@$.#", nil, "#@$.#"},
		{"box on goal", "######|#@$. #|######", []sokoban.Direction{sokoban.DirRight}, "# @* #"},
		{"player on goal", "#@.#", []sokoban.Direction{sokoban.DirRight}, "# +#"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rows := strings.Split(tc.level, "|")
			lvl, err := sokoban.Parse(rows)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			e := sokoban.New(lvl)
			for _, d := range tc.moves {
				e.Move(d)
			}

			s := core.NewScreen(lvl.Width(), lvl.Height())
			DrawLevel(s, lvl, 0, 0)
			row := len(rows) / 2
			if got := s.Row(row); got != tc.want {
				t.Errorf("row %d = %q, expected %q", row, got, tc.want)
			}
		})
	}
}

func TestDrawLevelColors(t *testing.T) {
	lvl, err := sokoban.ParseString("#@$.")
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}
	s := core.NewScreen(6, 1)
	DrawLevel(s, lvl, 1, 0)

	want := []core.Color{core.ColorDefault, core.ColorWall, core.ColorPlayer, core.ColorBox, core.ColorGoal, core.ColorDefault}
	for x, c := range want {
		if got := s.GetCell(x, 0).Color; got != c {
			t.Errorf("cell %d color = %v, expected %v", x, got, c)
		}
	}
}

func TestRenderScreenPlainText(t *testing.T) {
	s := core.NewScreen(3, 2)
	s.DrawText(0, 0, "abc")
	s.DrawText(0, 1, "def")
	if got := RenderScreen(s, ClassicTheme()); got != "abc\ndef" {
		t.Errorf("RenderScreen = %q", got)
	}
}

func TestThemeByName(t *testing.T) {
	for _, name := range []string{"classic", "mono", ""} {
		if _, ok := ThemeByName(name); !ok {
			t.Errorf("ThemeByName(%q) not found", name)
		}
	}
	if _, ok := ThemeByName("neon"); ok {
		t.Error("ThemeByName(neon) should not exist")
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00.0"},
		{5300 * time.Millisecond, "0:05.3"},
		{61*time.Second + 40*time.Millisecond, "1:01.0"},
		{10*time.Minute + 9*time.Second, "10:09.0"},
	}
	for _, tc := range tests {
		if got := formatElapsed(tc.d); got != tc.want {
			t.Errorf("formatElapsed(%v) = %q, expected %q", tc.d, got, tc.want)
		}
	}
}
