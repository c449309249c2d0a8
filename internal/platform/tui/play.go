package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-sokoban/internal/core"
	"github.com/vovakirdan/tui-sokoban/internal/game"
	"github.com/vovakirdan/tui-sokoban/internal/progress"
	"github.com/vovakirdan/tui-sokoban/internal/registry"
	"github.com/vovakirdan/tui-sokoban/internal/sokoban"
)

// Play screen layout rows.
const (
	hudTitleRow = 0
	hudStatsRow = 2
	hudBestRow  = 3
	boardTop    = 5
	footerRows  = 3
)

// PlayModel is the Bubble Tea model for playing one level.
type PlayModel struct {
	svc       Services
	profile   *progress.Profile
	session   *game.Session
	screen    *core.Screen
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	outcome   *game.Outcome // Set once the completion is recorded
	saveErr   error
	status    string // One-line message, e.g. where a screenshot went
	quitting  bool
	back      bool
	next      *registry.LevelInfo // Set when the player asks for the next level
}

// NewPlayModel creates a play screen for session.
func NewPlayModel(svc Services, profile *progress.Profile, session *game.Session, cfg core.RuntimeConfig) PlayModel {
	return PlayModel{
		svc:       svc,
		profile:   profile,
		session:   session,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the play screen. The timer is redrawn by the ticks
// AppModel sends.
func (m PlayModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m PlayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		m.status = m.saveScreenshot()
		return m, nil
	case "n":
		m.pickNext()
		return m, nil
	}

	action, quit := m.keyMapper.MapKey(msg)
	if quit {
		m.quitting = true
		return m, nil
	}

	switch action {
	case core.ActionBack:
		m.back = true
	case core.ActionRestart:
		m.session.Restart()
		m.outcome = nil
		m.saveErr = nil
		m.status = ""
	case core.ActionConfirm:
		m.pickNext()
	default:
		if dir, ok := Direction(action); ok {
			m.move(dir)
		}
	}
	return m, nil
}

// move applies one move and records the run when it completes the level.
func (m *PlayModel) move(dir sokoban.Direction) {
	res := m.session.Move(dir)
	if !res.Accepted() || !m.session.Completed() {
		return
	}
	if m.svc.Recorder == nil {
		return
	}

	out, err := m.svc.Recorder.Record(m.profile, m.session.Info().ID, m.session.Steps(), m.session.Elapsed())
	m.outcome = &out
	m.saveErr = err
}

// pickNext asks for the level after this one once the current one is solved.
// After the last level it goes back to the menu.
func (m *PlayModel) pickNext() {
	if !m.session.Completed() {
		return
	}
	next, ok := m.svc.Levels.Next(m.session.Info().ID)
	if !ok {
		m.back = true
		return
	}
	m.next = &next
}

// saveScreenshot writes the current screen as plain text and returns a
// status line describing the result.
func (m PlayModel) saveScreenshot() string {
	if m.svc.ScreenshotDir == "" {
		return "screenshots are disabled"
	}
	if err := os.MkdirAll(m.svc.ScreenshotDir, 0o755); err != nil {
		return "screenshot failed: " + err.Error()
	}

	m.draw()
	name := fmt.Sprintf("%s_%s.txt", m.session.Info().ID, time.Now().Format("20060102_150405"))
	path := filepath.Join(m.svc.ScreenshotDir, name)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		return "screenshot failed: " + err.Error()
	}
	return "screenshot saved to " + path
}

// View renders the current state to a string for display.
func (m PlayModel) View() string {
	if m.quitting {
		return ""
	}
	m.draw()
	return RenderScreen(m.screen, m.svc.Theme)
}

// draw renders the HUD, the board and any overlay into the screen buffer.
func (m PlayModel) draw() {
	s := m.screen
	s.Clear()

	info := m.session.Info()
	lvl := m.session.Level()

	s.DrawTextCentered(hudTitleRow, "SOKOBAN  -  "+info.Name, core.ColorAccent)
	s.DrawTextCentered(hudStatsRow, fmt.Sprintf("Steps: %d    Time: %s    Boxes: %d/%d",
		m.session.Steps(), formatElapsed(m.session.Elapsed()), lvl.BoxesOnGoals(), lvl.GoalCount()), core.ColorText)
	s.DrawTextCentered(hudBestRow, m.bestLine(info.ID), core.ColorMuted)

	area := core.NewRect(0, boardTop, s.Width(), core.Max(0, s.Height()-boardTop-footerRows))
	board := area.CenterIn(lvl.Width(), lvl.Height())
	DrawLevel(s, lvl, board.X, board.Y)

	if m.session.Completed() {
		m.drawVictory(board)
	}

	if m.status != "" {
		s.DrawTextCentered(s.Height()-2, m.status, core.ColorMuted)
	}
	s.DrawTextCentered(s.Height()-1, "Arrows/WASD: Move  |  R: Restart  |  Esc: Menu  |  Q: Quit", core.ColorMuted)
}

// bestLine describes the player's best and the level record.
func (m PlayModel) bestLine(levelID string) string {
	best := "-"
	if st, ok := m.profile.Stats(levelID); ok {
		best = fmt.Sprintf("%d (%s)", st.Steps, formatElapsed(st.Elapsed))
	}
	record := "-"
	if rec, ok := m.svc.Records.Best(levelID); ok {
		record = fmt.Sprintf("%d (%s) by %s", rec.Steps, formatElapsed(rec.Elapsed), rec.PlayerName)
	}
	return fmt.Sprintf("Best: %s    Record: %s", best, record)
}

// overlayLine is one line of text in the victory overlay.
type overlayLine struct {
	text  string
	color core.Color
}

// drawVictory draws the completion overlay centered on the board.
func (m PlayModel) drawVictory(board core.Rect) {
	s := m.screen
	lines := []overlayLine{
		{"LEVEL COMPLETE!", core.ColorAlert},
		{fmt.Sprintf("%d steps in %s", m.session.Steps(), formatElapsed(m.session.Elapsed())), core.ColorText},
	}

	if out := m.outcome; out != nil {
		switch {
		case out.NewRecord:
			lines = append(lines, overlayLine{"New level record!", core.ColorAccent})
		case out.PersonalBest:
			lines = append(lines, overlayLine{"New personal best!", core.ColorAccent})
		}
	}
	if m.saveErr != nil {
		lines = append(lines, overlayLine{"Progress could not be saved", core.ColorAlert})
	}

	hint := "Enter: Next  |  R: Replay  |  Esc: Menu"
	if _, ok := m.svc.Levels.Next(m.session.Info().ID); !ok {
		hint = "Enter: Menu  |  R: Replay"
	}

	width := len(hint) + 4
	height := len(lines) + 5
	cx, cy := board.X+board.W/2, board.Y+board.H/2
	box := core.NewRect(cx-width/2, cy-height/2, width, height)
	box.X = core.Clamp(box.X, 0, core.Max(0, s.Width()-width))
	box.Y = core.Clamp(box.Y, 0, core.Max(0, s.Height()-height))

	for y := box.Y; y < box.Bottom(); y++ {
		for x := box.X; x < box.Right(); x++ {
			s.Set(x, y, ' ')
		}
	}
	s.DrawBox(box, core.ColorAccent)

	for i, line := range lines {
		drawCenteredIn(s, box, box.Y+2+i, line.text, line.color)
	}
	drawCenteredIn(s, box, box.Bottom()-2, hint, core.ColorMuted)
}

// drawCenteredIn draws text centered horizontally inside r.
func drawCenteredIn(s *core.Screen, r core.Rect, y int, text string, c core.Color) {
	x := r.X + core.Max(0, (r.W-len([]rune(text)))/2)
	s.DrawTextColored(x, y, text, c)
}

// formatElapsed formats a duration as m:ss.t.
func formatElapsed(d time.Duration) string {
	d = d.Round(100 * time.Millisecond)
	minutes := int(d / time.Minute)
	seconds := (d % time.Minute).Seconds()
	return fmt.Sprintf("%d:%04.1f", minutes, seconds)
}

// IsQuitting returns true if user requested to quit entirely.
func (m PlayModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m PlayModel) BackToMenu() bool {
	return m.back
}

// NextLevel returns the level the player asked to continue with, or nil.
func (m PlayModel) NextLevel() *registry.LevelInfo {
	return m.next
}

// Session returns the session being played.
func (m PlayModel) Session() *game.Session {
	return m.session
}

// Outcome returns the recorded completion, or nil while the level is unsolved.
func (m PlayModel) Outcome() *game.Outcome {
	return m.outcome
}
