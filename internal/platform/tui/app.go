package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-sokoban/internal/core"
	"github.com/vovakirdan/tui-sokoban/internal/game"
	"github.com/vovakirdan/tui-sokoban/internal/progress"
	"github.com/vovakirdan/tui-sokoban/internal/registry"
	"github.com/vovakirdan/tui-sokoban/internal/storage"
)

// Services are the stores and settings every screen works with.
// A server shares one Services value between all of its sessions.
type Services struct {
	Levels        *registry.Registry
	Records       *progress.Records
	History       *storage.Store // nil when the database could not be opened
	Recorder      *game.Recorder
	Theme         Theme
	ShowPreview   bool
	HistorySize   int    // Rows in the records table
	ScreenshotDir string // Empty disables ctrl+s screenshots
}

// AppOptions select how an AppModel starts.
type AppOptions struct {
	AskName     bool   // Show the name prompt first
	AllowRename bool   // Let the player change name from the menu
	StartLevel  string // Go straight into this level
}

type screen int

const (
	screenName screen = iota
	screenMenu
	screenPlay
	screenRecords
)

// AppModel manages the full session flow: name -> menu -> play / records.
// It is the top-level model for both local play and SSH sessions.
type AppModel struct {
	svc       Services
	profile   *progress.Profile
	config    core.RuntimeConfig
	opts      AppOptions
	current   screen
	name      NameModel
	menu      MenuModel
	play      PlayModel
	records   RecordsModel
	lastLevel string
	err       error // Shown above the menu, e.g. a level that failed to load
	quitting  bool
}

// NewAppModel creates the session model for one player.
func NewAppModel(svc Services, profile *progress.Profile, cfg core.RuntimeConfig, opts AppOptions) AppModel {
	m := AppModel{
		svc:     svc,
		profile: profile,
		config:  cfg,
		opts:    opts,
	}

	switch {
	case opts.AskName:
		m.showName()
	case opts.StartLevel != "":
		m.startLevel(opts.StartLevel)
	default:
		m.showMenu()
	}
	return m
}

// Init starts the tick loop and the first screen.
func (m AppModel) Init() tea.Cmd {
	var first tea.Cmd
	switch m.current {
	case screenName:
		first = m.name.Init()
	case screenPlay:
		first = m.play.Init()
	}
	return tea.Batch(tickCmd(m.config.TickRate), first)
}

// Update handles messages for the session.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	case TickMsg:
		// Ticks only refresh the play timer; keep them flowing on every screen.
		return m, tickCmd(m.config.TickRate)
	}

	switch m.current {
	case screenName:
		return m.updateName(msg)
	case screenPlay:
		return m.updatePlay(msg)
	case screenRecords:
		return m.updateRecords(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateName handles updates while asking for the player name.
func (m AppModel) updateName(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.name.Update(msg)
	if nm, ok := next.(NameModel); ok {
		m.name = nm
	}

	switch {
	case m.name.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.name.Done():
		if m.opts.StartLevel != "" && m.lastLevel == "" {
			return m, m.startLevel(m.opts.StartLevel)
		}
		m.showMenu()
		return m, nil
	}
	return m, cmd
}

// updateMenu handles updates when in menu mode.
func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if mm, ok := next.(MenuModel); ok {
		m.menu = mm
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.menu.WantsRecords():
		m.showRecords(m.menu.Current())
		return m, nil
	case m.menu.WantsRename():
		m.showName()
		return m, m.name.Init()
	case m.menu.Selected() != nil:
		return m, m.startLevel(m.menu.Selected().ID)
	}
	return m, cmd
}

// updatePlay handles updates when in game mode.
func (m AppModel) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.play.Update(msg)
	if pm, ok := next.(PlayModel); ok {
		m.play = pm
	}

	switch {
	case m.play.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.play.BackToMenu():
		m.showMenu()
		return m, nil
	case m.play.NextLevel() != nil:
		return m, m.startLevel(m.play.NextLevel().ID)
	}
	return m, cmd
}

// updateRecords handles updates on the records screen.
func (m AppModel) updateRecords(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.records.Update(msg)
	if rm, ok := next.(RecordsModel); ok {
		m.records = rm
	}

	switch {
	case m.records.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.records.IsGoingBack():
		if id := m.records.Level(); id != "" {
			m.lastLevel = id
		}
		m.showMenu()
		return m, nil
	}
	return m, cmd
}

func (m *AppModel) showName() {
	m.name = NewNameModel(m.profile, m.svc.Theme, m.config.ScreenW)
	m.current = screenName
}

func (m *AppModel) showMenu() {
	m.menu = NewMenuModel(m.svc, m.profile, m.lastLevel, m.config.ScreenW, m.config.ScreenH, m.opts.AllowRename)
	m.current = screenMenu
}

func (m *AppModel) showRecords(levelID string) {
	m.records = NewRecordsModel(m.svc, m.profile, levelID, m.config.ScreenW, m.config.ScreenH)
	m.current = screenRecords
}

// startLevel opens a level on the play screen. If the level cannot be
// loaded the menu is shown with the error.
func (m *AppModel) startLevel(levelID string) tea.Cmd {
	session, err := game.Load(m.svc.Levels, levelID)
	if err != nil {
		m.err = err
		m.showMenu()
		return nil
	}

	m.err = nil
	m.lastLevel = levelID
	m.play = NewPlayModel(m.svc, m.profile, session, m.config)
	m.current = screenPlay
	return m.play.Init()
}

// View renders the current screen.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.current {
	case screenName:
		return m.name.View()
	case screenPlay:
		return m.play.View()
	case screenRecords:
		return m.records.View()
	}

	view := m.menu.View()
	if m.err != nil {
		view = centerText(m.svc.Theme.Alert.Render(m.err.Error()), m.config.ScreenW) + "\n" + view
	}
	return view
}

// Err returns the last level loading error, if any.
func (m AppModel) Err() error {
	return m.err
}

// Run starts a local Bubble Tea program for one player.
func Run(svc Services, profile *progress.Profile, cfg core.RuntimeConfig, opts AppOptions) error {
	model := NewAppModel(svc, profile, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
