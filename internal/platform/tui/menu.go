package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-sokoban/internal/progress"
	"github.com/vovakirdan/tui-sokoban/internal/registry"
)

// minWidthForDetails is the narrowest terminal that shows the level details
// beside the list instead of below it.
const minWidthForDetails = 60

// MenuModel is the Bubble Tea model for the level picker.
type MenuModel struct {
	svc         Services
	profile     *progress.Profile
	levels      []registry.LevelInfo
	previews    map[string]string // Rendered thumbnails by level ID
	cursor      int
	width       int
	height      int
	keyMapper   *KeyMapper
	allowRename bool
	quitting    bool
	selected    *registry.LevelInfo // Set when user picks a level
	openRecords bool                // True if user pressed Tab
	rename      bool                // True if user asked to change name
}

// NewMenuModel creates a new menu model with the cursor on levelID, or on
// the first level when levelID is empty or unknown.
func NewMenuModel(svc Services, profile *progress.Profile, levelID string, width, height int, allowRename bool) MenuModel {
	levels := svc.Levels.List()
	m := MenuModel{
		svc:         svc,
		profile:     profile,
		levels:      levels,
		previews:    make(map[string]string, len(levels)),
		width:       width,
		height:      height,
		keyMapper:   NewKeyMapper(),
		allowRename: allowRename,
	}

	for i, info := range levels {
		if info.ID == levelID {
			m.cursor = i
		}
		if !svc.ShowPreview {
			continue
		}
		lvl, err := svc.Levels.Load(info.ID)
		if err != nil {
			m.previews[info.ID] = svc.Theme.Alert.Render("unreadable level")
			continue
		}
		m.previews[info.ID] = RenderLevel(lvl, svc.Theme)
	}

	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.levels)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.levels) > 0 {
			selected := m.levels[m.cursor]
			m.selected = &selected
		}

	case MenuActionRecords:
		m.openRecords = true

	case MenuActionRename:
		if m.allowRename {
			m.rename = true
		}
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	theme := m.svc.Theme
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(theme.MenuTitle.Render("S O K O B A N"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(theme.MenuDescription.Render("Playing as "+m.profile.PlayerName()), m.width))
	b.WriteString("\n\n")

	if len(m.levels) == 0 {
		b.WriteString(centerText(theme.Alert.Render("No levels found."), m.width))
		b.WriteString("\n")
	} else {
		list := m.renderList()
		details := m.renderDetails(m.levels[m.cursor])
		var body string
		if m.width >= minWidthForDetails {
			body = lipgloss.JoinHorizontal(lipgloss.Top, list, "    ", details)
		} else {
			body = lipgloss.JoinVertical(lipgloss.Left, list, "", details)
		}
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, body))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Play  |  Tab: Records"
	if m.allowRename {
		controls += "  |  N: Name"
	}
	controls += "  |  Q: Quit"
	b.WriteString(centerText(theme.Muted.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// renderList renders the level names with completion marks.
func (m MenuModel) renderList() string {
	theme := m.svc.Theme
	lines := make([]string, 0, len(m.levels))
	for i, info := range m.levels {
		cursor := "  "
		style := theme.MenuItemNormal
		if i == m.cursor {
			cursor = "> "
			style = theme.MenuItemActive
		}

		mark := "  "
		if _, ok := m.profile.Stats(info.ID); ok {
			mark = theme.MenuItemDone.Render("✓ ")
		}
		lines = append(lines, cursor+mark+style.Render(info.Name))
	}
	return strings.Join(lines, "\n")
}

// renderDetails renders the personal best, record and preview of a level.
func (m MenuModel) renderDetails(info registry.LevelInfo) string {
	theme := m.svc.Theme
	lines := []string{theme.Accent.Render(info.Name), ""}

	best := "-"
	if st, ok := m.profile.Stats(info.ID); ok {
		best = fmt.Sprintf("%d steps  %s", st.Steps, formatElapsed(st.Elapsed))
	}
	lines = append(lines, theme.MenuDescription.Render("Best:   ")+best)

	record := "-"
	if rec, ok := m.svc.Records.Best(info.ID); ok {
		record = fmt.Sprintf("%d steps  %s  %s", rec.Steps, formatElapsed(rec.Elapsed), rec.PlayerName)
	}
	lines = append(lines, theme.MenuDescription.Render("Record: ")+record)

	if preview, ok := m.previews[info.ID]; ok {
		lines = append(lines, "", preview)
	}

	return theme.PreviewBorder.Render(strings.Join(lines, "\n"))
}

// Selected returns the selected level, or nil if none selected.
func (m MenuModel) Selected() *registry.LevelInfo {
	return m.selected
}

// Current returns the ID of the level under the cursor, or "" when there
// are no levels.
func (m MenuModel) Current() string {
	if len(m.levels) == 0 {
		return ""
	}
	return m.levels[m.cursor].ID
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsRecords returns true if user requested the records screen.
func (m MenuModel) WantsRecords() bool {
	return m.openRecords
}

// WantsRename returns true if user asked to change the player name.
func (m MenuModel) WantsRename() bool {
	return m.rename
}

// centerText centers text within given width.
// Width is measured in cells, so styled text centers correctly.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}
