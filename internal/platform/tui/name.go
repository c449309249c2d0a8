package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-sokoban/internal/progress"
)

// NameModel asks the player for the name shown in records.
type NameModel struct {
	input    textinput.Model
	profile  *progress.Profile
	theme    Theme
	width    int
	err      error
	done     bool
	quitting bool
}

// NewNameModel creates a name prompt prefilled with the stored name.
func NewNameModel(profile *progress.Profile, theme Theme, width int) NameModel {
	ti := textinput.New()
	ti.Placeholder = progress.DefaultPlayerName
	ti.CharLimit = progress.MaxNameLength
	ti.Width = progress.MaxNameLength + 1
	ti.Prompt = "> "
	if profile.HasName() {
		ti.SetValue(profile.PlayerName())
	}
	ti.Focus()

	return NameModel{
		input:   ti,
		profile: profile,
		theme:   theme,
		width:   width,
	}
}

// Init starts the cursor blinking.
func (m NameModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the name prompt.
func (m NameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, nil
		case "esc":
			// Keep whatever name the profile already has.
			m.done = true
			return m, nil
		case "enter":
			return m.submit()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.err = nil
	return m, cmd
}

func (m NameModel) submit() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	if strings.TrimSpace(value) == "" && m.profile.HasName() {
		m.done = true
		return m, nil
	}
	if err := m.profile.SetPlayerName(value); err != nil {
		m.err = err
		return m, nil
	}
	m.done = true
	return m, nil
}

// View renders the name prompt.
func (m NameModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(centerText(m.theme.MenuTitle.Render("S O K O B A N"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("What is your name?", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.input.View(), m.width))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(centerText(m.theme.Alert.Render(m.err.Error()), m.width))
		b.WriteString("\n\n")
	}

	b.WriteString(centerText(m.theme.Muted.Render("Enter: Confirm  |  Esc: Skip"), m.width))
	b.WriteString("\n")
	return b.String()
}

// Done returns true once the name was saved or skipped.
func (m NameModel) Done() bool {
	return m.done
}

// IsQuitting returns true if user requested to quit.
func (m NameModel) IsQuitting() bool {
	return m.quitting
}

// Err returns the last error from saving the name.
func (m NameModel) Err() error {
	return m.err
}
