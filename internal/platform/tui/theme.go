package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-sokoban/internal/core"
)

// Theme contains all configurable visual styles.
type Theme struct {
	// Board colors, keyed by core.Color role
	Wall      lipgloss.Style
	Floor     lipgloss.Style
	Goal      lipgloss.Style
	Box       lipgloss.Style
	BoxOnGoal lipgloss.Style
	Player    lipgloss.Style

	// HUD styles
	Text   lipgloss.Style
	Accent lipgloss.Style
	Muted  lipgloss.Style
	Alert  lipgloss.Style

	// Level picker styles
	MenuTitle       lipgloss.Style
	MenuItemNormal  lipgloss.Style
	MenuItemActive  lipgloss.Style
	MenuItemDone    lipgloss.Style
	MenuDescription lipgloss.Style
	PreviewBorder   lipgloss.Style
}

// ClassicTheme returns the default visual theme.
func ClassicTheme() Theme {
	return Theme{
		Wall:      lipgloss.NewStyle().Foreground(lipgloss.Color("130")), // Brick
		Floor:     lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		Goal:      lipgloss.NewStyle().Foreground(lipgloss.Color("205")), // Hot pink
		Box:       lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
		BoxOnGoal: lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true), // Lime green
		Player:    lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true), // Bright cyan

		Text:   lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		Accent: lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Alert:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),

		MenuTitle:       lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		MenuItemNormal:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		MenuItemActive:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		MenuItemDone:    lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		MenuDescription: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		PreviewBorder: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
	}
}

// MonoTheme returns a grayscale theme for terminals without colors.
func MonoTheme() Theme {
	theme := ClassicTheme()
	theme.Wall = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	theme.Goal = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	theme.Box = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	theme.BoxOnGoal = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true).Underline(true)
	theme.Player = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	theme.Accent = lipgloss.NewStyle().Bold(true)
	theme.Alert = lipgloss.NewStyle().Bold(true).Reverse(true)
	theme.MenuTitle = lipgloss.NewStyle().Bold(true)
	theme.MenuItemActive = lipgloss.NewStyle().Bold(true).Reverse(true)
	theme.MenuItemDone = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	return theme
}

// ThemeByName returns the theme with the given config name.
func ThemeByName(name string) (Theme, bool) {
	switch name {
	case "classic", "":
		return ClassicTheme(), true
	case "mono":
		return MonoTheme(), true
	}
	return ClassicTheme(), false
}

// style returns the style for a screen color role.
func (t Theme) style(c core.Color) lipgloss.Style {
	switch c {
	case core.ColorWall:
		return t.Wall
	case core.ColorFloor:
		return t.Floor
	case core.ColorGoal:
		return t.Goal
	case core.ColorBox:
		return t.Box
	case core.ColorBoxOnGoal:
		return t.BoxOnGoal
	case core.ColorPlayer:
		return t.Player
	case core.ColorText:
		return t.Text
	case core.ColorAccent:
		return t.Accent
	case core.ColorMuted:
		return t.Muted
	case core.ColorAlert:
		return t.Alert
	}
	return lipgloss.NewStyle()
}
