package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha
var (
	colorBase     = lipgloss.Color("#1e1e2e")
	colorText     = lipgloss.Color("#cdd6f4")
	colorSubtext  = lipgloss.Color("#a6adc8")
	colorOverlay  = lipgloss.Color("#6c7086")
	colorLavender = lipgloss.Color("#b4befe")
	colorMauve    = lipgloss.Color("#cba6f7")
	colorGreen    = lipgloss.Color("#a6e3a1")
	colorPeach    = lipgloss.Color("#fab387")
	colorRed      = lipgloss.Color("#f38ba8")
)

var (
	appStyle = lipgloss.NewStyle().Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBase).
			Background(colorMauve).
			Padding(0, 1)

	filterActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorLavender).
				Underline(true)

	filterStyle = lipgloss.NewStyle().Foreground(colorOverlay)

	cursorStyle = lipgloss.NewStyle().Foreground(colorMauve).Bold(true)

	taskTitleStyle = lipgloss.NewStyle().Foreground(colorText)

	taskDoneStyle = lipgloss.NewStyle().
			Foreground(colorOverlay).
			Strikethrough(true)

	taskDescStyle = lipgloss.NewStyle().Foreground(colorSubtext).PaddingLeft(6)

	editingStyle = lipgloss.NewStyle().Foreground(colorPeach)

	counterStyle = lipgloss.NewStyle().Foreground(colorGreen)

	placeholderStyle = lipgloss.NewStyle().Foreground(colorOverlay).Italic(true)

	labelStyle = lipgloss.NewStyle().Foreground(colorSubtext).Width(13)

	focusedLabelStyle = labelStyle.Foreground(colorLavender).Bold(true)

	buttonStyle = lipgloss.NewStyle().
			Foreground(colorBase).
			Background(colorLavender).
			Padding(0, 1)

	secondaryButtonStyle = lipgloss.NewStyle().
				Foreground(colorText).
				Background(colorOverlay).
				Padding(0, 1)

	errorStyle = lipgloss.NewStyle().Foreground(colorRed).Bold(true)

	confirmStyle = lipgloss.NewStyle().
			Foreground(colorPeach).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPeach).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().Foreground(colorOverlay)
)
