package setup

import "github.com/charmbracelet/lipgloss"

var (
	colorWhite     = lipgloss.Color("#FFFFFF")
	colorLightGray = lipgloss.Color("#CCCCCC")
	colorGray      = lipgloss.Color("#888888")
	colorDarkGray  = lipgloss.Color("#444444")
	colorYellow    = lipgloss.Color("#FFFF00")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite).
			MarginTop(1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorLightGray)

	activeLabelStyle = lipgloss.NewStyle().
				Foreground(colorWhite).
				Bold(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorDarkGray).
			Italic(true).
			MarginTop(1)
)
