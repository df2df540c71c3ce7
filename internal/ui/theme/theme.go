// Package theme holds the colors and styles of classmos terminal output.
package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary   = lipgloss.Color("#58CC02") // Feather Green
	Secondary = lipgloss.Color("#1CB0F6") // Macaw Blue
	Accent    = lipgloss.Color("#FFC800") // Bee Yellow
	Success   = lipgloss.Color("#58CC02")
	Error     = lipgloss.Color("#FF4B4B") // Cardinal Red
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	Border    = lipgloss.Color("#334155")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Label = lipgloss.NewStyle().
		Foreground(TextDim).
		Width(12)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// States
var (
	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Heart = lipgloss.NewStyle().
		Foreground(Error)

	HeartEmpty = lipgloss.NewStyle().
			Foreground(Border)
)

// Tables
var (
	TableHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(Secondary).
			Padding(0, 1)

	TableCell = lipgloss.NewStyle().
			Foreground(Text).
			Padding(0, 1)

	TableBorder = lipgloss.NewStyle().
			Foreground(Border)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Foreground(Primary)

	ProgressEmpty = lipgloss.NewStyle().
			Foreground(Border)

	Locked = lipgloss.NewStyle().
		Foreground(TextDim)

	Current = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)
)
