package components

import (
	"fmt"
	"strings"

	"github.com/madan-d/classmos/internal/progression"
	"github.com/madan-d/classmos/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var b strings.Builder
	if p.Label != "" {
		b.WriteString(theme.Body.Render(p.Label))
		b.WriteString("  ")
	}

	barWidth := max(4, p.Width)
	filled := min(barWidth, max(0, int(float64(barWidth)*p.Percent)))

	b.WriteString(theme.ProgressFilled.Render(strings.Repeat("█", filled)))
	b.WriteString(theme.ProgressEmpty.Render(strings.Repeat("░", barWidth-filled)))

	if p.ShowPercent {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("  %d%%", int(p.Percent*100))))
	}
	return b.String()
}

// Hearts renders lives as filled and empty hearts.
func Hearts(lives int) string {
	lives = min(progression.MaxLives, max(0, lives))
	return theme.Heart.Render(strings.Repeat("♥", lives)) +
		theme.HeartEmpty.Render(strings.Repeat("♡", progression.MaxLives-lives))
}
