package components

import (
	"fmt"
	"strings"

	"github.com/madan-d/classmos/internal/progression"
	"github.com/madan-d/classmos/internal/ui/theme"
)

var kindGlyph = map[progression.LessonKind]string{
	progression.KindStar:   "★",
	progression.KindTrophy: "🏆",
	progression.KindChest:  "🎁",
}

const indent = 4

// LessonNode renders one path node, offset by its position.
func LessonNode(l progression.Lesson) string {
	pad := indent
	switch l.Position {
	case progression.PositionLeft:
		pad = 0
	case progression.PositionRight:
		pad = 2 * indent
	}

	label := fmt.Sprintf("%s %d. %s · %s (%d/%d, %s)",
		kindGlyph[l.Kind], l.ID, l.SectionTitle, l.Topic, l.LevelsCompleted, l.TotalLevels, l.Difficulty)

	var style = theme.Body
	switch l.Status {
	case progression.StatusLocked:
		style = theme.Locked
	case progression.StatusCurrent:
		style = theme.Current
	case progression.StatusCompleted:
		style = theme.Correct
	}
	return strings.Repeat(" ", pad) + style.Render(label)
}

// PathView renders a lesson path grouped by unit.
func PathView(path progression.Path) string {
	var b strings.Builder
	unit := 0
	for _, l := range path {
		if l.UnitID != unit {
			unit = l.UnitID
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(theme.Title.Render(fmt.Sprintf("Unit %d", unit)))
			b.WriteString("\n")
		}
		b.WriteString(LessonNode(l))
		b.WriteString("\n")
	}
	return b.String()
}
