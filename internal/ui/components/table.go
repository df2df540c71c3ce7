package components

import (
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/madan-d/classmos/internal/ui/theme"
)

// Table renders rows under headers with the classmos table styles.
func Table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(theme.TableBorder).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return theme.TableHeader
			}
			return theme.TableCell
		})
	return t.Render()
}

// Field renders a "label value" line.
func Field(label, value string) string {
	return theme.Label.Render(label) + theme.Body.Render(value)
}
