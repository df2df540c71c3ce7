// Package report exports leaderboards and class insights as spreadsheets.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/madan-d/classmos/internal/progression"
)

// Sheet is the worksheet every export writes to.
const Sheet = "Sheet1"

var (
	leaderboardHeader = []any{"Rank", "Name", "Learner ID", "XP", "Streak", "League"}
	insightsHeader    = []any{"Name", "Learner ID", "Accuracy", "Streak", "XP", "Skill", "Retention", "Segment", "At Risk"}
)

// WriteLeaderboard writes standings as a one sheet workbook.
func WriteLeaderboard(w io.Writer, standings []progression.Standing) error {
	rows := make([][]any, 0, len(standings))
	for _, s := range standings {
		rows = append(rows, []any{s.Rank, s.Name, s.LearnerID, s.Experience, s.Streak, s.League})
	}
	return writeSheet(w, leaderboardHeader, rows)
}

// WriteInsights writes a class report as a one sheet workbook.
func WriteInsights(w io.Writer, report progression.ClassReport) error {
	rows := make([][]any, 0, len(report.Students))
	for _, s := range report.Students {
		rows = append(rows, []any{
			s.Name, s.LearnerID, s.Accuracy, s.Streak, s.Experience,
			s.SkillRating, s.RetentionScore, string(s.Segment), s.AtRisk,
		})
	}
	return writeSheet(w, insightsHeader, rows)
}

func writeSheet(w io.Writer, header []any, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(Sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(Sheet, "A1", last, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(Sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
