package cmd

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/madan-d/classmos/internal/app"
	"github.com/madan-d/classmos/internal/progression"
	"github.com/madan-d/classmos/internal/report"
	"github.com/madan-d/classmos/internal/ui/components"
	"github.com/madan-d/classmos/internal/ui/theme"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show retention insights for a class",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		courseID, _ := cmd.Flags().GetString("course")
		learners, err := a.Store.Learners().List(cmd.Context())
		if err != nil {
			return err
		}
		if courseID != "" {
			learners = lo.Filter(learners, func(l progression.Learner, _ int) bool {
				return slices.Contains(l.EnrolledCourseIDs, courseID)
			})
		}
		rep := progression.ClassInsights(learners)

		if path, _ := cmd.Flags().GetString("xlsx"); path != "" {
			return exportFile(cmd, path, func(f *os.File) error { return report.WriteInsights(f, rep) })
		}
		if wantJSON(cmd) {
			return printJSON(cmd.OutOrStdout(), rep)
		}

		out := cmd.OutOrStdout()
		if len(rep.Students) == 0 {
			fmt.Fprintln(out, "No students yet.")
			return nil
		}
		if !rep.Sufficient {
			fmt.Fprintln(out, theme.Hint.Render("Class too small for meaningful segments."))
		}
		rows := lo.Map(rep.Students, func(s progression.StudentInsight, _ int) []string {
			risk := ""
			if s.AtRisk {
				risk = theme.Incorrect.Render("at risk")
			}
			return []string{s.Name, fmt.Sprintf("%.0f%%", s.Accuracy), strconv.Itoa(s.Streak),
				fmt.Sprintf("%.1f", s.RetentionScore), string(s.Segment), risk}
		})
		fmt.Fprintln(out, components.Table([]string{"Name", "Accuracy", "Streak", "Retention", "Segment", ""}, rows))
		fmt.Fprintf(out, "%d of %d students at risk\n", rep.AtRisk, len(rep.Students))
		return nil
	}),
}

func init() {
	insightsCmd.Flags().String("course", "", "Only students enrolled in this course")
	insightsCmd.Flags().String("xlsx", "", "Export to this spreadsheet file")
}
