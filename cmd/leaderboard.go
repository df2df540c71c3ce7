package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/madan-d/classmos/internal/app"
	"github.com/madan-d/classmos/internal/progression"
	"github.com/madan-d/classmos/internal/report"
	"github.com/madan-d/classmos/internal/ui/components"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Rank students by experience",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		courseID, _ := cmd.Flags().GetString("course")
		learners, err := a.Store.Learners().List(cmd.Context())
		if err != nil {
			return err
		}
		standings := progression.Leaderboard(learners, courseID)

		if path, _ := cmd.Flags().GetString("xlsx"); path != "" {
			return exportFile(cmd, path, func(f *os.File) error { return report.WriteLeaderboard(f, standings) })
		}
		if wantJSON(cmd) {
			return printJSON(cmd.OutOrStdout(), standings)
		}
		if len(standings) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No students ranked yet.")
			return nil
		}
		rows := lo.Map(standings, func(s progression.Standing, _ int) []string {
			return []string{strconv.Itoa(s.Rank), s.Name, strconv.Itoa(s.Experience), strconv.Itoa(s.Streak), s.League}
		})
		fmt.Fprintln(cmd.OutOrStdout(), components.Table([]string{"#", "Name", "XP", "Streak", "League"}, rows))
		return nil
	}),
}

func exportFile(cmd *cobra.Command, path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func init() {
	leaderboardCmd.Flags().String("course", "", "Rank by experience earned in this course")
	leaderboardCmd.Flags().String("xlsx", "", "Export to this spreadsheet file")
}
