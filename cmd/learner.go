package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/madan-d/classmos/internal/app"
	"github.com/madan-d/classmos/internal/progression"
	"github.com/madan-d/classmos/internal/store"
	"github.com/madan-d/classmos/internal/ui/components"
	"github.com/madan-d/classmos/internal/ui/theme"
)

var learnerCmd = &cobra.Command{
	Use:   "learner",
	Short: "Create and inspect learners",
}

var learnerCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a student or teacher",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		id, _ := cmd.Flags().GetString("id")
		teacher, _ := cmd.Flags().GetBool("teacher")
		if id == "" {
			id = uuid.NewString()
		}
		ctx := cmd.Context()

		if _, err := a.Store.Learners().Load(ctx, id); err == nil {
			return fmt.Errorf("learner %s already exists", id)
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		l := progression.NewLearner(id, args[0], time.Now())
		if teacher {
			l = progression.NewTeacher(id, args[0], time.Now())
		}
		if _, err := a.Store.Learners().SaveIfVersion(ctx, id, l, 0); err != nil {
			return fmt.Errorf("create learner: %w", err)
		}
		if wantJSON(cmd) {
			return printJSON(cmd.OutOrStdout(), l)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s (%s)\n", l.Role, l.Name, l.ID)
		return nil
	}),
}

var learnerShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a learner's profile and lesson paths",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		ctx := cmd.Context()
		l, err := a.Store.Learners().Load(ctx, args[0])
		if err != nil {
			return err
		}
		courses, err := a.Store.Lessons().Courses(ctx, l.ID)
		if err != nil {
			return err
		}
		paths := make(map[string]progression.Path, len(courses))
		for _, c := range courses {
			p, err := a.Store.Lessons().Load(ctx, l.ID, c)
			if err != nil {
				return err
			}
			paths[c] = p
		}

		if wantJSON(cmd) {
			return printJSON(cmd.OutOrStdout(), struct {
				Learner *progression.Learner        `json:"learner"`
				Paths   map[string]progression.Path `json:"paths"`
			}{l, paths})
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, theme.Title.Render(l.Name))
		fmt.Fprintln(out, components.Field("ID", l.ID))
		fmt.Fprintln(out, components.Field("Role", string(l.Role)))
		if !l.IsStudent() {
			return nil
		}

		now := time.Now()
		lives, refill, _ := progression.Regenerate(l.Lives, l.LastLifeRefillAt, now)
		livesLine := components.Hearts(lives)
		if next := progression.NextRefillIn(lives, refill, now); next > 0 {
			livesLine += theme.Hint.Render(fmt.Sprintf("  next in %s", next.Round(time.Second)))
		}
		fmt.Fprintln(out, components.Field("Lives", livesLine))
		fmt.Fprintln(out, components.Field("XP", fmt.Sprintf("%d (today %d)", l.ExperienceTotal, l.DailyExperience)))
		fmt.Fprintln(out, components.Field("Streak", fmt.Sprintf("%d days", l.StreakLength)))
		fmt.Fprintln(out, components.Field("Gems", strconv.Itoa(l.Gems)))
		fmt.Fprintln(out, components.Field("League", l.League))
		fmt.Fprintln(out, components.Field("Accuracy", fmt.Sprintf("%.0f%%", l.AccuracyRating)))
		fmt.Fprintln(out, components.Field("Retention", fmt.Sprintf("%.0f", l.RetentionRating)))
		fmt.Fprintln(out, components.Field("Skill", fmt.Sprintf("%.0f", l.SkillRating)))

		fmt.Fprintln(out)
		for _, ach := range l.Achievements {
			label := fmt.Sprintf("%s L%d", ach.Title, ach.Level)
			fmt.Fprintln(out, components.NewProgressBar(label, float64(ach.PercentToNext())/100, true, 20).View())
		}

		for _, c := range courses {
			p := paths[c]
			fmt.Fprintln(out)
			title := c
			if info, err := a.Store.Courses().Load(ctx, c); err == nil {
				title = info.Flag + " " + info.Title
			}
			fmt.Fprintln(out, theme.Title.Render(fmt.Sprintf("%s · %d/%d lessons · %d XP",
				title, p.CompletedCount(), len(p), l.CourseExperience(c))))
			fmt.Fprint(out, components.PathView(p))
			if focus := p.FocusAreas(); len(focus) > 0 {
				fmt.Fprintln(out, theme.Hint.Render("Focus: "+strings.Join(focus, ", ")))
			}
		}
		return nil
	}),
}

var learnerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List learners",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		learners, err := a.Store.Learners().List(cmd.Context())
		if err != nil {
			return err
		}
		if wantJSON(cmd) {
			return printJSON(cmd.OutOrStdout(), learners)
		}
		if len(learners) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No learners yet.")
			return nil
		}
		rows := lo.Map(learners, func(l progression.Learner, _ int) []string {
			return []string{l.ID, l.Name, string(l.Role), strconv.Itoa(l.ExperienceTotal),
				strconv.Itoa(l.StreakLength), strconv.Itoa(l.Lives), strconv.Itoa(len(l.EnrolledCourseIDs))}
		})
		fmt.Fprintln(cmd.OutOrStdout(), components.Table(
			[]string{"ID", "Name", "Role", "XP", "Streak", "Lives", "Courses"}, rows))
		return nil
	}),
}

var learnerResetCmd = &cobra.Command{
	Use:   "reset <id>",
	Short: "Delete a learner and all of their lesson paths",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("refusing to delete %s without --yes", args[0])
		}
		if err := a.Store.Learners().Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted learner %s\n", args[0])
		return nil
	}),
}

func init() {
	learnerCreateCmd.Flags().String("id", "", "Learner ID (default: random UUID)")
	learnerCreateCmd.Flags().Bool("teacher", false, "Create a teacher instead of a student")
	learnerResetCmd.Flags().Bool("yes", false, "Confirm deletion")

	learnerCmd.AddCommand(learnerCreateCmd)
	learnerCmd.AddCommand(learnerShowCmd)
	learnerCmd.AddCommand(learnerListCmd)
	learnerCmd.AddCommand(learnerResetCmd)
}
