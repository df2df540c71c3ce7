package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/madan-d/classmos/internal/app"
	"github.com/madan-d/classmos/internal/commit"
	"github.com/madan-d/classmos/internal/exercise"
	"github.com/madan-d/classmos/internal/llm"
	"github.com/madan-d/classmos/internal/progression"
	"github.com/madan-d/classmos/internal/ui/components"
	"github.com/madan-d/classmos/internal/ui/theme"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Start and complete lesson sessions",
}

var sessionStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Check a lesson can be played and optionally generate its quiz",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		learnerID, courseID, lessonID := sessionTarget(cmd)
		ctx := cmd.Context()

		sess, err := a.Committer.Start(ctx, learnerID, courseID, lessonID)
		if err != nil {
			if errors.Is(err, progression.ErrNoLives) {
				return fmt.Errorf("%w: next life in %s", err, sess.Lives.NextRefill)
			}
			return err
		}

		out := cmd.OutOrStdout()
		mode := "lesson"
		if sess.Practice {
			mode = "practice"
		}
		fmt.Fprintln(out, components.LessonNode(sess.Lesson))
		fmt.Fprintln(out, components.Field("Mode", mode))
		fmt.Fprintln(out, components.Field("Lives", components.Hearts(sess.Learner.Lives)))

		quizPath, _ := cmd.Flags().GetString("quiz")
		if quizPath == "" {
			return nil
		}
		gen, err := a.Exercises(ctx)
		if err != nil {
			return err
		}
		ctx = llm.WithLesson(ctx, llm.LessonRef{CourseID: courseID, LessonID: lessonID})
		exs, err := gen.Generate(ctx, exercise.InputFor(sess.Lesson, sess.Practice))
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), theme.Incorrect.Render("Quiz generation failed: "+err.Error()))
		}
		q := quizFile{
			LearnerID: learnerID,
			CourseID:  courseID,
			LessonID:  lessonID,
			Practice:  sess.Practice,
			Exercises: exs,
		}
		if err := writeJSONFile(quizPath, q); err != nil {
			return fmt.Errorf("write quiz: %w", err)
		}
		fmt.Fprintf(out, "Wrote %d exercises to %s\n", len(exs), quizPath)
		return nil
	}),
}

var sessionCompleteCmd = &cobra.Command{
	Use:   "complete",
	Short: "Commit a finished session",
	Long: `Commit a finished session. Pass either a quiz file with an answers file,
or the score directly with --score and --total.`,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		learnerID, courseID, lessonID := sessionTarget(cmd)
		ctx := cmd.Context()

		path, err := a.Store.Lessons().Load(ctx, learnerID, courseID)
		if err != nil {
			return err
		}
		lesson, ok := path.Find(lessonID)
		if !ok {
			return progression.ErrLessonNotFound
		}

		result, err := sessionResult(cmd, lesson.Completed())
		if err != nil {
			return err
		}

		switch res := a.Committer.Complete(ctx, commit.Request{
			LearnerID: learnerID,
			CourseID:  courseID,
			LessonID:  lessonID,
			Result:    result,
		}).(type) {
		case commit.Committed:
			if wantJSON(cmd) {
				return printJSON(cmd.OutOrStdout(), res)
			}
			printOutcome(cmd.OutOrStdout(), res.Outcome)
			return nil
		case commit.RolledBack:
			return fmt.Errorf("session not saved: %w", res.Err)
		default:
			return fmt.Errorf("unexpected commit result %T", res)
		}
	}),
}

var sessionLoseLifeCmd = &cobra.Command{
	Use:   "lose-life",
	Short: "Charge one life for a wrong answer",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		learnerID, _ := cmd.Flags().GetString("learner")
		practice, _ := cmd.Flags().GetBool("practice")
		state, err := a.Committer.LoseLife(cmd.Context(), learnerID, practice)
		if err != nil {
			return err
		}
		printLives(cmd.OutOrStdout(), state)
		return nil
	}),
}

func sessionTarget(cmd *cobra.Command) (learnerID, courseID string, lessonID int) {
	learnerID, _ = cmd.Flags().GetString("learner")
	courseID, _ = cmd.Flags().GetString("course")
	lessonID, _ = cmd.Flags().GetInt("lesson")
	return learnerID, courseID, lessonID
}

// sessionResult reads the graded session from the quiz and answers files
// or from --score and --total.
func sessionResult(cmd *cobra.Command, practice bool) (progression.SessionResult, error) {
	quizPath, _ := cmd.Flags().GetString("quiz")
	if quizPath != "" {
		answersPath, _ := cmd.Flags().GetString("answers")
		if answersPath == "" {
			return progression.SessionResult{}, errors.New("--answers is required with --quiz")
		}
		var q quizFile
		if err := readJSONFile(quizPath, &q); err != nil {
			return progression.SessionResult{}, err
		}
		var answers []exercise.Answer
		if err := readJSONFile(answersPath, &answers); err != nil {
			return progression.SessionResult{}, err
		}
		return exercise.Result(q.Exercises, answers, practice), nil
	}

	if !cmd.Flags().Changed("score") || !cmd.Flags().Changed("total") {
		return progression.SessionResult{}, errors.New("either --quiz and --answers or --score and --total are required")
	}
	score, _ := cmd.Flags().GetInt("score")
	total, _ := cmd.Flags().GetInt("total")
	concepts, _ := cmd.Flags().GetStringSlice("concepts")
	if score < 0 || total < 0 || score > total {
		return progression.SessionResult{}, fmt.Errorf("invalid score %d/%d", score, total)
	}
	return exercise.ResultFromScore(score, total, concepts, practice), nil
}

func printOutcome(w io.Writer, out progression.Outcome) {
	v := out.Verdict
	verdict := theme.Correct.Render("Passed")
	if !v.Passed {
		verdict = theme.Incorrect.Render("Not passed")
	}
	if out.Practice {
		verdict += theme.Hint.Render(" (practice)")
	}
	fmt.Fprintln(w, verdict)
	fmt.Fprintln(w, components.Field("Score", fmt.Sprintf("%.0f%%", v.Percentage)))
	fmt.Fprintln(w, components.Field("XP", fmt.Sprintf("+%d (total %d)", v.EffectiveExperience, out.Learner.ExperienceTotal)))
	fmt.Fprintln(w, components.Field("Streak", fmt.Sprintf("%d days", out.Learner.StreakLength)))
	fmt.Fprintln(w, components.Field("Skill", fmt.Sprintf("%.0f (%+.1f)", out.Learner.SkillRating, out.RatingDelta)))
	fmt.Fprintln(w, components.Field("Lives", components.Hearts(out.Learner.Lives)))
	fmt.Fprintln(w, components.Field("Lesson", fmt.Sprintf("%d/%d levels", out.Lesson.LevelsCompleted, out.Lesson.TotalLevels)))
	if out.Unlocked != nil {
		fmt.Fprintln(w, theme.Current.Render("Unlocked: ")+components.LessonNode(*out.Unlocked))
	}
	if len(out.LeveledUp) > 0 {
		names := lo.Map(out.LeveledUp, func(a progression.Achievement, _ int) string {
			return fmt.Sprintf("%s L%d", a.Title, a.Level)
		})
		fmt.Fprintln(w, theme.Title.Render("Achievement: "+strings.Join(names, ", ")))
	}
}

func printLives(w io.Writer, s commit.LivesState) {
	line := components.Hearts(s.Lives)
	if s.NextRefill > 0 {
		line += theme.Hint.Render(fmt.Sprintf("  next in %s", s.NextRefill.Round(time.Second)))
	}
	fmt.Fprintln(w, components.Field("Lives", line))
}

func addSessionFlags(c *cobra.Command) {
	c.Flags().String("learner", "", "Learner ID")
	c.Flags().String("course", "", "Course ID")
	c.Flags().Int("lesson", 0, "Lesson ID")
	_ = c.MarkFlagRequired("learner")
	_ = c.MarkFlagRequired("course")
	_ = c.MarkFlagRequired("lesson")
}

func init() {
	addSessionFlags(sessionStartCmd)
	sessionStartCmd.Flags().String("quiz", "", "Generate the lesson quiz into this JSON file")

	addSessionFlags(sessionCompleteCmd)
	sessionCompleteCmd.Flags().String("quiz", "", "Quiz JSON file written by session start")
	sessionCompleteCmd.Flags().String("answers", "", "Answers JSON file")
	sessionCompleteCmd.Flags().Int("score", 0, "Correct answers")
	sessionCompleteCmd.Flags().Int("total", 0, "Total questions")
	sessionCompleteCmd.Flags().StringSlice("concepts", nil, "Concepts covered")

	sessionLoseLifeCmd.Flags().String("learner", "", "Learner ID")
	sessionLoseLifeCmd.Flags().Bool("practice", false, "Practice sessions do not cost lives")
	_ = sessionLoseLifeCmd.MarkFlagRequired("learner")

	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionCompleteCmd)
	sessionCmd.AddCommand(sessionLoseLifeCmd)
}
