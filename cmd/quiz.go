package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/madan-d/classmos/internal/app"
	"github.com/madan-d/classmos/internal/exercise"
	"github.com/madan-d/classmos/internal/llm"
	"github.com/madan-d/classmos/internal/progression"
	"github.com/madan-d/classmos/internal/ui/theme"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Generate lesson exercises",
}

var quizGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the exercises for a lesson on a learner's path",
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
		practice, _ := cmd.Flags().GetBool("practice")
		practice = practice || lesson.Completed()

		gen, err := a.Exercises(ctx)
		if err != nil {
			return err
		}
		ctx = llm.WithLesson(ctx, llm.LessonRef{CourseID: courseID, LessonID: lessonID})
		exs, genErr := gen.Generate(ctx, exercise.InputFor(lesson, practice))

		q := quizFile{LearnerID: learnerID, CourseID: courseID, LessonID: lessonID, Practice: practice, Exercises: exs}
		if out, _ := cmd.Flags().GetString("out"); out != "" {
			if err := writeJSONFile(out, q); err != nil {
				return err
			}
		}
		if wantJSON(cmd) {
			if err := printJSON(cmd.OutOrStdout(), q); err != nil {
				return err
			}
		} else {
			printExercises(cmd.OutOrStdout(), exs)
		}
		return genErr
	}),
}

func printExercises(w io.Writer, exs []exercise.Exercise) {
	for i, ex := range exs {
		fmt.Fprintln(w, theme.Title.Render(fmt.Sprintf("%d. [%s] %s", i+1, ex.Type, ex.Question)))
		switch ex.Type {
		case exercise.MultipleChoice, exercise.FillInTheBlank:
			for j, o := range ex.Options {
				fmt.Fprintf(w, "   %c) %s\n", 'a'+j, o)
			}
		case exercise.Matching:
			items := lo.Map(ex.Pairs, func(p exercise.Pair, _ int) string { return p.Item })
			matches := lo.Shuffle(lo.Map(ex.Pairs, func(p exercise.Pair, _ int) string { return p.Match }))
			fmt.Fprintf(w, "   %s\n   %s\n", strings.Join(items, " · "), strings.Join(matches, " · "))
		case exercise.Ordering:
			fmt.Fprintf(w, "   %s\n", strings.Join(lo.Shuffle(slices.Clone(ex.Segments)), " / "))
		}
		fmt.Fprintln(w, theme.Hint.Render("   "+ex.Concept))
	}
}

func init() {
	addSessionFlags(quizGenerateCmd)
	quizGenerateCmd.Flags().Bool("practice", false, "Generate a harder practice quiz")
	quizGenerateCmd.Flags().String("out", "", "Also write the quiz to this JSON file")

	quizCmd.AddCommand(quizGenerateCmd)
}
