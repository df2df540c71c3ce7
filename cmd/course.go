package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/madan-d/classmos/internal/app"
	"github.com/madan-d/classmos/internal/course"
	"github.com/madan-d/classmos/internal/progression"
	"github.com/madan-d/classmos/internal/store"
	"github.com/madan-d/classmos/internal/ui/components"
	"github.com/madan-d/classmos/internal/ui/theme"
)

var courseCmd = &cobra.Command{
	Use:   "course",
	Short: "Author, generate and join courses",
}

var courseImportCmd = &cobra.Command{
	Use:   "import <structure.yaml|json>",
	Short: "Create a course from a structure file",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		s, err := readStructure(args[0])
		if err != nil {
			return err
		}
		return createCourse(cmd, a, s)
	}),
}

var courseGenerateCmd = &cobra.Command{
	Use:   "generate <document>",
	Short: "Generate a course unit from a document with the LLM",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		ctx := cmd.Context()
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		subject, _ := cmd.Flags().GetString("subject")
		language, _ := cmd.Flags().GetString("language")
		if subject == "" {
			subject = filepath.Base(args[0])
		}

		gen, err := a.CourseGenerator(ctx)
		if err != nil {
			return err
		}
		doc := course.Document{MIMEType: course.DetectMIMEType(args[0], data), Data: data}
		s, err := gen.FromDocument(ctx, doc, subject, language)
		if err != nil {
			return err
		}

		if out, _ := cmd.Flags().GetString("out"); out != "" {
			encoded, err := course.Marshal(s, course.FormatFromPath(out))
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, encoded, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d lessons)\n", out, s.LessonCount())
		}
		if appendTo, _ := cmd.Flags().GetString("append-to"); appendTo != "" {
			return appendCourse(cmd, a, appendTo, s)
		}
		if create, _ := cmd.Flags().GetBool("create"); create {
			return createCourse(cmd, a, s)
		}
		return nil
	}),
}

var courseAppendCmd = &cobra.Command{
	Use:   "append <course-id> <structure.yaml|json>",
	Short: "Append units to a course you own",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		s, err := readStructure(args[1])
		if err != nil {
			return err
		}
		return appendCourse(cmd, a, args[0], s)
	}),
}

var courseShowCmd = &cobra.Command{
	Use:   "show <course-id|code>",
	Short: "Show a course and its outline",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		ctx := cmd.Context()
		c, err := a.Store.Courses().Load(ctx, args[0])
		if errors.Is(err, store.ErrNotFound) {
			c, err = a.Store.Courses().FindByCode(ctx, course.NormalizeCode(args[0]))
		}
		if err != nil {
			return err
		}
		if wantJSON(cmd) {
			return printJSON(cmd.OutOrStdout(), c)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, theme.Title.Render(c.Flag+" "+c.Title))
		fmt.Fprintln(out, components.Field("ID", c.ID))
		fmt.Fprintln(out, components.Field("Code", c.Code))
		fmt.Fprintln(out, components.Field("Owner", c.OwnerID))
		fmt.Fprintln(out, components.Field("Lessons", strconv.Itoa(c.Structure.LessonCount())))
		for i, u := range c.Structure.Units {
			fmt.Fprintln(out)
			fmt.Fprintln(out, theme.Title.Render(fmt.Sprintf("Unit %d: %s", i+1, u.Title)))
			if u.Description != "" {
				fmt.Fprintln(out, theme.Hint.Render(u.Description))
			}
			for _, s := range u.Sections {
				fmt.Fprintln(out, "  • "+s.Title)
			}
		}
		return nil
	}),
}

var courseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List courses",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		courses, err := a.Store.Courses().List(cmd.Context())
		if err != nil {
			return err
		}
		if wantJSON(cmd) {
			return printJSON(cmd.OutOrStdout(), courses)
		}
		if len(courses) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No courses yet.")
			return nil
		}
		rows := lo.Map(courses, func(c store.Course, _ int) []string {
			return []string{c.ID, c.Flag + " " + c.Title, c.Code, c.OwnerID,
				strconv.Itoa(len(c.Structure.Units)), strconv.Itoa(c.Structure.LessonCount())}
		})
		fmt.Fprintln(cmd.OutOrStdout(), components.Table(
			[]string{"ID", "Title", "Code", "Owner", "Units", "Lessons"}, rows))
		return nil
	}),
}

var courseJoinCmd = &cobra.Command{
	Use:   "join <code>",
	Short: "Enroll a learner with a class code",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		learnerID, _ := cmd.Flags().GetString("learner")
		c, err := a.Courses.Join(cmd.Context(), learnerID, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Joined %s %s (%s)\n", c.Flag, c.Title, c.ID)
		return nil
	}),
}

var courseSyncCmd = &cobra.Command{
	Use:   "sync <course-id>",
	Short: "Add newly appended course units to a learner's path",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		learnerID, _ := cmd.Flags().GetString("learner")
		n, err := a.Courses.Sync(cmd.Context(), learnerID, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %d lessons\n", n)
		return nil
	}),
}

func readStructure(path string) (progression.Structure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return progression.Structure{}, err
	}
	return course.Parse(data, course.FormatFromPath(path))
}

func createCourse(cmd *cobra.Command, a *app.App, s progression.Structure) error {
	owner, _ := cmd.Flags().GetString("owner")
	flag, _ := cmd.Flags().GetString("flag")
	if owner == "" {
		return errors.New("--owner is required to create a course")
	}
	c, err := a.Courses.Create(cmd.Context(), owner, flag, s)
	if err != nil {
		return err
	}
	if wantJSON(cmd) {
		return printJSON(cmd.OutOrStdout(), c)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s (%s), class code %s\n", c.Flag, c.Title, c.ID, theme.Current.Render(c.Code))
	return nil
}

func appendCourse(cmd *cobra.Command, a *app.App, courseID string, s progression.Structure) error {
	owner, _ := cmd.Flags().GetString("owner")
	c, err := a.Courses.Append(cmd.Context(), owner, courseID, s)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s now has %d units (%d lessons)\n", c.Title, len(c.Structure.Units), c.Structure.LessonCount())
	return nil
}

func init() {
	for _, c := range []*cobra.Command{courseImportCmd, courseGenerateCmd} {
		c.Flags().String("owner", "", "Owner learner ID")
		c.Flags().String("flag", course.DefaultFlag, "Course flag emoji")
	}
	courseImportCmd.MarkFlagRequired("owner")

	courseGenerateCmd.Flags().String("subject", "", "Subject of the document (default: file name)")
	courseGenerateCmd.Flags().String("language", "English", "Language the course is written in")
	courseGenerateCmd.Flags().String("out", "", "Write the generated structure to this file")
	courseGenerateCmd.Flags().Bool("create", false, "Create a new course from the generated unit")
	courseGenerateCmd.Flags().String("append-to", "", "Append the generated unit to this course")

	courseAppendCmd.Flags().String("owner", "", "Owner learner ID")
	courseAppendCmd.MarkFlagRequired("owner")

	for _, c := range []*cobra.Command{courseJoinCmd, courseSyncCmd} {
		c.Flags().String("learner", "", "Learner ID")
		c.MarkFlagRequired("learner")
	}

	courseCmd.AddCommand(courseImportCmd)
	courseCmd.AddCommand(courseGenerateCmd)
	courseCmd.AddCommand(courseAppendCmd)
	courseCmd.AddCommand(courseShowCmd)
	courseCmd.AddCommand(courseListCmd)
	courseCmd.AddCommand(courseJoinCmd)
	courseCmd.AddCommand(courseSyncCmd)
}
