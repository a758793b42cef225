package cli

import (
	"codecourse/internal/admin"
	"codecourse/internal/client"
	"codecourse/internal/workspace"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	courseIn client.CourseInput

	exerciseIn       client.ExerciseInput
	initialCodeFile  string
	testCodeFile     string
	patchTitle       string
	patchSlug        string
	patchDescription string
	patchLanguage    string
	patchRule        string
	patchOrder       int
)

var errNotAdmin = errors.New("you do not have administrative privileges")

var adminCmd = &cobra.Command{
	Use:               "admin",
	Short:             "Manage courses and exercises (admins only)",
	PersistentPreRunE: requireAdmin,
}

// requireAdmin runs the root setup and then checks the stored role. The
// server enforces the same rule.
func requireAdmin(cmd *cobra.Command, args []string) error {
	if err := setup(cmd, args); err != nil {
		return err
	}
	user, ok := sess.User()
	if !ok {
		return errors.New("not logged in. Run 'codecourse login' first")
	}
	if !user.IsAdmin() {
		return errNotAdmin
	}
	return nil
}

var adminCourseCmd = &cobra.Command{
	Use:   "course",
	Short: "Create and delete courses",
}

var adminCourseCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a course",
	Long: `Create a course. The slug is derived from the title when omitted.

Example:
  codecourse admin course create --title "Python Basics" --publish`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		dash := admin.NewDashboard(api, log)
		course, err := dash.CreateCourse(ctxOf(cmd), courseIn)
		if err != nil && course == nil {
			return errors.New(describeErr(err))
		}
		fmt.Fprintln(out, green.Render(fmt.Sprintf("✓ Created course %d: %s", course.ID, course.Title)))
		if err != nil {
			fmt.Fprintln(out, orange.Render("Could not refresh the course list: "+describeErr(err)))
			return nil
		}
		fmt.Fprintln(out)
		renderCourseList(out, dash.Courses())
		return nil
	},
}

var adminCourseDeleteCmd = &cobra.Command{
	Use:   "delete <course-id>",
	Short: "Delete a course and its exercises",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		dash := admin.NewDashboard(api, log)
		if err := dash.DeleteCourse(ctxOf(cmd), id); err != nil {
			return errors.New(describeErr(err))
		}
		fmt.Fprintln(out, green.Render(fmt.Sprintf("✓ Deleted course %d", id)))
		fmt.Fprintln(out)
		renderCourseList(out, dash.Courses())
		return nil
	},
}

var adminExerciseCmd = &cobra.Command{
	Use:   "exercise",
	Short: "Add, edit and delete exercises",
}

var adminExerciseCreateCmd = &cobra.Command{
	Use:   "create <course-id>",
	Short: "Add an exercise to a course",
	Long: `Add an exercise to a course. Code is read from files.

Example:
  codecourse admin exercise create 1 --title "Sum" \
    --initial-code-file main.py --test-code-file tests.py`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		courseID, err := parseID(args[0])
		if err != nil {
			return err
		}
		in := exerciseIn
		if in.InitialCode, err = readOptional(initialCodeFile); err != nil {
			return err
		}
		if in.TestCode, err = readOptional(testCodeFile); err != nil {
			return err
		}

		ed := admin.NewCourseEditor(api, courseID, log)
		ex, err := ed.AddExercise(ctxOf(cmd), in)
		if err != nil && ex == nil {
			return errors.New(describeErr(err))
		}
		return reportExercise(cmd, ed, fmt.Sprintf("✓ Added exercise %d: %s", ex.ID, ex.Title), err)
	},
}

var adminExerciseUpdateCmd = &cobra.Command{
	Use:   "update <course-id> <exercise-id>",
	Short: "Change fields of an exercise",
	Long: `Change fields of an exercise. Only the flags you pass are sent.

Example:
  codecourse admin exercise update 1 4 --title "Sum of two" --order 2`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		courseID, err := parseID(args[0])
		if err != nil {
			return err
		}
		exerciseID, err := parseID(args[1])
		if err != nil {
			return err
		}
		patch, err := buildPatch(cmd)
		if err != nil {
			return err
		}

		ed := admin.NewCourseEditor(api, courseID, log)
		ex, err := ed.UpdateExercise(ctxOf(cmd), exerciseID, patch)
		if err != nil && ex == nil {
			return errors.New(describeErr(err))
		}
		return reportExercise(cmd, ed, fmt.Sprintf("✓ Updated exercise %d: %s", ex.ID, ex.Title), err)
	},
}

var adminExerciseDeleteCmd = &cobra.Command{
	Use:   "delete <course-id> <exercise-id>",
	Short: "Delete an exercise",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		courseID, err := parseID(args[0])
		if err != nil {
			return err
		}
		exerciseID, err := parseID(args[1])
		if err != nil {
			return err
		}

		ed := admin.NewCourseEditor(api, courseID, log)
		if err := ed.DeleteExercise(ctxOf(cmd), exerciseID); err != nil {
			return errors.New(describeErr(err))
		}
		return reportExercise(cmd, ed, fmt.Sprintf("✓ Deleted exercise %d", exerciseID), nil)
	},
}

// buildPatch sends only the flags that were set on the command line.
func buildPatch(cmd *cobra.Command) (client.ExercisePatch, error) {
	var patch client.ExercisePatch
	flags := cmd.Flags()
	if flags.Changed("title") {
		patch.Title = &patchTitle
	}
	if flags.Changed("slug") {
		patch.Slug = &patchSlug
	}
	if flags.Changed("description") {
		patch.Description = &patchDescription
	}
	if flags.Changed("language") {
		patch.Language = &patchLanguage
	}
	if flags.Changed("passing-rule") {
		patch.PassingRule = &patchRule
	}
	if flags.Changed("order") {
		patch.Order = &patchOrder
	}
	if flags.Changed("initial-code-file") {
		code, err := readOptional(initialCodeFile)
		if err != nil {
			return patch, err
		}
		patch.InitialCode = &code
	}
	if flags.Changed("test-code-file") {
		code, err := readOptional(testCodeFile)
		if err != nil {
			return patch, err
		}
		patch.TestCode = &code
	}
	return patch, nil
}

func reportExercise(cmd *cobra.Command, ed *admin.CourseEditor, msg string, refreshErr error) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, green.Render(msg))
	if refreshErr != nil {
		fmt.Fprintln(out, orange.Render("Could not refresh the course: "+describeErr(refreshErr)))
		return nil
	}
	fmt.Fprintln(out)
	renderCourse(out, workspace.CourseView{State: workspace.ViewLoaded, Course: ed.Course()}, -1)
	return nil
}

func readOptional(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func init() {
	adminCourseCreateCmd.Flags().StringVarP(&courseIn.Title, "title", "t", "", "course title")
	adminCourseCreateCmd.Flags().StringVar(&courseIn.Slug, "slug", "", "URL slug (derived from the title when empty)")
	adminCourseCreateCmd.Flags().StringVar(&courseIn.Description, "description", "", "course description")
	adminCourseCreateCmd.Flags().BoolVar(&courseIn.IsPublished, "publish", false, "make the course visible")
	_ = adminCourseCreateCmd.MarkFlagRequired("title")

	create := adminExerciseCreateCmd.Flags()
	create.StringVarP(&exerciseIn.Title, "title", "t", "", "exercise title")
	create.StringVar(&exerciseIn.Slug, "slug", "", "URL slug (derived from the title when empty)")
	create.StringVar(&exerciseIn.Description, "description", "", "markdown description")
	create.StringVar(&exerciseIn.Language, "language", "", "python (default) or rust")
	create.StringVar(&exerciseIn.PassingRule, "passing-rule", "", "tests_pass (default), ai_eval or manual")
	create.IntVar(&exerciseIn.Order, "order", 0, "position within the course")
	create.StringVar(&initialCodeFile, "initial-code-file", "", "file with the starting code")
	create.StringVar(&testCodeFile, "test-code-file", "", "file with the hidden test code")
	_ = adminExerciseCreateCmd.MarkFlagRequired("title")

	update := adminExerciseUpdateCmd.Flags()
	update.StringVarP(&patchTitle, "title", "t", "", "new title")
	update.StringVar(&patchSlug, "slug", "", "new slug")
	update.StringVar(&patchDescription, "description", "", "new description")
	update.StringVar(&patchLanguage, "language", "", "new language")
	update.StringVar(&patchRule, "passing-rule", "", "new passing rule")
	update.IntVar(&patchOrder, "order", 0, "new position")
	update.StringVar(&initialCodeFile, "initial-code-file", "", "file with the new starting code")
	update.StringVar(&testCodeFile, "test-code-file", "", "file with the new test code")

	adminCourseCmd.AddCommand(adminCourseCreateCmd, adminCourseDeleteCmd)
	adminExerciseCmd.AddCommand(adminExerciseCreateCmd, adminExerciseUpdateCmd, adminExerciseDeleteCmd)
	adminCmd.AddCommand(adminCourseCmd, adminExerciseCmd)
	rootCmd.AddCommand(adminCmd)
}
