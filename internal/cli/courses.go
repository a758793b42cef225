package cli

import (
	"codecourse/internal/domain/model"
	"codecourse/internal/playground"
	"codecourse/internal/workspace"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	exerciseNumber int
	openDir        string
	openForce      bool
	runFile        string
	showTests      bool
)

var errNotPassed = errors.New("exercise not passed")

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List all courses",
	RunE: func(cmd *cobra.Command, args []string) error {
		courses, err := api.ListCourses(ctxOf(cmd))
		if err != nil {
			return errors.New(describeErr(err))
		}
		renderCourseList(cmd.OutOrStdout(), courses)
		return nil
	},
}

var courseCmd = &cobra.Command{
	Use:   "course [course-id]",
	Short: "Show a course and its exercises",
	Long: `Show a course and its exercises.

With no argument the first course (id 1) is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// A missing course renders the welcome screen, not an error.
		ws, _ := loadWorkspace(cmd, args)
		if ws == nil {
			return nil
		}
		renderCourse(cmd.OutOrStdout(), ws.View(), ws.Editor().Index())
		return nil
	},
}

var openCmd = &cobra.Command{
	Use:   "open [course-id]",
	Short: "Write an exercise's starting code to disk",
	Long: `Write the starting code of an exercise into the current directory
(or --dir) so you can edit it.

Re-running with --force throws your edits away and restores the starting code.

Example:
  codecourse open 1 --exercise 2`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		ws, err := loadWorkspace(cmd, args)
		if ws == nil {
			return err
		}
		editor, ex, err := selectExercise(ws)
		if err != nil {
			return err
		}

		renderExercise(out, ex, editor.Index(), editor.Len())
		if showTests {
			editor.SetTab(workspace.TabTests)
			fmt.Fprintln(out)
			fmt.Fprintln(out, gray.Render("--- tests ---"))
			fmt.Fprintln(out, editor.Visible())
		}

		editor.Reset()
		mainFile, _ := editor.TabLabels()
		path := filepath.Join(openDir, mainFile)
		if _, err := os.Stat(path); err == nil && !openForce {
			fmt.Fprintln(out)
			fmt.Fprintln(out, orange.Render(path+" already exists. Use --force to reset it."))
			return nil
		}
		if err := os.MkdirAll(openDir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", openDir, err)
		}
		if err := os.WriteFile(path, []byte(editor.Buffer()), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, green.Render("✓ Wrote "+path))
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run [course-id]",
	Short: "Run your solution against the exercise tests",
	Long: `Run your solution against the hidden tests of an exercise.

The solution is read from --file, defaulting to the file 'open' wrote.

Example:
  codecourse run 1 --exercise 2`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		ws, err := loadWorkspace(cmd, args)
		if ws == nil {
			return err
		}
		editor, ex, err := selectExercise(ws)
		if err != nil {
			return err
		}

		path := runFile
		if path == "" {
			mainFile, _ := editor.TabLabels()
			path = filepath.Join(openDir, mainFile)
		}
		code, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading solution: %w", err)
		}
		editor.SetBuffer(string(code))

		orch := playground.New(api, playground.CelebratorFunc(func() { confetti(out) }), log)
		outcome, err := orch.Run(ctxOf(cmd), editor.Buffer(), ex, func() {
			fmt.Fprintln(out, gray.Render(playground.RunningText))
		})
		if err != nil {
			return err
		}
		editor.SetOutput(outcome.Text)
		renderOutcome(out, outcome)
		if !outcome.Success {
			return errNotPassed
		}
		return nil
	},
}

// loadWorkspace returns nil when the course could not be loaded, after
// rendering the empty view.
func loadWorkspace(cmd *cobra.Command, args []string) (*workspace.Workspace, error) {
	courseID := workspace.DefaultCourseID
	if len(args) == 1 {
		courseID = args[0]
	}
	ws := workspace.New(api, log)
	if err := ws.Load(ctxOf(cmd), courseID); err != nil {
		renderCourse(cmd.OutOrStdout(), ws.View(), 0)
		return nil, err
	}
	return ws, nil
}

func selectExercise(ws *workspace.Workspace) (*workspace.Editor, model.Exercise, error) {
	editor := ws.Editor()
	if editor.Len() == 0 {
		return nil, model.Exercise{}, errors.New("this course has no exercises yet")
	}
	if err := editor.Select(exerciseNumber - 1); err != nil {
		return nil, model.Exercise{}, fmt.Errorf("exercise %d: %w", exerciseNumber, err)
	}
	ex, _ := editor.Current()
	return editor, ex, nil
}

func addExerciseFlag(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&exerciseNumber, "exercise", "e", 1, "exercise number within the course, starting at 1")
	cmd.Flags().StringVarP(&openDir, "dir", "d", ".", "directory holding the exercise file")
}

func init() {
	addExerciseFlag(openCmd)
	openCmd.Flags().BoolVarP(&openForce, "force", "f", false, "overwrite an existing file with the starting code")
	openCmd.Flags().BoolVar(&showTests, "show-tests", false, "print the exercise's test code")

	addExerciseFlag(runCmd)
	runCmd.Flags().StringVar(&runFile, "file", "", "solution file (default: <dir>/<main file>)")

	rootCmd.AddCommand(coursesCmd, courseCmd, openCmd, runCmd)
}
