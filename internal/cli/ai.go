package cli

import (
	"bufio"
	"codecourse/internal/assistant"
	"codecourse/internal/client"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	genLanguage string
	genCourseID int64
	chatFile    string
)

var aiCmd = &cobra.Command{
	Use:               "ai",
	Short:             "Generate exercises and chat about code",
	PersistentPreRunE: requireAdmin,
}

var aiGenerateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Draft an exercise from a short prompt",
	Long: `Draft an exercise from a short prompt.

With --course the draft is saved straight into that course.

Example:
  codecourse ai generate "reverse a linked list" --language python --course 1`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		prompt := strings.Join(args, " ")

		fmt.Fprintln(out, gray.Render("Generating..."))
		draft, err := api.GenerateExercise(ctxOf(cmd), prompt, genLanguage)
		if err != nil {
			return errors.New(describeErr(err))
		}

		fmt.Fprintln(out, cyan.Render(draft.Title))
		fmt.Fprintln(out, draft.Description)
		fmt.Fprintln(out)
		fmt.Fprintln(out, gray.Render("--- starting code ---"))
		fmt.Fprintln(out, draft.StartingCode)
		fmt.Fprintln(out, gray.Render("--- tests ---"))
		fmt.Fprintln(out, draft.TestCases)

		if genCourseID == 0 {
			return nil
		}
		ex, err := api.CreateExercise(ctxOf(cmd), genCourseID, client.ExerciseInput{
			Title:       draft.Title,
			Description: draft.Description,
			InitialCode: draft.StartingCode,
			TestCode:    draft.TestCases,
			Language:    genLanguage,
		})
		if err != nil {
			return errors.New(describeErr(err))
		}
		fmt.Fprintln(out, green.Render(fmt.Sprintf("✓ Saved as exercise %d in course %d", ex.ID, genCourseID)))
		return nil
	},
}

var aiChatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the assistant about your code",
	Long: `Talk to the assistant about your code. Pass --file to share the code
you are working on. An empty line or 'exit' ends the chat.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		codeContext, err := readOptional(chatFile)
		if err != nil {
			return err
		}

		panel := assistant.NewPanel(api, codeContext, log)
		for _, msg := range panel.Messages() {
			renderMessage(out, msg)
		}

		in := bufio.NewReader(cmd.InOrStdin())
		for {
			line := prompt(in, out, blue.Render("you › "))
			if line == "" || line == "exit" {
				return nil
			}
			reply, err := panel.Send(ctxOf(cmd), line)
			if err != nil {
				continue
			}
			renderMessage(out, reply)
		}
	},
}

func init() {
	aiGenerateCmd.Flags().StringVarP(&genLanguage, "language", "l", "python", "language of the exercise")
	aiGenerateCmd.Flags().Int64Var(&genCourseID, "course", 0, "save the draft into this course")

	aiChatCmd.Flags().StringVarP(&chatFile, "file", "f", "", "code to discuss")

	aiCmd.AddCommand(aiGenerateCmd, aiChatCmd)
	rootCmd.AddCommand(aiCmd)
}
