package playground

import (
	"codecourse/internal/client"
	"errors"
	"fmt"
	"strings"
)

const (
	RunningText       = "Running..."
	SuccessText       = "Success!"
	ConnectFailedText = "Failed to connect to execution server."
)

// Outcome is what the output pane shows after a run.
type Outcome struct {
	Text      string
	Success   bool
	Celebrate bool
}

// ComposeSource appends the hidden test code to the learner's buffer.
func ComposeSource(buffer, testCode string) string {
	return buffer + "\n\n" + testCode
}

// Classify turns a run result into display text.
func Classify(exitCode int, stdout, stderr string) Outcome {
	if exitCode == 0 {
		text := stdout
		if text == "" {
			text = SuccessText
		}
		return Outcome{Text: text, Success: true, Celebrate: true}
	}

	var sb strings.Builder
	if stderr != "" {
		sb.WriteString("Error:\n")
		sb.WriteString(stderr)
	}
	if stdout != "" {
		sb.WriteString("\nOutput:\n")
		sb.WriteString(stdout)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		text = fmt.Sprintf("Process exited with code %d", exitCode)
	}
	return Outcome{Text: text}
}

// ClassifyError covers runs that produced no result. A rejected request
// shows the server's detail; anything else reads as a connection failure.
func ClassifyError(err error) Outcome {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return Outcome{Text: "Error:\n" + apiErr.Error()}
	}
	return Outcome{Text: ConnectFailedText}
}
