package cli

import (
	"codecourse/internal/assistant"
	"codecourse/internal/domain/model"
	"codecourse/internal/playground"
	"codecourse/internal/workspace"
	"fmt"
	"io"
	"math/rand"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	gray   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	orange = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	blue   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	outputBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	confettiColors = []string{"9", "10", "11", "12", "13", "14", "208"}
	confettiGlyphs = []rune{'*', '+', '•', '✦', '✧', '◆', '○'}
)

// confetti prints a few rows of scattered, coloured glyphs.
func confetti(w io.Writer) {
	const rows, width = 3, 48
	for r := 0; r < rows; r++ {
		var sb strings.Builder
		for c := 0; c < width; c++ {
			if rand.Intn(3) != 0 {
				sb.WriteByte(' ')
				continue
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(confettiColors[rand.Intn(len(confettiColors))]))
			sb.WriteString(style.Render(string(confettiGlyphs[rand.Intn(len(confettiGlyphs))])))
		}
		fmt.Fprintln(w, sb.String())
	}
}

func renderOutcome(w io.Writer, outcome playground.Outcome) {
	fmt.Fprintln(w)
	if outcome.Success {
		fmt.Fprintln(w, green.Render("✓ Passed"))
	} else {
		fmt.Fprintln(w, red.Render("✗ Failed"))
	}
	fmt.Fprintln(w, outputBox.Render(outcome.Text))
}

func renderCourseList(w io.Writer, courses []model.Course) {
	if len(courses) == 0 {
		fmt.Fprintln(w, gray.Render("No courses yet. An admin can create one with 'codecourse admin course create'."))
		return
	}
	for _, c := range courses {
		status := gray.Render("draft")
		if c.IsPublished {
			status = green.Render("published")
		}
		fmt.Fprintf(w, "%s %s %s %s\n",
			cyan.Render(fmt.Sprintf("%3d", c.ID)),
			c.Title,
			gray.Render("("+c.Slug+")"),
			status)
		fmt.Fprintln(w, gray.Render(fmt.Sprintf("    %d exercise(s)", len(c.Exercises))))
	}
}

func renderCourse(w io.Writer, view workspace.CourseView, current int) {
	if view.State != workspace.ViewLoaded || view.Course == nil {
		fmt.Fprintln(w, orange.Render("Welcome to Code App"))
		fmt.Fprintln(w, gray.Render("Please go to Admin Panel to create a course first."))
		return
	}
	c := view.Course
	fmt.Fprintln(w, cyan.Render(fmt.Sprintf("● %s", c.Title)))
	if c.Description != "" {
		fmt.Fprintln(w, gray.Render(c.Description))
	}
	fmt.Fprintln(w)
	if len(c.Exercises) == 0 {
		fmt.Fprintln(w, gray.Render("This course has no exercises yet."))
		return
	}
	for i, ex := range c.Exercises {
		marker := "  "
		if i == current {
			marker = green.Render("→ ")
		}
		mainFile, _ := workspace.Filenames(ex.Language)
		fmt.Fprintf(w, "%s%2d. %s %s\n", marker, i+1, ex.Title, gray.Render("["+mainFile+", "+string(ex.PassingRule)+"]"))
	}
}

func renderExercise(w io.Writer, ex model.Exercise, index, total int) {
	mainFile, testsFile := workspace.Filenames(ex.Language)
	fmt.Fprintln(w, cyan.Render(fmt.Sprintf("Exercise %d/%d: %s", index+1, total, ex.Title)))
	fmt.Fprintln(w, gray.Render(fmt.Sprintf("files: %s (editable), %s (hidden tests)", mainFile, testsFile)))
	fmt.Fprintln(w)
	fmt.Fprintln(w, ex.Description)
}

func renderMessage(w io.Writer, msg assistant.Message) {
	if msg.Role == assistant.RoleUser {
		fmt.Fprintln(w, blue.Render("you › ")+msg.Content)
		return
	}
	fmt.Fprintln(w, orange.Render("Boots › ")+msg.Content)
}
