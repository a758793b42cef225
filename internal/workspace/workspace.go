package workspace

import (
	"codecourse/internal/domain/model"
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// DefaultCourseID is opened when no course is named.
const DefaultCourseID = "1"

var ErrCourseNotFound = errors.New("course not found")

type ViewState int

const (
	ViewEmpty ViewState = iota
	ViewLoading
	ViewLoaded
)

func (s ViewState) String() string {
	switch s {
	case ViewLoading:
		return "loading"
	case ViewLoaded:
		return "loaded"
	default:
		return "empty"
	}
}

// CourseView is what the course screen shows. Course is set only when State
// is ViewLoaded.
type CourseView struct {
	State  ViewState
	Course *model.Course
}

type CourseFetcher interface {
	GetCourse(ctx context.Context, id string) (*model.Course, error)
}

// Workspace loads one course and owns the editor for its exercises.
type Workspace struct {
	mu      sync.Mutex
	fetcher CourseFetcher
	view    CourseView
	editor  *Editor
	logger  zerolog.Logger
}

func New(fetcher CourseFetcher, logger zerolog.Logger) *Workspace {
	return &Workspace{
		fetcher: fetcher,
		editor:  NewEditor(nil),
		logger:  logger.With().Str("component", "workspace").Logger(),
	}
}

// Load fetches the course and points the editor at its first exercise. On
// failure the view is left empty; the cause is only logged.
func (w *Workspace) Load(ctx context.Context, courseID string) error {
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		courseID = DefaultCourseID
	}

	w.mu.Lock()
	w.view = CourseView{State: ViewLoading}
	w.mu.Unlock()

	course, err := w.fetcher.GetCourse(ctx, courseID)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.logger.Error().Err(err).Str("course_id", courseID).Msg("Course not found")
		w.view = CourseView{State: ViewEmpty}
		w.editor = NewEditor(nil)
		return ErrCourseNotFound
	}

	w.view = CourseView{State: ViewLoaded, Course: course}
	w.editor = NewEditor(course.Exercises)
	return nil
}

func (w *Workspace) View() CourseView {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.view
}

func (w *Workspace) Editor() *Editor {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.editor
}
