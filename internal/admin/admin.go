package admin

import (
	"codecourse/internal/client"
	"codecourse/internal/domain/model"
	"context"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
)

// API is the slice of the API client the admin screens use.
type API interface {
	ListCourses(ctx context.Context) ([]model.Course, error)
	GetCourse(ctx context.Context, id string) (*model.Course, error)
	CreateCourse(ctx context.Context, in client.CourseInput) (*model.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
	CreateExercise(ctx context.Context, courseID int64, in client.ExerciseInput) (*model.Exercise, error)
	UpdateExercise(ctx context.Context, courseID, exerciseID int64, patch client.ExercisePatch) (*model.Exercise, error)
	DeleteExercise(ctx context.Context, courseID, exerciseID int64) error
}

// Dashboard holds the course list. Every successful change is followed by a
// full refetch; a failed one leaves the list as it was. Repeated submissions
// are sent as-is.
type Dashboard struct {
	mu      sync.Mutex
	api     API
	courses []model.Course
	logger  zerolog.Logger
}

func NewDashboard(api API, logger zerolog.Logger) *Dashboard {
	return &Dashboard{
		api:    api,
		logger: logger.With().Str("component", "admin-dashboard").Logger(),
	}
}

func (d *Dashboard) Refresh(ctx context.Context) error {
	courses, err := d.api.ListCourses(ctx)
	if err != nil {
		d.logger.Error().Err(err).Msg("Failed to fetch courses")
		return err
	}
	d.mu.Lock()
	d.courses = courses
	d.mu.Unlock()
	return nil
}

func (d *Dashboard) Courses() []model.Course {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]model.Course, len(d.courses))
	copy(out, d.courses)
	return out
}

func (d *Dashboard) CreateCourse(ctx context.Context, in client.CourseInput) (*model.Course, error) {
	course, err := d.api.CreateCourse(ctx, in)
	if err != nil {
		d.logger.Error().Err(err).Str("title", in.Title).Msg("Failed to create course")
		return nil, err
	}
	return course, d.Refresh(ctx)
}

func (d *Dashboard) DeleteCourse(ctx context.Context, id int64) error {
	if err := d.api.DeleteCourse(ctx, id); err != nil {
		d.logger.Error().Err(err).Int64("course_id", id).Msg("Failed to delete course")
		return err
	}
	return d.Refresh(ctx)
}

// CourseEditor manages the exercises of one course.
type CourseEditor struct {
	mu       sync.Mutex
	api      API
	courseID int64
	course   *model.Course
	logger   zerolog.Logger
}

func NewCourseEditor(api API, courseID int64, logger zerolog.Logger) *CourseEditor {
	return &CourseEditor{
		api:      api,
		courseID: courseID,
		logger:   logger.With().Str("component", "course-editor").Int64("course_id", courseID).Logger(),
	}
}

func (e *CourseEditor) Refresh(ctx context.Context) error {
	course, err := e.api.GetCourse(ctx, strconv.FormatInt(e.courseID, 10))
	if err != nil {
		e.logger.Error().Err(err).Msg("Failed to fetch course")
		return err
	}
	e.mu.Lock()
	e.course = course
	e.mu.Unlock()
	return nil
}

// Course is nil until the first successful Refresh.
func (e *CourseEditor) Course() *model.Course {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.course
}

func (e *CourseEditor) AddExercise(ctx context.Context, in client.ExerciseInput) (*model.Exercise, error) {
	exercise, err := e.api.CreateExercise(ctx, e.courseID, in)
	if err != nil {
		e.logger.Error().Err(err).Str("title", in.Title).Msg("Failed to create exercise")
		return nil, err
	}
	return exercise, e.Refresh(ctx)
}

func (e *CourseEditor) UpdateExercise(ctx context.Context, exerciseID int64, patch client.ExercisePatch) (*model.Exercise, error) {
	exercise, err := e.api.UpdateExercise(ctx, e.courseID, exerciseID, patch)
	if err != nil {
		e.logger.Error().Err(err).Int64("exercise_id", exerciseID).Msg("Failed to update exercise")
		return nil, err
	}
	return exercise, e.Refresh(ctx)
}

func (e *CourseEditor) DeleteExercise(ctx context.Context, exerciseID int64) error {
	if err := e.api.DeleteExercise(ctx, e.courseID, exerciseID); err != nil {
		e.logger.Error().Err(err).Int64("exercise_id", exerciseID).Msg("Failed to delete exercise")
		return err
	}
	return e.Refresh(ctx)
}
