package admin

import (
	"codecourse/internal/client"
	"codecourse/internal/domain/model"
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI mimics the server: course slugs are unique, exercises are not.
type fakeAPI struct {
	courses  []model.Course
	nextID   int64
	failNext error
	lists    int
}

func (f *fakeAPI) takeFailure() error {
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeAPI) ListCourses(context.Context) ([]model.Course, error) {
	f.lists++
	out := make([]model.Course, len(f.courses))
	copy(out, f.courses)
	return out, nil
}

func (f *fakeAPI) GetCourse(_ context.Context, id string) (*model.Course, error) {
	for i := range f.courses {
		if strconv.FormatInt(f.courses[i].ID, 10) == id {
			c := f.courses[i]
			return &c, nil
		}
	}
	return nil, &client.APIError{StatusCode: 404, Detail: "Course not found"}
}

func (f *fakeAPI) CreateCourse(_ context.Context, in client.CourseInput) (*model.Course, error) {
	if err := f.takeFailure(); err != nil {
		return nil, err
	}
	s := in.Slug
	if s == "" {
		s = slug.Make(in.Title)
	}
	for _, c := range f.courses {
		if c.Slug == s {
			return nil, &client.APIError{StatusCode: 409, Detail: "Course slug already exists"}
		}
	}
	f.nextID++
	c := model.Course{ID: f.nextID, Title: in.Title, Slug: s, Exercises: []model.Exercise{}}
	f.courses = append(f.courses, c)
	return &c, nil
}

func (f *fakeAPI) DeleteCourse(_ context.Context, id int64) error {
	if err := f.takeFailure(); err != nil {
		return err
	}
	for i, c := range f.courses {
		if c.ID == id {
			f.courses = append(f.courses[:i], f.courses[i+1:]...)
			return nil
		}
	}
	return &client.APIError{StatusCode: 404, Detail: "Course not found"}
}

func (f *fakeAPI) course(id int64) *model.Course {
	for i := range f.courses {
		if f.courses[i].ID == id {
			return &f.courses[i]
		}
	}
	return nil
}

func (f *fakeAPI) CreateExercise(_ context.Context, courseID int64, in client.ExerciseInput) (*model.Exercise, error) {
	if err := f.takeFailure(); err != nil {
		return nil, err
	}
	c := f.course(courseID)
	if c == nil {
		return nil, &client.APIError{StatusCode: 404, Detail: "Course not found"}
	}
	f.nextID++
	ex := model.Exercise{ID: f.nextID, CourseID: courseID, Title: in.Title, Order: in.Order}
	c.Exercises = append(c.Exercises, ex)
	return &ex, nil
}

func (f *fakeAPI) UpdateExercise(_ context.Context, courseID, exerciseID int64, patch client.ExercisePatch) (*model.Exercise, error) {
	if err := f.takeFailure(); err != nil {
		return nil, err
	}
	c := f.course(courseID)
	if c == nil {
		return nil, &client.APIError{StatusCode: 404, Detail: "Exercise not found"}
	}
	for i := range c.Exercises {
		if c.Exercises[i].ID == exerciseID {
			if patch.Title != nil {
				c.Exercises[i].Title = *patch.Title
			}
			ex := c.Exercises[i]
			return &ex, nil
		}
	}
	return nil, &client.APIError{StatusCode: 404, Detail: "Exercise not found"}
}

func (f *fakeAPI) DeleteExercise(_ context.Context, courseID, exerciseID int64) error {
	if err := f.takeFailure(); err != nil {
		return err
	}
	c := f.course(courseID)
	for i, ex := range c.Exercises {
		if ex.ID == exerciseID {
			c.Exercises = append(c.Exercises[:i], c.Exercises[i+1:]...)
			return nil
		}
	}
	return &client.APIError{StatusCode: 404, Detail: "Exercise not found"}
}

func titles(courses []model.Course) []string {
	out := make([]string, 0, len(courses))
	for _, c := range courses {
		out = append(out, c.Title)
	}
	return out
}

func TestCreateCourseRefetches(t *testing.T) {
	api := &fakeAPI{}
	dash := NewDashboard(api, zerolog.Nop())
	ctx := context.Background()

	course, err := dash.CreateCourse(ctx, client.CourseInput{Title: "Algebra"})
	require.NoError(t, err)
	assert.Equal(t, "algebra", course.Slug)
	assert.Equal(t, 1, api.lists)
	assert.Equal(t, []string{"Algebra"}, titles(dash.Courses()))
}

func TestDuplicateCourseShowsOnce(t *testing.T) {
	api := &fakeAPI{}
	dash := NewDashboard(api, zerolog.Nop())
	ctx := context.Background()

	_, err := dash.CreateCourse(ctx, client.CourseInput{Title: "Algebra"})
	require.NoError(t, err)

	_, err = dash.CreateCourse(ctx, client.CourseInput{Title: "algebra"})
	require.Error(t, err)
	assert.True(t, client.IsStatus(err, 409))

	require.NoError(t, dash.Refresh(ctx))
	count := 0
	for _, c := range dash.Courses() {
		if strings.EqualFold(c.Title, "algebra") {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestFailedMutationLeavesList(t *testing.T) {
	api := &fakeAPI{}
	dash := NewDashboard(api, zerolog.Nop())
	ctx := context.Background()

	_, err := dash.CreateCourse(ctx, client.CourseInput{Title: "Geometry"})
	require.NoError(t, err)
	lists := api.lists

	api.failNext = errors.New("boom")
	_, err = dash.CreateCourse(ctx, client.CourseInput{Title: "Calculus"})
	require.Error(t, err)
	assert.Equal(t, lists, api.lists)
	assert.Equal(t, []string{"Geometry"}, titles(dash.Courses()))

	api.failNext = &client.APIError{StatusCode: 403, Detail: "You do not have administrative privileges"}
	err = dash.DeleteCourse(ctx, 1)
	require.Error(t, err)
	assert.Equal(t, []string{"Geometry"}, titles(dash.Courses()))
}

func TestDeleteCourse(t *testing.T) {
	api := &fakeAPI{}
	dash := NewDashboard(api, zerolog.Nop())
	ctx := context.Background()

	c, err := dash.CreateCourse(ctx, client.CourseInput{Title: "Logic"})
	require.NoError(t, err)
	require.NoError(t, dash.DeleteCourse(ctx, c.ID))
	assert.Empty(t, dash.Courses())
}

func TestCourseEditorExercises(t *testing.T) {
	api := &fakeAPI{}
	ctx := context.Background()
	course, err := api.CreateCourse(ctx, client.CourseInput{Title: "Rust"})
	require.NoError(t, err)

	ed := NewCourseEditor(api, course.ID, zerolog.Nop())
	assert.Nil(t, ed.Course())

	ex, err := ed.AddExercise(ctx, client.ExerciseInput{Title: "Borrowing"})
	require.NoError(t, err)
	require.NotNil(t, ed.Course())
	require.Len(t, ed.Course().Exercises, 1)

	// Exercises have no uniqueness rule; a repeated submission is kept.
	_, err = ed.AddExercise(ctx, client.ExerciseInput{Title: "Borrowing"})
	require.NoError(t, err)
	assert.Len(t, ed.Course().Exercises, 2)

	title := "Lifetimes"
	_, err = ed.UpdateExercise(ctx, ex.ID, client.ExercisePatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Lifetimes", ed.Course().Exercises[0].Title)

	require.NoError(t, ed.DeleteExercise(ctx, ex.ID))
	assert.Len(t, ed.Course().Exercises, 1)

	api.failNext = errors.New("boom")
	_, err = ed.AddExercise(ctx, client.ExerciseInput{Title: "Traits"})
	require.Error(t, err)
	assert.Len(t, ed.Course().Exercises, 1)
}
