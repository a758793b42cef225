package workspace

import (
	"codecourse/internal/domain/model"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	courses map[string]*model.Course
	asked   []string
}

func (f *fakeFetcher) GetCourse(_ context.Context, id string) (*model.Course, error) {
	f.asked = append(f.asked, id)
	c, ok := f.courses[id]
	if !ok {
		return nil, errors.New("Course not found")
	}
	return c, nil
}

func sampleCourse() *model.Course {
	return &model.Course{
		ID:    1,
		Title: "Python Basics",
		Exercises: []model.Exercise{
			{ID: 10, Title: "Hello", InitialCode: "print('hi')", TestCode: "assert True", Language: "python"},
			{ID: 11, Title: "Ownership", InitialCode: "fn main() {}", TestCode: "#[test] fn t() {}", Language: "rust"},
		},
	}
}

func TestFilenames(t *testing.T) {
	main, tests := Filenames("rust")
	assert.Equal(t, "main.rs", main)
	assert.Equal(t, "tests.rs", tests)

	for _, lang := range []string{"python", "", "Rust", "ruby"} {
		main, tests = Filenames(lang)
		assert.Equal(t, "main.py", main, lang)
		assert.Equal(t, "tests.py", tests, lang)
	}
}

func TestLoadDefaultsToFirstCourse(t *testing.T) {
	fetcher := &fakeFetcher{courses: map[string]*model.Course{"1": sampleCourse()}}
	ws := New(fetcher, zerolog.Nop())

	require.NoError(t, ws.Load(context.Background(), ""))
	assert.Equal(t, []string{DefaultCourseID}, fetcher.asked)

	view := ws.View()
	assert.Equal(t, ViewLoaded, view.State)
	assert.Equal(t, "Python Basics", view.Course.Title)

	ed := ws.Editor()
	assert.Equal(t, 2, ed.Len())
	assert.Equal(t, "print('hi')", ed.Buffer())
}

func TestLoadFailureLeavesEmptyView(t *testing.T) {
	ws := New(&fakeFetcher{}, zerolog.Nop())

	err := ws.Load(context.Background(), "42")
	assert.ErrorIs(t, err, ErrCourseNotFound)
	assert.Equal(t, ViewEmpty, ws.View().State)
	assert.Nil(t, ws.View().Course)
	assert.Zero(t, ws.Editor().Len())
	assert.Equal(t, "empty", ws.View().State.String())
}

func TestLoadCourseWithoutExercises(t *testing.T) {
	fetcher := &fakeFetcher{courses: map[string]*model.Course{"2": {ID: 2, Title: "Empty"}}}
	ws := New(fetcher, zerolog.Nop())

	require.NoError(t, ws.Load(context.Background(), "2"))
	assert.Equal(t, ViewLoaded, ws.View().State)
	_, ok := ws.Editor().Current()
	assert.False(t, ok)
}

func TestEditorNavigation(t *testing.T) {
	ed := NewEditor(sampleCourse().Exercises)

	ed.Prev()
	assert.Equal(t, 0, ed.Index())

	ed.SetBuffer("print('changed')")
	ed.SetOutput("Success!")
	ed.Next()
	assert.Equal(t, 1, ed.Index())
	assert.Equal(t, "fn main() {}", ed.Buffer())
	assert.Empty(t, ed.Output())

	ed.Next()
	assert.Equal(t, 1, ed.Index())

	assert.Error(t, ed.Select(5))
	assert.Error(t, ed.Select(-1))
	require.NoError(t, ed.Select(0))
	assert.Equal(t, "print('hi')", ed.Buffer())
}

func TestEditorTabsAndReset(t *testing.T) {
	ed := NewEditor(sampleCourse().Exercises)
	require.NoError(t, ed.Select(1))

	main, tests := ed.TabLabels()
	assert.Equal(t, "main.rs", main)
	assert.Equal(t, "tests.rs", tests)

	ed.SetBuffer("fn main() { println!(\"x\"); }")
	assert.Equal(t, TabMain, ed.Tab())
	assert.Equal(t, "fn main() { println!(\"x\"); }", ed.Visible())

	ed.SetTab(TabTests)
	assert.Equal(t, "#[test] fn t() {}", ed.Visible())

	ed.Reset()
	ed.SetTab(TabMain)
	assert.Equal(t, "fn main() {}", ed.Visible())
}
