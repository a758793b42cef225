// Package repotest provides in-memory repositories for tests.
package repotest

import (
	"codecourse/internal/common"
	"codecourse/internal/domain/model"
	"codecourse/internal/domain/repository"
	"context"
	"sort"
	"sync"
)

var (
	_ repository.UserRepository     = (*Users)(nil)
	_ repository.CourseRepository   = (*Catalog)(nil)
	_ repository.ExerciseRepository = (*Catalog)(nil)
)

// Users keeps accounts in a slice. IDs start at 1.
type Users struct {
	mu    sync.Mutex
	users []model.User
}

func (m *Users) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = int64(len(m.users) + 1)
	m.users = append(m.users, *user)
	return nil
}

func (m *Users) find(match func(model.User) bool) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			u := u
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *Users) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return m.find(func(u model.User) bool { return u.Email == email })
}

func (m *Users) FindByUsername(_ context.Context, username string) (*model.User, error) {
	return m.find(func(u model.User) bool { return u.Username == username })
}

func (m *Users) FindByID(_ context.Context, id int64) (*model.User, error) {
	return m.find(func(u model.User) bool { return u.ID == id })
}

// Catalog implements both the course and the exercise repository.
type Catalog struct {
	mu        sync.Mutex
	nextID    int64
	courses   []model.Course
	exercises []model.Exercise
}

func (m *Catalog) CreateCourse(_ context.Context, c *model.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.courses {
		if existing.Slug == c.Slug {
			return common.ErrConflict
		}
	}
	m.nextID++
	c.ID = m.nextID
	stored := *c
	stored.Exercises = nil
	m.courses = append(m.courses, stored)
	return nil
}

func (m *Catalog) FindCourseByID(_ context.Context, id int64) (*model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.courses {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *Catalog) ListCourses(context.Context) ([]model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Course, len(m.courses))
	copy(out, m.courses)
	return out, nil
}

func (m *Catalog) DeleteCourse(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.courses {
		if c.ID == id {
			m.courses = append(m.courses[:i], m.courses[i+1:]...)
			kept := m.exercises[:0]
			for _, e := range m.exercises {
				if e.CourseID != id {
					kept = append(kept, e)
				}
			}
			m.exercises = kept
			return nil
		}
	}
	return common.ErrNotFound
}

func (m *Catalog) CreateExercise(_ context.Context, e *model.Exercise) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	e.ID = m.nextID
	m.exercises = append(m.exercises, *e)
	return nil
}

func (m *Catalog) UpdateExercise(_ context.Context, e *model.Exercise) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.exercises {
		if m.exercises[i].ID == e.ID {
			m.exercises[i] = *e
			return nil
		}
	}
	return common.ErrNotFound
}

func (m *Catalog) DeleteExercise(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.exercises {
		if e.ID == id {
			m.exercises = append(m.exercises[:i], m.exercises[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

func (m *Catalog) FindExerciseByID(_ context.Context, id int64) (*model.Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.exercises {
		if e.ID == id {
			e := e
			return &e, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *Catalog) ListExercisesByCourseIDs(_ context.Context, ids []int64) (map[int64][]model.Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make(map[int64][]model.Exercise)
	for _, e := range m.exercises {
		if want[e.CourseID] {
			out[e.CourseID] = append(out[e.CourseID], e)
		}
	}
	for _, list := range out {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].Order != list[j].Order {
				return list[i].Order < list[j].Order
			}
			return list[i].ID < list[j].ID
		})
	}
	return out, nil
}
