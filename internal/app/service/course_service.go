package service

import (
	"codecourse/internal/common"
	"codecourse/internal/domain/model"
	"codecourse/internal/domain/repository"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog"
)

var errCourseNotFound = common.WithDetail(common.ErrNotFound, "Course not found")

type CourseService struct {
	courseRepo   repository.CourseRepository
	exerciseRepo repository.ExerciseRepository
	logger       zerolog.Logger
}

func NewCourseService(courseRepo repository.CourseRepository, exerciseRepo repository.ExerciseRepository, logger zerolog.Logger) *CourseService {
	return &CourseService{
		courseRepo:   courseRepo,
		exerciseRepo: exerciseRepo,
		logger:       logger.With().Str("service", "CourseService").Logger(),
	}
}

type CreateCourseRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
	Slug        string `json:"slug" validate:"omitempty,max=255"`
	IsPublished bool   `json:"is_published"`
}

func (s *CourseService) CreateCourse(ctx context.Context, req CreateCourseRequest) (*model.Course, error) {
	courseSlug := strings.TrimSpace(req.Slug)
	if courseSlug == "" {
		courseSlug = slug.Make(req.Title)
	}

	course := &model.Course{
		Title:       req.Title,
		Description: req.Description,
		Slug:        courseSlug,
		IsPublished: req.IsPublished,
		Exercises:   []model.Exercise{},
	}
	if err := s.courseRepo.CreateCourse(ctx, course); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, common.WithDetail(common.ErrConflict, "Course slug already exists")
		}
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.logger.Info().Int64("course_id", course.ID).Str("slug", course.Slug).Msg("Course created")
	return course, nil
}

// ListCourses returns every course with its exercises attached.
func (s *CourseService) ListCourses(ctx context.Context) ([]model.Course, error) {
	courses, err := s.courseRepo.ListCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	ids := make([]int64, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	byCourse, err := s.exerciseRepo.ListExercisesByCourseIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}

	for i := range courses {
		courses[i].Exercises = nonNilExercises(byCourse[courses[i].ID])
	}
	return courses, nil
}

func (s *CourseService) GetCourse(ctx context.Context, id int64) (*model.Course, error) {
	course, err := s.courseRepo.FindCourseByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	byCourse, err := s.exerciseRepo.ListExercisesByCourseIDs(ctx, []int64{id})
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	course.Exercises = nonNilExercises(byCourse[id])
	return course, nil
}

func (s *CourseService) DeleteCourse(ctx context.Context, id int64) error {
	if err := s.courseRepo.DeleteCourse(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return errCourseNotFound
		}
		return fmt.Errorf("failed to delete course: %w", err)
	}
	s.logger.Info().Int64("course_id", id).Msg("Course deleted")
	return nil
}

// Clients expect "exercises": [] rather than null.
func nonNilExercises(list []model.Exercise) []model.Exercise {
	if list == nil {
		return []model.Exercise{}
	}
	return list
}
