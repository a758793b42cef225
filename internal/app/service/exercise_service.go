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

var errExerciseNotFound = common.WithDetail(common.ErrNotFound, "Exercise not found")

type ExerciseService struct {
	courseRepo   repository.CourseRepository
	exerciseRepo repository.ExerciseRepository
	logger       zerolog.Logger
}

func NewExerciseService(courseRepo repository.CourseRepository, exerciseRepo repository.ExerciseRepository, logger zerolog.Logger) *ExerciseService {
	return &ExerciseService{
		courseRepo:   courseRepo,
		exerciseRepo: exerciseRepo,
		logger:       logger.With().Str("service", "ExerciseService").Logger(),
	}
}

type CreateExerciseRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Slug        string `json:"slug" validate:"omitempty,max=255"`
	Description string `json:"description"`
	InitialCode string `json:"initial_code"`
	TestCode    string `json:"test_code"`
	Language    string `json:"language" validate:"omitempty,max=32"`
	PassingRule string `json:"passing_rule" validate:"omitempty,oneof=tests_pass ai_eval manual"`
	Order       int    `json:"order"`
}

// UpdateExerciseRequest only changes the fields that are present.
type UpdateExerciseRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Slug        *string `json:"slug" validate:"omitempty,max=255"`
	Description *string `json:"description"`
	InitialCode *string `json:"initial_code"`
	TestCode    *string `json:"test_code"`
	Language    *string `json:"language" validate:"omitempty,max=32"`
	PassingRule *string `json:"passing_rule" validate:"omitempty,oneof=tests_pass ai_eval manual"`
	Order       *int    `json:"order"`
}

func (s *ExerciseService) CreateExercise(ctx context.Context, courseID int64, req CreateExerciseRequest) (*model.Exercise, error) {
	if _, err := s.courseRepo.FindCourseByID(ctx, courseID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	exerciseSlug := strings.TrimSpace(req.Slug)
	if exerciseSlug == "" {
		exerciseSlug = slug.Make(req.Title)
	}
	rule := model.PassingRule(req.PassingRule)
	if rule == "" {
		rule = model.PassingRuleTestsPass
	}

	exercise := &model.Exercise{
		CourseID:    courseID,
		Title:       req.Title,
		Slug:        exerciseSlug,
		Description: req.Description,
		InitialCode: req.InitialCode,
		TestCode:    req.TestCode,
		Language:    model.LanguageOrDefault(req.Language),
		PassingRule: rule,
		Order:       req.Order,
	}
	if err := s.exerciseRepo.CreateExercise(ctx, exercise); err != nil {
		return nil, fmt.Errorf("failed to create exercise: %w", err)
	}

	s.logger.Info().Int64("course_id", courseID).Int64("exercise_id", exercise.ID).Msg("Exercise created")
	return exercise, nil
}

func (s *ExerciseService) UpdateExercise(ctx context.Context, courseID, exerciseID int64, req UpdateExerciseRequest) (*model.Exercise, error) {
	exercise, err := s.findInCourse(ctx, courseID, exerciseID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		exercise.Title = *req.Title
	}
	if req.Slug != nil {
		exercise.Slug = *req.Slug
	}
	if req.Description != nil {
		exercise.Description = *req.Description
	}
	if req.InitialCode != nil {
		exercise.InitialCode = *req.InitialCode
	}
	if req.TestCode != nil {
		exercise.TestCode = *req.TestCode
	}
	if req.Language != nil {
		exercise.Language = model.LanguageOrDefault(*req.Language)
	}
	if req.PassingRule != nil {
		rule := model.PassingRule(*req.PassingRule)
		if !rule.Valid() {
			return nil, common.WithDetail(common.ErrValidation, "Unknown passing rule")
		}
		exercise.PassingRule = rule
	}
	if req.Order != nil {
		exercise.Order = *req.Order
	}

	if err := s.exerciseRepo.UpdateExercise(ctx, exercise); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errExerciseNotFound
		}
		return nil, fmt.Errorf("failed to update exercise: %w", err)
	}
	return exercise, nil
}

func (s *ExerciseService) DeleteExercise(ctx context.Context, courseID, exerciseID int64) error {
	if _, err := s.findInCourse(ctx, courseID, exerciseID); err != nil {
		return err
	}
	if err := s.exerciseRepo.DeleteExercise(ctx, exerciseID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return errExerciseNotFound
		}
		return fmt.Errorf("failed to delete exercise: %w", err)
	}
	s.logger.Info().Int64("course_id", courseID).Int64("exercise_id", exerciseID).Msg("Exercise deleted")
	return nil
}

// findInCourse treats an exercise that belongs to another course as missing.
func (s *ExerciseService) findInCourse(ctx context.Context, courseID, exerciseID int64) (*model.Exercise, error) {
	exercise, err := s.exerciseRepo.FindExerciseByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errExerciseNotFound
		}
		return nil, fmt.Errorf("failed to get exercise: %w", err)
	}
	if exercise.CourseID != courseID {
		return nil, errExerciseNotFound
	}
	return exercise, nil
}
