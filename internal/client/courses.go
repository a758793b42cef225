package client

import (
	"codecourse/internal/domain/model"
	"context"
	"fmt"
	"net/http"
	"net/url"
)

type CourseInput struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	IsPublished bool   `json:"is_published"`
}

type ExerciseInput struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	InitialCode string `json:"initial_code"`
	TestCode    string `json:"test_code"`
	Language    string `json:"language,omitempty"`
	PassingRule string `json:"passing_rule,omitempty"`
	Order       int    `json:"order"`
}

// ExercisePatch sends only the fields that are set.
type ExercisePatch struct {
	Title       *string `json:"title,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
	InitialCode *string `json:"initial_code,omitempty"`
	TestCode    *string `json:"test_code,omitempty"`
	Language    *string `json:"language,omitempty"`
	PassingRule *string `json:"passing_rule,omitempty"`
	Order       *int    `json:"order,omitempty"`
}

func (c *Client) ListCourses(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	if err := c.doJSON(ctx, http.MethodGet, "/courses/", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// GetCourse takes the identifier as given, the way a route parameter would
// arrive.
func (c *Client) GetCourse(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	if err := c.doJSON(ctx, http.MethodGet, "/courses/"+url.PathEscape(id), nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Client) CreateCourse(ctx context.Context, in CourseInput) (*model.Course, error) {
	var course model.Course
	if err := c.doJSON(ctx, http.MethodPost, "/courses/", in, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Client) DeleteCourse(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/courses/%d", id), nil, nil)
}

func (c *Client) CreateExercise(ctx context.Context, courseID int64, in ExerciseInput) (*model.Exercise, error) {
	var exercise model.Exercise
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/courses/%d/exercises/", courseID), in, &exercise); err != nil {
		return nil, err
	}
	return &exercise, nil
}

func (c *Client) UpdateExercise(ctx context.Context, courseID, exerciseID int64, patch ExercisePatch) (*model.Exercise, error) {
	var exercise model.Exercise
	path := fmt.Sprintf("/courses/%d/exercises/%d", courseID, exerciseID)
	if err := c.doJSON(ctx, http.MethodPut, path, patch, &exercise); err != nil {
		return nil, err
	}
	return &exercise, nil
}

func (c *Client) DeleteExercise(ctx context.Context, courseID, exerciseID int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/courses/%d/exercises/%d", courseID, exerciseID), nil, nil)
}
