package repository

import (
	"codecourse/internal/common"
	"codecourse/internal/domain/model"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

type CourseRepository interface {
	CreateCourse(ctx context.Context, course *model.Course) error
	FindCourseByID(ctx context.Context, id int64) (*model.Course, error)
	ListCourses(ctx context.Context) ([]model.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
}

type pgCourseRepository struct {
	db *sql.DB
}

func NewPgCourseRepository(db *sql.DB) CourseRepository {
	return &pgCourseRepository{db: db}
}

func (r *pgCourseRepository) CreateCourse(ctx context.Context, c *model.Course) error {
	query := `INSERT INTO courses (title, description, slug, is_published)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, c.Title, c.Description, c.Slug, c.IsPublished).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint for slug
			return fmt.Errorf("course with this slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgCourseRepository.CreateCourse: %w", err)
	}
	return nil
}

func (r *pgCourseRepository) FindCourseByID(ctx context.Context, id int64) (*model.Course, error) {
	query := `SELECT id, title, description, slug, is_published, created_at, updated_at
	          FROM courses WHERE id = $1`
	c := &model.Course{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Title, &c.Description, &c.Slug, &c.IsPublished, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgCourseRepository.FindCourseByID: %w", err)
	}
	return c, nil
}

func (r *pgCourseRepository) ListCourses(ctx context.Context) ([]model.Course, error) {
	query := `SELECT id, title, description, slug, is_published, created_at, updated_at
	          FROM courses ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgCourseRepository.ListCourses query: %w", err)
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Slug, &c.IsPublished, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgCourseRepository.ListCourses scan: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgCourseRepository.ListCourses rows: %w", err)
	}
	return courses, nil
}

// DeleteCourse removes the course; its exercises go with it through the
// foreign key cascade.
func (r *pgCourseRepository) DeleteCourse(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgCourseRepository.DeleteCourse: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgCourseRepository.DeleteCourse rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
