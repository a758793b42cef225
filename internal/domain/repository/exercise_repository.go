package repository

import (
	"codecourse/internal/common"
	"codecourse/internal/domain/model"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type ExerciseRepository interface {
	CreateExercise(ctx context.Context, exercise *model.Exercise) error
	UpdateExercise(ctx context.Context, exercise *model.Exercise) error
	DeleteExercise(ctx context.Context, id int64) error
	FindExerciseByID(ctx context.Context, id int64) (*model.Exercise, error)
	// ListExercisesByCourseIDs returns exercises grouped by course, each group
	// ordered by Order then ID.
	ListExercisesByCourseIDs(ctx context.Context, courseIDs []int64) (map[int64][]model.Exercise, error)
}

type pgExerciseRepository struct {
	db *sql.DB
}

func NewPgExerciseRepository(db *sql.DB) ExerciseRepository {
	return &pgExerciseRepository{db: db}
}

const exerciseColumns = `id, course_id, title, slug, description, initial_code, test_code,
	language, passing_rule, sort_order, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanExercise(row rowScanner, e *model.Exercise) error {
	return row.Scan(
		&e.ID, &e.CourseID, &e.Title, &e.Slug, &e.Description, &e.InitialCode, &e.TestCode,
		&e.Language, &e.PassingRule, &e.Order, &e.CreatedAt, &e.UpdatedAt,
	)
}

func (r *pgExerciseRepository) CreateExercise(ctx context.Context, e *model.Exercise) error {
	query := `INSERT INTO exercises (course_id, title, slug, description, initial_code, test_code, language, passing_rule, sort_order)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		e.CourseID, e.Title, e.Slug, e.Description, e.InitialCode, e.TestCode, e.Language, e.PassingRule, e.Order,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgExerciseRepository.CreateExercise: %w", err)
	}
	return nil
}

func (r *pgExerciseRepository) UpdateExercise(ctx context.Context, e *model.Exercise) error {
	query := `UPDATE exercises SET
	            title = $1, slug = $2, description = $3, initial_code = $4, test_code = $5,
	            language = $6, passing_rule = $7, sort_order = $8, course_id = $9,
	            updated_at = CURRENT_TIMESTAMP
	          WHERE id = $10
	          RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		e.Title, e.Slug, e.Description, e.InitialCode, e.TestCode, e.Language, e.PassingRule, e.Order, e.CourseID, e.ID,
	).Scan(&e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return fmt.Errorf("pgExerciseRepository.UpdateExercise: %w", err)
	}
	return nil
}

func (r *pgExerciseRepository) DeleteExercise(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM exercises WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgExerciseRepository.DeleteExercise: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgExerciseRepository.DeleteExercise rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgExerciseRepository) FindExerciseByID(ctx context.Context, id int64) (*model.Exercise, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercises WHERE id = $1`
	e := &model.Exercise{}
	if err := scanExercise(r.db.QueryRowContext(ctx, query, id), e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgExerciseRepository.FindExerciseByID: %w", err)
	}
	return e, nil
}

func (r *pgExerciseRepository) ListExercisesByCourseIDs(ctx context.Context, courseIDs []int64) (map[int64][]model.Exercise, error) {
	byCourse := make(map[int64][]model.Exercise, len(courseIDs))
	if len(courseIDs) == 0 {
		return byCourse, nil
	}

	// pgx encodes the []int64 argument as a BIGINT[] for ANY.
	query := `SELECT ` + exerciseColumns + ` FROM exercises
	          WHERE course_id = ANY($1)
	          ORDER BY course_id, sort_order, id`
	rows, err := r.db.QueryContext(ctx, query, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("pgExerciseRepository.ListExercisesByCourseIDs query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e model.Exercise
		if err := scanExercise(rows, &e); err != nil {
			return nil, fmt.Errorf("pgExerciseRepository.ListExercisesByCourseIDs scan: %w", err)
		}
		byCourse[e.CourseID] = append(byCourse[e.CourseID], e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgExerciseRepository.ListExercisesByCourseIDs rows: %w", err)
	}
	return byCourse, nil
}
