package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"codecore/internal/domain"
)

// CompletedCourseRepository define la persistencia de cursos completados.
type CompletedCourseRepository interface {
	Create(ctx context.Context, completed domain.CompletedCourse) error
	GetByID(ctx context.Context, id string) (domain.CompletedCourse, error)
	List(ctx context.Context) ([]domain.CompletedCourse, error)
	Delete(ctx context.Context, id string) error
}

// PgCompletedCourseRepository implementa CompletedCourseRepository usando pgxpool.
type PgCompletedCourseRepository struct {
	pool *pgxpool.Pool
}

func NewPgCompletedCourseRepository(pool *pgxpool.Pool) *PgCompletedCourseRepository {
	return &PgCompletedCourseRepository{pool: pool}
}

func (r *PgCompletedCourseRepository) Create(ctx context.Context, completed domain.CompletedCourse) error {
	const query = `
		INSERT INTO completed_courses (id, course_id, account_id)
		VALUES ($1, $2, $3)
	`
	_, err := r.pool.Exec(ctx, query, completed.ID, completed.CourseID, completed.AccountID)
	return translateConstraint(err)
}

func (r *PgCompletedCourseRepository) GetByID(ctx context.Context, id string) (domain.CompletedCourse, error) {
	const query = `
		SELECT id, course_id, account_id
		FROM completed_courses
		WHERE id = $1
	`
	var c domain.CompletedCourse
	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.CourseID, &c.AccountID)
	return c, err
}

func (r *PgCompletedCourseRepository) List(ctx context.Context) ([]domain.CompletedCourse, error) {
	const query = `
		SELECT id, course_id, account_id
		FROM completed_courses
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	completed := make([]domain.CompletedCourse, 0)
	for rows.Next() {
		var c domain.CompletedCourse
		if err := rows.Scan(&c.ID, &c.CourseID, &c.AccountID); err != nil {
			return nil, err
		}
		completed = append(completed, c)
	}
	return completed, rows.Err()
}

func (r *PgCompletedCourseRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM completed_courses WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
