package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"codecore/internal/domain"
)

// CourseRepository define el contrato de persistencia para cursos.
type CourseRepository interface {
	Create(ctx context.Context, course domain.Course) error
	GetByID(ctx context.Context, id string) (domain.Course, error)
	List(ctx context.Context) ([]domain.Course, error)
	Update(ctx context.Context, course domain.Course) error
	Delete(ctx context.Context, id string) error
}

// PgCourseRepository implementa CourseRepository usando pgxpool.
type PgCourseRepository struct {
	pool *pgxpool.Pool
}

func NewPgCourseRepository(pool *pgxpool.Pool) *PgCourseRepository {
	return &PgCourseRepository{pool: pool}
}

func scanCourse(row pgx.Row) (domain.Course, error) {
	var c domain.Course
	err := row.Scan(&c.ID, &c.Title, &c.Price, &c.Author, &c.ImageURL, &c.Link)
	return c, err
}

func (r *PgCourseRepository) Create(ctx context.Context, course domain.Course) error {
	const query = `
		INSERT INTO courses (id, title, price, author, image_url, link)
		VALUES ($1, $2, $3::numeric, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		course.ID,
		course.Title,
		course.Price,
		course.Author,
		course.ImageURL,
		course.Link,
	)
	return translateConstraint(err)
}

func (r *PgCourseRepository) GetByID(ctx context.Context, id string) (domain.Course, error) {
	const query = `
		SELECT id, title, price::text, author, image_url, link
		FROM courses
		WHERE id = $1
	`
	return scanCourse(r.pool.QueryRow(ctx, query, id))
}

func (r *PgCourseRepository) List(ctx context.Context) ([]domain.Course, error) {
	const query = `
		SELECT id, title, price::text, author, image_url, link
		FROM courses
		ORDER BY title
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := make([]domain.Course, 0)
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

func (r *PgCourseRepository) Update(ctx context.Context, course domain.Course) error {
	const query = `
		UPDATE courses
		SET title = $2, price = $3::numeric, author = $4, image_url = $5, link = $6
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		course.ID,
		course.Title,
		course.Price,
		course.Author,
		course.ImageURL,
		course.Link,
	)
	if err != nil {
		return translateConstraint(err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgCourseRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM courses WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
