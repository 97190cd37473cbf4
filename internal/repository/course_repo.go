package repository

import (
	"context"
	"errors"
	"fmt"

	"courseapp/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type courseRepo struct {
	pool *pgxpool.Pool
}

// NewCourseRepo creates a PostgreSQL-backed CourseRepository
func NewCourseRepo(pool *pgxpool.Pool) CourseRepository {
	return &courseRepo{pool: pool}
}

// CreateCourse inserts a new course and fills in the generated fields
func (r *courseRepo) CreateCourse(ctx context.Context, c *model.Course) error {
	if c.Prerequisites == nil {
		c.Prerequisites = []string{}
	}
	query := `
		INSERT INTO courses (course_name, description, duration, amount, image_url, prerequisites, max_registrations)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		c.CourseName, c.Description, c.Duration, c.Amount, c.ImageURL, c.Prerequisites, c.MaxRegistrations,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating course: %w", err)
	}
	return nil
}

// GetCourseByID retrieves a course by its ID
func (r *courseRepo) GetCourseByID(ctx context.Context, courseID string) (*model.Course, error) {
	if !isCourseID(courseID) {
		return nil, nil
	}
	query := `
		SELECT id, course_name, description, duration, amount, image_url, prerequisites,
		       max_registrations, created_at, updated_at
		FROM courses
		WHERE id = $1
	`
	var c model.Course
	err := r.pool.QueryRow(ctx, query, courseID).Scan(
		&c.ID,
		&c.CourseName,
		&c.Description,
		&c.Duration,
		&c.Amount,
		&c.ImageURL,
		&c.Prerequisites,
		&c.MaxRegistrations,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting course by id %s: %w", courseID, err)
	}
	return &c, nil
}

// ListCourses retrieves all courses ordered by creation time, newest first
func (r *courseRepo) ListCourses(ctx context.Context) ([]model.Course, error) {
	query := `
		SELECT id, course_name, description, duration, amount, image_url, prerequisites,
		       max_registrations, created_at, updated_at
		FROM courses
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying courses: %w", err)
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(
			&c.ID,
			&c.CourseName,
			&c.Description,
			&c.Duration,
			&c.Amount,
			&c.ImageURL,
			&c.Prerequisites,
			&c.MaxRegistrations,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning course row: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating course rows: %w", err)
	}
	return courses, nil
}
