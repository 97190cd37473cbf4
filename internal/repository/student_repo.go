package repository

import (
	"context"
	"errors"
	"fmt"

	"courseapp/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type studentRepo struct {
	pool *pgxpool.Pool
}

// NewStudentRepo creates a PostgreSQL-backed StudentRepository
func NewStudentRepo(pool *pgxpool.Pool) StudentRepository {
	return &studentRepo{pool: pool}
}

// CreateStudent inserts a student; uniqueness of email and student id is enforced by the table
func (r *studentRepo) CreateStudent(ctx context.Context, s *model.Student) error {
	query := `
		INSERT INTO students (student_id, first_name, last_name, email, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query, s.StudentID, s.FirstName, s.LastName, s.Email, s.PasswordHash).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if code, constraint := pgErrorCode(err); code == pgUniqueViolation {
			if constraint == "students_email_key" {
				return ErrDuplicateEmail
			}
			return ErrDuplicateStudentID
		}
		return fmt.Errorf("creating student: %w", err)
	}
	return nil
}

func (r *studentRepo) GetStudentByStudentID(ctx context.Context, studentID string) (*model.Student, error) {
	return r.getOne(ctx, "student_id", studentID)
}

func (r *studentRepo) GetStudentByEmail(ctx context.Context, email string) (*model.Student, error) {
	return r.getOne(ctx, "email", email)
}

func (r *studentRepo) getOne(ctx context.Context, column, value string) (*model.Student, error) {
	// column is never caller-controlled
	query := `
		SELECT id, student_id, first_name, last_name, email, password_hash, created_at, updated_at
		FROM students
		WHERE ` + column + ` = $1
	`
	var s model.Student
	err := r.pool.QueryRow(ctx, query, value).Scan(
		&s.ID,
		&s.StudentID,
		&s.FirstName,
		&s.LastName,
		&s.Email,
		&s.PasswordHash,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting student by %s: %w", column, err)
	}
	return &s, nil
}

func (r *studentRepo) StudentIDExists(ctx context.Context, studentID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM students WHERE student_id = $1)`, studentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking student id %s: %w", studentID, err)
	}
	return exists, nil
}
