package repository

import (
	"context"
	"errors"
	"fmt"

	"courseapp/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type agreementRepo struct {
	pool *pgxpool.Pool
}

// NewAgreementRepo creates a PostgreSQL-backed AgreementRepository
func NewAgreementRepo(pool *pgxpool.Pool) AgreementRepository {
	return &agreementRepo{pool: pool}
}

// Accept upserts the agreement in a single statement; the primary key on
// (student_id, course_id) makes concurrent acceptances converge on one row.
func (r *agreementRepo) Accept(ctx context.Context, studentID, courseID string) (*model.Agreement, error) {
	query := `
		INSERT INTO agreements (student_id, course_id, accepted)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (student_id, course_id)
		DO UPDATE SET accepted = TRUE, updated_at = NOW()
		RETURNING student_id, course_id, accepted, created_at, updated_at
	`
	var a model.Agreement
	err := r.pool.QueryRow(ctx, query, studentID, courseID).
		Scan(&a.StudentID, &a.CourseID, &a.Accepted, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("accepting agreement for student %s course %s: %w", studentID, courseID, err)
	}
	return &a, nil
}

func (r *agreementRepo) GetAgreement(ctx context.Context, studentID, courseID string) (*model.Agreement, error) {
	query := `
		SELECT student_id, course_id, accepted, created_at, updated_at
		FROM agreements
		WHERE student_id = $1 AND course_id = $2
	`
	var a model.Agreement
	err := r.pool.QueryRow(ctx, query, studentID, courseID).
		Scan(&a.StudentID, &a.CourseID, &a.Accepted, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting agreement for student %s course %s: %w", studentID, courseID, err)
	}
	return &a, nil
}
