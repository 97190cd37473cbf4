package repository

import (
	"context"
	"errors"
	"fmt"

	"courseapp/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type registrationRepo struct {
	pool *pgxpool.Pool
}

// NewRegistrationRepo creates a PostgreSQL-backed RegistrationRepository
func NewRegistrationRepo(pool *pgxpool.Pool) RegistrationRepository {
	return &registrationRepo{pool: pool}
}

// Admit runs the duplicate check, the capacity count and the insert in one transaction.
// The course row is locked FOR UPDATE first, so admissions to the same course are
// serialized and two requests can never both observe the last free seat.
func (r *registrationRepo) Admit(ctx context.Context, reg *model.Registration) error {
	if !isCourseID(reg.CourseID) {
		return ErrNotFound
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning admission for course %s: %w", reg.CourseID, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	var maxRegistrations int
	err = tx.QueryRow(ctx, `SELECT max_registrations FROM courses WHERE id = $1 FOR UPDATE`, reg.CourseID).
		Scan(&maxRegistrations)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("locking course %s: %w", reg.CourseID, err)
	}

	var exists bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM registrations WHERE student_id = $1 AND course_id = $2)`,
		reg.StudentID, reg.CourseID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking existing registration: %w", err)
	}
	if exists {
		return ErrDuplicate
	}

	var paid int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM registrations WHERE course_id = $1 AND payment_status = 'Paid'`,
		reg.CourseID,
	).Scan(&paid)
	if err != nil {
		return fmt.Errorf("counting paid registrations for course %s: %w", reg.CourseID, err)
	}
	if paid >= maxRegistrations {
		return ErrCapacityReached
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO registrations (student_id, course_id, payment_status, agreement_accepted)
		VALUES ($1, $2, $3, $4)
		RETURNING id, registered_at
	`, reg.StudentID, reg.CourseID, string(reg.PaymentStatus), reg.AgreementAccepted).Scan(&reg.ID, &reg.RegisteredAt)
	if err != nil {
		switch code, _ := pgErrorCode(err); code {
		case pgUniqueViolation:
			return ErrDuplicate
		case pgForeignKeyViolation:
			return ErrNotFound
		}
		return fmt.Errorf("inserting registration: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing admission for course %s: %w", reg.CourseID, err)
	}
	return nil
}

// CountPaid counts the paid registrations of one course
func (r *registrationRepo) CountPaid(ctx context.Context, courseID string) (int, error) {
	if !isCourseID(courseID) {
		return 0, nil
	}
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM registrations WHERE course_id = $1 AND payment_status = 'Paid'`,
		courseID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting paid registrations for course %s: %w", courseID, err)
	}
	return n, nil
}

// CountPaidByCourse counts paid registrations for many courses with a single grouped query
func (r *registrationRepo) CountPaidByCourse(ctx context.Context, courseIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(courseIDs))
	ids := make([]string, 0, len(courseIDs))
	for _, id := range courseIDs {
		if isCourseID(id) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return counts, nil
	}

	query := `
		SELECT course_id::text, COUNT(*)
		FROM registrations
		WHERE course_id = ANY($1::text[]::uuid[]) AND payment_status = 'Paid'
		GROUP BY course_id
	`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("counting paid registrations by course: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scanning registration count: %w", err)
		}
		counts[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating registration counts: %w", err)
	}
	return counts, nil
}

// ListPaidByCourse returns the paid registrations of a course with student names, newest first
func (r *registrationRepo) ListPaidByCourse(ctx context.Context, courseID string) ([]model.CourseRegistration, error) {
	result := []model.CourseRegistration{}
	if !isCourseID(courseID) {
		return result, nil
	}
	query := `
		SELECT r.id, r.student_id, r.course_id, r.payment_status, r.agreement_accepted, r.registered_at,
		       s.first_name, s.last_name, c.course_name
		FROM registrations r
		JOIN students s ON s.student_id = r.student_id
		JOIN courses c ON c.id = r.course_id
		WHERE r.course_id = $1 AND r.payment_status = 'Paid'
		ORDER BY r.registered_at DESC
	`
	rows, err := r.pool.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("querying registrations for course %s: %w", courseID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var cr model.CourseRegistration
		var status string
		if err := rows.Scan(
			&cr.ID,
			&cr.StudentID,
			&cr.CourseID,
			&status,
			&cr.AgreementAccepted,
			&cr.RegisteredAt,
			&cr.Student.FirstName,
			&cr.Student.LastName,
			&cr.CourseName,
		); err != nil {
			return nil, fmt.Errorf("scanning course registration row: %w", err)
		}
		cr.PaymentStatus = model.PaymentStatus(status)
		cr.Student.StudentID = cr.StudentID
		result = append(result, cr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating course registration rows: %w", err)
	}
	return result, nil
}

// ListByStudent returns all registrations of a student with the course projection, newest first
func (r *registrationRepo) ListByStudent(ctx context.Context, studentID string) ([]model.StudentRegistration, error) {
	query := `
		SELECT r.id, r.student_id, r.course_id, r.payment_status, r.agreement_accepted, r.registered_at,
		       c.id, c.course_name, c.description, c.duration, c.amount, c.image_url, c.prerequisites,
		       c.max_registrations, c.created_at, c.updated_at
		FROM registrations r
		JOIN courses c ON c.id = r.course_id
		WHERE r.student_id = $1
		ORDER BY r.registered_at DESC
	`
	rows, err := r.pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("querying registrations for student %s: %w", studentID, err)
	}
	defer rows.Close()

	result := []model.StudentRegistration{}
	for rows.Next() {
		var sr model.StudentRegistration
		var status string
		if err := rows.Scan(
			&sr.ID,
			&sr.StudentID,
			&sr.CourseID,
			&status,
			&sr.AgreementAccepted,
			&sr.RegisteredAt,
			&sr.Course.ID,
			&sr.Course.CourseName,
			&sr.Course.Description,
			&sr.Course.Duration,
			&sr.Course.Amount,
			&sr.Course.ImageURL,
			&sr.Course.Prerequisites,
			&sr.Course.MaxRegistrations,
			&sr.Course.CreatedAt,
			&sr.Course.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning student registration row: %w", err)
		}
		sr.PaymentStatus = model.PaymentStatus(status)
		result = append(result, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating student registration rows: %w", err)
	}
	return result, nil
}
