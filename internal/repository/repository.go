package repository

import (
	"context"
	"errors"

	"courseapp/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned by mutations whose target row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique (student, course) pair already exists.
	ErrDuplicate = errors.New("duplicate record")
	// ErrDuplicateEmail is returned when a student email is already taken.
	ErrDuplicateEmail = errors.New("duplicate student email")
	// ErrDuplicateStudentID is returned when a generated student id is already taken.
	ErrDuplicateStudentID = errors.New("duplicate student id")
	// ErrCapacityReached is returned when a course has no paid seat left.
	ErrCapacityReached = errors.New("course capacity reached")
)

// CourseRepository defines the interface for interacting with course data
type CourseRepository interface {
	CreateCourse(ctx context.Context, c *model.Course) error
	// GetCourseByID returns nil when the course does not exist
	GetCourseByID(ctx context.Context, courseID string) (*model.Course, error)
	// ListCourses returns all courses, newest first
	ListCourses(ctx context.Context) ([]model.Course, error)
}

// StudentRepository defines the interface for interacting with student data
type StudentRepository interface {
	CreateStudent(ctx context.Context, s *model.Student) error
	GetStudentByStudentID(ctx context.Context, studentID string) (*model.Student, error)
	GetStudentByEmail(ctx context.Context, email string) (*model.Student, error)
	StudentIDExists(ctx context.Context, studentID string) (bool, error)
}

// RegistrationRepository is the registration ledger
type RegistrationRepository interface {
	// Admit appends a registration if, atomically with the insert, the course exists
	// (ErrNotFound), the (student, course) pair is free (ErrDuplicate) and the number of
	// paid registrations is below the course capacity (ErrCapacityReached).
	Admit(ctx context.Context, reg *model.Registration) error
	CountPaid(ctx context.Context, courseID string) (int, error)
	// CountPaidByCourse performs one grouped count; courses without paid
	// registrations are absent from the result.
	CountPaidByCourse(ctx context.Context, courseIDs []string) (map[string]int, error)
	ListPaidByCourse(ctx context.Context, courseID string) ([]model.CourseRegistration, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.StudentRegistration, error)
}

// AgreementRepository defines the interface for course agreement records
type AgreementRepository interface {
	// Accept upserts the (student, course) agreement with accepted=true
	Accept(ctx context.Context, studentID, courseID string) (*model.Agreement, error)
	// GetAgreement returns nil when no agreement exists
	GetAgreement(ctx context.Context, studentID, courseID string) (*model.Agreement, error)
}

// Repositories groups the repositories of one backing store
type Repositories struct {
	Courses       CourseRepository
	Students      StudentRepository
	Registrations RegistrationRepository
	Agreements    AgreementRepository
}

// NewPostgresRepositories builds all PostgreSQL repositories over one pool
func NewPostgresRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Courses:       NewCourseRepo(pool),
		Students:      NewStudentRepo(pool),
		Registrations: NewRegistrationRepo(pool),
		Agreements:    NewAgreementRepo(pool),
	}
}
