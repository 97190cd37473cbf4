package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"courseapp/internal/repository"
	"courseapp/internal/repository/memory"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type fakePublisher struct {
	mu       sync.Mutex
	err      error
	topics   []string
	payloads [][]byte
}

func (p *fakePublisher) Publish(_ context.Context, topic string, payload []byte) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	p.topics = append(p.topics, topic)
	p.payloads = append(p.payloads, payload)
	return fmt.Sprintf("msg-%d", len(p.payloads)), nil
}

func (p *fakePublisher) Close() error { return nil }

type testEnv struct {
	repos         repository.Repositories
	courses       CourseService
	students      StudentService
	registrations RegistrationService
	agreements    AgreementService
	publisher     *fakePublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repos := memory.New().Repositories()
	logger := zerolog.Nop()
	pub := &fakePublisher{}
	return &testEnv{
		repos:         repos,
		courses:       NewCourseService(repos.Courses, repos.Registrations, logger),
		students:      NewStudentService(repos.Students, nil, 25, bcrypt.MinCost, logger),
		registrations: NewRegistrationService(repos.Students, repos.Courses, repos.Registrations, pub, "registration-created", logger),
		agreements:    NewAgreementService(repos.Agreements, logger),
		publisher:     pub,
	}
}

func ptr[T any](v T) *T { return &v }

func (e *testEnv) course(t *testing.T, name string, max int) string {
	t.Helper()
	c, err := e.courses.CreateCourse(context.Background(), CreateCourseInput{
		CourseName:       name,
		Description:      "About " + name,
		Duration:         "4 weeks",
		Amount:           ptr(100.0),
		MaxRegistrations: ptr(max),
	})
	if err != nil {
		t.Fatalf("CreateCourse(%s): %v", name, err)
	}
	return c.ID
}

func (e *testEnv) student(t *testing.T, email string) string {
	t.Helper()
	st, err := e.students.SignUp(context.Background(), SignUpInput{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           email,
		Password:        "pw",
		ConfirmPassword: "pw",
	})
	if err != nil {
		t.Fatalf("SignUp(%s): %v", email, err)
	}
	return st.StudentID
}

func admission(studentID, courseID string) AdmissionRequest {
	return AdmissionRequest{
		StudentID:         studentID,
		CourseID:          courseID,
		PaymentStatus:     "Paid",
		AgreementAccepted: ptr(true),
	}
}

func assertValidation(t *testing.T, err error) *ValidationError {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	return verr
}
