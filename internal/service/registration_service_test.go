package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
)

func TestRegisterCheckOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	courseID := env.course(t, "Go", 5)
	studentID := env.student(t, "ada@example.com")

	tests := []struct {
		name string
		req  AdmissionRequest
		want error
	}{
		{
			name: "unpaid is rejected before existence checks",
			req:  AdmissionRequest{StudentID: "00000", CourseID: "missing", PaymentStatus: "Unpaid", AgreementAccepted: ptr(true)},
			want: ErrPaymentNotCleared,
		},
		{
			name: "payment status is matched literally",
			req:  AdmissionRequest{StudentID: studentID, CourseID: courseID, PaymentStatus: "paid", AgreementAccepted: ptr(true)},
			want: ErrPaymentNotCleared,
		},
		{
			name: "agreement is checked before existence",
			req:  AdmissionRequest{StudentID: "00000", CourseID: "missing", PaymentStatus: "Paid", AgreementAccepted: ptr(false)},
			want: ErrAgreementRequired,
		},
		{
			name: "student before course",
			req:  admission("00000", "missing"),
			want: ErrStudentNotFound,
		},
		{
			name: "unknown course",
			req:  admission(studentID, "missing"),
			want: ErrCourseNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.registrations.Register(ctx, tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     AdmissionRequest
		missing string
	}{
		{"no student", AdmissionRequest{CourseID: "c", PaymentStatus: "Paid", AgreementAccepted: ptr(true)}, "studentId is required"},
		{"blank course", AdmissionRequest{StudentID: "12345", CourseID: "  ", PaymentStatus: "Paid", AgreementAccepted: ptr(true)}, "courseId is required"},
		{"no payment status", AdmissionRequest{StudentID: "12345", CourseID: "c", AgreementAccepted: ptr(true)}, "paymentStatus is required"},
		{"no agreement flag", AdmissionRequest{StudentID: "12345", CourseID: "c", PaymentStatus: "Unpaid"}, "agreementAccepted is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.registrations.Register(ctx, tt.req)
			verr := assertValidation(t, err)
			if len(verr.Details) != 1 || verr.Details[0] != tt.missing {
				t.Fatalf("expected detail %q, got %v", tt.missing, verr.Details)
			}
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	courseID := env.course(t, "Go", 5)
	studentID := env.student(t, "ada@example.com")

	reg, err := env.registrations.Register(ctx, admission(studentID, courseID))
	if err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if reg.PaymentStatus != "Paid" || !reg.AgreementAccepted || reg.RegisteredAt.IsZero() {
		t.Fatalf("unexpected registration: %+v", reg)
	}

	if _, err := env.registrations.Register(ctx, admission(studentID, courseID)); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
	regs, err := env.registrations.ListStudentRegistrations(ctx, studentID)
	if err != nil {
		t.Fatalf("ListStudentRegistrations: %v", err)
	}
	if len(regs) != 1 {
		t.Fatalf("expected exactly one ledger record, got %d", len(regs))
	}
}

func TestRegisterConcurrentLastSeat(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	courseID := env.course(t, "Tiny", 1)
	first := env.student(t, "a@example.com")
	second := env.student(t, "b@example.com")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, sid := range []string{first, second} {
		wg.Add(1)
		go func(i int, sid string) {
			defer wg.Done()
			_, errs[i] = env.registrations.Register(ctx, admission(sid, courseID))
		}(i, sid)
	}
	wg.Wait()

	succeeded, full := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrCourseFull):
			full++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || full != 1 {
		t.Fatalf("expected one success and one ErrCourseFull, got %d/%d", succeeded, full)
	}

	c, err := env.courses.GetCourse(ctx, courseID)
	if err != nil {
		t.Fatalf("GetCourse: %v", err)
	}
	if c.SeatsFilled != 1 || c.SeatsLeft != 0 {
		t.Fatalf("unexpected seats: filled=%d left=%d", c.SeatsFilled, c.SeatsLeft)
	}
}

func TestRegisterPublishesEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	courseID := env.course(t, "Go", 5)
	studentID := env.student(t, "ada@example.com")

	reg, err := env.registrations.Register(ctx, admission(studentID, courseID))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if len(env.publisher.payloads) != 1 || env.publisher.topics[0] != "registration-created" {
		t.Fatalf("expected one event on registration-created, got %v", env.publisher.topics)
	}
	var ev RegistrationCreatedEvent
	if err := json.Unmarshal(env.publisher.payloads[0], &ev); err != nil {
		t.Fatalf("decoding event: %v", err)
	}
	if ev.Type != "registration.created" || ev.RegistrationID != reg.ID || ev.CourseID != courseID || ev.StudentID != studentID {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestRegisterSurvivesPublishFailure(t *testing.T) {
	env := newTestEnv(t)
	env.publisher.err = errors.New("broker down")
	ctx := context.Background()
	courseID := env.course(t, "Go", 5)
	studentID := env.student(t, "ada@example.com")

	if _, err := env.registrations.Register(ctx, admission(studentID, courseID)); err != nil {
		t.Fatalf("publish failure must not fail admission: %v", err)
	}
	n, err := env.repos.Registrations.CountPaid(ctx, courseID)
	if err != nil || n != 1 {
		t.Fatalf("expected registration committed, got %d, %v", n, err)
	}
}

func TestListStudentRegistrations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.registrations.ListStudentRegistrations(ctx, " "); err == nil {
		t.Fatal("expected validation error for empty student id")
	} else {
		assertValidation(t, err)
	}
	if _, err := env.registrations.ListStudentRegistrations(ctx, "99999"); !errors.Is(err, ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound, got %v", err)
	}

	studentID := env.student(t, "ada@example.com")
	regs, err := env.registrations.ListStudentRegistrations(ctx, studentID)
	if err != nil {
		t.Fatalf("ListStudentRegistrations: %v", err)
	}
	if regs == nil || len(regs) != 0 {
		t.Fatalf("expected empty list, got %#v", regs)
	}
}

func TestListCourseRegistrations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	courseID := env.course(t, "Go", 5)
	studentID := env.student(t, "ada@example.com")
	if _, err := env.registrations.Register(ctx, admission(studentID, courseID)); err != nil {
		t.Fatalf("Register: %v", err)
	}

	regs, err := env.registrations.ListCourseRegistrations(ctx, courseID)
	if err != nil {
		t.Fatalf("ListCourseRegistrations: %v", err)
	}
	if len(regs) != 1 || regs[0].Student.FirstName != "Ada" || regs[0].CourseName != "Go" {
		t.Fatalf("unexpected registrations: %+v", regs)
	}

	unknown, err := env.registrations.ListCourseRegistrations(ctx, "missing")
	if err != nil || len(unknown) != 0 {
		t.Fatalf("expected empty list for unknown course, got %v, %v", unknown, err)
	}
}
