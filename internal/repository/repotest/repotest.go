// Package repotest holds the behaviour every repository implementation must share.
// Each store's tests call Run with a factory that hands out an empty store.
package repotest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"courseapp/internal/model"
	"courseapp/internal/repository"

	"github.com/google/uuid"
)

// Factory returns repositories over an empty store
type Factory func(t *testing.T) repository.Repositories

// Run executes the conformance suite
func Run(t *testing.T, newRepos Factory) {
	t.Run("CourseLifecycle", func(t *testing.T) { testCourseLifecycle(t, newRepos(t)) })
	t.Run("StudentUniqueness", func(t *testing.T) { testStudentUniqueness(t, newRepos(t)) })
	t.Run("AdmitRules", func(t *testing.T) { testAdmitRules(t, newRepos(t)) })
	t.Run("AdmitConcurrentCapacity", func(t *testing.T) { testAdmitConcurrentCapacity(t, newRepos(t)) })
	t.Run("AdmitConcurrentDuplicate", func(t *testing.T) { testAdmitConcurrentDuplicate(t, newRepos(t)) })
	t.Run("PaidCounts", func(t *testing.T) { testPaidCounts(t, newRepos(t)) })
	t.Run("Listings", func(t *testing.T) { testListings(t, newRepos(t)) })
	t.Run("Agreements", func(t *testing.T) { testAgreements(t, newRepos(t)) })
}

func mustCourse(t *testing.T, repos repository.Repositories, name string, max int) *model.Course {
	t.Helper()
	c := &model.Course{
		CourseName:       name,
		Description:      name + " description",
		Duration:         "6 weeks",
		Amount:           199.5,
		Prerequisites:    []string{"Algebra", "Logic"},
		MaxRegistrations: max,
	}
	if err := repos.Courses.CreateCourse(context.Background(), c); err != nil {
		t.Fatalf("CreateCourse(%s): %v", name, err)
	}
	if c.ID == "" {
		t.Fatalf("CreateCourse(%s) did not assign an id", name)
	}
	return c
}

func mustStudent(t *testing.T, repos repository.Repositories, studentID string) *model.Student {
	t.Helper()
	s := &model.Student{
		StudentID:    studentID,
		FirstName:    "First" + studentID,
		LastName:     "Last" + studentID,
		Email:        "s" + studentID + "@example.com",
		PasswordHash: "hash",
	}
	if err := repos.Students.CreateStudent(context.Background(), s); err != nil {
		t.Fatalf("CreateStudent(%s): %v", studentID, err)
	}
	return s
}

func paid(studentID, courseID string) *model.Registration {
	return &model.Registration{
		StudentID:         studentID,
		CourseID:          courseID,
		PaymentStatus:     model.PaymentPaid,
		AgreementAccepted: true,
	}
}

func testCourseLifecycle(t *testing.T, repos repository.Repositories) {
	ctx := context.Background()

	courses, err := repos.Courses.ListCourses(ctx)
	if err != nil {
		t.Fatalf("ListCourses on empty store: %v", err)
	}
	if courses == nil || len(courses) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", courses)
	}

	first := mustCourse(t, repos, "Go Basics", 10)
	second := mustCourse(t, repos, "Go Advanced", 5)

	got, err := repos.Courses.GetCourseByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetCourseByID: %v", err)
	}
	if got == nil || got.CourseName != "Go Basics" || got.MaxRegistrations != 10 {
		t.Fatalf("unexpected course: %#v", got)
	}
	if len(got.Prerequisites) != 2 || got.Prerequisites[0] != "Algebra" || got.Prerequisites[1] != "Logic" {
		t.Fatalf("prerequisites not preserved in order: %v", got.Prerequisites)
	}

	for _, id := range []string{uuid.NewString(), "not-an-id"} {
		missing, err := repos.Courses.GetCourseByID(ctx, id)
		if err != nil {
			t.Fatalf("GetCourseByID(%q) returned error: %v", id, err)
		}
		if missing != nil {
			t.Fatalf("expected nil for unknown course %q", id)
		}
	}

	courses, err = repos.Courses.ListCourses(ctx)
	if err != nil {
		t.Fatalf("ListCourses: %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(courses))
	}
	if courses[0].ID != second.ID {
		t.Fatalf("expected newest course first, got %s", courses[0].CourseName)
	}
}

func testStudentUniqueness(t *testing.T, repos repository.Repositories) {
	ctx := context.Background()
	s := mustStudent(t, repos, "12345")

	dupEmail := &model.Student{StudentID: "54321", FirstName: "A", LastName: "B", Email: s.Email, PasswordHash: "x"}
	if err := repos.Students.CreateStudent(ctx, dupEmail); !errors.Is(err, repository.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	dupID := &model.Student{StudentID: s.StudentID, FirstName: "A", LastName: "B", Email: "other@example.com", PasswordHash: "x"}
	if err := repos.Students.CreateStudent(ctx, dupID); !errors.Is(err, repository.ErrDuplicateStudentID) {
		t.Fatalf("expected ErrDuplicateStudentID, got %v", err)
	}

	exists, err := repos.Students.StudentIDExists(ctx, "12345")
	if err != nil || !exists {
		t.Fatalf("StudentIDExists(12345) = %v, %v", exists, err)
	}
	exists, err = repos.Students.StudentIDExists(ctx, "99999")
	if err != nil || exists {
		t.Fatalf("StudentIDExists(99999) = %v, %v", exists, err)
	}

	byEmail, err := repos.Students.GetStudentByEmail(ctx, s.Email)
	if err != nil || byEmail == nil || byEmail.StudentID != "12345" {
		t.Fatalf("GetStudentByEmail = %#v, %v", byEmail, err)
	}
	if byEmail.PasswordHash != "hash" {
		t.Fatalf("password hash not stored")
	}
	missing, err := repos.Students.GetStudentByStudentID(ctx, "00000")
	if err != nil || missing != nil {
		t.Fatalf("GetStudentByStudentID(00000) = %#v, %v", missing, err)
	}
}

func testAdmitRules(t *testing.T, repos repository.Repositories) {
	ctx := context.Background()
	course := mustCourse(t, repos, "Tiny", 1)
	mustStudent(t, repos, "10001")
	mustStudent(t, repos, "10002")

	reg := paid("10001", course.ID)
	if err := repos.Registrations.Admit(ctx, reg); err != nil {
		t.Fatalf("first admission failed: %v", err)
	}
	if reg.ID == "" || reg.RegisteredAt.IsZero() {
		t.Fatalf("admission did not fill id/timestamp: %#v", reg)
	}

	if err := repos.Registrations.Admit(ctx, paid("10001", course.ID)); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if err := repos.Registrations.Admit(ctx, paid("10002", course.ID)); !errors.Is(err, repository.ErrCapacityReached) {
		t.Fatalf("expected ErrCapacityReached, got %v", err)
	}
	if err := repos.Registrations.Admit(ctx, paid("10002", uuid.NewString())); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown course, got %v", err)
	}

	n, err := repos.Registrations.CountPaid(ctx, course.ID)
	if err != nil {
		t.Fatalf("CountPaid: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected exactly one ledger record, got %d", n)
	}
}

func testAdmitConcurrentCapacity(t *testing.T, repos repository.Repositories) {
	ctx := context.Background()
	const capacity, contenders = 2, 8
	course := mustCourse(t, repos, "Contended", capacity)
	for i := 0; i < contenders; i++ {
		mustStudent(t, repos, fmt.Sprintf("2%04d", i))
	}

	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repos.Registrations.Admit(ctx, paid(fmt.Sprintf("2%04d", i), course.ID))
		}(i)
	}
	wg.Wait()

	admitted := 0
	for i, err := range errs {
		switch {
		case err == nil:
			admitted++
		case errors.Is(err, repository.ErrCapacityReached):
		default:
			t.Fatalf("contender %d: unexpected error %v", i, err)
		}
	}
	if admitted != capacity {
		t.Fatalf("expected %d admissions, got %d", capacity, admitted)
	}
	n, err := repos.Registrations.CountPaid(ctx, course.ID)
	if err != nil {
		t.Fatalf("CountPaid: %v", err)
	}
	if n > capacity {
		t.Fatalf("capacity overshoot: %d paid registrations for capacity %d", n, capacity)
	}
}

func testAdmitConcurrentDuplicate(t *testing.T, repos repository.Repositories) {
	ctx := context.Background()
	course := mustCourse(t, repos, "Roomy", 50)
	mustStudent(t, repos, "30000")

	const attempts = 6
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repos.Registrations.Admit(ctx, paid("30000", course.ID))
		}(i)
	}
	wg.Wait()

	admitted := 0
	for i, err := range errs {
		switch {
		case err == nil:
			admitted++
		case errors.Is(err, repository.ErrDuplicate):
		default:
			t.Fatalf("attempt %d: unexpected error %v", i, err)
		}
	}
	if admitted != 1 {
		t.Fatalf("expected exactly one admission, got %d", admitted)
	}
}

func testPaidCounts(t *testing.T, repos repository.Repositories) {
	ctx := context.Background()
	busy := mustCourse(t, repos, "Busy", 5)
	quiet := mustCourse(t, repos, "Quiet", 5)
	mustStudent(t, repos, "40001")
	mustStudent(t, repos, "40002")

	for _, sid := range []string{"40001", "40002"} {
		if err := repos.Registrations.Admit(ctx, paid(sid, busy.ID)); err != nil {
			t.Fatalf("Admit(%s): %v", sid, err)
		}
	}

	counts, err := repos.Registrations.CountPaidByCourse(ctx, []string{busy.ID, quiet.ID, "bogus"})
	if err != nil {
		t.Fatalf("CountPaidByCourse: %v", err)
	}
	if counts[busy.ID] != 2 {
		t.Fatalf("expected 2 paid for busy course, got %d", counts[busy.ID])
	}
	if _, ok := counts[quiet.ID]; ok {
		t.Fatalf("expected no entry for course without registrations, got %d", counts[quiet.ID])
	}

	empty, err := repos.Registrations.CountPaidByCourse(ctx, nil)
	if err != nil {
		t.Fatalf("CountPaidByCourse(nil): %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty counts, got %v", empty)
	}
}

func testListings(t *testing.T, repos repository.Repositories) {
	ctx := context.Background()
	a := mustCourse(t, repos, "Course A", 5)
	b := mustCourse(t, repos, "Course B", 5)
	mustStudent(t, repos, "50001")
	mustStudent(t, repos, "50002")

	for _, reg := range []*model.Registration{paid("50001", a.ID), paid("50002", a.ID), paid("50001", b.ID)} {
		if err := repos.Registrations.Admit(ctx, reg); err != nil {
			t.Fatalf("Admit: %v", err)
		}
	}

	byCourse, err := repos.Registrations.ListPaidByCourse(ctx, a.ID)
	if err != nil {
		t.Fatalf("ListPaidByCourse: %v", err)
	}
	if len(byCourse) != 2 {
		t.Fatalf("expected 2 registrations for course A, got %d", len(byCourse))
	}
	for _, cr := range byCourse {
		if cr.CourseName != "Course A" {
			t.Fatalf("unexpected course name %q", cr.CourseName)
		}
		if cr.Student.FirstName != "First"+cr.StudentID || cr.Student.StudentID != cr.StudentID {
			t.Fatalf("student projection mismatch: %#v", cr.Student)
		}
	}

	none, err := repos.Registrations.ListPaidByCourse(ctx, uuid.NewString())
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("expected empty list for unknown course, got %#v, %v", none, err)
	}

	byStudent, err := repos.Registrations.ListByStudent(ctx, "50001")
	if err != nil {
		t.Fatalf("ListByStudent: %v", err)
	}
	if len(byStudent) != 2 {
		t.Fatalf("expected 2 registrations for student, got %d", len(byStudent))
	}
	if byStudent[0].Course.ID != b.ID {
		t.Fatalf("expected newest registration first, got course %s", byStudent[0].Course.CourseName)
	}
	if byStudent[0].Course.Duration != "6 weeks" || len(byStudent[0].Course.Prerequisites) != 2 {
		t.Fatalf("course projection incomplete: %#v", byStudent[0].Course)
	}
}

func testAgreements(t *testing.T, repos repository.Repositories) {
	ctx := context.Background()

	missing, err := repos.Agreements.GetAgreement(ctx, "60001", "course-1")
	if err != nil || missing != nil {
		t.Fatalf("GetAgreement on empty store = %#v, %v", missing, err)
	}

	for i := 0; i < 2; i++ {
		a, err := repos.Agreements.Accept(ctx, "60001", "course-1")
		if err != nil {
			t.Fatalf("Accept #%d: %v", i+1, err)
		}
		if !a.Accepted {
			t.Fatalf("Accept #%d returned accepted=false", i+1)
		}
	}

	got, err := repos.Agreements.GetAgreement(ctx, "60001", "course-1")
	if err != nil || got == nil || !got.Accepted {
		t.Fatalf("GetAgreement after accept = %#v, %v", got, err)
	}

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repos.Agreements.Accept(ctx, "60002", "course-2")
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("concurrent Accept %d: %v", i, err)
		}
	}
}
