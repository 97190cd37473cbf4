package service

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestSplitPrerequisites(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"Algebra", []string{"Algebra"}},
		{" Algebra , Logic\nSets ,, \n", []string{"Algebra", "Logic", "Sets"}},
	}
	for _, tt := range tests {
		if got := splitPrerequisites(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitPrerequisites(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCreateCourse(t *testing.T) {
	env := newTestEnv(t)
	c, err := env.courses.CreateCourse(context.Background(), CreateCourseInput{
		CourseName:       "  Distributed Systems ",
		Description:      "Consensus and friends",
		Duration:         "8 weeks",
		Amount:           ptr(0.0),
		MaxRegistrations: ptr(30),
		Prerequisites:    "Networks, Operating Systems",
	})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}
	if c.CourseName != "Distributed Systems" {
		t.Errorf("course name not trimmed: %q", c.CourseName)
	}
	if c.SeatsFilled != 0 || c.SeatsLeft != 30 {
		t.Errorf("unexpected seats: filled=%d left=%d", c.SeatsFilled, c.SeatsLeft)
	}
	if !reflect.DeepEqual(c.Prerequisites, []string{"Networks", "Operating Systems"}) {
		t.Errorf("unexpected prerequisites: %v", c.Prerequisites)
	}
}

func TestCreateCourseValidation(t *testing.T) {
	env := newTestEnv(t)
	valid := func() CreateCourseInput {
		return CreateCourseInput{
			CourseName:       "Go",
			Description:      "d",
			Duration:         "1 week",
			Amount:           ptr(10.0),
			MaxRegistrations: ptr(1),
		}
	}

	tests := []struct {
		name   string
		mutate func(*CreateCourseInput)
		detail string
	}{
		{"blank name", func(in *CreateCourseInput) { in.CourseName = "   " }, "courseName is required"},
		{"missing amount", func(in *CreateCourseInput) { in.Amount = nil }, "amount is required"},
		{"negative amount", func(in *CreateCourseInput) { in.Amount = ptr(-1.0) }, "amount must be at least 0"},
		{"zero capacity", func(in *CreateCourseInput) { in.MaxRegistrations = ptr(0) }, "maxRegistrations must be at least 1"},
		{"capacity beyond int32", func(in *CreateCourseInput) { in.MaxRegistrations = ptr(math.MaxInt32 + 1) }, "maxRegistrations must be at most 2147483647"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)
			_, err := env.courses.CreateCourse(context.Background(), in)
			verr := assertValidation(t, err)
			if len(verr.Details) != 1 || verr.Details[0] != tt.detail {
				t.Fatalf("expected detail %q, got %v", tt.detail, verr.Details)
			}
		})
	}
}

func TestListCoursesWithSeats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	empty, err := env.courses.ListCourses(ctx)
	if err != nil {
		t.Fatalf("ListCourses on empty store: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", empty)
	}

	full := env.course(t, "Full", 1)
	open := env.course(t, "Open", 3)
	studentID := env.student(t, "ada@example.com")
	if _, err := env.registrations.Register(ctx, admission(studentID, full)); err != nil {
		t.Fatalf("Register: %v", err)
	}

	courses, err := env.courses.ListCourses(ctx)
	if err != nil {
		t.Fatalf("ListCourses: %v", err)
	}
	if len(courses) != 2 || courses[0].ID != open {
		t.Fatalf("expected newest course first, got %+v", courses)
	}
	for _, c := range courses {
		if c.SeatsLeft < 0 || c.SeatsFilled+c.SeatsLeft != c.MaxRegistrations {
			t.Errorf("seat invariant broken for %s: filled=%d left=%d max=%d", c.CourseName, c.SeatsFilled, c.SeatsLeft, c.MaxRegistrations)
		}
	}
	if courses[1].SeatsFilled != 1 || courses[1].SeatsLeft != 0 {
		t.Errorf("unexpected seats for full course: %+v", courses[1])
	}
	if courses[0].SeatsFilled != 0 || courses[0].SeatsLeft != 3 {
		t.Errorf("unexpected seats for open course: %+v", courses[0])
	}
}

func TestGetCourseNotFound(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.courses.GetCourse(context.Background(), "missing"); !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}
