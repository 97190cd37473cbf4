package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"courseapp/internal/api/v1/router"
	"courseapp/internal/config"
	"courseapp/internal/repository/memory"
	"courseapp/internal/service"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type apiClient struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func newClient(t *testing.T) *apiClient {
	t.Helper()
	cfg := &config.Config{
		Environment:          "development",
		StoreDriver:          config.DriverMemory,
		JWTSecret:            "test-secret",
		AdminTokenTTL:        time.Hour,
		BcryptCost:           bcrypt.MinCost,
		StudentIDMaxAttempts: 25,
		CORSAllowedOrigins:   []string{"*"},
	}
	var next atomic.Int64
	next.Store(10000)
	h := router.New(cfg, router.Dependencies{
		Repositories:     memory.New().Repositories(),
		AdminCredentials: service.AdminCredentials{Username: "admin", Password: "s3cret"},
		StudentIDGenerator: func() string {
			return strconv.FormatInt(next.Add(1), 10)
		},
	}, zerolog.Nop())
	return &apiClient{t: t, handler: h}
}

func (c *apiClient) do(method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

func (c *apiClient) admin(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	if c.token == "" {
		rec := c.do(http.MethodPost, "/api/admin/login", map[string]string{"username": "admin", "password": "s3cret"}, nil)
		if rec.Code != http.StatusOK {
			c.t.Fatalf("admin login: status %d body %s", rec.Code, rec.Body)
		}
		var out struct {
			Token string `json:"token"`
		}
		decode(c.t, rec, &out)
		c.token = out.Token
	}
	return c.do(method, path, body, http.Header{"Authorization": {"Bearer " + c.token}})
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

type errorBody struct {
	Message string   `json:"message"`
	Code    string   `json:"code"`
	Details []string `json:"details"`
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) errorBody {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, rec.Code, rec.Body)
	}
	var body errorBody
	decode(t, rec, &body)
	if body.Code != code {
		t.Fatalf("expected code %s, got %+v", code, body)
	}
	return body
}

type course struct {
	ID               string   `json:"id"`
	CourseName       string   `json:"courseName"`
	Prerequisites    []string `json:"prerequisites"`
	MaxRegistrations int      `json:"maxRegistrations"`
	SeatsFilled      int      `json:"seatsFilled"`
	SeatsLeft        int      `json:"seatsLeft"`
}

func (c *apiClient) createCourse(name string, capacity int) course {
	c.t.Helper()
	rec := c.admin(http.MethodPost, "/api/admin/courses", map[string]any{
		"courseName":       name,
		"description":      "An introduction",
		"duration":         "6 weeks",
		"amount":           199.5,
		"maxRegistrations": capacity,
		"prerequisites":    "Algebra, Logic\nPatience",
	})
	if rec.Code != http.StatusCreated {
		c.t.Fatalf("create course: status %d body %s", rec.Code, rec.Body)
	}
	var out struct {
		Message string `json:"message"`
		Course  course `json:"course"`
	}
	decode(c.t, rec, &out)
	return out.Course
}

type student struct {
	ID        string `json:"id"`
	StudentID string `json:"studentId"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (c *apiClient) signUp(email string) student {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/api/students/register", map[string]string{
		"firstName":       "Ada",
		"lastName":        "Lovelace",
		"email":           email,
		"password":        "pw123456",
		"confirmPassword": "pw123456",
	}, nil)
	if rec.Code != http.StatusCreated {
		c.t.Fatalf("sign up: status %d body %s", rec.Code, rec.Body)
	}
	var out struct {
		Student student `json:"student"`
	}
	decode(c.t, rec, &out)
	return out.Student
}

func registration(studentID, courseID string) map[string]any {
	return map[string]any{
		"studentId":         studentID,
		"courseId":          courseID,
		"paymentStatus":     "Paid",
		"agreementAccepted": true,
	}
}

func TestHealth(t *testing.T) {
	c := newClient(t)
	rec := c.do(http.MethodGet, "/api/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var out struct {
		Status string `json:"status"`
	}
	decode(t, rec, &out)
	if out.Status != "OK" {
		t.Fatalf("unexpected status %q", out.Status)
	}
}

func TestListCoursesEmpty(t *testing.T) {
	c := newClient(t)
	rec := c.do(http.MethodGet, "/api/courses", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var out []course
	decode(t, rec, &out)
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty array, got %s", rec.Body)
	}
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	c := newClient(t)

	rec := c.do(http.MethodGet, "/api/admin/courses", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d", rec.Code)
	}

	rec = c.do(http.MethodGet, "/api/admin/courses", nil, http.Header{"Authorization": {"Bearer not-a-token"}})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a bad token, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/courses", nil)
	req.SetBasicAuth("admin", "s3cret")
	basic := httptest.NewRecorder()
	c.handler.ServeHTTP(basic, req)
	if basic.Code != http.StatusOK {
		t.Fatalf("expected 200 with basic credentials, got %d: %s", basic.Code, basic.Body)
	}

	rec = c.do(http.MethodPost, "/api/admin/login", map[string]string{"username": "admin", "password": "nope"}, nil)
	body := expectError(t, rec, http.StatusUnauthorized, "UNAUTHORIZED")
	if body.Message != "Invalid admin credentials." {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestCreateCourse(t *testing.T) {
	c := newClient(t)
	created := c.createCourse("Go Basics", 30)

	if created.ID == "" || created.SeatsLeft != 30 || created.SeatsFilled != 0 {
		t.Fatalf("unexpected course %+v", created)
	}
	want := []string{"Algebra", "Logic", "Patience"}
	if len(created.Prerequisites) != len(want) {
		t.Fatalf("expected prerequisites %v, got %v", want, created.Prerequisites)
	}
	for i := range want {
		if created.Prerequisites[i] != want[i] {
			t.Fatalf("expected prerequisites %v, got %v", want, created.Prerequisites)
		}
	}

	rec := c.do(http.MethodGet, "/api/courses/"+created.ID, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get course: status %d", rec.Code)
	}

	rec = c.admin(http.MethodGet, "/api/admin/courses", nil)
	var listed struct {
		Courses []course `json:"courses"`
	}
	decode(t, rec, &listed)
	if len(listed.Courses) != 1 || listed.Courses[0].ID != created.ID {
		t.Fatalf("unexpected admin listing %s", rec.Body)
	}
}

func TestCreateCourseValidation(t *testing.T) {
	c := newClient(t)

	rec := c.admin(http.MethodPost, "/api/admin/courses", map[string]any{"courseName": "Only a name"})
	body := expectError(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
	if len(body.Details) == 0 {
		t.Fatal("expected field details")
	}

	rec = c.admin(http.MethodPost, "/api/admin/courses", map[string]any{
		"courseName":       "Bad",
		"description":      "d",
		"duration":         "1 week",
		"amount":           10,
		"maxRegistrations": 0,
	})
	expectError(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")

	rec = c.admin(http.MethodPost, "/api/admin/courses", map[string]any{
		"courseName":       "Huge",
		"description":      "d",
		"duration":         "1 week",
		"amount":           10,
		"maxRegistrations": int64(1_000_000_000_000),
	})
	expectError(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")

	rec = c.admin(http.MethodPost, "/api/admin/courses", map[string]any{"amount": "free"})
	expectError(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestGetCourseNotFound(t *testing.T) {
	c := newClient(t)
	rec := c.do(http.MethodGet, "/api/courses/missing", nil, nil)
	body := expectError(t, rec, http.StatusNotFound, "NOT_FOUND")
	if body.Message != "Course not found." {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestStudentSignUpAndLogin(t *testing.T) {
	c := newClient(t)
	s := c.signUp("ada@example.com")

	if len(s.StudentID) != 5 {
		t.Fatalf("expected a 5-digit student id, got %q", s.StudentID)
	}
	if s.Password != "" {
		t.Fatal("password must never be returned")
	}

	rec := c.do(http.MethodPost, "/api/students/register", map[string]string{
		"firstName": "Ada", "lastName": "L", "email": "ADA@example.com",
		"password": "x", "confirmPassword": "x",
	}, nil)
	expectError(t, rec, http.StatusConflict, "CONFLICT")

	rec = c.do(http.MethodPost, "/api/students/register", map[string]string{
		"firstName": "Bob", "lastName": "B", "email": "bob@example.com",
		"password": "x", "confirmPassword": "y",
	}, nil)
	expectError(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")

	long := strings.Repeat("p", 73)
	rec = c.do(http.MethodPost, "/api/students/register", map[string]string{
		"firstName": "Cy", "lastName": "C", "email": "cy@example.com",
		"password": long, "confirmPassword": long,
	}, nil)
	expectError(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")

	rec = c.do(http.MethodPost, "/api/students/login", map[string]string{"email": "ada@example.com", "password": "pw123456"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status %d body %s", rec.Code, rec.Body)
	}
	var out struct {
		Message string  `json:"message"`
		Student student `json:"student"`
	}
	decode(t, rec, &out)
	if out.Student.StudentID != s.StudentID {
		t.Fatalf("login returned %q, want %q", out.Student.StudentID, s.StudentID)
	}

	rec = c.do(http.MethodPost, "/api/students/login", map[string]string{"email": "ada@example.com", "password": "wrong"}, nil)
	body := expectError(t, rec, http.StatusUnauthorized, "UNAUTHORIZED")
	if body.Message != "Invalid email or password." {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestRegistrationFlow(t *testing.T) {
	c := newClient(t)
	crs := c.createCourse("Go Basics", 1)
	ada := c.signUp("ada@example.com")
	bob := c.signUp("bob@example.com")

	unpaid := registration(ada.StudentID, crs.ID)
	unpaid["paymentStatus"] = "Unpaid"
	expectError(t, c.do(http.MethodPost, "/api/register", unpaid, nil), http.StatusBadRequest, "PAYMENT_NOT_CLEARED")

	declined := registration(ada.StudentID, crs.ID)
	declined["agreementAccepted"] = false
	expectError(t, c.do(http.MethodPost, "/api/register", declined, nil), http.StatusBadRequest, "AGREEMENT_REQUIRED")

	expectError(t, c.do(http.MethodPost, "/api/register", registration("99999", crs.ID), nil), http.StatusNotFound, "NOT_FOUND")
	expectError(t, c.do(http.MethodPost, "/api/register", registration(ada.StudentID, "missing"), nil), http.StatusNotFound, "NOT_FOUND")
	expectError(t, c.do(http.MethodPost, "/api/register", map[string]any{"studentId": ada.StudentID}, nil), http.StatusBadRequest, "VALIDATION_ERROR")

	rec := c.do(http.MethodPost, "/api/register", registration(ada.StudentID, crs.ID), nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status %d body %s", rec.Code, rec.Body)
	}
	var created struct {
		Message      string `json:"message"`
		Registration struct {
			RegistrationID string `json:"registrationId"`
			StudentID      string `json:"studentId"`
			CourseID       string `json:"courseId"`
			PaymentStatus  string `json:"paymentStatus"`
		} `json:"registration"`
	}
	decode(t, rec, &created)
	if created.Registration.RegistrationID == "" || created.Registration.PaymentStatus != "Paid" {
		t.Fatalf("unexpected registration %s", rec.Body)
	}

	expectError(t, c.do(http.MethodPost, "/api/register", registration(ada.StudentID, crs.ID), nil), http.StatusConflict, "CONFLICT")
	expectError(t, c.do(http.MethodPost, "/api/register", registration(bob.StudentID, crs.ID), nil), http.StatusConflict, "CAPACITY_EXCEEDED")

	rec = c.do(http.MethodGet, "/api/courses/"+crs.ID, nil, nil)
	var got course
	decode(t, rec, &got)
	if got.SeatsFilled != 1 || got.SeatsLeft != 0 {
		t.Fatalf("expected a full course, got %+v", got)
	}

	rec = c.admin(http.MethodGet, "/api/admin/course/"+crs.ID+"/registrations", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("course registrations: status %d body %s", rec.Code, rec.Body)
	}
	var byCourse struct {
		Registrations []struct {
			RegistrationID string `json:"registrationId"`
			Student        struct {
				StudentID string `json:"studentId"`
				FirstName string `json:"firstName"`
			} `json:"student"`
			Course struct {
				CourseName string `json:"courseName"`
			} `json:"course"`
		} `json:"registrations"`
	}
	decode(t, rec, &byCourse)
	if len(byCourse.Registrations) != 1 || byCourse.Registrations[0].Student.StudentID != ada.StudentID ||
		byCourse.Registrations[0].Course.CourseName != "Go Basics" {
		t.Fatalf("unexpected course registrations %s", rec.Body)
	}

	rec = c.do(http.MethodGet, "/api/student/registrations?studentId="+ada.StudentID, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("student registrations: status %d body %s", rec.Code, rec.Body)
	}
	var byStudent struct {
		Registrations []struct {
			RegistrationID string `json:"registrationId"`
			Course         struct {
				ID string `json:"id"`
			} `json:"course"`
		} `json:"registrations"`
	}
	decode(t, rec, &byStudent)
	if len(byStudent.Registrations) != 1 || byStudent.Registrations[0].Course.ID != crs.ID {
		t.Fatalf("unexpected student registrations %s", rec.Body)
	}

	expectError(t, c.do(http.MethodGet, "/api/student/registrations?studentId=99999", nil, nil), http.StatusNotFound, "NOT_FOUND")
}

func TestCourseRegistrationsUnknownCourse(t *testing.T) {
	c := newClient(t)
	rec := c.admin(http.MethodGet, "/api/admin/course/missing/registrations", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var out struct {
		Registrations []json.RawMessage `json:"registrations"`
	}
	decode(t, rec, &out)
	if out.Registrations == nil || len(out.Registrations) != 0 {
		t.Fatalf("expected empty list, got %s", rec.Body)
	}
}

func TestAgreements(t *testing.T) {
	c := newClient(t)

	status := func() bool {
		rec := c.do(http.MethodGet, "/api/agreements/status?studentId=12345&courseId=c1", nil, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status: %d %s", rec.Code, rec.Body)
		}
		var out struct {
			Accepted bool `json:"accepted"`
		}
		decode(t, rec, &out)
		return out.Accepted
	}

	if status() {
		t.Fatal("expected no agreement before accepting")
	}

	body := map[string]string{"studentId": "12345", "courseId": "c1"}
	for range 2 {
		rec := c.do(http.MethodPost, "/api/agreements", body, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("accept: status %d body %s", rec.Code, rec.Body)
		}
	}
	if !status() {
		t.Fatal("expected the agreement to be accepted")
	}

	expectError(t, c.do(http.MethodPost, "/api/agreements", map[string]string{"studentId": "12345"}, nil), http.StatusBadRequest, "VALIDATION_ERROR")
}
