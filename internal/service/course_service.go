package service

import (
	"context"
	"regexp"
	"strings"

	"courseapp/internal/model"
	"courseapp/internal/repository"

	"github.com/rs/zerolog"
)

// CreateCourseInput is the admin's course definition before normalization
type CreateCourseInput struct {
	CourseName       string   `json:"courseName" validate:"required"`
	Description      string   `json:"description" validate:"required"`
	Duration         string   `json:"duration" validate:"required"`
	Amount           *float64 `json:"amount" validate:"required,gte=0"`
	MaxRegistrations *int     `json:"maxRegistrations" validate:"required,gte=1,lte=2147483647"`
	ImageURL         string   `json:"imageUrl"`
	// Prerequisites is a comma or newline separated list
	Prerequisites string `json:"prerequisites"`
}

// CourseService defines course-related operations
type CourseService interface {
	CreateCourse(ctx context.Context, in CreateCourseInput) (*model.CourseWithSeats, error)
	// GetCourse retrieves a course with its live seat counts
	GetCourse(ctx context.Context, courseID string) (*model.CourseWithSeats, error)
	// ListCourses returns every course, newest first, with live seat counts
	ListCourses(ctx context.Context) ([]model.CourseWithSeats, error)
}

// courseService is the implementation of CourseService
type courseService struct {
	courses       repository.CourseRepository
	registrations repository.RegistrationRepository
	courseLogger  zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(courses repository.CourseRepository, registrations repository.RegistrationRepository, logger zerolog.Logger) CourseService {
	return &courseService{
		courses:       courses,
		registrations: registrations,
		courseLogger:  logger.With().Str("service", "CourseService").Logger(),
	}
}

var prerequisiteSeparator = regexp.MustCompile(`[,\n]`)

// splitPrerequisites turns "a, b\nc" into [a b c], dropping blanks and keeping order
func splitPrerequisites(raw string) []string {
	items := []string{}
	for _, item := range prerequisiteSeparator.Split(raw, -1) {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// CreateCourse validates and stores a new course
func (s *courseService) CreateCourse(ctx context.Context, in CreateCourseInput) (*model.CourseWithSeats, error) {
	in.CourseName = strings.TrimSpace(in.CourseName)
	in.Description = strings.TrimSpace(in.Description)
	in.Duration = strings.TrimSpace(in.Duration)
	if err := validateInput(in, "All course fields are required."); err != nil {
		return nil, err
	}

	c := &model.Course{
		CourseName:       in.CourseName,
		Description:      in.Description,
		Duration:         in.Duration,
		Amount:           *in.Amount,
		ImageURL:         strings.TrimSpace(in.ImageURL),
		Prerequisites:    splitPrerequisites(in.Prerequisites),
		MaxRegistrations: *in.MaxRegistrations,
	}
	if err := s.courses.CreateCourse(ctx, c); err != nil {
		s.courseLogger.Error().Err(err).Str("course_name", c.CourseName).Msg("Failed to create course")
		return nil, err
	}
	s.courseLogger.Info().Str("course_id", c.ID).Int("max_registrations", c.MaxRegistrations).Msg("Course created")

	withSeats := model.WithSeats(*c, 0)
	return &withSeats, nil
}

// GetCourse retrieves a course by its ID
func (s *courseService) GetCourse(ctx context.Context, courseID string) (*model.CourseWithSeats, error) {
	c, err := s.courses.GetCourseByID(ctx, courseID)
	if err != nil {
		s.courseLogger.Error().Err(err).Str("course_id", courseID).Msg("Failed to get course by ID")
		return nil, err
	}
	if c == nil {
		return nil, ErrCourseNotFound
	}

	paid, err := s.registrations.CountPaid(ctx, c.ID)
	if err != nil {
		s.courseLogger.Error().Err(err).Str("course_id", courseID).Msg("Failed to count paid registrations")
		return nil, err
	}
	withSeats := model.WithSeats(*c, paid)
	return &withSeats, nil
}

// ListCourses annotates every course using a single grouped count
func (s *courseService) ListCourses(ctx context.Context) ([]model.CourseWithSeats, error) {
	courses, err := s.courses.ListCourses(ctx)
	if err != nil {
		s.courseLogger.Error().Err(err).Msg("Failed to list courses")
		return nil, err
	}
	result := make([]model.CourseWithSeats, 0, len(courses))
	if len(courses) == 0 {
		return result, nil
	}

	ids := make([]string, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	counts, err := s.registrations.CountPaidByCourse(ctx, ids)
	if err != nil {
		s.courseLogger.Error().Err(err).Int("courses", len(ids)).Msg("Failed to count paid registrations")
		return nil, err
	}
	for _, c := range courses {
		result = append(result, model.WithSeats(c, counts[c.ID]))
	}
	return result, nil
}
