package handler

import (
	"context"

	"courseapp/internal/api/v1/dto"
	"courseapp/internal/api/v1/operation"
	"courseapp/internal/service"

	"github.com/rs/zerolog"
)

// CourseHandler serves the public and admin course endpoints
type CourseHandler struct {
	courseService       service.CourseService
	registrationService service.RegistrationService
	logger              zerolog.Logger
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(courseService service.CourseService, registrationService service.RegistrationService, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		courseService:       courseService,
		registrationService: registrationService,
		logger:              logger,
	}
}

// ListCourses returns every course with live seat counts
func (h *CourseHandler) ListCourses(ctx context.Context, input *operation.ListCoursesInput) (*operation.ListCoursesOutput, error) {
	courses, err := h.courseService.ListCourses(ctx)
	if err != nil {
		return nil, toHTTPError(err)
	}
	return &operation.ListCoursesOutput{Body: courseDTOs(courses)}, nil
}

// GetCourse returns one course with live seat counts
func (h *CourseHandler) GetCourse(ctx context.Context, input *operation.GetCourseInput) (*operation.GetCourseOutput, error) {
	course, err := h.courseService.GetCourse(ctx, input.CourseID)
	if err != nil {
		return nil, toHTTPError(err)
	}
	return &operation.GetCourseOutput{Body: courseDTO(*course)}, nil
}

// CreateCourse creates a course (admin)
func (h *CourseHandler) CreateCourse(ctx context.Context, input *operation.CreateCourseInput) (*operation.CreateCourseOutput, error) {
	course, err := h.courseService.CreateCourse(ctx, service.CreateCourseInput{
		CourseName:       input.Body.CourseName,
		Description:      input.Body.Description,
		Duration:         input.Body.Duration,
		Amount:           input.Body.Amount,
		MaxRegistrations: input.Body.MaxRegistrations,
		ImageURL:         input.Body.ImageURL,
		Prerequisites:    input.Body.Prerequisites,
	})
	if err != nil {
		return nil, toHTTPError(err)
	}
	return &operation.CreateCourseOutput{
		Body: dto.CourseCreatedDTO{Message: "Course created successfully.", Course: courseDTO(*course)},
	}, nil
}

// ListAdminCourses is the admin view of the course list
func (h *CourseHandler) ListAdminCourses(ctx context.Context, input *operation.ListAdminCoursesInput) (*operation.ListAdminCoursesOutput, error) {
	courses, err := h.courseService.ListCourses(ctx)
	if err != nil {
		return nil, toHTTPError(err)
	}
	return &operation.ListAdminCoursesOutput{Body: dto.CourseListDTO{Courses: courseDTOs(courses)}}, nil
}

// ListCourseRegistrations returns the paid registrations of a course (admin)
func (h *CourseHandler) ListCourseRegistrations(ctx context.Context, input *operation.ListCourseRegistrationsInput) (*operation.ListCourseRegistrationsOutput, error) {
	regs, err := h.registrationService.ListCourseRegistrations(ctx, input.CourseID)
	if err != nil {
		return nil, toHTTPError(err)
	}

	items := make([]dto.CourseRegistrationDTO, 0, len(regs))
	for _, r := range regs {
		items = append(items, dto.CourseRegistrationDTO{
			RegistrationID: r.ID,
			PaymentStatus:  string(r.PaymentStatus),
			RegisteredAt:   r.RegisteredAt,
			Student: dto.StudentRefDTO{
				StudentID: r.Student.StudentID,
				FirstName: r.Student.FirstName,
				LastName:  r.Student.LastName,
			},
			Course: dto.CourseRefDTO{ID: r.CourseID, CourseName: r.CourseName},
		})
	}
	return &operation.ListCourseRegistrationsOutput{Body: dto.CourseRegistrationListDTO{Registrations: items}}, nil
}
