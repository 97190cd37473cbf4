package operation

import "courseapp/internal/api/v1/dto"

// Course Operations

type ListCoursesInput struct{}

type ListCoursesOutput struct {
	Body []dto.CourseResponseDTO `json:"body"`
}

type GetCourseInput struct {
	CourseID string `path:"courseId" doc:"Course ID"`
}

type GetCourseOutput struct {
	Body dto.CourseResponseDTO `json:"body"`
}

// Admin Course Operations

type CreateCourseInput struct {
	Body dto.CourseCreateDTO `json:"body"`
}

type CreateCourseOutput struct {
	Body dto.CourseCreatedDTO `json:"body"`
}

type ListAdminCoursesInput struct{}

type ListAdminCoursesOutput struct {
	Body dto.CourseListDTO `json:"body"`
}

type ListCourseRegistrationsInput struct {
	CourseID string `path:"courseId" doc:"Course ID"`
}

type ListCourseRegistrationsOutput struct {
	Body dto.CourseRegistrationListDTO `json:"body"`
}
