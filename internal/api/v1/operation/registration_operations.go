package operation

import "courseapp/internal/api/v1/dto"

type RegisterInput struct {
	Body dto.RegistrationCreateDTO `json:"body"`
}

type RegisterOutput struct {
	Body dto.RegistrationCreatedDTO `json:"body"`
}

type ListStudentRegistrationsInput struct {
	StudentID string `query:"studentId" doc:"5-digit student identity"`
}

type ListStudentRegistrationsOutput struct {
	Body dto.StudentRegistrationListDTO `json:"body"`
}
