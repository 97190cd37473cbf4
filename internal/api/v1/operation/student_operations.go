package operation

import "courseapp/internal/api/v1/dto"

type SignUpStudentInput struct {
	Body dto.StudentSignUpDTO `json:"body"`
}

type SignUpStudentOutput struct {
	Body dto.StudentAuthResponseDTO `json:"body"`
}

type LoginStudentInput struct {
	Body dto.StudentLoginDTO `json:"body"`
}

type LoginStudentOutput struct {
	Body dto.StudentAuthResponseDTO `json:"body"`
}
