package handler

import (
	"context"
	"errors"
	"net/http"

	"courseapp/internal/api/v1/dto"
	"courseapp/internal/api/v1/operation"
	"courseapp/internal/service"

	"github.com/rs/zerolog"
)

type StudentHandler struct {
	studentService service.StudentService
	logger         zerolog.Logger
}

func NewStudentHandler(studentService service.StudentService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		studentService: studentService,
		logger:         logger,
	}
}

// SignUp creates a student and returns its safe projection
func (h *StudentHandler) SignUp(ctx context.Context, input *operation.SignUpStudentInput) (*operation.SignUpStudentOutput, error) {
	student, err := h.studentService.SignUp(ctx, service.SignUpInput{
		FirstName:       input.Body.FirstName,
		LastName:        input.Body.LastName,
		Email:           input.Body.Email,
		Password:        input.Body.Password,
		ConfirmPassword: input.Body.ConfirmPassword,
	})
	if err != nil {
		return nil, toHTTPError(err)
	}
	return &operation.SignUpStudentOutput{
		Body: dto.StudentAuthResponseDTO{Message: "Registration successful.", Student: studentDTO(student)},
	}, nil
}

// Login verifies email and password
func (h *StudentHandler) Login(ctx context.Context, input *operation.LoginStudentInput) (*operation.LoginStudentOutput, error) {
	student, err := h.studentService.Login(ctx, service.LoginInput{
		Email:    input.Body.Email,
		Password: input.Body.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return nil, errorWithCode(http.StatusUnauthorized, CodeUnauthorized, "Invalid email or password.")
		}
		return nil, toHTTPError(err)
	}
	return &operation.LoginStudentOutput{
		Body: dto.StudentAuthResponseDTO{Message: "Login successful.", Student: studentDTO(student)},
	}, nil
}
