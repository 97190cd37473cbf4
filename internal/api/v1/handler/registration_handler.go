package handler

import (
	"context"

	"courseapp/internal/api/v1/dto"
	"courseapp/internal/api/v1/operation"
	"courseapp/internal/service"

	"github.com/rs/zerolog"
)

type RegistrationHandler struct {
	registrationService service.RegistrationService
	logger              zerolog.Logger
}

func NewRegistrationHandler(registrationService service.RegistrationService, logger zerolog.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		registrationService: registrationService,
		logger:              logger,
	}
}

// Register is the admission control entry point
func (h *RegistrationHandler) Register(ctx context.Context, input *operation.RegisterInput) (*operation.RegisterOutput, error) {
	reg, err := h.registrationService.Register(ctx, service.AdmissionRequest{
		StudentID:         input.Body.StudentID,
		CourseID:          input.Body.CourseID,
		PaymentStatus:     input.Body.PaymentStatus,
		AgreementAccepted: input.Body.AgreementAccepted,
	})
	if err != nil {
		return nil, toHTTPError(err)
	}
	return &operation.RegisterOutput{
		Body: dto.RegistrationCreatedDTO{Message: "Course registration successful.", Registration: registrationDTO(reg)},
	}, nil
}

// ListStudentRegistrations lists a student's registrations with the course projection
func (h *RegistrationHandler) ListStudentRegistrations(ctx context.Context, input *operation.ListStudentRegistrationsInput) (*operation.ListStudentRegistrationsOutput, error) {
	regs, err := h.registrationService.ListStudentRegistrations(ctx, input.StudentID)
	if err != nil {
		return nil, toHTTPError(err)
	}

	items := make([]dto.StudentRegistrationDTO, 0, len(regs))
	for _, r := range regs {
		prerequisites := r.Course.Prerequisites
		if prerequisites == nil {
			prerequisites = []string{}
		}
		items = append(items, dto.StudentRegistrationDTO{
			RegistrationID:    r.ID,
			PaymentStatus:     string(r.PaymentStatus),
			AgreementAccepted: r.AgreementAccepted,
			RegisteredAt:      r.RegisteredAt,
			Course: dto.CourseSummaryDTO{
				ID:            r.Course.ID,
				CourseName:    r.Course.CourseName,
				Description:   r.Course.Description,
				Duration:      r.Course.Duration,
				Amount:        r.Course.Amount,
				Prerequisites: prerequisites,
				ImageURL:      r.Course.ImageURL,
			},
		})
	}
	return &operation.ListStudentRegistrationsOutput{Body: dto.StudentRegistrationListDTO{Registrations: items}}, nil
}
