package handler

import (
	"context"

	"courseapp/internal/api/v1/dto"
	"courseapp/internal/api/v1/operation"
	"courseapp/internal/service"

	"github.com/rs/zerolog"
)

type AgreementHandler struct {
	agreementService service.AgreementService
	logger           zerolog.Logger
}

func NewAgreementHandler(agreementService service.AgreementService, logger zerolog.Logger) *AgreementHandler {
	return &AgreementHandler{
		agreementService: agreementService,
		logger:           logger,
	}
}

func (h *AgreementHandler) AcceptAgreement(ctx context.Context, input *operation.AcceptAgreementInput) (*operation.AcceptAgreementOutput, error) {
	a, err := h.agreementService.Accept(ctx, service.AgreementInput{
		StudentID: input.Body.StudentID,
		CourseID:  input.Body.CourseID,
	})
	if err != nil {
		return nil, toHTTPError(err)
	}
	return &operation.AcceptAgreementOutput{
		Body: dto.AgreementAcceptedDTO{Message: "Agreement accepted.", Agreement: agreementDTO(a)},
	}, nil
}

func (h *AgreementHandler) GetAgreementStatus(ctx context.Context, input *operation.GetAgreementStatusInput) (*operation.GetAgreementStatusOutput, error) {
	accepted, err := h.agreementService.IsAccepted(ctx, service.AgreementInput{
		StudentID: input.StudentID,
		CourseID:  input.CourseID,
	})
	if err != nil {
		return nil, toHTTPError(err)
	}
	return &operation.GetAgreementStatusOutput{Body: dto.AgreementStatusDTO{Accepted: accepted}}, nil
}
