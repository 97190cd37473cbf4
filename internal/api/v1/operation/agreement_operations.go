package operation

import "courseapp/internal/api/v1/dto"

type AcceptAgreementInput struct {
	Body dto.AgreementAcceptDTO `json:"body"`
}

type AcceptAgreementOutput struct {
	Body dto.AgreementAcceptedDTO `json:"body"`
}

type GetAgreementStatusInput struct {
	StudentID string `query:"studentId" doc:"5-digit student identity"`
	CourseID  string `query:"courseId" doc:"Course ID"`
}

type GetAgreementStatusOutput struct {
	Body dto.AgreementStatusDTO `json:"body"`
}
