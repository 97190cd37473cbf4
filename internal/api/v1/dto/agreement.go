package dto

import "time"

type AgreementAcceptDTO struct {
	_         struct{} `json:"-" additionalProperties:"true"`
	StudentID string   `json:"studentId,omitempty"`
	CourseID  string   `json:"courseId,omitempty"`
}

type AgreementResponseDTO struct {
	StudentID string    `json:"studentId"`
	CourseID  string    `json:"courseId"`
	Accepted  bool      `json:"accepted"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type AgreementAcceptedDTO struct {
	Message   string               `json:"message"`
	Agreement AgreementResponseDTO `json:"agreement"`
}

type AgreementStatusDTO struct {
	Accepted bool `json:"accepted"`
}
