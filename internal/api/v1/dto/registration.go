package dto

import "time"

type RegistrationCreateDTO struct {
	_                 struct{} `json:"-" additionalProperties:"true"`
	StudentID         string   `json:"studentId,omitempty" doc:"5-digit student identity"`
	CourseID          string   `json:"courseId,omitempty"`
	PaymentStatus     string   `json:"paymentStatus,omitempty" doc:"Must be Paid"`
	AgreementAccepted *bool    `json:"agreementAccepted,omitempty" doc:"Must be true"`
}

type RegistrationResponseDTO struct {
	RegistrationID    string    `json:"registrationId"`
	StudentID         string    `json:"studentId"`
	CourseID          string    `json:"courseId"`
	PaymentStatus     string    `json:"paymentStatus"`
	AgreementAccepted bool      `json:"agreementAccepted"`
	RegisteredAt      time.Time `json:"registeredAt"`
}

type RegistrationCreatedDTO struct {
	Message      string                  `json:"message"`
	Registration RegistrationResponseDTO `json:"registration"`
}

type CourseRegistrationDTO struct {
	RegistrationID string        `json:"registrationId"`
	PaymentStatus  string        `json:"paymentStatus"`
	RegisteredAt   time.Time     `json:"registeredAt"`
	Student        StudentRefDTO `json:"student"`
	Course         CourseRefDTO  `json:"course"`
}

type CourseRegistrationListDTO struct {
	Registrations []CourseRegistrationDTO `json:"registrations"`
}

type StudentRegistrationDTO struct {
	RegistrationID    string           `json:"registrationId"`
	PaymentStatus     string           `json:"paymentStatus"`
	AgreementAccepted bool             `json:"agreementAccepted"`
	RegisteredAt      time.Time        `json:"registeredAt"`
	Course            CourseSummaryDTO `json:"course"`
}

type StudentRegistrationListDTO struct {
	Registrations []StudentRegistrationDTO `json:"registrations"`
}
