package handler

import (
	"courseapp/internal/api/v1/dto"
	"courseapp/internal/model"
)

func courseDTO(c model.CourseWithSeats) dto.CourseResponseDTO {
	prerequisites := c.Prerequisites
	if prerequisites == nil {
		prerequisites = []string{}
	}
	return dto.CourseResponseDTO{
		ID:               c.ID,
		CourseName:       c.CourseName,
		Description:      c.Description,
		Duration:         c.Duration,
		Amount:           c.Amount,
		ImageURL:         c.ImageURL,
		Prerequisites:    prerequisites,
		MaxRegistrations: c.MaxRegistrations,
		SeatsFilled:      c.SeatsFilled,
		SeatsLeft:        c.SeatsLeft,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func courseDTOs(courses []model.CourseWithSeats) []dto.CourseResponseDTO {
	dtos := make([]dto.CourseResponseDTO, 0, len(courses))
	for _, c := range courses {
		dtos = append(dtos, courseDTO(c))
	}
	return dtos
}

func studentDTO(s *model.Student) dto.StudentResponseDTO {
	return dto.StudentResponseDTO{
		ID:        s.ID,
		StudentID: s.StudentID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		Role:      "student",
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func registrationDTO(r *model.Registration) dto.RegistrationResponseDTO {
	return dto.RegistrationResponseDTO{
		RegistrationID:    r.ID,
		StudentID:         r.StudentID,
		CourseID:          r.CourseID,
		PaymentStatus:     string(r.PaymentStatus),
		AgreementAccepted: r.AgreementAccepted,
		RegisteredAt:      r.RegisteredAt,
	}
}

func agreementDTO(a *model.Agreement) dto.AgreementResponseDTO {
	return dto.AgreementResponseDTO{
		StudentID: a.StudentID,
		CourseID:  a.CourseID,
		Accepted:  a.Accepted,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
