package service

import (
	"context"
	"strings"

	"courseapp/internal/model"
	"courseapp/internal/repository"

	"github.com/rs/zerolog"
)

// AgreementInput identifies one (student, course) agreement
type AgreementInput struct {
	StudentID string `json:"studentId" validate:"required"`
	CourseID  string `json:"courseId" validate:"required"`
}

func (in *AgreementInput) normalize() {
	in.StudentID = strings.TrimSpace(in.StudentID)
	in.CourseID = strings.TrimSpace(in.CourseID)
}

// AgreementService records course completion agreements
type AgreementService interface {
	// Accept is idempotent; accepting again returns the same accepted agreement
	Accept(ctx context.Context, in AgreementInput) (*model.Agreement, error)
	// IsAccepted is false when no agreement was recorded
	IsAccepted(ctx context.Context, in AgreementInput) (bool, error)
}

type agreementService struct {
	agreements repository.AgreementRepository
	logger     zerolog.Logger
}

// NewAgreementService creates a new AgreementService
func NewAgreementService(agreements repository.AgreementRepository, logger zerolog.Logger) AgreementService {
	return &agreementService{
		agreements: agreements,
		logger:     logger.With().Str("service", "AgreementService").Logger(),
	}
}

func (s *agreementService) Accept(ctx context.Context, in AgreementInput) (*model.Agreement, error) {
	in.normalize()
	if err := validateInput(in, "Student ID and course ID are required."); err != nil {
		return nil, err
	}
	a, err := s.agreements.Accept(ctx, in.StudentID, in.CourseID)
	if err != nil {
		s.logger.Error().Err(err).Str("student_id", in.StudentID).Str("course_id", in.CourseID).Msg("Failed to accept agreement")
		return nil, err
	}
	return a, nil
}

func (s *agreementService) IsAccepted(ctx context.Context, in AgreementInput) (bool, error) {
	in.normalize()
	if err := validateInput(in, "Student ID and course ID are required."); err != nil {
		return false, err
	}
	a, err := s.agreements.GetAgreement(ctx, in.StudentID, in.CourseID)
	if err != nil {
		s.logger.Error().Err(err).Str("student_id", in.StudentID).Str("course_id", in.CourseID).Msg("Failed to get agreement")
		return false, err
	}
	return a != nil && a.Accepted, nil
}
