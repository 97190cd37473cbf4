package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"courseapp/internal/model"
	"courseapp/internal/pubsub"
	"courseapp/internal/repository"

	"github.com/rs/zerolog"
)

// AdmissionRequest is a student's attempt to register for a course
type AdmissionRequest struct {
	StudentID         string `json:"studentId" validate:"required"`
	CourseID          string `json:"courseId" validate:"required"`
	PaymentStatus     string `json:"paymentStatus" validate:"required"`
	AgreementAccepted *bool  `json:"agreementAccepted" validate:"required"`
}

// RegistrationCreatedEvent is published after every successful admission
type RegistrationCreatedEvent struct {
	Type           string    `json:"type"`
	RegistrationID string    `json:"registrationId"`
	StudentID      string    `json:"studentId"`
	CourseID       string    `json:"courseId"`
	PaymentStatus  string    `json:"paymentStatus"`
	RegisteredAt   time.Time `json:"registeredAt"`
}

const (
	registrationCreatedType = "registration.created"
	publishTimeout          = 5 * time.Second
)

// RegistrationService is the admission control entry point and the ledger's read side
type RegistrationService interface {
	Register(ctx context.Context, req AdmissionRequest) (*model.Registration, error)
	// ListCourseRegistrations returns the paid registrations of a course; unknown courses yield an empty list
	ListCourseRegistrations(ctx context.Context, courseID string) ([]model.CourseRegistration, error)
	ListStudentRegistrations(ctx context.Context, studentID string) ([]model.StudentRegistration, error)
}

type registrationService struct {
	students      repository.StudentRepository
	courses       repository.CourseRepository
	registrations repository.RegistrationRepository
	publisher     pubsub.Publisher
	topic         string
	logger        zerolog.Logger
}

// NewRegistrationService creates a new RegistrationService. An empty topic disables event publishing.
func NewRegistrationService(
	students repository.StudentRepository,
	courses repository.CourseRepository,
	registrations repository.RegistrationRepository,
	publisher pubsub.Publisher,
	topic string,
	logger zerolog.Logger,
) RegistrationService {
	if publisher == nil {
		publisher = pubsub.NoopPublisher{}
	}
	return &registrationService{
		students:      students,
		courses:       courses,
		registrations: registrations,
		publisher:     publisher,
		topic:         topic,
		logger:        logger.With().Str("service", "RegistrationService").Logger(),
	}
}

// Register checks the request in a fixed order and stops at the first failure:
// input presence, payment, agreement, student, course. The duplicate and capacity
// checks run atomically with the insert inside the ledger.
func (s *registrationService) Register(ctx context.Context, req AdmissionRequest) (*model.Registration, error) {
	req.StudentID = strings.TrimSpace(req.StudentID)
	req.CourseID = strings.TrimSpace(req.CourseID)
	req.PaymentStatus = strings.TrimSpace(req.PaymentStatus)
	if err := validateInput(req, "Student, course and payment status are required."); err != nil {
		return nil, err
	}
	log := s.logger.With().Str("student_id", req.StudentID).Str("course_id", req.CourseID).Logger()

	if req.PaymentStatus != string(model.PaymentPaid) {
		log.Info().Str("payment_status", req.PaymentStatus).Msg("Admission rejected: payment not cleared")
		return nil, ErrPaymentNotCleared
	}
	if !*req.AgreementAccepted {
		log.Info().Msg("Admission rejected: agreement not accepted")
		return nil, ErrAgreementRequired
	}

	student, err := s.students.GetStudentByStudentID(ctx, req.StudentID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get student")
		return nil, err
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}
	course, err := s.courses.GetCourseByID(ctx, req.CourseID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get course")
		return nil, err
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}

	reg := &model.Registration{
		StudentID:         student.StudentID,
		CourseID:          course.ID,
		PaymentStatus:     model.PaymentPaid,
		AgreementAccepted: true,
	}
	if err := s.registrations.Admit(ctx, reg); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			log.Info().Msg("Admission rejected: already registered")
			return nil, ErrAlreadyRegistered
		case errors.Is(err, repository.ErrCapacityReached):
			log.Warn().Int("max_registrations", course.MaxRegistrations).Msg("Admission rejected: course full")
			return nil, ErrCourseFull
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrCourseNotFound
		}
		log.Error().Err(err).Msg("Failed to admit registration")
		return nil, err
	}
	log.Info().Str("registration_id", reg.ID).Msg("Admission accepted")

	s.publishCreated(ctx, reg)
	return reg, nil
}

// publishCreated never fails the admission; the ledger record is already committed
func (s *registrationService) publishCreated(ctx context.Context, reg *model.Registration) {
	if s.topic == "" {
		return
	}
	payload, err := json.Marshal(RegistrationCreatedEvent{
		Type:           registrationCreatedType,
		RegistrationID: reg.ID,
		StudentID:      reg.StudentID,
		CourseID:       reg.CourseID,
		PaymentStatus:  string(reg.PaymentStatus),
		RegisteredAt:   reg.RegisteredAt,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("registration_id", reg.ID).Msg("Failed to encode registration event")
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	msgID, err := s.publisher.Publish(pubCtx, s.topic, payload)
	if err != nil {
		s.logger.Error().Err(err).Str("registration_id", reg.ID).Str("topic", s.topic).Msg("Failed to publish registration event")
		return
	}
	s.logger.Debug().Str("registration_id", reg.ID).Str("message_id", msgID).Msg("Registration event published")
}

func (s *registrationService) ListCourseRegistrations(ctx context.Context, courseID string) ([]model.CourseRegistration, error) {
	regs, err := s.registrations.ListPaidByCourse(ctx, strings.TrimSpace(courseID))
	if err != nil {
		s.logger.Error().Err(err).Str("course_id", courseID).Msg("Failed to list course registrations")
		return nil, err
	}
	return regs, nil
}

func (s *registrationService) ListStudentRegistrations(ctx context.Context, studentID string) ([]model.StudentRegistration, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, newValidationError("Student ID is required.", "studentId is required")
	}
	student, err := s.students.GetStudentByStudentID(ctx, studentID)
	if err != nil {
		s.logger.Error().Err(err).Str("student_id", studentID).Msg("Failed to get student")
		return nil, err
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	regs, err := s.registrations.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error().Err(err).Str("student_id", studentID).Msg("Failed to list student registrations")
		return nil, err
	}
	return regs, nil
}
