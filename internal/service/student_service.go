package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"courseapp/internal/model"
	"courseapp/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// SignUpInput is a self-service student signup
type SignUpInput struct {
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// LoginInput carries student credentials
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// StudentIDGenerator returns a 5-digit candidate student id
type StudentIDGenerator func() string

// RandomStudentID draws uniformly from 10000..99999
func RandomStudentID() string {
	return fmt.Sprintf("%05d", 10000+rand.IntN(90000))
}

// StudentService handles signup and login
type StudentService interface {
	SignUp(ctx context.Context, in SignUpInput) (*model.Student, error)
	Login(ctx context.Context, in LoginInput) (*model.Student, error)
}

type studentService struct {
	students    repository.StudentRepository
	generateID  StudentIDGenerator
	maxAttempts int
	bcryptCost  int
	logger      zerolog.Logger
}

// NewStudentService creates a new StudentService. maxAttempts bounds how many id
// candidates are tried per signup.
func NewStudentService(students repository.StudentRepository, generateID StudentIDGenerator, maxAttempts, bcryptCost int, logger zerolog.Logger) StudentService {
	if generateID == nil {
		generateID = RandomStudentID
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &studentService{
		students:    students,
		generateID:  generateID,
		maxAttempts: maxAttempts,
		bcryptCost:  bcryptCost,
		logger:      logger.With().Str("service", "StudentService").Logger(),
	}
}

func (s *studentService) SignUp(ctx context.Context, in SignUpInput) (*model.Student, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateInput(in, "All fields are required."); err != nil {
		return nil, err
	}
	if in.Password != in.ConfirmPassword {
		return nil, newValidationError("Passwords do not match.", "confirmPassword must match password")
	}

	existing, err := s.students.GetStudentByEmail(ctx, in.Email)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to look up student email")
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, newValidationError("Password is too long.", "password must be at most 72 bytes")
	}
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		candidate := s.generateID()
		taken, err := s.students.StudentIDExists(ctx, candidate)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to check student id")
			return nil, err
		}
		if taken {
			continue
		}

		st := &model.Student{
			StudentID:    candidate,
			FirstName:    in.FirstName,
			LastName:     in.LastName,
			Email:        in.Email,
			PasswordHash: string(hash),
		}
		err = s.students.CreateStudent(ctx, st)
		switch {
		case err == nil:
			s.logger.Info().Str("student_id", st.StudentID).Int("attempts", attempt).Msg("Student signed up")
			return st, nil
		case errors.Is(err, repository.ErrDuplicateStudentID):
			// lost a race for the candidate
			continue
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		default:
			s.logger.Error().Err(err).Msg("Failed to create student")
			return nil, err
		}
	}

	s.logger.Warn().Int("attempts", s.maxAttempts).Msg("Student id space exhausted")
	return nil, ErrStudentIDExhausted
}

func (s *studentService) Login(ctx context.Context, in LoginInput) (*model.Student, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateInput(in, "Email and password are required."); err != nil {
		return nil, err
	}

	st, err := s.students.GetStudentByEmail(ctx, in.Email)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to look up student email")
		return nil, err
	}
	if st == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(st.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return st, nil
}
