package service

import (
	"errors"
	"strings"
)

var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrAlreadyRegistered  = errors.New("student already registered for this course")
	ErrCourseFull         = errors.New("maximum registrations reached for this course")
	ErrPaymentNotCleared  = errors.New("payment must be marked as Paid to register")
	ErrAgreementRequired  = errors.New("course completion agreement must be accepted before registering")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrStudentIDExhausted = errors.New("no free student id found")
)

// ValidationError reports missing or malformed input
type ValidationError struct {
	Message string
	Details []string
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Details, "; ")
}

func newValidationError(message string, details ...string) *ValidationError {
	return &ValidationError{Message: message, Details: details}
}
