package handler

import (
	"errors"
	"net/http"
	"sync/atomic"

	"courseapp/internal/service"

	"github.com/danielgtaylor/huma/v2"
)

const (
	CodeValidation         = "VALIDATION_ERROR"
	CodePaymentNotCleared  = "PAYMENT_NOT_CLEARED"
	CodeAgreementRequired  = "AGREEMENT_REQUIRED"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeCapacityExceeded   = "CAPACITY_EXCEEDED"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeStudentIDExhausted = "STUDENT_ID_EXHAUSTED"
	CodeInternal           = "INTERNAL"
)

// ErrorResponse is the body of every error response
type ErrorResponse struct {
	status  int
	Message string   `json:"message" doc:"Human readable message"`
	Code    string   `json:"code" doc:"Machine readable error code"`
	Details []string `json:"details,omitempty" doc:"Field level problems or diagnostics"`
}

func (e *ErrorResponse) Error() string { return e.Message }

func (e *ErrorResponse) GetStatus() int { return e.status }

var exposeInternalErrors atomic.Bool

// UseErrorModel makes huma render every error as an ErrorResponse. Diagnostics of
// 5xx errors are included only when exposeInternal is set.
func UseErrorModel(exposeInternal bool) {
	exposeInternalErrors.Store(exposeInternal)
	huma.NewError = newError
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return CodeValidation
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusUnauthorized, http.StatusForbidden:
		return CodeUnauthorized
	}
	if status >= http.StatusInternalServerError {
		return CodeInternal
	}
	return http.StatusText(status)
}

// newError replaces huma.NewError. Schema and body parse failures become 400s.
func newError(status int, msg string, errs ...error) huma.StatusError {
	if status == http.StatusUnprocessableEntity {
		status = http.StatusBadRequest
	}
	resp := &ErrorResponse{status: status, Message: msg, Code: codeForStatus(status)}
	if status >= http.StatusInternalServerError && !exposeInternalErrors.Load() {
		return resp
	}
	for _, err := range errs {
		if err != nil {
			resp.Details = append(resp.Details, err.Error())
		}
	}
	return resp
}

func errorWithCode(status int, code, msg string, details ...string) *ErrorResponse {
	return &ErrorResponse{status: status, Message: msg, Code: code, Details: details}
}

// toHTTPError maps service errors onto responses
func toHTTPError(err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return errorWithCode(http.StatusBadRequest, CodeValidation, verr.Message, verr.Details...)
	case errors.Is(err, service.ErrPaymentNotCleared):
		return errorWithCode(http.StatusBadRequest, CodePaymentNotCleared, "Payment must be marked as Paid to register.")
	case errors.Is(err, service.ErrAgreementRequired):
		return errorWithCode(http.StatusBadRequest, CodeAgreementRequired, "You must accept the course completion agreement before registering.")
	case errors.Is(err, service.ErrStudentNotFound):
		return errorWithCode(http.StatusNotFound, CodeNotFound, "Student not found.")
	case errors.Is(err, service.ErrCourseNotFound):
		return errorWithCode(http.StatusNotFound, CodeNotFound, "Course not found.")
	case errors.Is(err, service.ErrAlreadyRegistered):
		return errorWithCode(http.StatusConflict, CodeConflict, "You have already registered for this course.")
	case errors.Is(err, service.ErrEmailTaken):
		return errorWithCode(http.StatusConflict, CodeConflict, "Email already registered.")
	case errors.Is(err, service.ErrCourseFull):
		return errorWithCode(http.StatusConflict, CodeCapacityExceeded, "Maximum registrations reached for this course.")
	case errors.Is(err, service.ErrInvalidCredentials):
		return errorWithCode(http.StatusUnauthorized, CodeUnauthorized, "Invalid credentials.")
	case errors.Is(err, service.ErrStudentIDExhausted):
		return errorWithCode(http.StatusServiceUnavailable, CodeStudentIDExhausted, "Unable to assign a student ID, please try again later.")
	}
	return huma.NewError(http.StatusInternalServerError, "Internal server error.", err)
}
