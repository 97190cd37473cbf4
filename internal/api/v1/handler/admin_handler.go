package handler

import (
	"context"
	"errors"
	"net/http"

	"courseapp/internal/api/v1/dto"
	"courseapp/internal/api/v1/operation"
	"courseapp/internal/service"

	"github.com/rs/zerolog"
)

type AdminHandler struct {
	adminService service.AdminService
	logger       zerolog.Logger
}

func NewAdminHandler(adminService service.AdminService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		logger:       logger,
	}
}

// Login exchanges the admin credentials for a bearer token
func (h *AdminHandler) Login(ctx context.Context, input *operation.AdminLoginInput) (*operation.AdminLoginOutput, error) {
	session, err := h.adminService.Login(ctx, service.AdminLoginInput{
		Username: input.Body.Username,
		Password: input.Body.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return nil, errorWithCode(http.StatusUnauthorized, CodeUnauthorized, "Invalid admin credentials.")
		}
		return nil, toHTTPError(err)
	}
	return &operation.AdminLoginOutput{
		Body: dto.AdminLoginResponseDTO{
			Message:   "Login successful.",
			Admin:     dto.AdminDTO{Username: session.Username, Role: service.AdminRole},
			Token:     session.Token,
			ExpiresAt: session.ExpiresAt,
		},
	}, nil
}

// Health is the liveness probe
func Health(ctx context.Context, input *operation.HealthInput) (*operation.HealthOutput, error) {
	return &operation.HealthOutput{Body: dto.HealthDTO{Status: "OK"}}, nil
}
