package operation

import "courseapp/internal/api/v1/dto"

type AdminLoginInput struct {
	Body dto.AdminLoginDTO `json:"body"`
}

type AdminLoginOutput struct {
	Body dto.AdminLoginResponseDTO `json:"body"`
}

type HealthInput struct{}

type HealthOutput struct {
	Body dto.HealthDTO `json:"body"`
}
