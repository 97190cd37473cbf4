package dto

import "time"

type AdminLoginDTO struct {
	_        struct{} `json:"-" additionalProperties:"true"`
	Username string   `json:"username,omitempty"`
	Password string   `json:"password,omitempty"`
}

type AdminDTO struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type AdminLoginResponseDTO struct {
	Message   string    `json:"message"`
	Admin     AdminDTO  `json:"admin"`
	Token     string    `json:"token" doc:"Bearer token for /admin routes"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type HealthDTO struct {
	Status string `json:"status"`
}
