package dto

import "time"

type StudentSignUpDTO struct {
	_               struct{} `json:"-" additionalProperties:"true"`
	FirstName       string   `json:"firstName,omitempty"`
	LastName        string   `json:"lastName,omitempty"`
	Email           string   `json:"email,omitempty"`
	Password        string   `json:"password,omitempty"`
	ConfirmPassword string   `json:"confirmPassword,omitempty"`
}

type StudentLoginDTO struct {
	_        struct{} `json:"-" additionalProperties:"true"`
	Email    string   `json:"email,omitempty"`
	Password string   `json:"password,omitempty"`
}

// StudentResponseDTO never carries the password
type StudentResponseDTO struct {
	ID        string    `json:"id"`
	StudentID string    `json:"studentId" doc:"5-digit student identity"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Role      string    `json:"role" enum:"student"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type StudentAuthResponseDTO struct {
	Message string             `json:"message"`
	Student StudentResponseDTO `json:"student"`
}

type StudentRefDTO struct {
	StudentID string `json:"studentId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
