package dto

import "time"

type CourseCreateDTO struct {
	_                struct{} `json:"-" additionalProperties:"true"`
	CourseName       string   `json:"courseName,omitempty" doc:"Course name"`
	Description      string   `json:"description,omitempty" doc:"Course description"`
	Duration         string   `json:"duration,omitempty" doc:"Duration label, e.g. 6 weeks"`
	Amount           *float64 `json:"amount,omitempty" doc:"Fee amount, must not be negative"`
	MaxRegistrations *int     `json:"maxRegistrations,omitempty" doc:"Seat capacity, at least 1"`
	ImageURL         string   `json:"imageUrl,omitempty" doc:"Image reference"`
	Prerequisites    string   `json:"prerequisites,omitempty" doc:"Comma or newline separated prerequisites"`
}

type CourseResponseDTO struct {
	ID               string    `json:"id"`
	CourseName       string    `json:"courseName"`
	Description      string    `json:"description"`
	Duration         string    `json:"duration"`
	Amount           float64   `json:"amount"`
	ImageURL         string    `json:"imageUrl"`
	Prerequisites    []string  `json:"prerequisites"`
	MaxRegistrations int       `json:"maxRegistrations"`
	SeatsFilled      int       `json:"seatsFilled"`
	SeatsLeft        int       `json:"seatsLeft"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type CourseCreatedDTO struct {
	Message string            `json:"message"`
	Course  CourseResponseDTO `json:"course"`
}

type CourseListDTO struct {
	Courses []CourseResponseDTO `json:"courses"`
}

// CourseSummaryDTO is the course projection shown in a student's registrations
type CourseSummaryDTO struct {
	ID            string   `json:"id"`
	CourseName    string   `json:"courseName"`
	Description   string   `json:"description"`
	Duration      string   `json:"duration"`
	Amount        float64  `json:"amount"`
	Prerequisites []string `json:"prerequisites"`
	ImageURL      string   `json:"imageUrl"`
}

type CourseRefDTO struct {
	ID         string `json:"id"`
	CourseName string `json:"courseName"`
}
