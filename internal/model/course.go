package model

import "time"

// Course represents a course offered for registration
type Course struct {
	ID               string    `db:"id" json:"id"`
	CourseName       string    `db:"course_name" json:"courseName"`
	Description      string    `db:"description" json:"description"`
	Duration         string    `db:"duration" json:"duration"`
	Amount           float64   `db:"amount" json:"amount"`
	ImageURL         string    `db:"image_url" json:"imageUrl"`
	Prerequisites    []string  `db:"prerequisites" json:"prerequisites"`
	MaxRegistrations int       `db:"max_registrations" json:"maxRegistrations"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt"`
}

// CourseWithSeats is a course annotated with its live seat counts.
// Seat counts are derived from paid registrations on every read and never stored.
type CourseWithSeats struct {
	Course
	SeatsFilled int `json:"seatsFilled"`
	SeatsLeft   int `json:"seatsLeft"`
}

// WithSeats derives the seat projection of a course from its paid registration count.
func WithSeats(c Course, paidCount int) CourseWithSeats {
	if paidCount < 0 {
		paidCount = 0
	}
	left := c.MaxRegistrations - paidCount
	if left < 0 {
		left = 0
	}
	return CourseWithSeats{
		Course:      c,
		SeatsFilled: paidCount,
		SeatsLeft:   left,
	}
}
