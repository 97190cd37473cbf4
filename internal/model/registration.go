package model

import "time"

// PaymentStatus is the payment state claimed for a registration
type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "Paid"
	PaymentUnpaid PaymentStatus = "Unpaid"
)

// Registration links one student to one course in the registration ledger
type Registration struct {
	ID                string        `db:"id" json:"registrationId"`
	StudentID         string        `db:"student_id" json:"studentId"`
	CourseID          string        `db:"course_id" json:"courseId"`
	PaymentStatus     PaymentStatus `db:"payment_status" json:"paymentStatus"`
	AgreementAccepted bool          `db:"agreement_accepted" json:"agreementAccepted"`
	RegisteredAt      time.Time     `db:"registered_at" json:"registeredAt"`
}

// CourseRegistration is a paid registration seen from the course side
type CourseRegistration struct {
	Registration
	Student    StudentSummary
	CourseName string
}

// StudentRegistration is a registration seen from the student side
type StudentRegistration struct {
	Registration
	Course Course
}
