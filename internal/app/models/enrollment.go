package models

import "time"

// Enrollment links one user to one class, at most once per pair
type Enrollment struct {
	ID         int64     `json:"id" db:"id" example:"1"`
	UserID     int64     `json:"user_id" db:"user_id" example:"1"`
	ClassID    int64     `json:"class_id" db:"class_id" example:"1"`
	EnrolledAt time.Time `json:"enrolled_at" db:"enrolled_at" example:"2024-01-02T09:00:00Z"`
}

// EnrolledClass is a class as seen from one user's enrollment
type EnrolledClass struct {
	Class
	EnrolledAt time.Time `json:"enrolled_at" db:"enrolled_at" example:"2024-01-02T09:00:00Z"`
}
