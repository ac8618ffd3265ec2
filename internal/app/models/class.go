package models

import "time"

// Class defines the class model based on the 'classes' table.
// EnrolledStudents is computed from the enrollments table on every read.
type Class struct {
	ID               int64     `json:"id" db:"id" example:"1"`
	Title            string    `json:"title" db:"title" example:"Intro to Go"`
	Description      *string   `json:"description" db:"description" example:"Types, interfaces and goroutines"`
	Instructor       string    `json:"instructor" db:"instructor" example:"Rob"`
	DurationHours    *int32    `json:"duration_hours" db:"duration_hours" example:"12"`
	MaxStudents      *int32    `json:"max_students" db:"max_students" example:"30"`
	CreatedAt        time.Time `json:"created_at" db:"created_at" example:"2024-01-01T10:00:00Z"`
	EnrolledStudents int64     `json:"enrolled_students" db:"enrolled_students" example:"3"`
}

// Capacity returns the enrollment ceiling of the class. A class without
// max_students admits nobody.
func (c *Class) Capacity() int64 {
	return CapacityOf(c.MaxStudents)
}

// CapacityOf converts a stored max_students value to a capacity. NULL means 0.
func CapacityOf(maxStudents *int32) int64 {
	if maxStudents == nil {
		return 0
	}
	return int64(*maxStudents)
}

// IsFull reports whether the class has reached its capacity
func (c *Class) IsFull() bool {
	return c.EnrolledStudents >= c.Capacity()
}
