package dto

// ClassRequest is the body of class create and update requests. Update
// overwrites every field, so omitted optional fields are stored as NULL.
type ClassRequest struct {
	Title         string  `json:"title" binding:"required" example:"Intro to Go"`
	Description   *string `json:"description" example:"Types, interfaces and goroutines"`
	Instructor    string  `json:"instructor" binding:"required" example:"Rob"`
	DurationHours *int    `json:"duration_hours" binding:"omitempty,min=0" example:"12"`
	MaxStudents   *int    `json:"max_students" binding:"omitempty,min=0" example:"30"`
}
