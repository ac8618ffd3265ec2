package dto

// EnrollRequest is the body of an enroll request
type EnrollRequest struct {
	ClassID int64 `json:"class_id" binding:"required,min=1" example:"1"`
}
