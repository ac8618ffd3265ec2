package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/classhub/internal/app/models/dto"
	"github.com/yigit/classhub/internal/app/services"
	"github.com/yigit/classhub/internal/middleware"
)

// EnrollmentController handles enrollment operations for the current user
type EnrollmentController struct {
	enrollmentService services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
	}
}

// Enroll enrolls the current user in a class
// @Summary Enroll in a class
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EnrollRequest true "Class to enroll in"
// @Success 201 {object} dto.APIResponse{data=models.Enrollment} "Successfully enrolled in class"
// @Failure 400 {object} dto.ErrorResponse "Class ID is required"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Failure 409 {object} dto.ErrorResponse "Already enrolled, or class is full"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /enroll [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	enrollment, err := c.enrollmentService.Enroll(ctx.Request.Context(), userID, req.ClassID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(enrollment, "Successfully enrolled in class"))
}

// ListMyClasses lists the classes of the current user
// @Summary My classes
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.EnrolledClass} "Enrolled classes retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /my-classes [get]
func (c *EnrollmentController) ListMyClasses(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	classes, err := c.enrollmentService.ListMyClasses(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(classes, "Enrolled classes retrieved successfully"))
}

// Unenroll removes the current user from a class
// @Summary Unenroll from a class
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param class_id path int true "Class ID" Format(int64) minimum(1)
// @Success 200 {object} dto.OperationResult "Successfully unenrolled from class"
// @Failure 400 {object} dto.ErrorResponse "Invalid class ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /enroll/{class_id} [delete]
func (c *EnrollmentController) Unenroll(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	classID, ok := parseIDParam(ctx, "class_id", "class ID")
	if !ok {
		return
	}

	result, err := c.enrollmentService.Unenroll(ctx.Request.Context(), userID, classID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}
