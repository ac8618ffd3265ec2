package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/classhub/internal/app/models"
	"github.com/yigit/classhub/internal/app/models/dto"
	"github.com/yigit/classhub/internal/app/repositories"
	"github.com/yigit/classhub/internal/pkg/apperrors"
	"github.com/yigit/classhub/internal/pkg/metrics"
)

// MsgUnenrolled is reported after a successful unenroll
const MsgUnenrolled = "Successfully unenrolled from class"

// EnrollmentRecorder counts enroll attempts by outcome. *metrics.Metrics
// satisfies it.
type EnrollmentRecorder interface {
	RecordEnrollment(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) RecordEnrollment(string) {}

// EnrollmentService defines the interface for enrollment operations
type EnrollmentService interface {
	Enroll(ctx context.Context, userID, classID int64) (*models.Enrollment, error)
	ListMyClasses(ctx context.Context, userID int64) ([]*models.EnrolledClass, error)
	Unenroll(ctx context.Context, userID, classID int64) (*dto.OperationResult, error)
}

// enrollmentServiceImpl implements the EnrollmentService interface
type enrollmentServiceImpl struct {
	enrollmentRepo repositories.IEnrollmentRepository
	recorder       EnrollmentRecorder
	logger         zerolog.Logger
}

// NewEnrollmentService creates a new enrollment service instance. A nil
// recorder disables outcome counting.
func NewEnrollmentService(enrollmentRepo repositories.IEnrollmentRepository, recorder EnrollmentRecorder, logger zerolog.Logger) EnrollmentService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &enrollmentServiceImpl{
		enrollmentRepo: enrollmentRepo,
		recorder:       recorder,
		logger:         logger,
	}
}

// Enroll registers the user in the class. Existence, duplicate and capacity
// checks are enforced atomically by the repository.
func (s *enrollmentServiceImpl) Enroll(ctx context.Context, userID, classID int64) (*models.Enrollment, error) {
	if classID <= 0 {
		return nil, apperrors.NewValidationError("Class ID is required")
	}
	if userID <= 0 {
		return nil, apperrors.NewValidationError("user ID must be positive")
	}

	enrollment, err := s.enrollmentRepo.Enroll(ctx, userID, classID)
	s.recorder.RecordEnrollment(enrollOutcome(err))
	if err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound, apperrors.ErrConflict, apperrors.ErrCapacityExceeded) {
			s.logger.Debug().Err(err).Int64("userID", userID).Int64("classID", classID).Msg("Enroll rejected")
			return nil, err
		}
		return nil, fmt.Errorf("error enrolling in class: %w", err)
	}

	s.logger.Info().Int64("userID", userID).Int64("classID", classID).Msg("User enrolled")
	return enrollment, nil
}

// ListMyClasses returns the classes the user is enrolled in
func (s *enrollmentServiceImpl) ListMyClasses(ctx context.Context, userID int64) ([]*models.EnrolledClass, error) {
	if userID <= 0 {
		return nil, apperrors.NewValidationError("user ID must be positive")
	}

	classes, err := s.enrollmentRepo.ListClassesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving enrolled classes: %w", err)
	}
	return classes, nil
}

// Unenroll removes the user's enrollment in the class
func (s *enrollmentServiceImpl) Unenroll(ctx context.Context, userID, classID int64) (*dto.OperationResult, error) {
	if classID <= 0 {
		return nil, apperrors.NewValidationError("Class ID is required")
	}

	if err := s.enrollmentRepo.Delete(ctx, userID, classID); err != nil {
		if apperrors.Is(err, apperrors.ErrEnrollmentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error unenrolling from class: %w", err)
	}

	s.logger.Info().Int64("userID", userID).Int64("classID", classID).Msg("User unenrolled")
	return &dto.OperationResult{Success: true, Message: MsgUnenrolled}, nil
}

func enrollOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeEnrolled
	case apperrors.Is(err, apperrors.ErrCapacityExceeded):
		return metrics.OutcomeClassFull
	case apperrors.Is(err, apperrors.ErrConflict):
		return metrics.OutcomeAlreadyEnrolled
	case apperrors.Is(err, apperrors.ErrResourceNotFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}
