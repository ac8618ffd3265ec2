package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/classhub/internal/app/models"
	"github.com/yigit/classhub/internal/app/models/dto"
	"github.com/yigit/classhub/internal/app/repositories"
	"github.com/yigit/classhub/internal/pkg/apperrors"
	"github.com/yigit/classhub/internal/pkg/helpers"
)

// Operation result messages
const (
	MsgClassUpdated = "Class updated successfully"
	MsgNoChanges    = "No changes made"
	MsgClassDeleted = "Class deleted successfully"
)

// ClassService defines the interface for class catalog operations
type ClassService interface {
	ListClasses(ctx context.Context) ([]*models.Class, error)
	GetClass(ctx context.Context, id int64) (*models.Class, error)
	CreateClass(ctx context.Context, req *dto.ClassRequest) (*models.Class, error)
	UpdateClass(ctx context.Context, id int64, req *dto.ClassRequest) (*dto.OperationResult, error)
	DeleteClass(ctx context.Context, id int64) (*dto.OperationResult, error)
}

// classServiceImpl implements the ClassService interface
type classServiceImpl struct {
	classRepo repositories.IClassRepository
	logger    zerolog.Logger
}

// NewClassService creates a new class service instance
func NewClassService(classRepo repositories.IClassRepository, logger zerolog.Logger) ClassService {
	return &classServiceImpl{
		classRepo: classRepo,
		logger:    logger,
	}
}

func validateClassID(id int64) error {
	if id <= 0 {
		return apperrors.NewValidationError("invalid class ID")
	}
	return nil
}

// classFromRequest validates the request and converts it to a model
func classFromRequest(req *dto.ClassRequest) (*models.Class, error) {
	if req == nil {
		return nil, apperrors.NewValidationError("request body is required")
	}

	title := strings.TrimSpace(req.Title)
	instructor := strings.TrimSpace(req.Instructor)
	if title == "" || instructor == "" {
		return nil, apperrors.NewValidationError("Title and instructor are required")
	}

	for field, value := range map[string]*int{
		"duration_hours": req.DurationHours,
		"max_students":   req.MaxStudents,
	} {
		if value == nil {
			continue
		}
		if *value < 0 {
			return nil, apperrors.NewValidationError(field + " cannot be negative")
		}
		if *value > math.MaxInt32 {
			return nil, apperrors.NewValidationError(field + " is too large")
		}
	}

	return &models.Class{
		Title:         title,
		Description:   helpers.NullIfEmpty(req.Description),
		Instructor:    instructor,
		DurationHours: helpers.NullableInt32(req.DurationHours),
		MaxStudents:   helpers.NullableInt32(req.MaxStudents),
	}, nil
}

// ListClasses returns every class with its enrollment count
func (s *classServiceImpl) ListClasses(ctx context.Context) ([]*models.Class, error) {
	classes, err := s.classRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving classes: %w", err)
	}
	return classes, nil
}

// GetClass returns a single class with its enrollment count
func (s *classServiceImpl) GetClass(ctx context.Context, id int64) (*models.Class, error) {
	if err := validateClassID(id); err != nil {
		return nil, err
	}

	class, err := s.classRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrClassNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error retrieving class: %w", err)
	}
	return class, nil
}

// CreateClass validates and stores a new class
func (s *classServiceImpl) CreateClass(ctx context.Context, req *dto.ClassRequest) (*models.Class, error) {
	class, err := classFromRequest(req)
	if err != nil {
		return nil, err
	}

	if err := s.classRepo.Create(ctx, class); err != nil {
		return nil, fmt.Errorf("error creating class: %w", err)
	}

	s.logger.Info().Int64("classID", class.ID).Str("title", class.Title).Msg("Class created")
	return class, nil
}

// UpdateClass overwrites every mutable field of the class
func (s *classServiceImpl) UpdateClass(ctx context.Context, id int64, req *dto.ClassRequest) (*dto.OperationResult, error) {
	if err := validateClassID(id); err != nil {
		return nil, err
	}

	class, err := classFromRequest(req)
	if err != nil {
		return nil, err
	}
	class.ID = id

	exists, err := s.classRepo.Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error checking class existence: %w", err)
	}
	if !exists {
		return nil, apperrors.ErrClassNotFound
	}

	affected, err := s.classRepo.Update(ctx, class)
	if err != nil {
		return nil, fmt.Errorf("error updating class: %w", err)
	}

	if affected == 0 {
		// Zero rows also means the class was deleted after the existence check
		exists, err := s.classRepo.Exists(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("error checking class existence: %w", err)
		}
		if !exists {
			return nil, apperrors.ErrClassNotFound
		}
		return &dto.OperationResult{Success: false, Message: MsgNoChanges}, nil
	}

	s.logger.Info().Int64("classID", id).Msg("Class updated")
	return &dto.OperationResult{Success: true, Message: MsgClassUpdated}, nil
}

// DeleteClass removes the class together with its enrollments
func (s *classServiceImpl) DeleteClass(ctx context.Context, id int64) (*dto.OperationResult, error) {
	if err := validateClassID(id); err != nil {
		return nil, err
	}

	removed, err := s.classRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrClassNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error deleting class: %w", err)
	}

	s.logger.Info().Int64("classID", id).Int64("enrollmentsRemoved", removed).Msg("Class deleted")
	return &dto.OperationResult{Success: true, Message: MsgClassDeleted}, nil
}
