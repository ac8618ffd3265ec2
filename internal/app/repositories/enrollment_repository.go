package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/classhub/internal/app/models"
	"github.com/yigit/classhub/internal/db"
	"github.com/yigit/classhub/internal/pkg/apperrors"
	"github.com/yigit/classhub/internal/pkg/dberrors"
	"github.com/yigit/classhub/internal/pkg/logger"
)

const (
	enrollmentsUserClassConstraint = "enrollments_user_class_key"
	enrollmentsUserFKConstraint    = "enrollments_user_id_fkey"
)

// EnrollmentRepository handles enrollment database operations
type EnrollmentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: db,
		sb: statementBuilder(),
	}
}

// Enroll inserts an enrollment if the class exists, the user is not yet
// enrolled and the class has a free seat. The checks and the insert run in
// one transaction holding the class row lock, so concurrent enrollers of the
// same class are serialized and the count can never exceed max_students.
func (r *EnrollmentRepository) Enroll(ctx context.Context, userID, classID int64) (*models.Enrollment, error) {
	enrollment := &models.Enrollment{UserID: userID, ClassID: classID}

	err := db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		maxStudents, err := lockClassForUpdate(ctx, tx, r.sb, classID)
		if err != nil {
			return err
		}

		enrolled, err := r.isEnrolled(ctx, tx, userID, classID)
		if err != nil {
			return err
		}
		if enrolled {
			return apperrors.ErrAlreadyEnrolled
		}

		count, err := r.countByClass(ctx, tx, classID)
		if err != nil {
			return err
		}
		locked := models.Class{ID: classID, MaxStudents: maxStudents, EnrolledStudents: count}
		if locked.IsFull() {
			return apperrors.ErrClassFull
		}

		sql, args, err := r.sb.Insert("enrollments").
			Columns("user_id", "class_id").
			Values(userID, classID).
			Suffix("RETURNING id, enrolled_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create enrollment query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&enrollment.ID, &enrollment.EnrolledAt); err != nil {
			switch {
			case dberrors.IsDuplicateConstraintError(err, enrollmentsUserClassConstraint):
				return apperrors.ErrAlreadyEnrolled
			case dberrors.IsForeignKeyViolation(err, enrollmentsUserFKConstraint):
				return apperrors.ErrUserNotFound
			}
			return fmt.Errorf("error creating enrollment: %w", err)
		}
		return nil
	})
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrResourceNotFound, apperrors.ErrConflict, apperrors.ErrCapacityExceeded) {
			logger.Error().Err(err).Int64("userID", userID).Int64("classID", classID).Msg("Error enrolling user")
		}
		return nil, err
	}

	return enrollment, nil
}

func (r *EnrollmentRepository) isEnrolled(ctx context.Context, tx pgx.Tx, userID, classID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("enrollments").
		Where(squirrel.Eq{"user_id": userID, "class_id": classID}).
		Prefix("SELECT EXISTS (").Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build enrollment exists query: %w", err)
	}

	var exists bool
	if err := tx.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking enrollment: %w", err)
	}
	return exists, nil
}

func (r *EnrollmentRepository) countByClass(ctx context.Context, tx pgx.Tx, classID int64) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("enrollments").
		Where(squirrel.Eq{"class_id": classID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build enrollment count query: %w", err)
	}

	var count int64
	if err := tx.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting enrollments: %w", err)
	}
	return count, nil
}

// ListClassesByUser returns the classes a user is enrolled in, most recent
// enrollment first
func (r *EnrollmentRepository) ListClassesByUser(ctx context.Context, userID int64) ([]*models.EnrolledClass, error) {
	columns := append([]string{}, classColumns...)
	columns = append(columns,
		"(SELECT COUNT(*) FROM enrollments x WHERE x.class_id = c.id) AS enrolled_students",
		"e.enrolled_at",
	)

	sql, args, err := r.sb.Select(columns...).
		From("enrollments e").
		Join("classes c ON c.id = e.class_id").
		Where(squirrel.Eq{"e.user_id": userID}).
		OrderBy("e.enrolled_at DESC", "e.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list enrolled classes query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing list enrolled classes query")
		return nil, fmt.Errorf("error querying enrolled classes: %w", err)
	}
	defer rows.Close()

	classes := []*models.EnrolledClass{}
	for rows.Next() {
		enrolled := &models.EnrolledClass{}
		class, err := scanClass(rows, &enrolled.EnrolledAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning enrolled class row: %w", err)
		}
		enrolled.Class = *class
		classes = append(classes, enrolled)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrolled class rows: %w", err)
	}

	return classes, nil
}

// Delete removes the enrollment of a user in a class
func (r *EnrollmentRepository) Delete(ctx context.Context, userID, classID int64) error {
	sql, args, err := r.sb.Delete("enrollments").
		Where(squirrel.Eq{"user_id": userID, "class_id": classID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete enrollment query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Int64("classID", classID).Msg("Error executing delete enrollment query")
		return fmt.Errorf("error deleting enrollment: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}

	return nil
}
