package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/classhub/internal/app/models"
	"github.com/yigit/classhub/internal/db"
	"github.com/yigit/classhub/internal/pkg/apperrors"
	"github.com/yigit/classhub/internal/pkg/logger"
)

var classColumns = []string{
	"c.id", "c.title", "c.description", "c.instructor",
	"c.duration_hours", "c.max_students", "c.created_at",
}

// rowScanner is satisfied by pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// ClassRepository handles class database operations
type ClassRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewClassRepository creates a new ClassRepository
func NewClassRepository(db *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{
		db: db,
		sb: statementBuilder(),
	}
}

// classesWithCount selects classes with their enrollment count. The left join
// keeps classes without enrollments in the result with a count of zero.
func (r *ClassRepository) classesWithCount() squirrel.SelectBuilder {
	return r.sb.Select(append(classColumns, "COUNT(e.id) AS enrolled_students")...).
		From("classes c").
		LeftJoin("enrollments e ON e.class_id = c.id").
		GroupBy("c.id")
}

func scanClass(row rowScanner, extra ...any) (*models.Class, error) {
	class := &models.Class{}
	dest := []any{
		&class.ID, &class.Title, &class.Description, &class.Instructor,
		&class.DurationHours, &class.MaxStudents, &class.CreatedAt, &class.EnrolledStudents,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return class, nil
}

// List retrieves all classes, newest first
func (r *ClassRepository) List(ctx context.Context) ([]*models.Class, error) {
	sql, args, err := r.classesWithCount().
		OrderBy("c.created_at DESC", "c.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list classes query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list classes query")
		return nil, fmt.Errorf("error querying classes: %w", err)
	}
	defer rows.Close()

	classes := []*models.Class{}
	for rows.Next() {
		class, err := scanClass(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning class row: %w", err)
		}
		classes = append(classes, class)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating class rows")
		return nil, fmt.Errorf("error iterating class rows: %w", err)
	}

	return classes, nil
}

// GetByID retrieves a class and its enrollment count
func (r *ClassRepository) GetByID(ctx context.Context, id int64) (*models.Class, error) {
	sql, args, err := r.classesWithCount().
		Where(squirrel.Eq{"c.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get class query: %w", err)
	}

	class, err := scanClass(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrClassNotFound
		}
		logger.Error().Err(err).Int64("classID", id).Msg("Error scanning class row")
		return nil, fmt.Errorf("error getting class by ID: %w", err)
	}

	return class, nil
}

// Exists reports whether a class with the given id exists
func (r *ClassRepository) Exists(ctx context.Context, id int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("classes").
		Where(squirrel.Eq{"id": id}).
		Prefix("SELECT EXISTS (").Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build class exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Int64("classID", id).Msg("Error checking class existence")
		return false, fmt.Errorf("error checking class existence: %w", err)
	}

	return exists, nil
}

// Create inserts the class and fills in its generated id and creation time
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	sql, args, err := r.sb.Insert("classes").
		Columns("title", "description", "instructor", "duration_hours", "max_students").
		Values(class.Title, class.Description, class.Instructor, class.DurationHours, class.MaxStudents).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create class query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&class.ID, &class.CreatedAt); err != nil {
		logger.Error().Err(err).Msg("Error executing create class query")
		return fmt.Errorf("error creating class: %w", err)
	}
	class.EnrolledStudents = 0

	return nil
}

// Update overwrites all mutable fields of the class. Rows whose values are
// already identical are not touched, so the result is 0 both for an unknown
// id and for a no-op update.
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) (int64, error) {
	sql, args, err := r.sb.Update("classes").
		SetMap(map[string]interface{}{
			"title":          class.Title,
			"description":    class.Description,
			"instructor":     class.Instructor,
			"duration_hours": class.DurationHours,
			"max_students":   class.MaxStudents,
		}).
		Where(squirrel.Eq{"id": class.ID}).
		Where(squirrel.Or{
			squirrel.Expr("title IS DISTINCT FROM ?", class.Title),
			squirrel.Expr("description IS DISTINCT FROM ?", class.Description),
			squirrel.Expr("instructor IS DISTINCT FROM ?", class.Instructor),
			squirrel.Expr("duration_hours IS DISTINCT FROM ?", class.DurationHours),
			squirrel.Expr("max_students IS DISTINCT FROM ?", class.MaxStudents),
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build update class query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("classID", class.ID).Msg("Error executing update class query")
		return 0, fmt.Errorf("error updating class: %w", err)
	}

	return cmdTag.RowsAffected(), nil
}

// Delete removes the class together with its enrollments in one transaction.
// The class row lock makes a concurrent enroll on the same class wait.
func (r *ClassRepository) Delete(ctx context.Context, id int64) (int64, error) {
	var removed int64

	err := db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := lockClassForUpdate(ctx, tx, r.sb, id); err != nil {
			return err
		}

		sql, args, err := r.sb.Delete("enrollments").Where(squirrel.Eq{"class_id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete class enrollments query: %w", err)
		}
		cmdTag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error deleting class enrollments: %w", err)
		}
		removed = cmdTag.RowsAffected()

		sql, args, err = r.sb.Delete("classes").Where(squirrel.Eq{"id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete class query: %w", err)
		}
		cmdTag, err = tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error deleting class: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrClassNotFound
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrClassNotFound) {
			logger.Error().Err(err).Int64("classID", id).Msg("Error deleting class")
		}
		return 0, err
	}

	return removed, nil
}

// lockClassForUpdate takes the row lock of a class inside tx and returns its
// max_students. Every statement that changes a class's enrollment set while
// relying on its capacity must hold this lock.
func lockClassForUpdate(ctx context.Context, tx pgx.Tx, sb squirrel.StatementBuilderType, classID int64) (*int32, error) {
	sql, args, err := sb.Select("max_students").
		From("classes").
		Where(squirrel.Eq{"id": classID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build lock class query: %w", err)
	}

	var maxStudents *int32
	if err := tx.QueryRow(ctx, sql, args...).Scan(&maxStudents); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrClassNotFound
		}
		return nil, fmt.Errorf("error locking class: %w", err)
	}

	return maxStudents, nil
}
