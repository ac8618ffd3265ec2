package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/classhub/internal/app/models"
)

// IUserRepository defines the interface for user-related database operations
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// IClassRepository defines the interface for class catalog database operations
type IClassRepository interface {
	List(ctx context.Context) ([]*models.Class, error)
	GetByID(ctx context.Context, id int64) (*models.Class, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, class *models.Class) error
	// Update overwrites all mutable fields and returns the number of rows
	// whose values actually changed.
	Update(ctx context.Context, class *models.Class) (int64, error)
	// Delete removes the class and its enrollments, returning how many
	// enrollments were removed.
	Delete(ctx context.Context, id int64) (int64, error)
}

// IEnrollmentRepository defines the interface for enrollment database operations
type IEnrollmentRepository interface {
	// Enroll atomically checks existence, duplicates and capacity and inserts
	// the enrollment.
	Enroll(ctx context.Context, userID, classID int64) (*models.Enrollment, error)
	ListClassesByUser(ctx context.Context, userID int64) ([]*models.EnrolledClass, error)
	Delete(ctx context.Context, userID, classID int64) error
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	ClassRepository      *ClassRepository
	EnrollmentRepository *EnrollmentRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		ClassRepository:      NewClassRepository(db),
		EnrollmentRepository: NewEnrollmentRepository(db),
	}
}

// statementBuilder returns a squirrel builder emitting PostgreSQL placeholders
func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
