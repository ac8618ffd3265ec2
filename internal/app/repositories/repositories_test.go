package repositories

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/classhub/internal/app/migrations"
	"github.com/yigit/classhub/internal/app/models"
	"github.com/yigit/classhub/internal/pkg/apperrors"
)

const testDatabaseEnv = "CLASSHUB_TEST_DATABASE_URL"

// newTestPool connects to the database named by CLASSHUB_TEST_DATABASE_URL,
// applies the migrations and empties every table. Tests are skipped when
// the variable is not set.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv(testDatabaseEnv)
	if dsn == "" {
		t.Skipf("%s not set", testDatabaseEnv)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	migrator := migrations.NewMigrator(pool, zerolog.Nop())
	require.NoError(t, migrator.MigrateFromDirectory(ctx, filepath.Join("..", "..", "..", "migrations")))

	_, err = pool.Exec(ctx, `TRUNCATE enrollments, classes, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return pool
}

func int32Ptr(v int32) *int32 { return &v }

func createUser(t *testing.T, repo *UserRepository, email string) *models.User {
	t.Helper()
	user := &models.User{Name: "Test " + email, Email: email, PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func createClass(t *testing.T, repo *ClassRepository, title string, maxStudents *int32) *models.Class {
	t.Helper()
	class := &models.Class{Title: title, Instructor: "Instructor", MaxStudents: maxStudents}
	require.NoError(t, repo.Create(context.Background(), class))
	return class
}

func TestUserRepository(t *testing.T) {
	pool := newTestPool(t)
	repo := NewUserRepository(pool)
	ctx := context.Background()

	user := createUser(t, repo, "ada@example.com")
	assert.Positive(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	err := repo.Create(ctx, &models.User{Name: "Dup", Email: "ada@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	byEmail, err := repo.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.PasswordHash)

	_, err = repo.GetByID(ctx, user.ID+100)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	exists, err := repo.EmailExists(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestClassRepository_ListIncludesEmptyClasses(t *testing.T) {
	pool := newTestPool(t)
	classes := NewClassRepository(pool)
	ctx := context.Background()

	first := createClass(t, classes, "First", int32Ptr(5))
	second := createClass(t, classes, "Second", nil)

	list, err := classes.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	for _, c := range list {
		assert.Equal(t, int64(0), c.EnrolledStudents)
	}
}

func TestClassRepository_UpdateAndDelete(t *testing.T) {
	pool := newTestPool(t)
	users := NewUserRepository(pool)
	classes := NewClassRepository(pool)
	enrollments := NewEnrollmentRepository(pool)
	ctx := context.Background()

	class := createClass(t, classes, "Go", int32Ptr(3))

	same := *class
	affected, err := classes.Update(ctx, &same)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	changed := *class
	changed.Title = "Advanced Go"
	affected, err = classes.Update(ctx, &changed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	got, err := classes.GetByID(ctx, class.ID)
	require.NoError(t, err)
	assert.Equal(t, "Advanced Go", got.Title)

	user := createUser(t, users, "grace@example.com")
	_, err = enrollments.Enroll(ctx, user.ID, class.ID)
	require.NoError(t, err)

	removed, err := classes.Delete(ctx, class.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = classes.GetByID(ctx, class.ID)
	assert.ErrorIs(t, err, apperrors.ErrClassNotFound)

	_, err = classes.Delete(ctx, class.ID)
	assert.ErrorIs(t, err, apperrors.ErrClassNotFound)
}

func TestEnrollmentRepository_EnrollRules(t *testing.T) {
	pool := newTestPool(t)
	users := NewUserRepository(pool)
	classes := NewClassRepository(pool)
	enrollments := NewEnrollmentRepository(pool)
	ctx := context.Background()

	u1 := createUser(t, users, "u1@example.com")
	u2 := createUser(t, users, "u2@example.com")
	u3 := createUser(t, users, "u3@example.com")
	class := createClass(t, classes, "Small", int32Ptr(2))

	_, err := enrollments.Enroll(ctx, u1.ID, class.ID+999)
	assert.ErrorIs(t, err, apperrors.ErrClassNotFound)

	_, err = enrollments.Enroll(ctx, u1.ID, class.ID)
	require.NoError(t, err)
	_, err = enrollments.Enroll(ctx, u1.ID, class.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyEnrolled)

	_, err = enrollments.Enroll(ctx, u2.ID, class.ID)
	require.NoError(t, err)
	_, err = enrollments.Enroll(ctx, u3.ID, class.ID)
	assert.ErrorIs(t, err, apperrors.ErrClassFull)

	require.NoError(t, enrollments.Delete(ctx, u1.ID, class.ID))
	assert.ErrorIs(t, enrollments.Delete(ctx, u1.ID, class.ID), apperrors.ErrEnrollmentNotFound)

	_, err = enrollments.Enroll(ctx, u3.ID, class.ID)
	require.NoError(t, err)

	mine, err := enrollments.ListClassesByUser(ctx, u3.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, class.ID, mine[0].ID)
	assert.Equal(t, int64(2), mine[0].EnrolledStudents)

	unlimited := createClass(t, classes, "No capacity", nil)
	_, err = enrollments.Enroll(ctx, u1.ID, unlimited.ID)
	assert.ErrorIs(t, err, apperrors.ErrClassFull)

	_, err = enrollments.Enroll(ctx, u3.ID+999, class.ID)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestEnrollmentRepository_ConcurrentEnrollNeverOverfills(t *testing.T) {
	pool := newTestPool(t)
	users := NewUserRepository(pool)
	classes := NewClassRepository(pool)
	enrollments := NewEnrollmentRepository(pool)
	ctx := context.Background()

	const capacity = 3
	const contenders = 12

	class := createClass(t, classes, "Race", int32Ptr(capacity))
	ids := make([]int64, contenders)
	for i := range ids {
		ids[i] = createUser(t, users, "racer"+string(rune('a'+i))+"@example.com").ID
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		full      int
	)
	for _, userID := range ids {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := enrollments.Enroll(ctx, userID, class.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case apperrors.Is(err, apperrors.ErrClassFull):
				full++
			default:
				t.Errorf("unexpected enroll error: %v", err)
			}
		}(userID)
	}
	wg.Wait()

	assert.Equal(t, capacity, succeeded)
	assert.Equal(t, contenders-capacity, full)

	got, err := classes.GetByID(ctx, class.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(capacity), got.EnrolledStudents)
}
