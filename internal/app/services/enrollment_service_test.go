package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/classhub/internal/app/models"
	"github.com/yigit/classhub/internal/app/models/dto"
	"github.com/yigit/classhub/internal/pkg/apperrors"
	"github.com/yigit/classhub/internal/pkg/metrics"
)

func createFakeUser(t *testing.T, store *fakeStore, email string) int64 {
	t.Helper()
	user := &models.User{Name: email, Email: email, PasswordHash: "hash"}
	require.NoError(t, fakeUserRepo{store}.Create(context.Background(), user))
	return user.ID
}

func createFakeClass(t *testing.T, store *fakeStore, maxStudents *int) int64 {
	t.Helper()
	class, err := NewClassService(fakeClassRepo{store}, zerolog.Nop()).
		CreateClass(context.Background(), &dto.ClassRequest{Title: "Intro", Instructor: "A", MaxStudents: maxStudents})
	require.NoError(t, err)
	return class.ID
}

func TestEnrollmentService_CapacityExample(t *testing.T) {
	store := newFakeStore()
	svc := NewEnrollmentService(fakeEnrollmentRepo{store}, nil, zerolog.Nop())
	ctx := context.Background()

	user1 := createFakeUser(t, store, "u1@example.com")
	user2 := createFakeUser(t, store, "u2@example.com")
	user3 := createFakeUser(t, store, "u3@example.com")
	classID := createFakeClass(t, store, intPtr(2))

	enrollment, err := svc.Enroll(ctx, user1, classID)
	require.NoError(t, err)
	assert.Equal(t, user1, enrollment.UserID)
	assert.Equal(t, classID, enrollment.ClassID)

	_, err = svc.Enroll(ctx, user2, classID)
	require.NoError(t, err)

	_, err = svc.Enroll(ctx, user3, classID)
	assert.ErrorIs(t, err, apperrors.ErrCapacityExceeded)

	result, err := svc.Unenroll(ctx, user1, classID)
	require.NoError(t, err)
	assert.Equal(t, &dto.OperationResult{Success: true, Message: MsgUnenrolled}, result)

	_, err = svc.Enroll(ctx, user3, classID)
	require.NoError(t, err)
}

func TestEnrollmentService_Rejections(t *testing.T) {
	store := newFakeStore()
	svc := NewEnrollmentService(fakeEnrollmentRepo{store}, nil, zerolog.Nop())
	ctx := context.Background()

	user := createFakeUser(t, store, "u@example.com")
	classID := createFakeClass(t, store, intPtr(5))

	_, err := svc.Enroll(ctx, user, classID)
	require.NoError(t, err)

	_, err = svc.Enroll(ctx, user, classID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = svc.Enroll(ctx, user, classID+100)
	assert.ErrorIs(t, err, apperrors.ErrClassNotFound)

	_, err = svc.Enroll(ctx, user, 0)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	noCapacity := createFakeClass(t, store, nil)
	_, err = svc.Enroll(ctx, user, noCapacity)
	assert.ErrorIs(t, err, apperrors.ErrClassFull)

	_, err = svc.Unenroll(ctx, user, noCapacity)
	assert.ErrorIs(t, err, apperrors.ErrEnrollmentNotFound)
}

func TestEnrollmentService_ListMyClasses(t *testing.T) {
	store := newFakeStore()
	svc := NewEnrollmentService(fakeEnrollmentRepo{store}, nil, zerolog.Nop())
	ctx := context.Background()

	user := createFakeUser(t, store, "u@example.com")
	other := createFakeUser(t, store, "o@example.com")
	first := createFakeClass(t, store, intPtr(5))
	second := createFakeClass(t, store, intPtr(5))

	_, err := svc.Enroll(ctx, user, first)
	require.NoError(t, err)
	_, err = svc.Enroll(ctx, other, first)
	require.NoError(t, err)
	_, err = svc.Enroll(ctx, user, second)
	require.NoError(t, err)

	mine, err := svc.ListMyClasses(ctx, user)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second, mine[0].ID)
	assert.Equal(t, first, mine[1].ID)
	assert.Equal(t, int64(2), mine[1].EnrolledStudents)
	assert.True(t, mine[0].EnrolledAt.After(mine[1].EnrolledAt))
}

func TestEnrollmentService_ConcurrentEnrollNeverOverfills(t *testing.T) {
	const capacity = 5
	const contenders = 40

	store := newFakeStore()
	svc := NewEnrollmentService(fakeEnrollmentRepo{store}, nil, zerolog.Nop())
	classID := createFakeClass(t, store, intPtr(capacity))

	users := make([]int64, contenders)
	for i := range users {
		users[i] = createFakeUser(t, store, fmt.Sprintf("user%d@example.com", i))
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for _, userID := range users {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := svc.Enroll(context.Background(), userID, classID)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
				return
			}
			if assert.ErrorIs(t, err, apperrors.ErrCapacityExceeded) {
				rejected++
			}
		}(userID)
	}
	wg.Wait()

	assert.Equal(t, capacity, succeeded)
	assert.Equal(t, contenders-capacity, rejected)
	assert.Equal(t, int64(capacity), store.countEnrollments(classID))
}

type countingRecorder struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (r *countingRecorder) RecordEnrollment(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[outcome]++
}

func TestEnrollmentService_RecordsOutcomes(t *testing.T) {
	store := newFakeStore()
	recorder := &countingRecorder{outcomes: map[string]int{}}
	svc := NewEnrollmentService(fakeEnrollmentRepo{store}, recorder, zerolog.Nop())
	ctx := context.Background()

	user1 := createFakeUser(t, store, "r1@example.com")
	user2 := createFakeUser(t, store, "r2@example.com")
	classID := createFakeClass(t, store, intPtr(1))

	_, err := svc.Enroll(ctx, user1, classID)
	require.NoError(t, err)
	_, err = svc.Enroll(ctx, user1, classID)
	require.Error(t, err)
	_, err = svc.Enroll(ctx, user2, classID)
	require.Error(t, err)
	_, err = svc.Enroll(ctx, user2, classID+100)
	require.Error(t, err)
	_, err = svc.Enroll(ctx, user2, 0)
	require.Error(t, err)

	assert.Equal(t, map[string]int{
		metrics.OutcomeEnrolled:        1,
		metrics.OutcomeAlreadyEnrolled: 1,
		metrics.OutcomeClassFull:       1,
		metrics.OutcomeNotFound:        1,
	}, recorder.outcomes)
}
