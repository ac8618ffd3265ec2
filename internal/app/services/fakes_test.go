package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yigit/classhub/internal/app/models"
	"github.com/yigit/classhub/internal/pkg/apperrors"
)

// fakeStore is an in-memory stand-in for the database. Its mutex plays the
// part of the class row lock taken by the real enroll transaction.
type fakeStore struct {
	mu          sync.Mutex
	nextID      int64
	clock       time.Time
	users       map[int64]*models.User
	classes     map[int64]*models.Class
	enrollments map[int64]*models.Enrollment
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		clock:       time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		users:       map[int64]*models.User{},
		classes:     map[int64]*models.Class{},
		enrollments: map[int64]*models.Enrollment{},
	}
}

// tick returns a new id and a strictly increasing timestamp
func (s *fakeStore) tick() (int64, time.Time) {
	s.nextID++
	s.clock = s.clock.Add(time.Second)
	return s.nextID, s.clock
}

func (s *fakeStore) countEnrollments(classID int64) int64 {
	var n int64
	for _, e := range s.enrollments {
		if e.ClassID == classID {
			n++
		}
	}
	return n
}

func (s *fakeStore) withCount(c *models.Class) *models.Class {
	cp := *c
	cp.EnrolledStudents = s.countEnrollments(c.ID)
	return &cp
}

type fakeUserRepo struct{ *fakeStore }

func (r fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	user.ID, user.CreatedAt = r.tick()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r fakeUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type fakeClassRepo struct{ *fakeStore }

func (r fakeClassRepo) List(_ context.Context) ([]*models.Class, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]*models.Class, 0, len(r.classes))
	for _, c := range r.classes {
		list = append(list, r.withCount(c))
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return list, nil
}

func (r fakeClassRepo) GetByID(_ context.Context, id int64) (*models.Class, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.classes[id]
	if !ok {
		return nil, apperrors.ErrClassNotFound
	}
	return r.withCount(c), nil
}

func (r fakeClassRepo) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.classes[id]
	return ok, nil
}

func (r fakeClassRepo) Create(_ context.Context, class *models.Class) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	class.ID, class.CreatedAt = r.tick()
	class.EnrolledStudents = 0
	cp := *class
	r.classes[class.ID] = &cp
	return nil
}

func (r fakeClassRepo) Update(_ context.Context, class *models.Class) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.classes[class.ID]
	if !ok {
		return 0, nil
	}
	if c.Title == class.Title && c.Instructor == class.Instructor &&
		equalPtr(c.Description, class.Description) &&
		equalPtr(c.DurationHours, class.DurationHours) &&
		equalPtr(c.MaxStudents, class.MaxStudents) {
		return 0, nil
	}
	c.Title, c.Description, c.Instructor = class.Title, class.Description, class.Instructor
	c.DurationHours, c.MaxStudents = class.DurationHours, class.MaxStudents
	return 1, nil
}

func (r fakeClassRepo) Delete(_ context.Context, id int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.classes[id]; !ok {
		return 0, apperrors.ErrClassNotFound
	}
	var removed int64
	for eid, e := range r.enrollments {
		if e.ClassID == id {
			delete(r.enrollments, eid)
			removed++
		}
	}
	delete(r.classes, id)
	return removed, nil
}

type fakeEnrollmentRepo struct{ *fakeStore }

func (r fakeEnrollmentRepo) Enroll(_ context.Context, userID, classID int64) (*models.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.classes[classID]
	if !ok {
		return nil, apperrors.ErrClassNotFound
	}
	for _, e := range r.enrollments {
		if e.UserID == userID && e.ClassID == classID {
			return nil, apperrors.ErrAlreadyEnrolled
		}
	}
	if r.withCount(c).IsFull() {
		return nil, apperrors.ErrClassFull
	}
	if _, ok := r.users[userID]; !ok {
		return nil, apperrors.ErrUserNotFound
	}
	id, at := r.tick()
	e := &models.Enrollment{ID: id, UserID: userID, ClassID: classID, EnrolledAt: at}
	r.enrollments[id] = e
	cp := *e
	return &cp, nil
}

func (r fakeEnrollmentRepo) ListClassesByUser(_ context.Context, userID int64) ([]*models.EnrolledClass, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var mine []*models.Enrollment
	for _, e := range r.enrollments {
		if e.UserID == userID {
			mine = append(mine, e)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].EnrolledAt.After(mine[j].EnrolledAt) })

	list := make([]*models.EnrolledClass, 0, len(mine))
	for _, e := range mine {
		list = append(list, &models.EnrolledClass{
			Class:      *r.withCount(r.classes[e.ClassID]),
			EnrolledAt: e.EnrolledAt,
		})
	}
	return list, nil
}

func (r fakeEnrollmentRepo) Delete(_ context.Context, userID, classID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.enrollments {
		if e.UserID == userID && e.ClassID == classID {
			delete(r.enrollments, id)
			return nil
		}
	}
	return apperrors.ErrEnrollmentNotFound
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
