package services

import (
	"github.com/rs/zerolog"
	"github.com/yigit/classhub/internal/app/repositories"
	"github.com/yigit/classhub/internal/pkg/auth"
)

// Services defined in this package:
// - AuthService: registration, login and the caller's profile
// - ClassService: the class catalog
// - EnrollmentService: enrolling, listing and unenrolling
type Services struct {
	AuthService       AuthService
	ClassService      ClassService
	EnrollmentService EnrollmentService
}

// NewServices wires every service to its repositories
func NewServices(
	repos *repositories.Repositories,
	hasher *auth.PasswordHasher,
	jwtService *auth.JWTService,
	recorder EnrollmentRecorder,
	logger zerolog.Logger,
) *Services {
	return &Services{
		AuthService:       NewAuthService(repos.UserRepository, hasher, jwtService, logger),
		ClassService:      NewClassService(repos.ClassRepository, logger),
		EnrollmentService: NewEnrollmentService(repos.EnrollmentRepository, recorder, logger),
	}
}
