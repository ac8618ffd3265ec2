package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/classhub/internal/app/models"
	appRepos "github.com/yigit/classhub/internal/app/repositories"
)

func ptr[T any](v T) *T { return &v }

// defaultClasses is the sample catalog created on an empty database
func defaultClasses() []*appModels.Class {
	return []*appModels.Class{
		{
			Title:         "Introduction to Go",
			Description:   ptr("Types, interfaces, goroutines and the standard library"),
			Instructor:    "Ada Lovelace",
			DurationHours: ptr(int32(12)),
			MaxStudents:   ptr(int32(30)),
		},
		{
			Title:         "PostgreSQL in Practice",
			Description:   ptr("Schema design, indexes and transactions"),
			Instructor:    "Edgar Codd",
			DurationHours: ptr(int32(8)),
			MaxStudents:   ptr(int32(20)),
		},
		{
			Title:         "Building HTTP APIs",
			Instructor:    "Grace Hopper",
			DurationHours: ptr(int32(10)),
			MaxStudents:   ptr(int32(2)),
		},
	}
}

// CreateDefaultData fills an empty class catalog with sample classes. A
// catalog that already has classes is left untouched.
func CreateDefaultData(ctx context.Context, classRepo appRepos.IClassRepository, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (Classes)...")

	existing, err := classRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("error listing classes: %w", err)
	}
	if len(existing) > 0 {
		lgr.Info().Int("classes", len(existing)).Msg("Class catalog not empty, skipping seed")
		return nil
	}

	var finalErr error
	created := 0
	for _, class := range defaultClasses() {
		if err := classRepo.Create(ctx, class); err != nil {
			lgr.Error().Err(err).Str("title", class.Title).Msg("Error creating default class")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		created++
	}

	lgr.Info().Int("created", created).Msg("Default data check/creation finished.")
	return finalErr
}
