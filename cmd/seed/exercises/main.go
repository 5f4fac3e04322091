package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/mansoorceksport/gymgraph/internal/config"
	"github.com/mansoorceksport/gymgraph/internal/domain"
	"github.com/mansoorceksport/gymgraph/internal/logger"
	"github.com/mansoorceksport/gymgraph/internal/repository"
	"go.uber.org/zap"
)

// inserter is the part of the store the seeder writes through
type inserter interface {
	Insert(ctx context.Context, collection string, doc interface{}) (string, error)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	zl, err := logger.New(cfg.Log.Level, "console")
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, err := repository.Connect(ctx, cfg.MongoDB, nil)
	if err != nil {
		zl.Fatal("Failed to connect to Mongo", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	store := repository.NewMongoStore(client.Database(cfg.MongoDB.Database), cfg.MongoDB.QueryTimeout)
	if err := store.EnsureIndexes(ctx); err != nil {
		zl.Fatal("Failed to create indexes", zap.Error(err))
	}

	created, skipped, failed := seed(ctx, store, library(cfg.Server.DefaultExerciseID), zl)
	zl.Info("Seeding exercises complete",
		zap.Int("created", created),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
	)
}

func seed(ctx context.Context, store inserter, exercises []domain.Exercise, zl *zap.Logger) (created, skipped, failed int) {
	for i := range exercises {
		ex := exercises[i]
		if err := ex.Validate(); err != nil {
			zl.Error("Invalid seed exercise", zap.String("name", ex.Name), zap.Error(err))
			failed++
			continue
		}

		id, err := store.Insert(ctx, domain.ExerciseCollection, &ex)
		switch {
		case errors.Is(err, repository.ErrDuplicateDocument):
			zl.Debug("Skipping duplicate", zap.String("name", ex.Name))
			skipped++
		case err != nil:
			zl.Error("Error creating exercise", zap.String("name", ex.Name), zap.Error(err))
			failed++
		default:
			zl.Info("Created", zap.String("name", ex.Name), zap.String("id", id))
			created++
		}
	}
	return created, skipped, failed
}

func desc(s string) *string { return &s }

// library is the seed exercise set. The first entry takes defaultID so a
// bare getExercise query resolves on a freshly seeded store.
func library(defaultID string) []domain.Exercise {
	return []domain.Exercise{
		// Legs
		{ID: defaultID, Name: "Barbell Squat", Description: desc("Bar on the upper back, squat to depth and stand."), PrimaryMuscle: "Quadriceps", SecondaryMuscles: []string{"Glutes", "Hamstrings", "Lower Back"}},
		{Name: "Leg Press", PrimaryMuscle: "Quadriceps", SecondaryMuscles: []string{"Glutes"}},
		{Name: "Walking Lunge", PrimaryMuscle: "Quadriceps", SecondaryMuscles: []string{"Glutes", "Hamstrings"}},
		{Name: "Leg Extension", PrimaryMuscle: "Quadriceps"},
		{Name: "Lying Leg Curl", PrimaryMuscle: "Hamstrings"},
		{Name: "Romanian Deadlift", Description: desc("Hinge at the hips with soft knees, bar close to the legs."), PrimaryMuscle: "Hamstrings", SecondaryMuscles: []string{"Glutes", "Lower Back"}},
		{Name: "Calf Raise", PrimaryMuscle: "Calves"},
		{Name: "Glute Bridge", PrimaryMuscle: "Glutes", SecondaryMuscles: []string{"Hamstrings"}},

		// Chest
		{Name: "Barbell Bench Press", Description: desc("Lower the bar to mid chest and press to lockout."), PrimaryMuscle: "Chest", SecondaryMuscles: []string{"Triceps", "Front Delts"}},
		{Name: "Incline Dumbbell Press", PrimaryMuscle: "Upper Chest", SecondaryMuscles: []string{"Front Delts", "Triceps"}},
		{Name: "Push Up", PrimaryMuscle: "Chest", SecondaryMuscles: []string{"Triceps", "Core"}},
		{Name: "Cable Fly", PrimaryMuscle: "Chest"},
		{Name: "Dips", PrimaryMuscle: "Chest", SecondaryMuscles: []string{"Triceps"}},

		// Back
		{Name: "Pull Up", PrimaryMuscle: "Lats", SecondaryMuscles: []string{"Biceps", "Rear Delts"}},
		{Name: "Lat Pulldown", PrimaryMuscle: "Lats", SecondaryMuscles: []string{"Biceps"}},
		{Name: "Barbell Row", PrimaryMuscle: "Upper Back", SecondaryMuscles: []string{"Lats", "Biceps"}},
		{Name: "Seated Cable Row", PrimaryMuscle: "Upper Back", SecondaryMuscles: []string{"Lats"}},
		{Name: "Deadlift", Description: desc("Pull the bar from the floor to lockout keeping a neutral spine."), PrimaryMuscle: "Lower Back", SecondaryMuscles: []string{"Glutes", "Hamstrings", "Traps"}},
		{Name: "Face Pull", PrimaryMuscle: "Rear Delts", SecondaryMuscles: []string{"Traps"}},

		// Shoulders
		{Name: "Overhead Press", PrimaryMuscle: "Front Delts", SecondaryMuscles: []string{"Triceps", "Side Delts"}},
		{Name: "Lateral Raise", PrimaryMuscle: "Side Delts"},

		// Arms
		{Name: "Barbell Curl", PrimaryMuscle: "Biceps", SecondaryMuscles: []string{"Forearms"}},
		{Name: "Hammer Curl", PrimaryMuscle: "Brachialis", SecondaryMuscles: []string{"Biceps", "Forearms"}},
		{Name: "Triceps Pushdown", PrimaryMuscle: "Triceps"},

		// Core
		{Name: "Plank", PrimaryMuscle: "Core", SecondaryMuscles: []string{"Shoulders"}},
		{Name: "Hanging Leg Raise", PrimaryMuscle: "Abs", SecondaryMuscles: []string{"Hip Flexors"}},
	}
}
