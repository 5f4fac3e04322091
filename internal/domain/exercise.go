package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrExerciseNotFound  = fmt.Errorf("exercise %w", ErrNotFound)
	ErrMalformedExercise = errors.New("exercise document is malformed")
)

// Exercise represents a move in the exercise library
type Exercise struct {
	ID               string   `json:"id" bson:"_id,omitempty"`
	Name             string   `json:"name" bson:"name"` // Unique Index
	Description      *string  `json:"description,omitempty" bson:"description,omitempty"`
	PrimaryMuscle    string   `json:"primaryMuscle" bson:"primaryMuscle"` // e.g., "Quadriceps"
	SecondaryMuscles []string `json:"secondaryMuscles,omitempty" bson:"secondaryMuscles,omitempty"`
}

// Validate reports whether the required fields of a fetched exercise are populated
func (e *Exercise) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("%w: name is empty", ErrMalformedExercise)
	}
	if e.PrimaryMuscle == "" {
		return fmt.Errorf("%w: primaryMuscle is empty", ErrMalformedExercise)
	}
	return nil
}

// ExerciseFields are the document fields requested when fetching an exercise by id
var ExerciseFields = []string{"name", "description", "primaryMuscle", "secondaryMuscles"}

// ExerciseCollection is the store collection holding exercise documents
const ExerciseCollection = "exercises"

type ExerciseReader interface {
	GetExercise(ctx context.Context, id string) (*Exercise, error)
}
