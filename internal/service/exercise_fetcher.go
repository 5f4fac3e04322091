package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mansoorceksport/gymgraph/internal/domain"
	"github.com/mansoorceksport/gymgraph/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "gymgraph/service"

var fetchCounter, _ = otel.Meter(instrumentationName).Int64Counter(
	"gymgraph.exercise.fetches",
	metric.WithDescription("Exercise fetches by result"),
)

// Querier is the part of the document store the fetcher needs
type Querier interface {
	Query(ctx context.Context, q repository.StoreQuery) (*repository.StoreResponse, error)
}

// ExerciseFetcher turns "exercise by id" into a store query and maps the
// answer back to a domain.Exercise. Results are returned, never kept on the
// fetcher, so one instance is safe for concurrent use.
type ExerciseFetcher struct {
	store  Querier
	logger *zap.Logger
}

// NewExerciseFetcher creates a fetcher over store. A nil logger discards logs.
func NewExerciseFetcher(store Querier, logger *zap.Logger) *ExerciseFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExerciseFetcher{
		store:  store,
		logger: logger,
	}
}

// GetExercise fetches one exercise. Failures come back as *domain.FetchError:
// errors.Is(err, domain.ErrNotFound) for a missing document,
// errors.Is(err, domain.ErrStoreQuery) when the store call itself failed.
func (f *ExerciseFetcher) GetExercise(ctx context.Context, exerciseID string) (*domain.Exercise, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "exercise.fetch",
		trace.WithAttributes(attribute.String("exercise.id", exerciseID)),
	)
	defer span.End()

	ex, err := f.fetch(ctx, exerciseID)
	result := "ok"
	if err != nil {
		result = resultLabel(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	fetchCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
	return ex, err
}

func (f *ExerciseFetcher) fetch(ctx context.Context, exerciseID string) (*domain.Exercise, error) {
	const op = "GetExercise"

	if exerciseID == "" {
		return nil, &domain.FetchError{Op: op, ID: exerciseID, Err: domain.ErrInvalidID}
	}

	resp, err := f.store.Query(ctx, repository.StoreQuery{
		Collection: domain.ExerciseCollection,
		ID:         exerciseID,
		Fields:     domain.ExerciseFields,
	})
	if err != nil {
		f.logger.Error("exercise query failed",
			zap.String("exercise_id", exerciseID),
			zap.Error(err),
		)
		return nil, domain.NewStoreQueryError(op, exerciseID, err)
	}

	if resp == nil || len(resp.Data) == 0 {
		f.logger.Debug("exercise not found", zap.String("exercise_id", exerciseID))
		return nil, &domain.FetchError{Op: op, ID: exerciseID, Err: domain.ErrExerciseNotFound}
	}

	var doc exerciseDocument
	if err := bson.Unmarshal(resp.Data, &doc); err != nil {
		f.logger.Warn("exercise document could not be decoded",
			zap.String("exercise_id", exerciseID),
			zap.Error(err),
		)
		return nil, &domain.FetchError{Op: op, ID: exerciseID, Err: fmt.Errorf("%w: %v", domain.ErrMalformedExercise, err)}
	}
	ex := doc.toDomain(exerciseID)
	if err := ex.Validate(); err != nil {
		f.logger.Warn("exercise document is incomplete",
			zap.String("exercise_id", exerciseID),
			zap.Error(err),
		)
		return nil, &domain.FetchError{Op: op, ID: exerciseID, Err: err}
	}

	return ex, nil
}

// exerciseDocument mirrors the stored fields; _id is left out because store
// ids are opaque and may not decode as strings.
type exerciseDocument struct {
	Name             string   `bson:"name"`
	Description      *string  `bson:"description"`
	PrimaryMuscle    string   `bson:"primaryMuscle"`
	SecondaryMuscles []string `bson:"secondaryMuscles"`
}

func (d exerciseDocument) toDomain(id string) *domain.Exercise {
	return &domain.Exercise{
		ID:               id,
		Name:             d.Name,
		Description:      d.Description,
		PrimaryMuscle:    d.PrimaryMuscle,
		SecondaryMuscles: d.SecondaryMuscles,
	}
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrStoreQuery):
		return "store_error"
	case errors.Is(err, domain.ErrInvalidID):
		return "invalid_id"
	default:
		return "malformed"
	}
}
