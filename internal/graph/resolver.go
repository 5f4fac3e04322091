package graph

import (
	"context"
	"fmt"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/mansoorceksport/gymgraph/internal/domain"
	"go.uber.org/zap"
)

// Resolver is the root resolver. It holds no per-request state; request
// dependencies arrive through the RequestContext on ctx.
type Resolver struct {
	defaultExerciseID string
	logger            *zap.Logger
}

// NewResolver creates the root resolver. defaultExerciseID is served by
// getExercise when the caller omits an id.
func NewResolver(defaultExerciseID string, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		defaultExerciseID: defaultExerciseID,
		logger:            logger,
	}
}

func (r *Resolver) Books() *[]*bookResolver {
	books := domain.Books()
	res := make([]*bookResolver, 0, len(books))
	for i := range books {
		res = append(res, &bookResolver{b: books[i]})
	}
	return &res
}

func (r *Resolver) GetExercise(ctx context.Context, args struct{ ID *graphql.ID }) (*exerciseResolver, error) {
	rc, ok := RequestContextFrom(ctx)
	if !ok || rc.Exercises == nil {
		r.logger.Error("no request context on resolver context")
		return nil, &QueryError{Message: ErrServerError.Error(), Code: CodeInternal}
	}

	id := r.defaultExerciseID
	if args.ID != nil {
		id = string(*args.ID)
	}

	ex, err := rc.Exercises.GetExercise(ctx, id)
	if err != nil {
		return nil, toQueryError(err)
	}
	return &exerciseResolver{e: ex}, nil
}

// AllRoutines has no backing collection yet and always reports so
func (r *Resolver) AllRoutines(ctx context.Context) ([]*routineResolver, error) {
	return nil, toQueryError(fmt.Errorf("allRoutines: %w", domain.ErrNotImplemented))
}
