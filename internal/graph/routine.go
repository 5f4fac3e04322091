package graph

import (
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/mansoorceksport/gymgraph/internal/domain"
)

// routineResolver binds the Routine type; no query produces routines yet
type routineResolver struct {
	r *domain.Routine
}

func (r *routineResolver) ID() graphql.ID {
	return graphql.ID(r.r.ID)
}

func (r *routineResolver) Name() string {
	return r.r.Name
}

func (r *routineResolver) Exercises() *[]*exerciseResolver {
	res := make([]*exerciseResolver, len(r.r.Exercises))
	for i := range r.r.Exercises {
		res[i] = &exerciseResolver{e: &r.r.Exercises[i]}
	}
	return &res
}
