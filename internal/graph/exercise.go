package graph

import "github.com/mansoorceksport/gymgraph/internal/domain"

type exerciseResolver struct {
	e *domain.Exercise
}

func (r *exerciseResolver) Name() string {
	return r.e.Name
}

func (r *exerciseResolver) Description() *string {
	return r.e.Description
}

func (r *exerciseResolver) PrimaryMuscle() string {
	return r.e.PrimaryMuscle
}

// SecondaryMuscles is null when the document has no list, keeping
// "absent" distinct from "empty".
func (r *exerciseResolver) SecondaryMuscles() *[]*string {
	if r.e.SecondaryMuscles == nil {
		return nil
	}
	muscles := make([]*string, len(r.e.SecondaryMuscles))
	for i := range r.e.SecondaryMuscles {
		muscles[i] = &r.e.SecondaryMuscles[i]
	}
	return &muscles
}
