package graph

import (
	"context"

	"github.com/mansoorceksport/gymgraph/internal/domain"
)

type requestContextKey struct{}

// RequestContext bundles the dependencies resolvers may use for one request.
// It is built fresh for every request and never shared.
type RequestContext struct {
	RequestID string
	Exercises domain.ExerciseReader
	Claims    *domain.TokenClaims // nil for anonymous requests
}

// WithRequestContext returns a copy of ctx carrying rc
func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey{}, rc)
}

// RequestContextFrom returns the request context, if any
func RequestContextFrom(ctx context.Context) (*RequestContext, bool) {
	rc, ok := ctx.Value(requestContextKey{}).(*RequestContext)
	return rc, ok && rc != nil
}
