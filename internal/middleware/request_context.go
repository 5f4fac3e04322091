package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/gymgraph/internal/domain"
	"github.com/mansoorceksport/gymgraph/internal/graph"
	"go.uber.org/zap"
)

// ExerciseReaderFactory builds a fresh exercise reader (and its store
// handle) for one request.
type ExerciseReaderFactory func(logger *zap.Logger) domain.ExerciseReader

// RequestContext is the per-request context hook: every request gets its own
// store handle and fetcher, attached to the user context for resolvers.
func RequestContext(newReader ExerciseReaderFactory, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := RequestIDFrom(c)
		reqLogger := logger.With(zap.String("request_id", requestID))

		rc := &graph.RequestContext{
			RequestID: requestID,
			Exercises: newReader(reqLogger),
			Claims:    ClaimsFrom(c),
		}

		c.SetUserContext(graph.WithRequestContext(c.UserContext(), rc))
		return c.Next()
	}
}
