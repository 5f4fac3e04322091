package handler

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	graphql "github.com/graph-gophers/graphql-go"
	gqlerrors "github.com/graph-gophers/graphql-go/errors"
	"github.com/mansoorceksport/gymgraph/internal/repository"
	"go.uber.org/zap"
)

// PersistedQueryStore resolves automatic persisted query hashes
type PersistedQueryStore interface {
	Get(ctx context.Context, hash string) (string, error)
	Set(ctx context.Context, hash, query string) error
}

// GraphQLRequest is the body of a GraphQL over HTTP request
type GraphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
	Extensions    struct {
		PersistedQuery *struct {
			Version    int    `json:"version"`
			Sha256Hash string `json:"sha256Hash"`
		} `json:"persistedQuery"`
	} `json:"extensions"`
}

const (
	codePersistedQueryNotFound = "PERSISTED_QUERY_NOT_FOUND"
	codeBadRequest             = "BAD_REQUEST"
)

type GraphQLHandler struct {
	schema  *graphql.Schema
	queries PersistedQueryStore // nil disables persisted queries
	logger  *zap.Logger
}

func NewGraphQLHandler(schema *graphql.Schema, queries PersistedQueryStore, logger *zap.Logger) *GraphQLHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GraphQLHandler{
		schema:  schema,
		queries: queries,
		logger:  logger,
	}
}

// Serve handles GET and POST /graphql
func (h *GraphQLHandler) Serve(c *fiber.Ctx) error {
	req, err := h.parseRequest(c)
	if err != nil {
		return requestError(c, fiber.StatusBadRequest, codeBadRequest, err.Error())
	}

	ctx := c.UserContext()

	if pq := req.Extensions.PersistedQuery; pq != nil {
		if h.queries == nil {
			return requestError(c, fiber.StatusOK, "PERSISTED_QUERY_NOT_SUPPORTED", "PersistedQueryNotSupported")
		}
		if req.Query == "" {
			query, err := h.queries.Get(ctx, pq.Sha256Hash)
			if err != nil {
				if !errors.Is(err, repository.ErrCacheMiss) {
					h.logger.Warn("persisted query lookup failed", zap.String("hash", pq.Sha256Hash), zap.Error(err))
				}
				return requestError(c, fiber.StatusOK, codePersistedQueryNotFound, "PersistedQueryNotFound")
			}
			req.Query = query
		} else {
			if repository.HashQuery(req.Query) != pq.Sha256Hash {
				return requestError(c, fiber.StatusBadRequest, codeBadRequest, "provided sha does not match query")
			}
			if err := h.queries.Set(ctx, pq.Sha256Hash, req.Query); err != nil {
				h.logger.Warn("failed to persist query", zap.String("hash", pq.Sha256Hash), zap.Error(err))
			}
		}
	}

	if req.Query == "" {
		return requestError(c, fiber.StatusBadRequest, codeBadRequest, "query is required")
	}

	resp := h.schema.Exec(ctx, req.Query, req.OperationName, req.Variables)
	return c.JSON(resp)
}

func (h *GraphQLHandler) parseRequest(c *fiber.Ctx) (*GraphQLRequest, error) {
	var req GraphQLRequest

	if c.Method() == fiber.MethodGet {
		req.Query = c.Query("query")
		req.OperationName = c.Query("operationName")
		if v := c.Query("variables"); v != "" {
			if err := json.Unmarshal([]byte(v), &req.Variables); err != nil {
				return nil, errors.New("variables must be a JSON object")
			}
		}
		if ext := c.Query("extensions"); ext != "" {
			if err := json.Unmarshal([]byte(ext), &req.Extensions); err != nil {
				return nil, errors.New("extensions must be a JSON object")
			}
		}
		return &req, nil
	}

	if err := c.BodyParser(&req); err != nil {
		return nil, errors.New("request body must be a JSON GraphQL request")
	}
	return &req, nil
}

func requestError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(&graphql.Response{
		Errors: []*gqlerrors.QueryError{{
			Message:    message,
			Extensions: map[string]interface{}{"code": code},
		}},
	})
}
