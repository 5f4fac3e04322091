package graph

import (
	"errors"

	"github.com/mansoorceksport/gymgraph/internal/domain"
)

// Error codes reported under extensions.code
const (
	CodeNotFound         = "NOT_FOUND"
	CodeStoreQueryFailed = "STORE_QUERY_FAILED"
	CodeBadUserInput     = "BAD_USER_INPUT"
	CodeNotImplemented   = "NOT_IMPLEMENTED"
	CodeInternal         = "INTERNAL_SERVER_ERROR"
)

var ErrServerError = errors.New("unexpected server error")

// QueryError is returned from resolvers; graphql-go copies Extensions() into
// the response error.
type QueryError struct {
	Message string
	Code    string
	ID      string
	Cause   string // reported as extensions.cause when set
	err     error
}

func (e *QueryError) Error() string {
	return e.Message
}

func (e *QueryError) Unwrap() error {
	return e.err
}

func (e *QueryError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": e.Code}
	if e.ID != "" {
		ext["id"] = e.ID
	}
	if e.Cause != "" {
		ext["cause"] = e.Cause
	}
	return ext
}

// toQueryError maps fetch failures onto client-facing errors carrying the
// identifier involved.
func toQueryError(err error) error {
	if err == nil {
		return nil
	}

	id := ""
	var fetchErr *domain.FetchError
	if errors.As(err, &fetchErr) {
		id = fetchErr.ID
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return &QueryError{Message: "no such exercise", Code: CodeNotFound, ID: id, err: err}
	case errors.Is(err, domain.ErrInvalidID):
		return &QueryError{Message: "exercise id must not be empty", Code: CodeBadUserInput, ID: id, err: err}
	case errors.Is(err, domain.ErrStoreQuery):
		return &QueryError{
			Message: "exercise store query failed",
			Code:    CodeStoreQueryFailed,
			ID:      id,
			Cause:   rootCause(err).Error(),
			err:     err,
		}
	case errors.Is(err, domain.ErrMalformedExercise):
		return &QueryError{Message: "stored exercise is malformed", Code: CodeInternal, ID: id, err: err}
	case errors.Is(err, domain.ErrNotImplemented):
		return &QueryError{Message: err.Error(), Code: CodeNotImplemented, err: err}
	default:
		return &QueryError{Message: ErrServerError.Error(), Code: CodeInternal, ID: id, err: err}
	}
}

// rootCause follows the wrap chain to the innermost error, taking the last
// branch of joined errors so the ErrStoreQuery sentinel is skipped.
func rootCause(err error) error {
	for {
		switch x := err.(type) {
		case interface{ Unwrap() []error }:
			errs := x.Unwrap()
			if len(errs) == 0 {
				return err
			}
			err = errs[len(errs)-1]
		case interface{ Unwrap() error }:
			next := x.Unwrap()
			if next == nil {
				return err
			}
			err = next
		default:
			return err
		}
	}
}
