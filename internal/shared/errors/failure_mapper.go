package errors

import (
	"errors"

	"github.com/Apurer/go-marketplace-api/internal/shared/failure"
)

var kindProblems = map[failure.Kind]ProblemDetail{
	failure.KindNotFound:          ErrNotFound,
	failure.KindInsufficientStock: ErrInsufficientStock,
	failure.KindEmptyOrder:        ErrEmptyOrder,
	failure.KindInvalidInput:      ErrValidation,
	failure.KindStoreNotApproved:  ErrStoreNotApproved,
	failure.KindDuplicateStore:    ErrDuplicateStore,
	failure.KindNoStore:           ErrNoStore,
	failure.KindNotAuthorized:     ErrForbidden,
	failure.KindUnauthenticated:   ErrUnauthorized,
	failure.KindConflict:          ErrConflict,
}

// MapFailure is an ErrorMapper translating failure kinds into problems.
func MapFailure(err error) (ProblemDetail, bool) {
	var f *failure.Error
	if !errors.As(err, &f) {
		return ProblemDetail{}, false
	}
	problem, ok := kindProblems[f.Kind]
	if !ok {
		return ProblemDetail{}, false
	}
	problem = problem.WithDetail(f.Error()).WithExtension("kind", string(f.Kind))
	if f.Entity != "" {
		problem = problem.WithExtension("resourceType", f.Entity)
	}
	if f.ID != "" {
		problem = problem.WithExtension("identifier", f.ID)
	}
	if f.Kind == failure.KindInsufficientStock {
		problem = problem.
			WithExtension("requested", f.Requested).
			WithExtension("available", f.Available)
	}
	return problem, true
}

// NewFailureResponder returns a responder that understands failure kinds.
func NewFailureResponder(baseURI string, mappers ...ErrorMapper) *ChainedResponder {
	return NewChainedResponder(baseURI, append([]ErrorMapper{MapFailure}, mappers...)...)
}
