// Package faults carries classified failures across the Temporal boundary.
// Activities encode a failure.Error as a non-retryable application error typed by its
// kind; callers of a workflow decode it back so transport adapters see the same kind.
package faults

import (
	"errors"

	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-marketplace-api/internal/shared/failure"
)

type details struct {
	Entity    string
	ID        string
	Requested int
	Available int
}

// Encode wraps classified failures so Temporal neither retries nor loses them.
// Unclassified errors pass through untouched and keep the activity retry policy.
func Encode(err error) error {
	var fe *failure.Error
	if err == nil || !errors.As(err, &fe) {
		return err
	}
	return temporal.NewNonRetryableApplicationError(fe.Error(), string(fe.Kind), err, details{
		Entity:    fe.Entity,
		ID:        fe.ID,
		Requested: fe.Requested,
		Available: fe.Available,
	})
}

// Decode rebuilds a failure.Error from a workflow or activity error chain.
func Decode(err error) error {
	if err == nil {
		return nil
	}
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) || !known(failure.Kind(appErr.Type())) {
		return err
	}
	out := failure.New(failure.Kind(appErr.Type()), appErr.Message())
	if appErr.HasDetails() {
		var d details
		if detailErr := appErr.Details(&d); detailErr == nil {
			out.Entity = d.Entity
			out.ID = d.ID
			out.Requested = d.Requested
			out.Available = d.Available
		}
	}
	out.Err = err
	return out
}

func known(kind failure.Kind) bool {
	switch kind {
	case failure.KindNotFound,
		failure.KindInsufficientStock,
		failure.KindEmptyOrder,
		failure.KindNoStore,
		failure.KindNotAuthorized,
		failure.KindStoreNotApproved,
		failure.KindDuplicateStore,
		failure.KindInvalidInput,
		failure.KindConflict,
		failure.KindUnauthenticated:
		return true
	default:
		return false
	}
}
