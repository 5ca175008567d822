package application

import (
	"errors"

	"github.com/Apurer/go-marketplace-api/internal/domains/orders/domain"
	"github.com/Apurer/go-marketplace-api/internal/domains/orders/ports"
	"github.com/Apurer/go-marketplace-api/internal/shared/failure"
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyOrder) {
		return failure.EmptyOrder()
	}
	if errors.Is(err, domain.ErrEmptyUser) ||
		errors.Is(err, domain.ErrEmptyProduct) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrInvalidStatus) {
		return failure.Invalid(err)
	}
	if errors.Is(err, ports.ErrIdempotencyConflict) {
		return failure.Conflict("idempotency key was already used with a different request")
	}
	return err
}
