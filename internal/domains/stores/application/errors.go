package application

import (
	"errors"

	"github.com/Apurer/go-marketplace-api/internal/domains/stores/domain"
	"github.com/Apurer/go-marketplace-api/internal/shared/failure"
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrEmptyOwner) ||
		errors.Is(err, domain.ErrInvalidStatus) {
		return failure.Invalid(err)
	}
	if errors.Is(err, domain.ErrInvalidTransition) {
		return failure.Conflict(err.Error())
	}
	return err
}
