package application

import (
	"errors"

	"github.com/Apurer/go-marketplace-api/internal/domains/users/domain"
	"github.com/Apurer/go-marketplace-api/internal/domains/users/ports"
	"github.com/Apurer/go-marketplace-api/internal/shared/failure"
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrEmptyEmail) ||
		errors.Is(err, domain.ErrInvalidEmail) ||
		errors.Is(err, domain.ErrEmptyPassword) ||
		errors.Is(err, domain.ErrWeakPassword) ||
		errors.Is(err, domain.ErrInvalidRole) {
		return failure.Invalid(err)
	}
	if errors.Is(err, ports.ErrInvalidCredentials) {
		return failure.Unauthenticated(err.Error())
	}
	if errors.Is(err, ports.ErrSessionNotFound) {
		return failure.Unauthenticated("session expired or invalid")
	}
	return err
}
