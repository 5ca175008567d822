package domain

import (
	"errors"
	"strings"
	"time"
)

// Status enumerates the onboarding state of a store.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

var (
	ErrEmptyName         = errors.New("store name is required")
	ErrEmptyOwner        = errors.New("store owner is required")
	ErrInvalidStatus     = errors.New("store status is invalid")
	ErrInvalidTransition = errors.New("only pending stores can be approved or rejected")
)

// Store is a seller storefront. A user owns at most one store.
type Store struct {
	ID          string
	Name        string
	Description string
	OwnerID     string
	Status      Status
	CreatedAt   time.Time
}

// NewStore builds a pending store.
func NewStore(id, ownerID, name, description string) (*Store, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, ErrEmptyOwner
	}
	store := &Store{ID: id, OwnerID: ownerID, Status: StatusPending}
	if err := store.Rename(name); err != nil {
		return nil, err
	}
	store.Describe(description)
	return store, nil
}

// Rename trims and validates the store name.
func (s *Store) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	s.Name = name
	return nil
}

// Describe replaces the free-form description.
func (s *Store) Describe(description string) {
	s.Description = strings.TrimSpace(description)
}

// Approve moves a pending store to APPROVED.
func (s *Store) Approve() error {
	return s.transition(StatusApproved)
}

// Reject moves a pending store to REJECTED.
func (s *Store) Reject() error {
	return s.transition(StatusRejected)
}

// CanList reports whether the store may publish products.
func (s *Store) CanList() bool {
	return s != nil && s.Status == StatusApproved
}

func (s *Store) transition(to Status) error {
	if s.Status != StatusPending {
		return ErrInvalidTransition
	}
	s.Status = to
	return nil
}

// Validate enforces invariants on the aggregate.
func (s *Store) Validate() error {
	if strings.TrimSpace(s.OwnerID) == "" {
		return ErrEmptyOwner
	}
	if err := s.Rename(s.Name); err != nil {
		return err
	}
	if !IsValidStatus(s.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// IsValidStatus reports whether status is a known value.
func IsValidStatus(status Status) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}
