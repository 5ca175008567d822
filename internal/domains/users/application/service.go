package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-marketplace-api/internal/domains/users/domain"
	"github.com/Apurer/go-marketplace-api/internal/domains/users/ports"
	"github.com/Apurer/go-marketplace-api/internal/shared/failure"
)

// Service exposes user bounded context use cases.
type Service struct {
	repo     ports.Repository
	sessions ports.SessionStore
	hasher   ports.PasswordHasher
	now      func() time.Time
	newID    func() string
}

// Option customizes the service.
type Option func(*Service)

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides identifier and token generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func NewService(repo ports.Repository, sessions ports.SessionStore, hasher ports.PasswordHasher, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		sessions: sessions,
		hasher:   hasher,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Register opens a customer account. Emails are unique.
func (s *Service) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	user, err := s.buildUser(input)
	if err != nil {
		return nil, mapError(err)
	}
	if _, err := s.repo.GetByEmail(ctx, user.Email); err == nil {
		return nil, failure.Conflict("email is already registered")
	} else if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	return s.repo.Save(ctx, user)
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, mapError(ports.ErrInvalidCredentials)
		}
		return nil, err
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	token := s.newID()
	if err := s.sessions.Save(ctx, token, user.ID); err != nil {
		return nil, err
	}
	return &ports.Session{Token: token, User: user}, nil
}

// Authenticate resolves a bearer token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, failure.Unauthenticated("missing session token")
	}
	userID, err := s.sessions.Lookup(ctx, token)
	if err != nil {
		return nil, mapError(err)
	}
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, mapError(ports.ErrSessionNotFound)
		}
		return nil, err
	}
	return user, nil
}

// Logout revokes a session token.
func (s *Service) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, failure.NotFound("user", id)
		}
		return nil, err
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap administrator, or promotes the existing
// account registered under the same email.
func (s *Service) EnsureAdmin(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	existing, err := s.repo.GetByEmail(ctx, input.Email)
	switch {
	case err == nil:
		if existing.IsAdmin() {
			return existing, nil
		}
		existing.Promote()
		return s.repo.Save(ctx, existing)
	case !errors.Is(err, ports.ErrNotFound):
		return nil, err
	}
	user, err := s.buildUser(input)
	if err != nil {
		return nil, mapError(err)
	}
	user.Promote()
	return s.repo.Save(ctx, user)
}

func (s *Service) buildUser(input ports.RegisterInput) (*domain.User, error) {
	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	user, err := domain.NewUser(s.newID(), input.Name, input.Email)
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	user.CreatedAt = s.now().UTC()
	return user, nil
}

var _ ports.Service = (*Service)(nil)
