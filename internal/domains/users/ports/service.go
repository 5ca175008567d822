package ports

import (
	"context"

	"github.com/Apurer/go-marketplace-api/internal/domains/users/domain"
)

// RegisterInput carries the data required to open an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Session is the result of a successful login.
type Session struct {
	Token string
	User  *domain.User
}

// Service exposes user bounded context use cases to adapters.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, token string) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	EnsureAdmin(ctx context.Context, input RegisterInput) (*domain.User, error)
}
