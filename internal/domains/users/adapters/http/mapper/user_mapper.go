package mapper

import (
	"time"

	userdomain "github.com/Apurer/go-marketplace-api/internal/domains/users/domain"
	userports "github.com/Apurer/go-marketplace-api/internal/domains/users/ports"
)

// RegisterRequest is the transport payload for account creation.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest is the transport payload for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// User is the public user representation; the password hash never leaves the service.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is returned after login.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ToRegisterInput converts the transport payload into the service input.
func ToRegisterInput(req RegisterRequest) userports.RegisterInput {
	return userports.RegisterInput{Name: req.Name, Email: req.Email, Password: req.Password}
}

// FromDomainUser converts a domain user into a transport representation.
func FromDomainUser(user *userdomain.User) User {
	if user == nil {
		return User{}
	}
	return User{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
}

// FromSession converts a login result.
func FromSession(session *userports.Session) Session {
	if session == nil {
		return Session{}
	}
	return Session{Token: session.Token, User: FromDomainUser(session.User)}
}
