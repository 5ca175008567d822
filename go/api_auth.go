package marketplaceserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userhttpmapper "github.com/Apurer/go-marketplace-api/internal/domains/users/adapters/http/mapper"
	userports "github.com/Apurer/go-marketplace-api/internal/domains/users/ports"
)

// AuthAPI implements account registration and session endpoints.
type AuthAPI struct {
	service userports.Service
}

// NewAuthAPI wires dependencies.
func NewAuthAPI(service userports.Service) AuthAPI {
	return AuthAPI{service: service}
}

// Post /api/auth/register
// Register a customer account
func (api *AuthAPI) Register(c *gin.Context) {
	var payload userhttpmapper.RegisterRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	user, err := api.service.Register(c.Request.Context(), userhttpmapper.ToRegisterInput(payload))
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusCreated, userhttpmapper.FromDomainUser(user))
}

// Post /api/auth/login
// Exchange credentials for a session token
func (api *AuthAPI) Login(c *gin.Context) {
	var payload userhttpmapper.LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	session, err := api.service.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromSession(session))
}

// Post /api/auth/logout
// Revoke the current session token
func (api *AuthAPI) Logout(c *gin.Context) {
	if err := api.service.Logout(c.Request.Context(), c.GetString(sessionTokenKey)); err != nil {
		respondFailure(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /api/auth/me
// Return the authenticated user
func (api *AuthAPI) Me(c *gin.Context) {
	c.JSON(http.StatusOK, userhttpmapper.FromDomainUser(currentUser(c)))
}
