package marketplaceserver

import (
	"strings"

	"github.com/gin-gonic/gin"

	userdomain "github.com/Apurer/go-marketplace-api/internal/domains/users/domain"
	userports "github.com/Apurer/go-marketplace-api/internal/domains/users/ports"
	"github.com/Apurer/go-marketplace-api/internal/shared/failure"
)

const (
	currentUserKey  = "marketplace.currentUser"
	sessionTokenKey = "marketplace.sessionToken"
)

// Authenticate resolves the bearer token to a user and stores it on the context.
func Authenticate(users userports.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			respondFailure(c, failure.Unauthenticated("missing bearer token"))
			return
		}
		if users == nil {
			respondFailure(c, failure.Unauthenticated("authentication unavailable"))
			return
		}
		user, err := users.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondFailure(c, err)
			return
		}
		c.Set(currentUserKey, user)
		c.Set(sessionTokenKey, token)
		c.Next()
	}
}

// AuthenticateOptional behaves like Authenticate when an Authorization header is sent
// and lets anonymous requests through otherwise.
func AuthenticateOptional(users userports.Service) gin.HandlerFunc {
	strict := Authenticate(users)
	return func(c *gin.Context) {
		if bearerToken(c.GetHeader("Authorization")) == "" {
			c.Next()
			return
		}
		strict(c)
	}
}

// RequireAdmin rejects non-admin callers. It must run after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			respondFailure(c, failure.Unauthenticated("authentication required"))
			return
		}
		if !user.IsAdmin() {
			respondFailure(c, failure.NotAuthorized("route", c.FullPath()))
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *userdomain.User {
	value, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := value.(*userdomain.User)
	return user
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
