package marketplaceserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	carthttpmapper "github.com/Apurer/go-marketplace-api/internal/domains/carts/adapters/http/mapper"
	cartports "github.com/Apurer/go-marketplace-api/internal/domains/carts/ports"
)

// CartAPI implements the authenticated user's cart endpoints.
type CartAPI struct {
	service cartports.Service
}

// NewCartAPI wires dependencies.
func NewCartAPI(service cartports.Service) CartAPI {
	return CartAPI{service: service}
}

// Get /api/cart
func (api *CartAPI) GetCart(c *gin.Context) {
	cart, err := api.service.Get(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, carthttpmapper.FromDomainCart(cart))
}

// Put /api/cart
// Replace the cart contents
func (api *CartAPI) ReplaceCart(c *gin.Context) {
	var payload carthttpmapper.CartRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	cart, err := api.service.Replace(c.Request.Context(), currentUser(c).ID, carthttpmapper.ToDomainItems(payload))
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, carthttpmapper.FromDomainCart(cart))
}

// Post /api/cart/sync
// Merge a client-side cart into the stored one
func (api *CartAPI) SyncCart(c *gin.Context) {
	var payload carthttpmapper.CartRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	cart, err := api.service.Sync(c.Request.Context(), currentUser(c).ID, carthttpmapper.ToDomainItems(payload))
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, carthttpmapper.FromDomainCart(cart))
}

// Delete /api/cart
func (api *CartAPI) ClearCart(c *gin.Context) {
	cart, err := api.service.Clear(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, carthttpmapper.FromDomainCart(cart))
}
