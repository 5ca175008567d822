package marketplaceserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	storehttpmapper "github.com/Apurer/go-marketplace-api/internal/domains/stores/adapters/http/mapper"
	storedomain "github.com/Apurer/go-marketplace-api/internal/domains/stores/domain"
	storeports "github.com/Apurer/go-marketplace-api/internal/domains/stores/ports"
	"github.com/Apurer/go-marketplace-api/internal/shared/failure"
)

// StoreAPI implements store onboarding and approval endpoints.
type StoreAPI struct {
	service storeports.Service
}

// NewStoreAPI wires dependencies.
func NewStoreAPI(service storeports.Service) StoreAPI {
	return StoreAPI{service: service}
}

// Get /api/stores
// List approved stores; admins may filter by any status
func (api *StoreAPI) ListStores(c *gin.Context) {
	approved := storedomain.StatusApproved
	filter := storeports.ListFilter{Status: &approved}
	if user := currentUser(c); user != nil && user.IsAdmin() {
		filter.Status = nil
		if raw := strings.TrimSpace(c.Query("status")); raw != "" {
			status := storedomain.Status(strings.ToUpper(raw))
			switch status {
			case storedomain.StatusPending, storedomain.StatusApproved, storedomain.StatusRejected:
				filter.Status = &status
			default:
				respondFailure(c, failure.Invalid(fmt.Errorf("unknown store status %q", raw)))
				return
			}
		}
	}
	stores, err := api.service.List(c.Request.Context(), filter)
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, storehttpmapper.FromDomainStores(stores))
}

// Post /api/stores
// Open a store for the authenticated user
func (api *StoreAPI) CreateStore(c *gin.Context) {
	var payload storehttpmapper.CreateStoreRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	store, err := api.service.CreateStore(c.Request.Context(), currentUser(c).ID, storehttpmapper.ToCreateInput(payload))
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusCreated, storehttpmapper.FromDomainStore(store))
}

// Get /api/stores/mine
// Return the store owned by the authenticated user
func (api *StoreAPI) GetMyStore(c *gin.Context) {
	store, err := api.service.GetMine(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, storehttpmapper.FromDomainStore(store))
}

// Get /api/stores/:storeId
// Find store by ID
func (api *StoreAPI) GetStore(c *gin.Context) {
	store, err := api.service.GetByID(c.Request.Context(), c.Param("storeId"))
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, storehttpmapper.FromDomainStore(store))
}

// Put /api/stores/:storeId
// Update a store the caller owns
func (api *StoreAPI) UpdateStore(c *gin.Context) {
	var payload storehttpmapper.UpdateStoreRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	store, err := api.service.UpdateStore(c.Request.Context(), currentUser(c).ID, c.Param("storeId"), storehttpmapper.ToUpdateInput(payload))
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, storehttpmapper.FromDomainStore(store))
}

// Patch /api/stores/:storeId/approve
// Approve a pending store
func (api *StoreAPI) ApproveStore(c *gin.Context) {
	store, err := api.service.Approve(c.Request.Context(), c.Param("storeId"))
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, storehttpmapper.FromDomainStore(store))
}

// Patch /api/stores/:storeId/reject
// Reject a pending store
func (api *StoreAPI) RejectStore(c *gin.Context) {
	store, err := api.service.Reject(c.Request.Context(), c.Param("storeId"))
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, storehttpmapper.FromDomainStore(store))
}
