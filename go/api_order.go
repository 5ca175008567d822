package marketplaceserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/Apurer/go-marketplace-api/internal/domains/orders/adapters/http/mapper"
	orderdomain "github.com/Apurer/go-marketplace-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-marketplace-api/internal/domains/orders/ports"
	storeports "github.com/Apurer/go-marketplace-api/internal/domains/stores/ports"
	userdomain "github.com/Apurer/go-marketplace-api/internal/domains/users/domain"
	"github.com/Apurer/go-marketplace-api/internal/shared/failure"
)

// IdempotencyKeyHeader optionally makes order placement replayable.
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderAPI implements checkout, order lookup and status tracking endpoints.
type OrderAPI struct {
	service   orderports.Service
	workflows orderports.WorkflowOrchestrator
	stores    storeports.Service
}

// NewOrderAPI wires dependencies. Placement runs through workflows; stores resolves seller access.
func NewOrderAPI(service orderports.Service, workflows orderports.WorkflowOrchestrator, stores storeports.Service) OrderAPI {
	return OrderAPI{service: service, workflows: workflows, stores: stores}
}

// Post /api/orders
// Place a paid order
func (api *OrderAPI) PlaceOrder(c *gin.Context) {
	var payload orderhttpmapper.PlaceOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	input := orderhttpmapper.ToPlaceOrderInput(currentUser(c).ID, strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader)), payload)
	var (
		order *orderdomain.Order
		err   error
	)
	if api.workflows != nil {
		order, err = api.workflows.PlaceOrder(c.Request.Context(), input)
	} else {
		order, err = api.service.PlaceOrder(c.Request.Context(), input)
	}
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderhttpmapper.FromDomainOrder(order))
}

// Get /api/orders/mine
func (api *OrderAPI) ListMyOrders(c *gin.Context) {
	orders, err := api.service.ListForUser(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrders(orders))
}

// Get /api/orders/store
// List orders containing items sold by the caller's store
func (api *OrderAPI) ListStoreOrders(c *gin.Context) {
	storeID, err := api.sellerStore(c.Request.Context(), currentUser(c))
	if err != nil {
		respondFailure(c, err)
		return
	}
	orders, err := api.service.ListForStore(c.Request.Context(), storeID)
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrders(orders))
}

// Get /api/orders
func (api *OrderAPI) ListAllOrders(c *gin.Context) {
	orders, err := api.service.ListAll(c.Request.Context())
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrders(orders))
}

// Get /api/orders/:orderId
// Visible to the buyer, sellers of a line item and admins
func (api *OrderAPI) GetOrder(c *gin.Context) {
	order, err := api.service.GetOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondFailure(c, err)
		return
	}
	user := currentUser(c)
	if order.UserID != user.ID {
		if err := api.authorizeSeller(c.Request.Context(), user, order); err != nil {
			respondFailure(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrder(order))
}

// Patch /api/orders/:orderId/status
// Track a status change; admins and sellers of a line item only
func (api *OrderAPI) UpdateOrderStatus(c *gin.Context) {
	var payload orderhttpmapper.UpdateStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	user := currentUser(c)
	order, err := api.service.GetOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondFailure(c, err)
		return
	}
	if err := api.authorizeSeller(c.Request.Context(), user, order); err != nil {
		respondFailure(c, err)
		return
	}
	updated, err := api.service.UpdateStatus(c.Request.Context(), orderhttpmapper.ToUpdateStatusInput(order.ID, user.ID, payload))
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrder(updated))
}

// authorizeSeller lets admins through and otherwise requires the caller's store to sell an item of order.
func (api *OrderAPI) authorizeSeller(ctx context.Context, user *userdomain.User, order *orderdomain.Order) error {
	if user.IsAdmin() {
		return nil
	}
	storeID, err := api.sellerStore(ctx, user)
	if err != nil {
		if errors.Is(err, failure.ErrNoStore) {
			return failure.NotAuthorized("order", order.ID)
		}
		return err
	}
	if !order.SoldBy(storeID) {
		return failure.NotAuthorized("order", order.ID)
	}
	return nil
}

func (api *OrderAPI) sellerStore(ctx context.Context, user *userdomain.User) (string, error) {
	if api.stores == nil {
		return "", failure.NoStore(user.ID)
	}
	store, err := api.stores.GetMine(ctx, user.ID)
	if err != nil {
		if errors.Is(err, failure.ErrNotFound) {
			return "", failure.NoStore(user.ID)
		}
		return "", err
	}
	return store.ID, nil
}
