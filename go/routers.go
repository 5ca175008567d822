package marketplaceserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
	// Access gates the route before HandlerFunc runs.
	Access Access
}

// Access is the caller class a route requires.
type Access int

const (
	Public Access = iota
	// OptionalAuth resolves a bearer token when one is sent.
	OptionalAuth
	Authenticated
	AdminOnly
)

// ApiHandleFunctions groups the handlers for every API section.
type ApiHandleFunctions struct {
	AuthAPI    AuthAPI
	StoreAPI   StoreAPI
	CatalogAPI CatalogAPI
	CartAPI    CartAPI
	OrderAPI   OrderAPI
	// Metrics serves /metrics when set.
	Metrics http.Handler
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.New(), handleFunctions)
}

// NewRouterWithGinEngine adds routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	authenticate := Authenticate(handleFunctions.AuthAPI.service)
	optional := AuthenticateOptional(handleFunctions.AuthAPI.service)
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		handlers := []gin.HandlerFunc{}
		switch route.Access {
		case OptionalAuth:
			handlers = append(handlers, optional)
		case Authenticated:
			handlers = append(handlers, authenticate)
		case AdminOnly:
			handlers = append(handlers, authenticate, RequireAdmin())
		}
		handlers = append(handlers, route.HandlerFunc)
		router.Handle(route.Method, route.Pattern, handlers...)
	}
	return router
}

// DefaultHandleFunc is the default handler for routes without an implementation.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	auth := handleFunctions.AuthAPI
	stores := handleFunctions.StoreAPI
	catalog := handleFunctions.CatalogAPI
	cart := handleFunctions.CartAPI
	orders := handleFunctions.OrderAPI
	return []Route{
		{"Healthz", http.MethodGet, "/healthz", Healthz, Public},
		{"Metrics", http.MethodGet, "/metrics", metricsHandler(handleFunctions.Metrics), Public},

		{"Register", http.MethodPost, "/api/auth/register", auth.Register, Public},
		{"Login", http.MethodPost, "/api/auth/login", auth.Login, Public},
		{"Logout", http.MethodPost, "/api/auth/logout", auth.Logout, Authenticated},
		{"Me", http.MethodGet, "/api/auth/me", auth.Me, Authenticated},

		{"ListStores", http.MethodGet, "/api/stores", stores.ListStores, OptionalAuth},
		{"CreateStore", http.MethodPost, "/api/stores", stores.CreateStore, Authenticated},
		{"GetMyStore", http.MethodGet, "/api/stores/mine", stores.GetMyStore, Authenticated},
		{"GetStore", http.MethodGet, "/api/stores/:storeId", stores.GetStore, Public},
		{"UpdateStore", http.MethodPut, "/api/stores/:storeId", stores.UpdateStore, Authenticated},
		{"ApproveStore", http.MethodPatch, "/api/stores/:storeId/approve", stores.ApproveStore, AdminOnly},
		{"RejectStore", http.MethodPatch, "/api/stores/:storeId/reject", stores.RejectStore, AdminOnly},

		{"ListCategories", http.MethodGet, "/api/categories", catalog.ListCategories, Public},
		{"GetCategory", http.MethodGet, "/api/categories/:categoryId", catalog.GetCategory, Public},
		{"CreateCategory", http.MethodPost, "/api/categories", catalog.CreateCategory, AdminOnly},
		{"UpdateCategory", http.MethodPut, "/api/categories/:categoryId", catalog.UpdateCategory, AdminOnly},
		{"DeleteCategory", http.MethodDelete, "/api/categories/:categoryId", catalog.DeleteCategory, AdminOnly},

		{"ListProducts", http.MethodGet, "/api/products", catalog.ListProducts, Public},
		{"GetProduct", http.MethodGet, "/api/products/:productId", catalog.GetProduct, Public},
		{"CreateProduct", http.MethodPost, "/api/products", catalog.CreateProduct, Authenticated},
		{"UpdateProduct", http.MethodPut, "/api/products/:productId", catalog.UpdateProduct, Authenticated},
		{"DeleteProduct", http.MethodDelete, "/api/products/:productId", catalog.DeleteProduct, Authenticated},

		{"GetCart", http.MethodGet, "/api/cart", cart.GetCart, Authenticated},
		{"ReplaceCart", http.MethodPut, "/api/cart", cart.ReplaceCart, Authenticated},
		{"ClearCart", http.MethodDelete, "/api/cart", cart.ClearCart, Authenticated},
		{"SyncCart", http.MethodPost, "/api/cart/sync", cart.SyncCart, Authenticated},

		{"PlaceOrder", http.MethodPost, "/api/orders", orders.PlaceOrder, Authenticated},
		{"ListMyOrders", http.MethodGet, "/api/orders/mine", orders.ListMyOrders, Authenticated},
		{"ListStoreOrders", http.MethodGet, "/api/orders/store", orders.ListStoreOrders, Authenticated},
		{"ListAllOrders", http.MethodGet, "/api/orders", orders.ListAllOrders, AdminOnly},
		{"GetOrder", http.MethodGet, "/api/orders/:orderId", orders.GetOrder, Authenticated},
		{"UpdateOrderStatus", http.MethodPatch, "/api/orders/:orderId/status", orders.UpdateOrderStatus, Authenticated},
	}
}

// Get /healthz
// Liveness probe
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func metricsHandler(h http.Handler) gin.HandlerFunc {
	if h == nil {
		return func(c *gin.Context) { c.Status(http.StatusNotFound) }
	}
	return gin.WrapH(h)
}
