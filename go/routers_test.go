package marketplaceserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartcatalog "github.com/Apurer/go-marketplace-api/internal/domains/carts/adapters/catalog"
	cartmemory "github.com/Apurer/go-marketplace-api/internal/domains/carts/adapters/memory"
	cartapp "github.com/Apurer/go-marketplace-api/internal/domains/carts/application"
	catalogmemory "github.com/Apurer/go-marketplace-api/internal/domains/catalog/adapters/memory"
	"github.com/Apurer/go-marketplace-api/internal/domains/catalog/adapters/storeaccess"
	catalogapp "github.com/Apurer/go-marketplace-api/internal/domains/catalog/application"
	ordercatalog "github.com/Apurer/go-marketplace-api/internal/domains/orders/adapters/catalog"
	ordermemory "github.com/Apurer/go-marketplace-api/internal/domains/orders/adapters/memory"
	orderworkflows "github.com/Apurer/go-marketplace-api/internal/domains/orders/adapters/workflows"
	orderapp "github.com/Apurer/go-marketplace-api/internal/domains/orders/application"
	storememory "github.com/Apurer/go-marketplace-api/internal/domains/stores/adapters/memory"
	storeapp "github.com/Apurer/go-marketplace-api/internal/domains/stores/application"
	usermemory "github.com/Apurer/go-marketplace-api/internal/domains/users/adapters/memory"
	"github.com/Apurer/go-marketplace-api/internal/domains/users/adapters/security"
	userapp "github.com/Apurer/go-marketplace-api/internal/domains/users/application"
	userports "github.com/Apurer/go-marketplace-api/internal/domains/users/ports"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin-secret"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := userapp.NewService(usermemory.NewRepository(), usermemory.NewSessionStore(time.Hour), security.NewBcryptHasher(4))
	_, err := users.EnsureAdmin(context.Background(), userports.RegisterInput{Name: "Admin", Email: adminEmail, Password: adminPassword})
	require.NoError(t, err)

	storeRepo := storememory.NewRepository()
	guard := storeapp.NewGuard(storeRepo)
	stores := storeapp.NewService(storeRepo, guard)

	products := catalogmemory.NewProductRepository()
	catalog := catalogapp.NewService(products, catalogmemory.NewCategoryRepository(), storeaccess.New(guard))
	carts := cartapp.NewService(cartmemory.NewRepository(), cartcatalog.NewLookup(products))
	orders := orderapp.NewService(ordermemory.NewRepository(), ordercatalog.New(products),
		orderapp.WithIdempotencyStore(ordermemory.NewIdempotencyStore()))

	router := NewRouter(ApiHandleFunctions{
		AuthAPI:    NewAuthAPI(users),
		StoreAPI:   NewStoreAPI(stores),
		CatalogAPI: NewCatalogAPI(catalog),
		CartAPI:    NewCartAPI(carts),
		OrderAPI:   NewOrderAPI(orders, orderworkflows.NewInlineOrderWorkflows(orders), stores),
		Metrics:    http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("# metrics")) }),
	})
	return &testServer{t: t, router: router}
}

func (s *testServer) do(method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) decode(rec *httptest.ResponseRecorder, out any) {
	s.t.Helper()
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), out))
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	var session struct {
		Token string `json:"token"`
	}
	s.decode(rec, &session)
	return session.Token
}

func (s *testServer) register(name, email string) string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{"name": name, "email": email, "password": "secret-pass"})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	return s.login(email, "secret-pass")
}

// openApprovedStore registers a seller, opens a store and has the admin approve it.
func (s *testServer) openApprovedStore(name, email string) (token, storeID string) {
	s.t.Helper()
	token = s.register(name, email)
	rec := s.do(http.MethodPost, "/api/stores", token, map[string]string{"name": name + " Shop"})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	var store struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	s.decode(rec, &store)
	assert.Equal(s.t, "PENDING", store.Status)

	admin := s.login(adminEmail, adminPassword)
	rec = s.do(http.MethodPatch, "/api/stores/"+store.ID+"/approve", admin, nil)
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	return token, store.ID
}

func (s *testServer) createProduct(token string, price string, stock int) string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/products", token, map[string]any{"name": "Lamp", "price": price, "stock": stock})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	var product struct {
		ID string `json:"id"`
	}
	s.decode(rec, &product)
	return product.ID
}

type problem struct {
	Status     int            `json:"status"`
	Message    string         `json:"message"`
	Extensions map[string]any `json:"extensions"`
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/healthz", "", nil).Code)
	rec := s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "# metrics")
}

func TestAuth_RequiresBearerToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	rec = s.do(http.MethodGet, "/api/auth/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := s.register("Ana", "ana@example.com")
	rec = s.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	s.decode(rec, &me)
	assert.Equal(t, "ana@example.com", me.Email)
	assert.Equal(t, "customer", me.Role)

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodPost, "/api/auth/logout", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/auth/me", token, nil).Code)
}

func TestStores_ApprovalIsAdminOnly(t *testing.T) {
	s := newTestServer(t)
	seller := s.register("Bo", "bo@example.com")

	rec := s.do(http.MethodPost, "/api/stores", seller, map[string]string{"name": "Bo Shop"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var store struct {
		ID string `json:"id"`
	}
	s.decode(rec, &store)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPatch, "/api/stores/"+store.ID+"/approve", seller, nil).Code)

	var listed []map[string]any
	s.decode(s.do(http.MethodGet, "/api/stores", "", nil), &listed)
	assert.Empty(t, listed)

	admin := s.login(adminEmail, adminPassword)
	s.decode(s.do(http.MethodGet, "/api/stores?status=pending", admin, nil), &listed)
	assert.Len(t, listed, 1)

	rec = s.do(http.MethodPost, "/api/products", seller, map[string]any{"name": "Lamp", "price": "10.00", "stock": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var p problem
	s.decode(rec, &p)
	assert.Equal(t, "STORE_NOT_APPROVED", p.Extensions["kind"])

	rec = s.do(http.MethodPost, "/api/stores", seller, map[string]string{"name": "Second"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProducts_OwnershipEnforced(t *testing.T) {
	s := newTestServer(t)
	owner, storeID := s.openApprovedStore("Cy", "cy@example.com")
	productID := s.createProduct(owner, "12.50", 3)

	stranger, _ := s.openApprovedStore("Di", "di@example.com")
	rec := s.do(http.MethodPut, "/api/products/"+productID, stranger, map[string]any{"stock": 100})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodDelete, "/api/products/"+productID, stranger, nil).Code)

	buyer := s.register("Ed", "ed@example.com")
	rec = s.do(http.MethodPost, "/api/products", buyer, map[string]any{"name": "X", "price": "1", "stock": 1})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var products []struct {
		ID    string  `json:"id"`
		Price float64 `json:"price"`
		Stock int     `json:"stock"`
	}
	s.decode(s.do(http.MethodGet, "/api/products?store="+storeID, "", nil), &products)
	require.Len(t, products, 1)
	assert.Equal(t, 12.5, products[0].Price)
	assert.Equal(t, 3, products[0].Stock)

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/api/products/"+productID, owner, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/products/"+productID, "", nil).Code)
}

func TestCategories_AdminCRUD(t *testing.T) {
	s := newTestServer(t)
	user := s.register("Fa", "fa@example.com")
	admin := s.login(adminEmail, adminPassword)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/api/categories", user, map[string]string{"name": "Home"}).Code)
	rec := s.do(http.MethodPost, "/api/categories", admin, map[string]string{"name": "Home"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var category struct {
		ID string `json:"id"`
	}
	s.decode(rec, &category)

	rec = s.do(http.MethodPut, "/api/categories/"+category.ID, admin, map[string]string{"name": "Home & Garden"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/categories/"+category.ID, "", nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/api/categories/"+category.ID, admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/categories/"+category.ID, "", nil).Code)
}

func TestCart_SyncAddsQuantities(t *testing.T) {
	s := newTestServer(t)
	seller, _ := s.openApprovedStore("Gi", "gi@example.com")
	productID := s.createProduct(seller, "5", 10)
	buyer := s.register("Ho", "ho@example.com")

	items := map[string]any{"items": []map[string]any{{"product": productID, "quantity": 2}}}
	require.Equal(t, http.StatusOK, s.do(http.MethodPut, "/api/cart", buyer, items).Code)

	rec := s.do(http.MethodPost, "/api/cart/sync", buyer, items)
	require.Equal(t, http.StatusOK, rec.Code)
	var cart struct {
		Items []struct {
			Product  string `json:"product"`
			Quantity int    `json:"quantity"`
		} `json:"items"`
	}
	s.decode(rec, &cart)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 4, cart.Items[0].Quantity)

	missing := map[string]any{"items": []map[string]any{{"product": "nope", "quantity": 1}}}
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPut, "/api/cart", buyer, missing).Code)

	rec = s.do(http.MethodDelete, "/api/cart", buyer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	s.decode(rec, &cart)
	assert.Empty(t, cart.Items)
}

func TestOrders_PlaceTrackAndAuthorize(t *testing.T) {
	s := newTestServer(t)
	seller, _ := s.openApprovedStore("Io", "io@example.com")
	productID := s.createProduct(seller, "19.90", 5)
	buyer := s.register("Jo", "jo@example.com")
	address := map[string]string{"address": "Main St 1", "city": "Porto", "postalCode": "4000", "country": "PT"}

	rec := s.do(http.MethodPost, "/api/orders", buyer, map[string]any{
		"items":           []map[string]any{{"product": productID, "quantity": 2}},
		"shippingAddress": address,
	}, IdempotencyKeyHeader, "checkout-1")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var order struct {
		ID            string      `json:"id"`
		Status        string      `json:"status"`
		Total         json.Number `json:"total"`
		PaymentResult *struct {
			Status string `json:"status"`
		} `json:"paymentResult"`
		StatusHistory []struct {
			Status    string `json:"status"`
			UpdatedBy string `json:"updatedBy"`
		} `json:"statusHistory"`
	}
	s.decode(rec, &order)
	assert.Equal(t, "PAID", order.Status)
	assert.Equal(t, "39.8", order.Total.String())
	require.NotNil(t, order.PaymentResult)
	assert.Equal(t, "COMPLETED", order.PaymentResult.Status)

	replay := s.do(http.MethodPost, "/api/orders", buyer, map[string]any{
		"items":           []map[string]any{{"product": productID, "quantity": 2}},
		"shippingAddress": address,
	}, IdempotencyKeyHeader, "checkout-1")
	require.Equal(t, http.StatusCreated, replay.Code)
	var replayed struct {
		ID string `json:"id"`
	}
	s.decode(replay, &replayed)
	assert.Equal(t, order.ID, replayed.ID)

	rec = s.do(http.MethodPost, "/api/orders", buyer, map[string]any{
		"items":           []map[string]any{{"product": productID, "quantity": 4}},
		"shippingAddress": address,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var p problem
	s.decode(rec, &p)
	assert.Equal(t, "INSUFFICIENT_STOCK", p.Extensions["kind"])
	assert.Equal(t, "insufficient stock for Lamp: requested 4, available 3", p.Message)

	rec = s.do(http.MethodPost, "/api/orders", buyer, map[string]any{"items": []any{}, "shippingAddress": address})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	s.decode(rec, &p)
	assert.Equal(t, "EMPTY_ORDER", p.Extensions["kind"])

	stranger := s.register("Ka", "ka@example.com")
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/orders/"+order.ID, stranger, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPatch, "/api/orders/"+order.ID+"/status", buyer, map[string]string{"status": "SHIPPED"}).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/orders/"+order.ID, buyer, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/orders/"+order.ID, seller, nil).Code)

	rec = s.do(http.MethodPatch, "/api/orders/"+order.ID+"/status", seller, map[string]string{"status": "SHIPPED"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	s.decode(rec, &order)
	assert.Equal(t, "SHIPPED", order.Status)
	require.Len(t, order.StatusHistory, 2)
	assert.Equal(t, "SHIPPED", order.StatusHistory[1].Status)

	rec = s.do(http.MethodPatch, "/api/orders/"+order.ID+"/status", seller, map[string]string{"status": "LOST"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var listed []map[string]any
	s.decode(s.do(http.MethodGet, "/api/orders/mine", buyer, nil), &listed)
	assert.Len(t, listed, 1)
	s.decode(s.do(http.MethodGet, "/api/orders/store", seller, nil), &listed)
	assert.Len(t, listed, 1)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/orders/store", stranger, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/orders", buyer, nil).Code)
	admin := s.login(adminEmail, adminPassword)
	s.decode(s.do(http.MethodGet, "/api/orders", admin, nil), &listed)
	assert.Len(t, listed, 1)

	var product struct {
		Stock int `json:"stock"`
	}
	s.decode(s.do(http.MethodGet, "/api/products/"+productID, "", nil), &product)
	assert.Equal(t, 3, product.Stock)
}

func TestOrders_IdempotencyKeysArePerUser(t *testing.T) {
	s := newTestServer(t)
	seller, _ := s.openApprovedStore("Io", "io@example.com")
	productID := s.createProduct(seller, "100", 5)
	address := map[string]string{"address": "Main St 1", "city": "Porto", "postalCode": "4000", "country": "PT"}
	body := map[string]any{
		"items":           []map[string]any{{"product": productID, "quantity": 2}},
		"shippingAddress": address,
	}

	first := s.do(http.MethodPost, "/api/orders", s.register("Jo", "jo@example.com"), body, IdempotencyKeyHeader, "checkout-1")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	second := s.do(http.MethodPost, "/api/orders", s.register("Ka", "ka@example.com"), body, IdempotencyKeyHeader, "checkout-1")
	require.Equal(t, http.StatusCreated, second.Code, second.Body.String())

	var a, b map[string]any
	s.decode(first, &a)
	s.decode(second, &b)
	assert.NotEqual(t, a["id"], b["id"])
	assert.NotEqual(t, a["user"], b["user"])
	assert.Equal(t, 200.0, a["total"])
	assert.NotContains(t, a, "totalAmount")

	var product struct {
		Stock int `json:"stock"`
	}
	s.decode(s.do(http.MethodGet, "/api/products/"+productID, "", nil), &product)
	assert.Equal(t, 1, product.Stock)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer  abc "))
	assert.Equal(t, "", bearerToken("Basic abc"))
	assert.Equal(t, "", bearerToken(""))
}
