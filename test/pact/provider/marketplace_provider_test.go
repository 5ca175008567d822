//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	marketplaceserver "github.com/Apurer/go-marketplace-api/go"
	cartcatalog "github.com/Apurer/go-marketplace-api/internal/domains/carts/adapters/catalog"
	cartmemory "github.com/Apurer/go-marketplace-api/internal/domains/carts/adapters/memory"
	cartapp "github.com/Apurer/go-marketplace-api/internal/domains/carts/application"
	catalogmemory "github.com/Apurer/go-marketplace-api/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Apurer/go-marketplace-api/internal/domains/catalog/adapters/observability"
	"github.com/Apurer/go-marketplace-api/internal/domains/catalog/adapters/storeaccess"
	catalogapp "github.com/Apurer/go-marketplace-api/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/go-marketplace-api/internal/domains/catalog/domain"
	ordercatalog "github.com/Apurer/go-marketplace-api/internal/domains/orders/adapters/catalog"
	ordermemory "github.com/Apurer/go-marketplace-api/internal/domains/orders/adapters/memory"
	orderworkflows "github.com/Apurer/go-marketplace-api/internal/domains/orders/adapters/workflows"
	orderapp "github.com/Apurer/go-marketplace-api/internal/domains/orders/application"
	storememory "github.com/Apurer/go-marketplace-api/internal/domains/stores/adapters/memory"
	storeapp "github.com/Apurer/go-marketplace-api/internal/domains/stores/application"
	usermemory "github.com/Apurer/go-marketplace-api/internal/domains/users/adapters/memory"
	userobs "github.com/Apurer/go-marketplace-api/internal/domains/users/adapters/observability"
	"github.com/Apurer/go-marketplace-api/internal/domains/users/adapters/security"
	userapp "github.com/Apurer/go-marketplace-api/internal/domains/users/application"
	pacttest "github.com/Apurer/go-marketplace-api/test/pact"
)

func TestMarketplaceProviderPact(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	reset := func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
		app.reset(t)
		return nil, nil
	}
	stateHandlers := models.StateHandlers{
		pacttest.StateCatalogBaseline: reset,
		pacttest.StateUsersBaseline:   reset,
		pacttest.StateProductMissing:  reset,
		pacttest.StateProductExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedProduct(t)
			}
			return nil, nil
		},
	}

	err := pactprovider.NewVerifier().VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset(t)
			return nil
		},
	})
	require.NoError(t, err)
}

// contractProviderApp rebuilds in-memory services on every state change.
type contractProviderApp struct {
	mu       sync.RWMutex
	handler  http.Handler
	products *catalogmemory.ProductRepository
	server   *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{}
	app.reset(t)
	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		handler := app.handler
		app.mu.RUnlock()
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)
	return app
}

func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	users := userobs.New(userapp.NewService(usermemory.NewRepository(), usermemory.NewSessionStore(time.Hour), security.NewBcryptHasher(4)))

	storeRepo := storememory.NewRepository()
	guard := storeapp.NewGuard(storeRepo)
	stores := storeapp.NewService(storeRepo, guard)

	products := catalogmemory.NewProductRepository()
	catalog := catalogobs.New(catalogapp.NewService(products, catalogmemory.NewCategoryRepository(), storeaccess.New(guard)))
	carts := cartapp.NewService(cartmemory.NewRepository(), cartcatalog.NewLookup(products))
	orders := orderapp.NewService(ordermemory.NewRepository(), ordercatalog.New(products),
		orderapp.WithIdempotencyStore(ordermemory.NewIdempotencyStore()))

	router := gin.New()
	router.Use(gin.Recovery())
	router = marketplaceserver.NewRouterWithGinEngine(router, marketplaceserver.ApiHandleFunctions{
		AuthAPI:    marketplaceserver.NewAuthAPI(users),
		StoreAPI:   marketplaceserver.NewStoreAPI(stores),
		CatalogAPI: marketplaceserver.NewCatalogAPI(catalog),
		CartAPI:    marketplaceserver.NewCartAPI(carts),
		OrderAPI:   marketplaceserver.NewOrderAPI(orders, orderworkflows.NewInlineOrderWorkflows(orders), stores),
	})

	a.mu.Lock()
	a.handler = router
	a.products = products
	a.mu.Unlock()
}

func (a *contractProviderApp) seedProduct(t testing.TB) {
	t.Helper()
	product, err := catalogdomain.NewProduct(pacttest.ExistingProductID, pacttest.ExistingStoreID, pacttest.ExampleProductName,
		decimal.RequireFromString(pacttest.ExampleProductPrice), pacttest.ExampleProductStock)
	require.NoError(t, err)
	require.NoError(t, product.ReplaceImages([]string{pacttest.ExampleProductImage}))
	product.CreatedAt = time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)

	a.mu.RLock()
	products := a.products
	a.mu.RUnlock()
	_, err = products.Save(context.Background(), product)
	require.NoError(t, err)
}
