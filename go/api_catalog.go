package marketplaceserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	cataloghttpmapper "github.com/Apurer/go-marketplace-api/internal/domains/catalog/adapters/http/mapper"
	catalogports "github.com/Apurer/go-marketplace-api/internal/domains/catalog/ports"
)

// CatalogAPI implements product and category endpoints.
type CatalogAPI struct {
	service catalogports.Service
}

// NewCatalogAPI wires dependencies.
func NewCatalogAPI(service catalogports.Service) CatalogAPI {
	return CatalogAPI{service: service}
}

// Get /api/products
// List products, optionally by store and category
func (api *CatalogAPI) ListProducts(c *gin.Context) {
	filter := catalogports.ProductFilter{StoreID: c.Query("store"), CategoryID: c.Query("category")}
	products, err := api.service.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromDomainProducts(products))
}

// Get /api/products/:productId
// Find product by ID
func (api *CatalogAPI) GetProduct(c *gin.Context) {
	product, err := api.service.GetProduct(c.Request.Context(), c.Param("productId"))
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromDomainProduct(product))
}

// Post /api/products
// List a product in the caller's approved store
func (api *CatalogAPI) CreateProduct(c *gin.Context) {
	var payload cataloghttpmapper.CreateProductRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	product, err := api.service.CreateProduct(c.Request.Context(), currentUser(c).ID, cataloghttpmapper.ToCreateProductInput(payload))
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusCreated, cataloghttpmapper.FromDomainProduct(product))
}

// Put /api/products/:productId
// Update a product the caller's store owns
func (api *CatalogAPI) UpdateProduct(c *gin.Context) {
	var payload cataloghttpmapper.UpdateProductRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	product, err := api.service.UpdateProduct(c.Request.Context(), currentUser(c).ID, c.Param("productId"), cataloghttpmapper.ToUpdateProductInput(payload))
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromDomainProduct(product))
}

// Delete /api/products/:productId
// Delete a product the caller's store owns
func (api *CatalogAPI) DeleteProduct(c *gin.Context) {
	if err := api.service.DeleteProduct(c.Request.Context(), currentUser(c).ID, c.Param("productId")); err != nil {
		respondFailure(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /api/categories
func (api *CatalogAPI) ListCategories(c *gin.Context) {
	categories, err := api.service.ListCategories(c.Request.Context())
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromDomainCategories(categories))
}

// Get /api/categories/:categoryId
func (api *CatalogAPI) GetCategory(c *gin.Context) {
	category, err := api.service.GetCategory(c.Request.Context(), c.Param("categoryId"))
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromDomainCategory(category))
}

// Post /api/categories
func (api *CatalogAPI) CreateCategory(c *gin.Context) {
	var payload cataloghttpmapper.CategoryRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	category, err := api.service.CreateCategory(c.Request.Context(), cataloghttpmapper.ToCategoryInput(payload))
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusCreated, cataloghttpmapper.FromDomainCategory(category))
}

// Put /api/categories/:categoryId
func (api *CatalogAPI) UpdateCategory(c *gin.Context) {
	var payload cataloghttpmapper.CategoryRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	category, err := api.service.UpdateCategory(c.Request.Context(), c.Param("categoryId"), cataloghttpmapper.ToCategoryInput(payload))
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromDomainCategory(category))
}

// Delete /api/categories/:categoryId
func (api *CatalogAPI) DeleteCategory(c *gin.Context) {
	if err := api.service.DeleteCategory(c.Request.Context(), c.Param("categoryId")); err != nil {
		respondFailure(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
