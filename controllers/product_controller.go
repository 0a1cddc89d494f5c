package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/middleware"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/models"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/services"
	"github.com/gin-gonic/gin"
)

// ProductController handles HTTP requests for the catalog.
type ProductController struct {
	catalog services.CatalogService
}

func NewProductController(catalog services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// ListProducts handles GET /products?category=&q=&sort=&page=&limit=.
func (pc *ProductController) ListProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	filter := models.ProductFilter{
		Category: strings.TrimSpace(c.Query("category")),
		Query:    strings.TrimSpace(c.Query("q")),
		Sort:     strings.TrimSpace(c.Query("sort")),
		Page:     pageQuery(c),
		Limit:    limit,
	}

	products, meta, svcErr := pc.catalog.ListProducts(c.Request.Context(), filter)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "meta": meta})
}

// ListCategories handles GET /products/categories.
func (pc *ProductController) ListCategories(c *gin.Context) {
	categories, svcErr := pc.catalog.ListCategories(c.Request.Context())
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetProduct handles GET /products/:id and /products/:id/:slug. The slug is
// cosmetic; the id decides.
func (pc *ProductController) GetProduct(c *gin.Context) {
	id, ok := uintParam(c, "id", "product")
	if !ok {
		return
	}
	detail, svcErr := pc.catalog.GetProductDetail(c.Request.Context(), id)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// CreateProduct handles POST /products (staff only).
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	product, svcErr := pc.catalog.CreateProduct(c.Request.Context(), req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": product, "message": "Successfully added product!"})
}

// UpdateProduct handles PUT /products/:id (staff only).
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := uintParam(c, "id", "product")
	if !ok {
		return
	}
	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	product, svcErr := pc.catalog.UpdateProduct(c.Request.Context(), id, req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product, "message": "Successfully updated product!"})
}

// AddReview handles POST /products/:id/reviews.
func (pc *ProductController) AddReview(c *gin.Context) {
	id, ok := uintParam(c, "id", "product")
	if !ok {
		return
	}
	var req models.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	userID := ""
	if user := middleware.CurrentUser(c); user != nil {
		userID = user.ID
	}
	review, svcErr := pc.catalog.AddReview(c.Request.Context(), id, userID, req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": review})
}
