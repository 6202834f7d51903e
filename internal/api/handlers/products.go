package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/qalamart/storeapi/internal/domain"
	"github.com/qalamart/storeapi/internal/repository"
	"github.com/qalamart/storeapi/pkg/errors"
)

func productResponse(p *domain.Product) gin.H {
	return gin.H{
		"id":             p.ID,
		"title":          p.Title,
		"description":    p.Description,
		"price":          p.Price,
		"original_price": p.OriginalPrice,
		"image":          p.Image,
		"category":       p.Category,
		"dimensions":     p.Dimensions,
		"medium":         p.Medium,
		"style":          p.Style,
		"in_stock":       p.InStock,
		"featured":       p.Featured,
		"tags":           p.Tags,
		"rating":         p.Rating,
		"reviews":        p.Reviews,
	}
}

// HandleListProducts handles GET /products
func HandleListProducts(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := repository.ProductFilter{
			Category: c.Query("category"),
		}

		if v := c.Query("featured"); v != "" {
			featured := v == "true"
			filter.Featured = &featured
		}
		if v := c.Query("in_stock"); v != "" {
			inStock := v == "true"
			filter.InStock = &inStock
		}

		filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
		filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

		products, err := repos.Catalog.List(c.Request.Context(), filter)
		if err != nil {
			logger.Error("Failed to list products", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		responses := make([]gin.H, len(products))
		for i, p := range products {
			responses[i] = productResponse(p)
		}

		c.JSON(http.StatusOK, gin.H{"products": responses})
	}
}

// HandleGetProduct handles GET /products/:id
func HandleGetProduct(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}

		product, err := repos.Catalog.GetByID(c.Request.Context(), id)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			logger.Error("Failed to get product", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, productResponse(product))
	}
}

// ProductRequest is the admin payload for creating or updating a product
type ProductRequest struct {
	Title         string           `json:"title" binding:"required"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price" binding:"required"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Image         string           `json:"image" binding:"required"`
	Category      string           `json:"category" binding:"required"`
	Dimensions    *string          `json:"dimensions,omitempty"`
	Medium        *string          `json:"medium,omitempty"`
	Style         *string          `json:"style,omitempty"`
	InStock       bool             `json:"in_stock"`
	Featured      bool             `json:"featured"`
	Tags          []string         `json:"tags"`
	Rating        *float64         `json:"rating,omitempty"`
	Reviews       *int             `json:"reviews,omitempty"`
}

func (r *ProductRequest) toDomain() *domain.Product {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return &domain.Product{
		Title:         r.Title,
		Description:   r.Description,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		Image:         r.Image,
		Category:      r.Category,
		Dimensions:    r.Dimensions,
		Medium:        r.Medium,
		Style:         r.Style,
		InStock:       r.InStock,
		Featured:      r.Featured,
		Tags:          tags,
		Rating:        r.Rating,
		Reviews:       r.Reviews,
	}
}

// HandleCreateProduct handles POST /admin/products
func HandleCreateProduct(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		if req.Price.IsNegative() {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "price must not be negative"})
			return
		}

		product := req.toDomain()
		if err := repos.Catalog.Create(c.Request.Context(), product); err != nil {
			logger.Error("Failed to create product", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create product"})
			return
		}

		c.JSON(http.StatusCreated, productResponse(product))
	}
}

// HandleUpdateProduct handles PUT /admin/products/:id
func HandleUpdateProduct(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}

		var req ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		if req.Price.IsNegative() {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "price must not be negative"})
			return
		}

		product := req.toDomain()
		product.ID = id

		if err := repos.Catalog.Update(c.Request.Context(), product); err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			logger.Error("Failed to update product", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update product"})
			return
		}

		c.JSON(http.StatusOK, productResponse(product))
	}
}

// HandleDeleteProduct handles DELETE /admin/products/:id
func HandleDeleteProduct(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}

		if err := repos.Catalog.Delete(c.Request.Context(), id); err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			logger.Error("Failed to delete product", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}
