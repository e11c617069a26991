package http

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/goldleaf/backend/internal/domain"
	"github.com/goldleaf/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalog *usecase.CatalogService
}

// NewHandler creates a new HTTP handler
func NewHandler(catalog *usecase.CatalogService) *Handler {
	return &Handler{catalog: catalog}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "goldleaf-backend",
		"version": "1.0.0",
	})
}

// ListProducts handles GET /api/products with optional range filters.
func (h *Handler) ListProducts(c *gin.Context) {
	filter := domain.Filter{
		MinPrice:      parseFilterValue(c.Query("minPrice")),
		MaxPrice:      parseFilterValue(c.Query("maxPrice")),
		MinPopularity: parseFilterValue(c.Query("minPopularity")),
		MaxPopularity: parseFilterValue(c.Query("maxPopularity")),
	}

	list, err := h.catalog.ListProducts(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Error fetching products",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"goldPricePerGram": list.GoldPricePerGram,
		"count":            list.Count,
		"products":         list.Products,
	})
}

// GetProduct handles GET /api/products/:id.
func (h *Handler) GetProduct(c *gin.Context) {
	// Non-numeric ids can never match a catalog position, so they get
	// the same 404 as an out-of-range id.
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Product not found",
		})
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Product not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Error fetching product",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"product": product,
	})
}

// parseFilterValue parses an optional numeric query parameter.
// Unparseable or non-finite values are treated as not-set rather than
// rejected, keeping the endpoint permissive.
func parseFilterValue(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
