package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/foodexplorer/backend/internal/domain"
	"github.com/foodexplorer/backend/internal/usecase"
)

// Catalog is the slice of the catalog service the handlers need.
type Catalog interface {
	Search(ctx context.Context, rawQuery string) (*domain.SearchResult, error)
}

// Detail is the slice of the detail service the handlers need.
type Detail interface {
	Get(ctx context.Context, id string) (*domain.ProductDetail, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalog    Catalog
	detail     Detail
	windowSize int
}

// NewHandler creates a new HTTP handler
func NewHandler(catalog Catalog, detail Detail, windowSize int) *Handler {
	if windowSize <= 0 {
		windowSize = 16
	}
	return &Handler{
		catalog:    catalog,
		detail:     detail,
		windowSize: windowSize,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "foodexplorer-backend",
		"version": "1.0.0",
	})
}

// SearchProducts handles product search requests. The q parameter is
// classified as barcode or free text and dispatched accordingly; category,
// sort and limit shape the returned view without re-fetching anything.
func (h *Handler) SearchProducts(c *gin.Context) {
	query := c.Query("q")
	category := c.Query("category")
	sortKey := domain.SortKey(c.Query("sort"))
	limit := h.windowSize
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	result, err := h.catalog.Search(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": usecase.BarcodeNotFoundMessage,
			})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "product search failed, please try again",
		})
		return
	}

	filtered := usecase.ApplyFilterSort(result.Products, category, sortKey)
	window := usecase.NewPageWindow(filtered, limit)

	c.JSON(http.StatusOK, gin.H{
		"query":      result.Query,
		"kind":       result.Kind,
		"total":      len(filtered),
		"hasMore":    window.HasMore(),
		"categories": result.Categories,
		"products":   window.Visible(),
	})
}

// GetProduct handles detail requests for one product code.
func (h *Handler) GetProduct(c *gin.Context) {
	code := c.Param("code")

	detail, err := h.detail.Get(c.Request.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		case errors.Is(err, domain.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": "product code is required"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "product lookup failed, please try again"})
		}
		return
	}

	c.JSON(http.StatusOK, detail)
}
