package services

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"servicehub/internal/catalog"
	"servicehub/internal/ingest"
	"servicehub/internal/upstream"
)

// DefaultMaxBodyBytes caps ingestion payloads when no limit is configured.
const DefaultMaxBodyBytes = 4 << 20

type Handler struct {
	Catalog      Catalog
	Ingester     Ingester
	Source       upstream.Source // nil when no upstream is configured
	MaxBodyBytes int64
}

func NewHandler(cat Catalog, ing Ingester, src upstream.Source) *Handler {
	return &Handler{
		Catalog:      cat,
		Ingester:     ing,
		Source:       src,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/services", h.list)            // GET /api/services?category=&search=
	rg.POST("/services", h.ingest)         // POST /api/services
	rg.GET("/services/:name", h.getByName) // GET /api/services/:name
	rg.GET("/categories", h.categories)    // GET /api/categories
	rg.POST("/refresh", h.refresh)         // POST /api/refresh
}

func (h *Handler) list(c *gin.Context) {
	q := catalog.Query{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	c.JSON(http.StatusOK, h.Catalog.Query(q))
}

func (h *Handler) categories(c *gin.Context) {
	c.JSON(http.StatusOK, h.Catalog.Categories())
}

func (h *Handler) getByName(c *gin.Context) {
	s, ok := h.Catalog.Lookup(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) ingest(c *gin.Context) {
	limit := h.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, limit))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"status": "error", "message": "payload too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "read body failed"})
		return
	}

	res := h.Ingester.Ingest(c.Request.Context(), body)
	h.writeResult(c, res, http.StatusBadRequest)
}

func (h *Handler) refresh(c *gin.Context) {
	res := h.Ingester.Refresh(c.Request.Context(), h.Source)

	errStatus := http.StatusBadGateway
	switch {
	case errors.Is(res.Err, upstream.ErrNotConfigured):
		errStatus = http.StatusServiceUnavailable
	case errors.Is(res.Err, upstream.ErrRateLimited):
		errStatus = http.StatusTooManyRequests
	}
	h.writeResult(c, res, errStatus)
}

// writeResult maps an ingestion result onto the wire format. errStatus is
// the HTTP status used for the Error outcome.
func (h *Handler) writeResult(c *gin.Context, res ingest.Result, errStatus int) {
	switch res.Outcome {
	case ingest.Accepted:
		c.JSON(http.StatusOK, gin.H{"status": "success", "count": res.Count})
	case ingest.Rejected:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": "rejected", "message": res.Message})
	default:
		c.JSON(errStatus, gin.H{"status": "error", "message": res.Message})
	}
}
