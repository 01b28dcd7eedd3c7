package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/evently/evently-backend-go/internal/models"
	"github.com/evently/evently-backend-go/internal/service"
	"github.com/evently/evently-backend-go/pkg/response"
)

// CatalogHandler serves city and event catalog endpoints
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler creates a catalog handler
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListCities handles GET /cities
func (h *CatalogHandler) ListCities(c *gin.Context) {
	var filter models.CityFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "invalid query parameters: "+err.Error())
		return
	}

	cities, err := h.catalog.ListCities(filter)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"cities": cities, "count": len(cities)})
}

// GetCity handles GET /cities/:name
func (h *CatalogHandler) GetCity(c *gin.Context) {
	city, err := h.catalog.GetCity(c.Param("name"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, city)
}

// NearbyCities handles GET /cities/:name/nearby
func (h *CatalogHandler) NearbyCities(c *gin.Context) {
	limit := 5
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	nearby, err := h.catalog.NearbyCities(c.Param("name"), limit)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"nearby": nearby, "count": len(nearby)})
}

// CityMetrics handles GET /cities/:name/metrics
func (h *CatalogHandler) CityMetrics(c *gin.Context) {
	domain := c.DefaultQuery("domain", "tourism")
	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		response.BadRequest(c, "from and to query parameters are required (YYYY-MM-DD)")
		return
	}

	series, err := h.catalog.CityMetrics(c.Param("name"), domain, from, to)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, series)
}

// MetricCoverage handles GET /cities/:name/coverage
func (h *CatalogHandler) MetricCoverage(c *gin.Context) {
	coverage, err := h.catalog.MetricCoverage(c.Param("name"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, coverage)
}

// ListEvents handles GET /events
func (h *CatalogHandler) ListEvents(c *gin.Context) {
	var filter models.EventFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "invalid query parameters: "+err.Error())
		return
	}

	events, err := h.catalog.ListEvents(filter)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"events": events, "count": len(events)})
}

// GetEvent handles GET /events/:name
func (h *CatalogHandler) GetEvent(c *gin.Context) {
	event, err := h.catalog.GetEvent(c.Param("name"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, event)
}

// CreateEvent handles POST /events
func (h *CatalogHandler) CreateEvent(c *gin.Context) {
	var event models.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		response.BadRequest(c, "invalid event payload: "+err.Error())
		return
	}

	if err := h.catalog.CreateEvent(&event); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Created(c, event)
}

// EventTypes handles GET /events/types
func (h *CatalogHandler) EventTypes(c *gin.Context) {
	present, accepted, err := h.catalog.EventTypes()
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"present": present, "accepted": accepted})
}
