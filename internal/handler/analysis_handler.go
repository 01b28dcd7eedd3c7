package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/evently/evently-backend-go/internal/service"
	"github.com/evently/evently-backend-go/pkg/response"
)

// AnalysisHandler serves comparison and impact endpoints
type AnalysisHandler struct {
	analysis *service.AnalysisService
}

// NewAnalysisHandler creates an analysis handler
func NewAnalysisHandler(analysis *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysis: analysis}
}

// CompareEvent handles GET /events/:name/comparison
func (h *AnalysisHandler) CompareEvent(c *gin.Context) {
	comparison, err := h.analysis.CompareEvent(c.Param("name"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, comparison)
}

// GetImpact handles GET /events/:name/impact
func (h *AnalysisHandler) GetImpact(c *gin.Context) {
	impact, err := h.analysis.GetImpact(c.Param("name"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, impact)
}

// ComputeImpact handles POST /events/:name/impact
func (h *AnalysisHandler) ComputeImpact(c *gin.Context) {
	impact, err := h.analysis.ComputeImpact(c.Param("name"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, impact)
}

// ComputeAllImpacts handles POST /impacts/recompute
func (h *AnalysisHandler) ComputeAllImpacts(c *gin.Context) {
	processed, failed, err := h.analysis.ComputeAllImpacts()
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"processed": processed, "failed": failed})
}

// ListImpacts handles GET /impacts
func (h *AnalysisHandler) ListImpacts(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.BadRequest(c, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	impacts, err := h.analysis.ListImpacts(limit)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"impacts": impacts, "count": len(impacts)})
}

// Dashboard handles GET /dashboard
func (h *AnalysisHandler) Dashboard(c *gin.Context) {
	dash, err := h.analysis.GetDashboard()
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, dash)
}
