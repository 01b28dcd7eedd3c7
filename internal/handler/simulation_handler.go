package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/evently/evently-backend-go/internal/service"
	"github.com/evently/evently-backend-go/pkg/response"
)

// SimulationHandler serves what-if scenario endpoints
type SimulationHandler struct {
	simulation *service.SimulationService
}

// NewSimulationHandler creates a simulation handler
func NewSimulationHandler(simulation *service.SimulationService) *SimulationHandler {
	return &SimulationHandler{simulation: simulation}
}

type attendanceChangeRequest struct {
	EventName           string  `json:"event_name" binding:"required"`
	AttendanceChangePct float64 `json:"attendance_change_pct"`
}

// AttendanceChange handles POST /simulate/attendance
func (h *SimulationHandler) AttendanceChange(c *gin.Context) {
	var req attendanceChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload: "+err.Error())
		return
	}

	scenario, err := h.simulation.SimulateAttendanceChange(req.EventName, req.AttendanceChangePct)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, scenario)
}

type growthRequest struct {
	EventName       string  `json:"event_name" binding:"required"`
	Years           int     `json:"years" binding:"required"`
	AnnualGrowthPct float64 `json:"annual_growth_pct"`
}

// Growth handles POST /simulate/growth
func (h *SimulationHandler) Growth(c *gin.Context) {
	var req growthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload: "+err.Error())
		return
	}

	scenario, err := h.simulation.SimulateGrowth(req.EventName, req.Years, req.AnnualGrowthPct)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, scenario)
}

type newEventRequest struct {
	City         string `json:"city"`
	EventType    string `json:"event_type" binding:"required"`
	Attendance   int64  `json:"expected_attendance" binding:"required"`
	DurationDays int    `json:"duration_days"`
}

// NewEvent handles POST /simulate/new-event
func (h *SimulationHandler) NewEvent(c *gin.Context) {
	var req newEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload: "+err.Error())
		return
	}

	scenario, err := h.simulation.SimulateNewEvent(req.City, req.EventType, req.Attendance, req.DurationDays)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, scenario)
}
