package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/evently/evently-backend-go/internal/middleware"
	"github.com/evently/evently-backend-go/internal/ml"
	"github.com/evently/evently-backend-go/internal/service"
	"github.com/evently/evently-backend-go/pkg/response"
)

// ModelHandler serves training, model status, and prediction endpoints
type ModelHandler struct {
	training   *service.TrainingService
	prediction *service.PredictionService
}

// NewModelHandler creates a model handler
func NewModelHandler(training *service.TrainingService, prediction *service.PredictionService) *ModelHandler {
	return &ModelHandler{training: training, prediction: prediction}
}

// Train handles POST /model/train
func (h *ModelHandler) Train(c *gin.Context) {
	artifact, report, err := h.training.Train()
	if err != nil {
		middleware.TrainingRunsTotal.WithLabelValues("failed").Inc()
		if errors.Is(err, ml.ErrInsufficientData) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	middleware.TrainingRunsTotal.WithLabelValues("ok").Inc()
	response.Success(c, gin.H{
		"run_id":     artifact.RunID,
		"best_model": artifact.BestModel,
		"metrics":    artifact.Metrics,
		"assembly":   report,
	})
}

// Status handles GET /model/status
func (h *ModelHandler) Status(c *gin.Context) {
	response.Success(c, h.training.Status())
}

// Predict handles POST /predict
func (h *ModelHandler) Predict(c *gin.Context) {
	var req ml.PredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid prediction payload: "+err.Error())
		return
	}
	if req.EventType == "" {
		response.BadRequest(c, "event_type is required")
		return
	}

	result, err := h.prediction.Predict(req)
	if err != nil {
		respondPredictionError(c, err)
		return
	}

	middleware.PredictionsTotal.WithLabelValues(result.ModelName).Inc()
	response.Success(c, result)
}

// PredictSimple handles POST /predict/simple
func (h *ModelHandler) PredictSimple(c *gin.Context) {
	var req ml.PredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid prediction payload: "+err.Error())
		return
	}
	if req.EventType == "" {
		response.BadRequest(c, "event_type is required")
		return
	}

	result, err := h.prediction.PredictSimple(req)
	if err != nil {
		respondPredictionError(c, err)
		return
	}

	middleware.PredictionsTotal.WithLabelValues(result.ModelName).Inc()
	response.Success(c, result)
}

// respondPredictionError maps prediction failures to HTTP statuses.
// Requests naming unknown cities or event types are client errors; a
// missing model or empty history means the service cannot answer yet.
func respondPredictionError(c *gin.Context, err error) {
	var unknown *ml.UnknownEntityError
	switch {
	case errors.As(err, &unknown):
		response.BadRequest(c, unknown.Error())
	case errors.Is(err, ml.ErrModelNotReady), errors.Is(err, ml.ErrNoAnalogousEvents):
		response.ServiceUnavailable(c, err.Error())
	default:
		response.InternalError(c, err.Error())
	}
}
