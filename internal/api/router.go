package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/evently/evently-backend-go/internal/config"
	"github.com/evently/evently-backend-go/internal/handler"
	"github.com/evently/evently-backend-go/internal/middleware"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	Catalog    *handler.CatalogHandler
	Analysis   *handler.AnalysisHandler
	Model      *handler.ModelHandler
	Simulation *handler.SimulationHandler
	Import     *handler.ImportHandler
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Evently Backend API is running",
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API 路由组
	api := r.Group("/api/v1")
	{
		cities := api.Group("/cities")
		{
			cities.GET("", h.Catalog.ListCities)
			cities.GET("/:name", h.Catalog.GetCity)
			cities.GET("/:name/nearby", h.Catalog.NearbyCities)
			cities.GET("/:name/metrics", h.Catalog.CityMetrics)
			cities.GET("/:name/coverage", h.Catalog.MetricCoverage)
		}

		events := api.Group("/events")
		{
			events.GET("", h.Catalog.ListEvents)
			events.POST("", h.Catalog.CreateEvent)
			events.GET("/types", h.Catalog.EventTypes)
			events.GET("/:name", h.Catalog.GetEvent)
			events.GET("/:name/comparison", h.Analysis.CompareEvent)
			events.GET("/:name/impact", h.Analysis.GetImpact)
			events.POST("/:name/impact", h.Analysis.ComputeImpact)
		}

		impacts := api.Group("/impacts")
		{
			impacts.GET("", h.Analysis.ListImpacts)
			impacts.POST("/recompute", h.Analysis.ComputeAllImpacts)
		}

		model := api.Group("/model")
		{
			model.POST("/train", h.Model.Train)
			model.GET("/status", h.Model.Status)
		}

		// Prediction is the expensive public surface, so it carries the
		// rate limit
		predict := api.Group("/predict")
		predict.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
		{
			predict.POST("", h.Model.Predict)
			predict.POST("/simple", h.Model.PredictSimple)
		}

		simulate := api.Group("/simulate")
		{
			simulate.POST("/attendance", h.Simulation.AttendanceChange)
			simulate.POST("/growth", h.Simulation.Growth)
			simulate.POST("/new-event", h.Simulation.NewEvent)
		}

		api.GET("/dashboard", h.Analysis.Dashboard)
		api.POST("/import", h.Import.Import)
	}

	return r
}
