package main

import (
	"log"

	"github.com/evently/evently-backend-go/internal/analysis"
	"github.com/evently/evently-backend-go/internal/api"
	"github.com/evently/evently-backend-go/internal/config"
	"github.com/evently/evently-backend-go/internal/database"
	"github.com/evently/evently-backend-go/internal/handler"
	"github.com/evently/evently-backend-go/internal/importer"
	"github.com/evently/evently-backend-go/internal/repository"
	"github.com/evently/evently-backend-go/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// 初始化数据库
	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	// 仓库层
	cities := repository.NewCityRepository(db)
	events := repository.NewEventRepository(db)
	metrics := repository.NewMetricRepository(db)
	impacts := repository.NewImpactRepository(db)

	// 分析层
	comparator := analysis.NewComparator(metrics, cfg.BaselineBeforeDays, cfg.BaselineGapDays)
	analyzer := analysis.NewImpactAnalyzer(comparator, cfg.ImpactWindowBeforeDays, cfg.ImpactWindowAfterDays)

	// 服务层
	catalogSvc := service.NewCatalogService(cities, events, metrics)
	analysisSvc := service.NewAnalysisService(cities, events, impacts, analyzer)
	trainingSvc := service.NewTrainingService(cfg, events, cities, metrics, impacts)
	predictionSvc := service.NewPredictionService(cfg, cities, events, impacts, trainingSvc)
	simulationSvc := service.NewSimulationService(analysisSvc)

	if err := trainingSvc.LoadExisting(); err != nil {
		log.Printf("Failed to restore saved model, continuing without: %v", err)
	}

	// 初始化路由
	router := api.SetupRouter(cfg, api.Handlers{
		Catalog:    handler.NewCatalogHandler(catalogSvc),
		Analysis:   handler.NewAnalysisHandler(analysisSvc),
		Model:      handler.NewModelHandler(trainingSvc, predictionSvc),
		Simulation: handler.NewSimulationHandler(simulationSvc),
		Import:     handler.NewImportHandler(importer.NewImporter(cities, events, metrics), cfg.DataDir),
	})

	// 启动服务器
	log.Printf("Server starting on %s", cfg.Addr)
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
