package main

import (
	"flag"
	"log"

	"github.com/evently/evently-backend-go/internal/analysis"
	"github.com/evently/evently-backend-go/internal/config"
	"github.com/evently/evently-backend-go/internal/database"
	"github.com/evently/evently-backend-go/internal/importer"
	"github.com/evently/evently-backend-go/internal/repository"
	"github.com/evently/evently-backend-go/internal/service"
)

// 离线训练入口: 导入数据, 计算事件影响, 训练并保存模型
func main() {
	importDir := flag.String("import", "", "import CSVs from this directory before training")
	recompute := flag.Bool("recompute-impacts", true, "recompute stored event impacts before training")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	cities := repository.NewCityRepository(db)
	events := repository.NewEventRepository(db)
	metrics := repository.NewMetricRepository(db)
	impacts := repository.NewImpactRepository(db)

	if *importDir != "" {
		imp := importer.NewImporter(cities, events, metrics)
		report, err := imp.ImportDirectory(*importDir)
		if err != nil {
			log.Fatal("Import failed:", err)
		}
		log.Printf("Imported %d rows (%d rejected)", report.TotalImported(), report.TotalFailed())
	}

	comparator := analysis.NewComparator(metrics, cfg.BaselineBeforeDays, cfg.BaselineGapDays)
	analyzer := analysis.NewImpactAnalyzer(comparator, cfg.ImpactWindowBeforeDays, cfg.ImpactWindowAfterDays)
	analysisSvc := service.NewAnalysisService(cities, events, impacts, analyzer)

	if *recompute {
		processed, failed, err := analysisSvc.ComputeAllImpacts()
		if err != nil {
			log.Fatal("Impact computation failed:", err)
		}
		log.Printf("Impacts: %d computed, %d failed", processed, failed)
	}

	trainingSvc := service.NewTrainingService(cfg, events, cities, metrics, impacts)
	artifact, report, err := trainingSvc.Train()
	if err != nil {
		log.Fatal("Training failed:", err)
	}

	log.Printf("Saved model %s to %s", artifact.RunID, cfg.ModelPath)
	log.Printf("Best model: %s (R2=%.4f, MAPE=%.1f%%)",
		artifact.BestModel, artifact.BestMetrics().R2, artifact.BestMetrics().MAPE)
	if report != nil && len(report.Excluded) > 0 {
		for _, ex := range report.Excluded {
			log.Printf("Excluded %q: %s", ex.EventName, ex.Reason)
		}
	}
}
