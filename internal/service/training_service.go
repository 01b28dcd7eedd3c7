package service

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/evently/evently-backend-go/internal/analysis"
	"github.com/evently/evently-backend-go/internal/config"
	"github.com/evently/evently-backend-go/internal/ml"
	"github.com/evently/evently-backend-go/internal/models"
	"github.com/evently/evently-backend-go/internal/repository"
)

// TrainingService assembles the dataset, runs training, and holds the
// current model artifact for predictions. The artifact swap is atomic
// under a lock, so in-flight predictions keep the bundle they started
// with.
type TrainingService struct {
	cfg     *config.Config
	events  *repository.EventRepository
	cities  *repository.CityRepository
	metrics *repository.MetricRepository
	impacts *repository.ImpactRepository

	mu       sync.RWMutex
	artifact *ml.Artifact
}

// NewTrainingService creates a training service
func NewTrainingService(cfg *config.Config, events *repository.EventRepository, cities *repository.CityRepository,
	metrics *repository.MetricRepository, impacts *repository.ImpactRepository) *TrainingService {
	return &TrainingService{cfg: cfg, events: events, cities: cities, metrics: metrics, impacts: impacts}
}

// LoadExisting tries to restore a previously saved artifact. A missing
// file is not an error; the service simply starts without a model.
func (s *TrainingService) LoadExisting() error {
	if _, err := os.Stat(s.cfg.ModelPath); os.IsNotExist(err) {
		log.Printf("[Training] No saved model at %s, starting without one", s.cfg.ModelPath)
		return nil
	}

	artifact, err := ml.LoadArtifact(s.cfg.ModelPath)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.artifact = artifact
	s.mu.Unlock()

	log.Printf("[Training] Restored model %s (best=%s, trained %s)",
		artifact.RunID, artifact.BestModel, artifact.TrainedAt.Format(time.RFC3339))
	return nil
}

// Artifact returns the current model bundle, or nil before training
func (s *TrainingService) Artifact() *ml.Artifact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.artifact
}

// Train builds the dataset from the catalog, fits the roster, persists
// the winning artifact, and makes it current.
func (s *TrainingService) Train() (*ml.Artifact, *ml.AssemblyReport, error) {
	events, err := s.events.GetEvents(models.EventFilter{})
	if err != nil {
		return nil, nil, err
	}

	cityRows, err := s.cities.GetCities(models.CityFilter{})
	if err != nil {
		return nil, nil, err
	}
	cities := make(map[string]*models.City, len(cityRows))
	for i := range cityRows {
		cities[cityRows[i].Name] = &cityRows[i]
	}

	targets := make(map[int64]float64)
	for i := range events {
		impact, ierr := s.impacts.GetImpactByEventID(events[i].ID)
		if ierr != nil {
			return nil, nil, ierr
		}
		if impact != nil && impact.TotalEconomicImpactUSD != nil && *impact.TotalEconomicImpactUSD > 0 {
			targets[events[i].ID] = *impact.TotalEconomicImpactUSD
		}
	}

	// The encoder is fit on types actually present so codes stay dense
	var types []string
	for i := range events {
		types = append(types, string(events[i].EventType))
	}
	encoder := ml.NewLabelEncoder(types)

	comparator := analysis.NewComparator(s.metrics, s.cfg.BaselineBeforeDays, s.cfg.BaselineGapDays)
	assembler := ml.NewAssembler(s.metrics, comparator, encoder)

	dataset, report := ml.BuildDataset(assembler, events, cities, targets)
	log.Printf("[Training] Dataset: %d rows assembled, %d excluded, %d labeled targets",
		report.Assembled, len(report.Excluded), len(targets))

	artifact, err := ml.NewTrainer().Train(dataset, encoder)
	if err != nil {
		return nil, report, err
	}

	if err := artifact.Save(s.cfg.ModelPath); err != nil {
		return nil, report, err
	}

	s.mu.Lock()
	s.artifact = artifact
	s.mu.Unlock()

	return artifact, report, nil
}

// Status summarizes the current model for the API
type Status struct {
	Ready          bool                       `json:"ready"`
	RunID          string                     `json:"run_id,omitempty"`
	BestModel      string                     `json:"best_model,omitempty"`
	TrainedAt      string                     `json:"trained_at,omitempty"`
	TrainingRows   int                        `json:"training_rows,omitempty"`
	TestRows       int                        `json:"test_rows,omitempty"`
	FeatureColumns []string                   `json:"feature_columns,omitempty"`
	Metrics        map[string]ml.ModelMetrics `json:"metrics,omitempty"`
}

// Status reports whether a model is loaded and how it evaluated
func (s *TrainingService) Status() Status {
	artifact := s.Artifact()
	if artifact == nil {
		return Status{Ready: false}
	}
	return Status{
		Ready:          true,
		RunID:          artifact.RunID,
		BestModel:      artifact.BestModel,
		TrainedAt:      artifact.TrainedAt.Format(time.RFC3339),
		TrainingRows:   artifact.TrainingRows,
		TestRows:       artifact.TestRows,
		FeatureColumns: artifact.FeatureColumns,
		Metrics:        artifact.Metrics,
	}
}
