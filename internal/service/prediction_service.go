package service

import (
	"github.com/evently/evently-backend-go/internal/config"
	"github.com/evently/evently-backend-go/internal/ml"
	"github.com/evently/evently-backend-go/internal/models"
	"github.com/evently/evently-backend-go/internal/repository"
)

// PredictionService answers impact predictions with the trained model.
// Both entry modes require one; there is no untrained fallback.
type PredictionService struct {
	cfg      *config.Config
	cities   *repository.CityRepository
	events   *repository.EventRepository
	impacts  *repository.ImpactRepository
	training *TrainingService
}

// NewPredictionService creates a prediction service
func NewPredictionService(cfg *config.Config, cities *repository.CityRepository, events *repository.EventRepository,
	impacts *repository.ImpactRepository, training *TrainingService) *PredictionService {
	return &PredictionService{cfg: cfg, cities: cities, events: events, impacts: impacts, training: training}
}

// Predict estimates economic impact for a fully specified hypothetical
// event. Returns ml.ErrModelNotReady when no trained model is loaded.
func (s *PredictionService) Predict(req ml.PredictionRequest) (*ml.PredictionResult, error) {
	city, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	result, err := s.predictor().Predict(req, city)
	if err != nil {
		return nil, err
	}
	return s.applyShares(result), nil
}

// PredictSimple estimates impact from minimal input by synthesizing
// features from analogous historical events, then running the trained
// model on them.
func (s *PredictionService) PredictSimple(req ml.PredictionRequest) (*ml.PredictionResult, error) {
	city, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	history, err := s.analogousHistory()
	if err != nil {
		return nil, err
	}

	result, err := s.predictor().PredictSimple(req, city, history)
	if err != nil {
		return nil, err
	}
	return s.applyShares(result), nil
}

// predictor builds a predictor over the current artifact with the
// deployment's baseline multiplier.
func (s *PredictionService) predictor() *ml.Predictor {
	p := ml.NewPredictor(s.training.Artifact())
	p.BaselineMultiplier = s.cfg.BaselineMultiplier
	return p
}

// validate rejects requests naming a city or event type the catalog
// does not know, reporting the accepted values.
func (s *PredictionService) validate(req ml.PredictionRequest) (*models.City, error) {
	if !models.IsValidEventType(req.EventType) {
		return nil, &ml.UnknownEntityError{Kind: "event type", Name: req.EventType, Valid: models.ValidEventTypes()}
	}

	city, err := s.cities.GetCityByName(req.City)
	if err != nil {
		return nil, err
	}
	if city == nil {
		cities, cerr := s.cities.GetCities(models.CityFilter{})
		if cerr != nil {
			return nil, cerr
		}
		names := make([]string, 0, len(cities))
		for _, c := range cities {
			names = append(names, c.Name)
		}
		return nil, &ml.UnknownEntityError{Kind: "city", Name: req.City, Valid: names}
	}
	return city, nil
}

// applyShares recomputes the breakdown from the configured shares so
// deployments can calibrate without retraining.
func (s *PredictionService) applyShares(result *ml.PredictionResult) *ml.PredictionResult {
	result.Breakdown = ml.SpendingBreakdown{
		DirectUSD:   result.PredictedImpactUSD * s.cfg.DirectShare,
		IndirectUSD: result.PredictedImpactUSD * s.cfg.IndirectShare,
		InducedUSD:  result.PredictedImpactUSD * s.cfg.InducedShare,
	}
	return result
}

// analogousHistory summarizes catalog events that have a measured
// impact into per-day rates for minimal-input prediction.
func (s *PredictionService) analogousHistory() ([]ml.AnalogousEvent, error) {
	events, err := s.events.GetEvents(models.EventFilter{})
	if err != nil {
		return nil, err
	}

	cityRows, err := s.cities.GetCities(models.CityFilter{})
	if err != nil {
		return nil, err
	}
	continents := make(map[string]string, len(cityRows))
	for _, c := range cityRows {
		continents[c.Name] = c.Continent
	}

	var history []ml.AnalogousEvent
	for i := range events {
		event := &events[i]
		duration := event.DurationDays()
		if duration <= 0 {
			continue
		}

		entry := ml.AnalogousEvent{
			Name:      event.Name,
			EventType: string(event.EventType),
			Continent: continents[event.City],
		}
		if att := event.Attendance(); att > 0 {
			entry.AttendancePerDay = float64(att) / float64(duration)
		}

		impact, ierr := s.impacts.GetImpactByEventID(event.ID)
		if ierr != nil {
			return nil, ierr
		}
		if impact != nil {
			if impact.TotalEconomicImpactUSD != nil && *impact.TotalEconomicImpactUSD > 0 {
				entry.ImpactPerDayUSD = *impact.TotalEconomicImpactUSD / float64(duration)
			}
			if impact.VisitorIncreasePct != nil {
				entry.VisitorIncreasePct = *impact.VisitorIncreasePct
			}
			if impact.PriceIncreasePct != nil {
				entry.PriceIncreasePct = *impact.PriceIncreasePct
			}
			if impact.OccupancyIncreasePct != nil {
				entry.OccupancyBoostPct = *impact.OccupancyIncreasePct
			}
		}

		history = append(history, entry)
	}
	return history, nil
}
