package service

import (
	"fmt"
	"log"
	"sort"

	"github.com/evently/evently-backend-go/internal/analysis"
	"github.com/evently/evently-backend-go/internal/models"
	"github.com/evently/evently-backend-go/internal/repository"
)

// AnalysisService runs window comparisons and maintains stored impacts
type AnalysisService struct {
	cities   *repository.CityRepository
	events   *repository.EventRepository
	impacts  *repository.ImpactRepository
	analyzer *analysis.ImpactAnalyzer
}

// NewAnalysisService creates an analysis service
func NewAnalysisService(cities *repository.CityRepository, events *repository.EventRepository,
	impacts *repository.ImpactRepository, analyzer *analysis.ImpactAnalyzer) *AnalysisService {
	return &AnalysisService{cities: cities, events: events, impacts: impacts, analyzer: analyzer}
}

func (s *AnalysisService) lookupEvent(name string) (*models.Event, error) {
	event, err := s.events.GetEventByName(name)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("event %q: %w", name, ErrNotFound)
	}
	return event, nil
}

// CompareEvent returns the raw window comparison for one event
func (s *AnalysisService) CompareEvent(name string) (*analysis.ComparisonResult, error) {
	event, err := s.lookupEvent(name)
	if err != nil {
		return nil, err
	}

	_, comparison, err := s.analyzer.Analyze(event)
	return comparison, err
}

// ComputeImpact analyzes an event and persists the result, replacing
// any previously stored impact.
func (s *AnalysisService) ComputeImpact(name string) (*models.EventImpact, error) {
	event, err := s.lookupEvent(name)
	if err != nil {
		return nil, err
	}

	impact, _, err := s.analyzer.Analyze(event)
	if err != nil {
		return nil, err
	}

	if err := s.impacts.UpsertImpact(impact); err != nil {
		return nil, err
	}
	log.Printf("[Analysis] Computed impact for event %q (id=%d)", event.Name, event.ID)
	return impact, nil
}

// GetImpact returns the stored impact for an event, computing and
// persisting one on first access.
func (s *AnalysisService) GetImpact(name string) (*models.EventImpact, error) {
	event, err := s.lookupEvent(name)
	if err != nil {
		return nil, err
	}

	impact, err := s.impacts.GetImpactByEventID(event.ID)
	if err != nil {
		return nil, err
	}
	if impact != nil {
		impact.EventName = event.Name
		return impact, nil
	}
	return s.ComputeImpact(name)
}

// ComputeAllImpacts recomputes impacts for the whole catalog and
// returns how many events were processed and how many failed.
func (s *AnalysisService) ComputeAllImpacts() (processed, failed int, err error) {
	events, err := s.events.GetEvents(models.EventFilter{})
	if err != nil {
		return 0, 0, err
	}

	for i := range events {
		impact, _, aerr := s.analyzer.Analyze(&events[i])
		if aerr != nil {
			log.Printf("[Analysis] Skipping event %q: %v", events[i].Name, aerr)
			failed++
			continue
		}
		if uerr := s.impacts.UpsertImpact(impact); uerr != nil {
			log.Printf("[Analysis] Failed to store impact for %q: %v", events[i].Name, uerr)
			failed++
			continue
		}
		processed++
	}

	log.Printf("[Analysis] Recomputed impacts: %d ok, %d failed", processed, failed)
	return processed, failed, nil
}

// ListImpacts returns stored impacts, newest first
func (s *AnalysisService) ListImpacts(limit int) ([]models.EventImpact, error) {
	return s.impacts.GetImpacts(limit)
}

// TopEvent is a dashboard row for a high-impact event
type TopEvent struct {
	EventName string  `json:"event_name"`
	City      string  `json:"city"`
	Year      int     `json:"year"`
	ImpactUSD float64 `json:"impact_usd"`
}

// Dashboard aggregates catalog-wide KPIs
type Dashboard struct {
	Cities                 int        `json:"cities"`
	Events                 int        `json:"events"`
	ImpactsComputed        int        `json:"impacts_computed"`
	TotalEconomicImpactUSD float64    `json:"total_economic_impact_usd"`
	TotalJobsCreated       int64      `json:"total_jobs_created"`
	AvgROIRatio            float64    `json:"avg_roi_ratio"`
	TopEvents              []TopEvent `json:"top_events"`
}

const dashboardTopEvents = 5

// GetDashboard summarizes the catalog and every stored impact
func (s *AnalysisService) GetDashboard() (*Dashboard, error) {
	cities, err := s.cities.GetCities(models.CityFilter{})
	if err != nil {
		return nil, err
	}
	events, err := s.events.GetEvents(models.EventFilter{})
	if err != nil {
		return nil, err
	}
	impacts, err := s.impacts.GetImpacts(0)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*models.Event, len(events))
	for i := range events {
		byID[events[i].ID] = &events[i]
	}

	dash := &Dashboard{Cities: len(cities), Events: len(events), ImpactsComputed: len(impacts)}

	var roiSum float64
	var roiCount int
	var top []TopEvent
	for i := range impacts {
		impact := &impacts[i]
		if impact.TotalEconomicImpactUSD != nil {
			dash.TotalEconomicImpactUSD += *impact.TotalEconomicImpactUSD
		}
		if impact.JobsCreated != nil {
			dash.TotalJobsCreated += *impact.JobsCreated
		}
		if impact.ROIRatio != nil {
			roiSum += *impact.ROIRatio
			roiCount++
		}

		event := byID[impact.EventID]
		if event != nil && impact.TotalEconomicImpactUSD != nil {
			top = append(top, TopEvent{
				EventName: event.Name,
				City:      event.City,
				Year:      event.Year,
				ImpactUSD: *impact.TotalEconomicImpactUSD,
			})
		}
	}
	if roiCount > 0 {
		dash.AvgROIRatio = roiSum / float64(roiCount)
	}

	sort.Slice(top, func(i, j int) bool { return top[i].ImpactUSD > top[j].ImpactUSD })
	if len(top) > dashboardTopEvents {
		top = top[:dashboardTopEvents]
	}
	dash.TopEvents = top
	return dash, nil
}
