package service

import (
	"errors"
	"fmt"
	"sort"

	"github.com/evently/evently-backend-go/internal/models"
	"github.com/evently/evently-backend-go/internal/repository"
	"github.com/evently/evently-backend-go/internal/spatial"
)

// ErrNotFound marks lookups for cities or events absent from the catalog.
// Handlers map it to a 404.
var ErrNotFound = errors.New("not found")

// CatalogService serves city and event catalog queries
type CatalogService struct {
	cities  *repository.CityRepository
	events  *repository.EventRepository
	metrics *repository.MetricRepository
}

// NewCatalogService creates a catalog service
func NewCatalogService(cities *repository.CityRepository, events *repository.EventRepository,
	metrics *repository.MetricRepository) *CatalogService {
	return &CatalogService{cities: cities, events: events, metrics: metrics}
}

// ListCities returns cities matching the filter
func (s *CatalogService) ListCities(filter models.CityFilter) ([]models.City, error) {
	return s.cities.GetCities(filter)
}

// GetCity returns one city by name
func (s *CatalogService) GetCity(name string) (*models.City, error) {
	city, err := s.cities.GetCityByName(name)
	if err != nil {
		return nil, err
	}
	if city == nil {
		return nil, fmt.Errorf("city %q: %w", name, ErrNotFound)
	}
	return city, nil
}

// ListEvents returns events matching the filter
func (s *CatalogService) ListEvents(filter models.EventFilter) ([]models.Event, error) {
	return s.events.GetEvents(filter)
}

// GetEvent returns one event by name
func (s *CatalogService) GetEvent(name string) (*models.Event, error) {
	event, err := s.events.GetEventByName(name)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("event %q: %w", name, ErrNotFound)
	}
	return event, nil
}

// EventTypes returns the distinct types present plus the accepted set
func (s *CatalogService) EventTypes() (present []string, accepted []string, err error) {
	present, err = s.events.GetEventTypes()
	if err != nil {
		return nil, nil, err
	}
	return present, models.ValidEventTypes(), nil
}

// CreateEvent validates and stores a new event
func (s *CatalogService) CreateEvent(event *models.Event) error {
	if event.Name == "" {
		return fmt.Errorf("event name is required")
	}
	if !models.IsValidEventType(string(event.EventType)) {
		return fmt.Errorf("invalid event type %q, accepted: %v", event.EventType, models.ValidEventTypes())
	}
	if _, err := event.Start(); err != nil {
		return fmt.Errorf("invalid start date %q, expected YYYY-MM-DD", event.StartDate)
	}
	if _, err := event.End(); err != nil {
		return fmt.Errorf("invalid end date %q, expected YYYY-MM-DD", event.EndDate)
	}
	if event.DurationDays() == 0 {
		return fmt.Errorf("end date %s precedes start date %s", event.EndDate, event.StartDate)
	}
	if event.Year == 0 {
		if start, err := event.Start(); err == nil {
			event.Year = start.Year()
		}
	}

	id, err := s.events.CreateEvent(event)
	if err != nil {
		return err
	}
	event.ID = id
	return nil
}

// MetricSeries is one city's daily rows for a single metric domain
type MetricSeries struct {
	City   string `json:"city"`
	Domain string `json:"domain"`
	From   string `json:"from"`
	To     string `json:"to"`
	Count  int    `json:"count"`
	Rows   any    `json:"rows"`
}

// CityMetrics returns the raw daily rows for one domain over [from, to]
func (s *CatalogService) CityMetrics(name, domain, from, to string) (*MetricSeries, error) {
	city, err := s.GetCity(name)
	if err != nil {
		return nil, err
	}

	series := &MetricSeries{City: city.Name, Domain: domain, From: from, To: to}
	switch domain {
	case "tourism":
		rows, err := s.metrics.TourismBetween(city.Name, from, to)
		if err != nil {
			return nil, err
		}
		series.Count, series.Rows = len(rows), rows
	case "hotel":
		rows, err := s.metrics.HotelBetween(city.Name, from, to)
		if err != nil {
			return nil, err
		}
		series.Count, series.Rows = len(rows), rows
	case "economic":
		rows, err := s.metrics.EconomicBetween(city.Name, from, to)
		if err != nil {
			return nil, err
		}
		series.Count, series.Rows = len(rows), rows
	case "mobility":
		rows, err := s.metrics.MobilityBetween(city.Name, from, to)
		if err != nil {
			return nil, err
		}
		series.Count, series.Rows = len(rows), rows
	default:
		return nil, fmt.Errorf("unknown metric domain %q, accepted: tourism, hotel, economic, mobility", domain)
	}
	return series, nil
}

// Coverage describes how much daily data a city has
type Coverage struct {
	City      string `json:"city"`
	FirstDate string `json:"first_date,omitempty"`
	LastDate  string `json:"last_date,omitempty"`
	Days      int    `json:"days"`
}

// MetricCoverage reports the span of stored daily metrics for a city
func (s *CatalogService) MetricCoverage(name string) (*Coverage, error) {
	city, err := s.GetCity(name)
	if err != nil {
		return nil, err
	}

	first, last, days, err := s.metrics.MetricDates(city.Name)
	if err != nil {
		return nil, err
	}
	return &Coverage{City: city.Name, FirstDate: first, LastDate: last, Days: days}, nil
}

// NearbyCity pairs a city with its distance from a reference point
type NearbyCity struct {
	City       models.City `json:"city"`
	DistanceKm float64     `json:"distance_km"`
}

// NearbyCities returns the closest catalog cities to the named one,
// sorted by great-circle distance.
func (s *CatalogService) NearbyCities(name string, limit int) ([]NearbyCity, error) {
	origin, err := s.GetCity(name)
	if err != nil {
		return nil, err
	}

	all, err := s.cities.GetCities(models.CityFilter{})
	if err != nil {
		return nil, err
	}

	var nearby []NearbyCity
	for _, c := range all {
		if c.Name == origin.Name {
			continue
		}
		km := spatial.DistanceKm(origin.Latitude, origin.Longitude, c.Latitude, c.Longitude)
		nearby = append(nearby, NearbyCity{City: c, DistanceKm: km})
	}

	sort.Slice(nearby, func(i, j int) bool { return nearby[i].DistanceKm < nearby[j].DistanceKm })
	if limit > 0 && len(nearby) > limit {
		nearby = nearby[:limit]
	}
	return nearby, nil
}
